package commands

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/dgallion1/docchunk/internal/pipeline"
	"github.com/dgallion1/docchunk/internal/storage"
	"github.com/fatih/color"
)

const snippetLimit = 200

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	labelColor   = color.New(color.FgHiBlack).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warnColor    = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
)

func printField(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %s %v\n", labelColor(fmt.Sprintf("%-14s", label+":")), value)
}

func printIngestSummary(w io.Writer, res *pipeline.Result, stored bool) {
	m := res.Collection.Metadata
	fmt.Fprintln(w, headerColor("Ingest complete"))
	printField(w, "Documents", m.TotalDocuments)
	printField(w, "Chunks", successColor(m.TotalChunks))
	printField(w, "Output", res.Output)
	if stored {
		printField(w, "Stored", res.Stored)
	}

	s := res.Stats
	if s.Count == 0 {
		return
	}
	fmt.Fprintln(w, headerColor("Token estimates"))
	printField(w, "Min / Max", fmt.Sprintf("%d / %d", s.Min, s.Max))
	printField(w, "Mean", fmt.Sprintf("%.1f", s.Avg))
	printField(w, "P50 / P95", fmt.Sprintf("%.1f / %.1f", s.P50, s.P95))
	if s.OverMax > 0 {
		printField(w, "Over max", warnColor(s.OverMax))
	}
}

func printRecord(w io.Writer, rec *storage.Record) {
	fmt.Fprintln(w, headerColor(rec.ChunkID))
	printField(w, "Title", rec.Title)
	printField(w, "Source", rec.SourcePath)
	printField(w, "Slug", rec.Slug)
	printField(w, "Order", rec.OrderIndex)
	printField(w, "Snippet", truncate(rec.Snippet, snippetLimit))
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
