package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

type fixture struct {
	docs   string
	output string
	dsn    string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	f := fixture{
		docs:   filepath.Join(dir, "docs"),
		output: filepath.Join(dir, "data", "chunks.json"),
		dsn:    "sqlite:" + filepath.Join(dir, "data", "chunks.db"),
	}
	files := map[string]string{
		"intro.md":         "---\ntitle: Introduction\n---\nWelcome to the project documentation.",
		"guides/deploy.md": "Deploying is a matter of running the release script. " + strings.Repeat("More detail. ", 150),
	}
	for rel, content := range files {
		p := filepath.Join(f.docs, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func (f fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--docs-dir", f.docs, "--output", f.output, "--dsn", f.dsn}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestIngestAndQuery(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "ingest", "--store")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	for _, want := range []string{"Ingest complete", "Documents:", "Stored:", "Token estimates"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if _, err := os.Stat(f.output); err != nil {
		t.Fatalf("expected collection file: %v", err)
	}

	out, err = f.run(t, "count")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) == "0" {
		t.Errorf("expected stored records, got %q", out)
	}

	// guides/deploy.md sorts before intro.md.
	out, err = f.run(t, "lookup", "doc-002-0001")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Introduction") {
		t.Errorf("expected front matter title in lookup output:\n%s", out)
	}

	out, err = f.run(t, "source", filepath.ToSlash(filepath.Join(f.docs, "guides", "deploy.md")))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "doc-001-0001") {
		t.Errorf("expected deploy chunks in source output:\n%s", out)
	}
	if !strings.Contains(out, "...") {
		t.Errorf("expected long snippet to be truncated:\n%s", out)
	}
}

func TestStoreCommand(t *testing.T) {
	f := newFixture(t)

	if _, err := f.run(t, "ingest"); err != nil {
		t.Fatal(err)
	}
	out, err := f.run(t, "store")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Store complete") {
		t.Errorf("unexpected output:\n%s", out)
	}

	// Storing twice upserts instead of duplicating.
	first, _ := f.run(t, "count")
	if _, err := f.run(t, "store"); err != nil {
		t.Fatal(err)
	}
	second, _ := f.run(t, "count")
	if first != second {
		t.Errorf("expected stable count, got %q then %q", first, second)
	}
}

func TestStoreCommand_InvalidCollection(t *testing.T) {
	f := newFixture(t)
	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"chunks":[],"metadata":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := f.run(t, "store", bad); err == nil {
		t.Error("expected validation error")
	}
}

func TestLookupMissing(t *testing.T) {
	f := newFixture(t)
	if _, err := f.run(t, "lookup", "doc-999-0001"); err == nil {
		t.Error("expected error for missing chunk")
	}
}

func TestInvalidConfig(t *testing.T) {
	f := newFixture(t)
	if _, err := f.run(t, "ingest", "--min-tokens", "500", "--max-tokens", "100"); err == nil {
		t.Error("expected validation error for inverted bounds")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 200); got != "short" {
		t.Errorf("expected untouched string, got %q", got)
	}
	long := strings.Repeat("é", 250)
	got := truncate(long, 200)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) != 203 {
		t.Errorf("expected 200 runes plus ellipsis, got %d runes", len([]rune(got)))
	}
}
