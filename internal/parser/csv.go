package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvRowsPerParagraph groups data rows so each group stays chunkable.
const csvRowsPerParagraph = 20

// CSVParser renders CSV rows as "header: value" lines, one paragraph per
// group of rows.
type CSVParser struct{}

func (p *CSVParser) Extract(r io.Reader) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return "", nil
	}

	headers := records[0]
	dataRows := records[1:]

	var paras []string
	for i := 0; i < len(dataRows); i += csvRowsPerParagraph {
		end := min(i+csvRowsPerParagraph, len(dataRows))

		var text strings.Builder
		for _, row := range dataRows[i:end] {
			if text.Len() > 0 {
				text.WriteString("\n")
			}
			for j, cell := range row {
				if j > 0 {
					text.WriteString(", ")
				}
				if j < len(headers) {
					text.WriteString(headers[j] + ": ")
				}
				text.WriteString(cell)
			}
		}
		paras = append(paras, text.String())
	}

	return joinParagraphs(paras), nil
}
