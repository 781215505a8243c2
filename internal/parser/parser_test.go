package parser

import (
	"fmt"
	"strings"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.md", "*parser.MarkdownParser"},
		{"a.MARKDOWN", "*parser.MarkdownParser"},
		{"a.txt", "*parser.TextParser"},
		{"a.csv", "*parser.CSVParser"},
		{"a.htm", "*parser.HTMLParser"},
		{"a.html", "*parser.HTMLParser"},
		{"a.pdf", "*parser.PDFParser"},
		{"a.docx", "*parser.DOCXParser"},
	}
	for _, tt := range tests {
		e, err := ForFile(tt.filename)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.filename, err)
		}
		if got := fmt.Sprintf("%T", e); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.filename, tt.want, got)
		}
		if !IsSupportedExtension(tt.filename) {
			t.Errorf("%s: expected supported", tt.filename)
		}
	}

	if _, err := ForFile("image.png"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if IsSupportedExtension("image.png") {
		t.Error("expected .png unsupported")
	}
}

func TestHTMLParser(t *testing.T) {
	input := `<html><head><title>T</title><style>p{}</style></head><body>
<header>Site header</header>
<nav><p>Menu</p></nav>
<h1>Heading</h1>
<p>First <b>bold</b> paragraph.</p>
<ul><li>Item one</li><li>Item two</li></ul>
<script>var x = 1;</script>
<footer><p>Footer</p></footer>
</body></html>`

	got := extract(t, &HTMLParser{}, input)

	want := "First bold paragraph.\n\nItem one\n\nItem two"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCSVParser(t *testing.T) {
	var b strings.Builder
	b.WriteString("name,age\n")
	for i := 0; i < 21; i++ {
		fmt.Fprintf(&b, "p%d,%d\n", i, i)
	}

	got := extract(t, &CSVParser{}, b.String())

	paras := strings.Split(got, "\n\n")
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}
	if first := strings.Split(paras[0], "\n"); len(first) != 20 || first[0] != "name: p0, age: 0" {
		t.Errorf("unexpected first paragraph: %q", paras[0])
	}
	if paras[1] != "name: p20, age: 20" {
		t.Errorf("unexpected second paragraph: %q", paras[1])
	}
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	if got := extract(t, &CSVParser{}, "a,b\n"); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
