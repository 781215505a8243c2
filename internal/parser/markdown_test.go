package parser

import (
	"strings"
	"testing"
)

func extract(t *testing.T, e Extractor, input string) string {
	t.Helper()
	out, err := e.Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out
}

func TestMarkdownParser_DropsStructure(t *testing.T) {
	input := `# Title

Intro text.

## Section A

- list item one
- list item two

> quoted text

Section A content.

---

<div>raw html block</div>

Final words.
`
	got := extract(t, &MarkdownParser{}, input)

	want := "Intro text.\n\nSection A content.\n\nFinal words."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMarkdownParser_CodeBlocksRemoved(t *testing.T) {
	input := "Some intro.\n\n```go\nfunc main() {}\n```\n\n    indented code\n\nMore text after code.\n"

	got := extract(t, &MarkdownParser{}, input)

	if strings.Contains(got, "func main") || strings.Contains(got, "indented code") {
		t.Errorf("expected code blocks removed, got %q", got)
	}
	if got != "Some intro.\n\nMore text after code." {
		t.Errorf("unexpected output %q", got)
	}
}

func TestMarkdownParser_InlineMarkupKeepsText(t *testing.T) {
	input := "This is *emphasis*, **strong**, `code`, a [link](http://x.test) and ![alt text](img.png) <span>x</span>done."

	got := extract(t, &MarkdownParser{}, input)

	want := "This is emphasis, strong, code, a link and alt text xdone."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMarkdownParser_SoftBreaksKept(t *testing.T) {
	got := extract(t, &MarkdownParser{}, "Line one\nline two.\n\nNext paragraph.")

	if got != "Line one\nline two.\n\nNext paragraph." {
		t.Errorf("unexpected output %q", got)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	if got := extract(t, &MarkdownParser{}, ""); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
	if got := extract(t, &MarkdownParser{}, "# Only a heading\n"); got != "" {
		t.Errorf("expected empty output for heading-only input, got %q", got)
	}
}
