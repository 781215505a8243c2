// Package frontmatter splits a YAML metadata block off the top of a document.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrUnterminated is returned when an opening delimiter has no closing one.
var ErrUnterminated = errors.New("front matter: missing closing delimiter")

// Parse separates a leading "---" delimited YAML block from text.
//
// Text without a block yields nil metadata and the text unchanged. On a
// malformed block the returned body is still usable: it is everything after
// the closing delimiter, or the whole text when the block is unterminated.
func Parse(text string) (map[string]any, string, error) {
	text = strings.TrimPrefix(text, "\ufeff")

	first, rest, ok := cutLine(text)
	if !ok || strings.TrimRight(first, " \t\r") != delimiter {
		return nil, text, nil
	}

	var block strings.Builder
	for {
		line, next, ok := cutLine(rest)
		if strings.TrimRight(line, " \t\r") == delimiter {
			body := next
			meta := map[string]any{}
			if err := yaml.Unmarshal([]byte(block.String()), &meta); err != nil {
				return nil, body, fmt.Errorf("front matter: %w", err)
			}
			return meta, body, nil
		}
		if !ok {
			return nil, text, ErrUnterminated
		}
		block.WriteString(line)
		block.WriteByte('\n')
		rest = next
	}
}

// cutLine returns the first line of s (without its newline) and the
// remainder. ok is false when s holds no newline.
func cutLine(s string) (line, rest string, ok bool) {
	line, rest, ok = strings.Cut(s, "\n")
	return line, rest, ok
}
