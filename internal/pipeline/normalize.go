package pipeline

import (
	"regexp"
	"strings"
)

var (
	excessLineBreaks = regexp.MustCompile(`\n{3,}`)
	horizontalSpace  = regexp.MustCompile(`[ \t]+`)
)

// Normalize converts CRLF to LF, collapses three or more line breaks to two,
// collapses runs of spaces and tabs to one space, and trims the result.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = excessLineBreaks.ReplaceAllString(text, "\n\n")
	text = horizontalSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
