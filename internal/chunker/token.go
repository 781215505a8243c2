package chunker

import "strings"

// EstimateTokens approximates the token count of text as ceil(words * 1.33).
// Exact tokenization is not required for chunking.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	// Integer ceiling; float math can overshoot by one on exact products.
	return (words*133 + 99) / 100
}
