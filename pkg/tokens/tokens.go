// Package tokens estimates token counts for prompt budgeting.
package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		// Ignore the error: loading the encoding needs a network fetch or a
		// local cache, neither of which is guaranteed on first run. Count
		// degrades to the 4-chars-per-token heuristic.
		tk, _ = tiktoken.GetEncoding("cl100k_base")
	})
	return tk
}

// Count returns the token count of text, using cl100k_base when the
// encoding is available and Estimate otherwise.
func Count(text string) int {
	if enc := getTokenizer(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return Estimate(len(text))
}

// Estimate converts a character length into a rough token count,
// rounding up at 4 characters per token.
func Estimate(chars int) int {
	if chars <= 0 {
		return 0
	}
	return (chars + 3) / 4
}
