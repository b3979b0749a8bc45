// Package tokenizer splits record text into the token multiset that
// feeds MinHash signature construction.
package tokenizer

import "strings"

// Tokenize splits text on ASCII whitespace runs and returns the
// non-empty substrings in textual order. Order does not matter to
// callers: MinHash treats the result as a set.
func Tokenize(text string) []string {
	return strings.Fields(text)
}
