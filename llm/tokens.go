package llm

import "unicode/utf8"

// estimateTokens provides a fast token count estimate without a tokenizer.
//
// Heuristic: utf8 rune count / 3. English averages ~4 chars/token, so this
// over-estimates slightly and keeps prompts under budget.
func estimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	est := n / 3
	if est < 1 {
		return 1
	}
	return est
}
