package knowledge

import (
	"strings"
	"unicode"
)

// EstimateTokens gives a rough token count for prompt budgeting. It is a
// character heuristic, not a real tokenizer, and tends to overestimate
// slightly for English prose; use it only to keep prompts under a model
// window with margin.
func EstimateTokens(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	count := 0
	for _, word := range strings.Fields(text) {
		count += estimateWordTokens(word)
	}
	return count
}

func estimateWordTokens(word string) int {
	if len(word) == 1 && unicode.IsPunct(rune(word[0])) {
		return 1
	}

	// Numeric strings often tokenize digit by digit
	if isNumber(word) {
		return len(word)
	}

	length := len(word)
	if length <= 4 {
		return 1
	}
	// Longer words split into subword pieces of roughly four characters
	return (length + 3) / 4
}

func isNumber(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			return false
		}
	}
	return true
}
