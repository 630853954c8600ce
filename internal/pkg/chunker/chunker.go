package chunker

import "strings"

// Chunker splits extracted document text into bounded passages, preferring
// paragraph and sentence boundaries over hard cuts.
type Chunker struct {
	maxChars int
	minChars int
}

func New(maxChars, minChars int) *Chunker {
	if maxChars <= 0 {
		maxChars = 1200
	}
	if minChars <= 0 || minChars >= maxChars {
		minChars = maxChars / 3
		if minChars < 200 {
			minChars = 200
		}
	}
	return &Chunker{maxChars: maxChars, minChars: minChars}
}

// Split returns the passages of text in document order. Empty input yields
// no passages.
func (c *Chunker) Split(text string) []string {
	cleaned := strings.TrimSpace(normalizeNewlines(text))
	if cleaned == "" {
		return nil
	}

	runes := []rune(cleaned)
	total := len(runes)

	passages := make([]string, 0, total/c.maxChars+1)
	start := 0
	for start < total {
		end := start + c.maxChars
		if end >= total {
			end = total
		} else {
			preferred := findBoundary(runes, start+c.minChars, end)
			if preferred > start+c.minChars {
				end = preferred
			}
		}
		passage := strings.TrimSpace(string(runes[start:end]))
		if passage != "" {
			passages = append(passages, passage)
		}
		if end <= start {
			end = start + c.maxChars
			if end > total {
				end = total
			}
		}
		start = end
	}
	return passages
}

func normalizeNewlines(value string) string {
	replaced := strings.ReplaceAll(value, "\r\n", "\n")
	return strings.ReplaceAll(replaced, "\r", "\n")
}

// findBoundary walks backwards from max looking for a paragraph break first,
// then any sentence terminator, so passages end on natural seams.
func findBoundary(runes []rune, min, max int) int {
	if min < 0 {
		min = 0
	}
	if max > len(runes) {
		max = len(runes)
	}
	if max <= min {
		return min
	}

	for i := max - 1; i > min; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}

	sentenceEnds := map[rune]struct{}{'\n': {}, '.': {}, '!': {}, '?': {}, ';': {}}
	for i := max - 1; i >= min; i-- {
		if _, ok := sentenceEnds[runes[i]]; ok {
			return i + 1
		}
	}
	return max
}
