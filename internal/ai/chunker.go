package ai

import "strings"

// SplitText splits text into word-aligned chunks of at most maxSize
// characters. Words are accumulated until appending the next one would
// exceed maxSize, at which point the current chunk is emitted and the next
// chunk starts with that word. A single word longer than maxSize is
// emitted whole.
//
// overlap is accepted for configuration compatibility; chunks are
// currently emitted without any overlap between them.
func SplitText(text string, maxSize, overlap int) []string {
	_ = overlap
	if maxSize <= 0 {
		maxSize = 1000
	}
	var chunks []string
	current := ""
	for _, word := range strings.Fields(text) {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) > maxSize:
			chunks = append(chunks, current)
			current = word
		default:
			current += " " + word
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}
