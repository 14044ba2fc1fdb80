// Package chunk splits extracted document text into retrievable units.
package chunk

import "strings"

// Default window parameters, in bytes of the input text.
const (
	DefaultSize    = 1000
	DefaultOverlap = 150
)

// Split cuts text into overlapping fixed-size windows.
//
// The input is trimmed of leading and trailing whitespace first; an
// empty result after trimming yields no chunks, which is the normal
// "no extractable text" outcome, not an error. Each window spans
// [start, min(start+size, len)); a window that is blank after trimming
// is skipped. The next window starts at max(start+1, end-overlap), so
// progress is strictly forward even when overlap >= size.
//
// Split is pure: identical input always produces an identical sequence.
func Split(text string, size, overlap int) []string {
	if size < 1 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}

	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return nil
	}

	var chunks []string
	start := 0
	n := len(cleaned)

	for start < n {
		end := start + size
		if end > n {
			end = n
		}
		window := cleaned[start:end]
		if strings.TrimSpace(window) != "" {
			chunks = append(chunks, window)
		}
		if end == n {
			break
		}
		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// SplitDefault cuts text using the default window parameters.
func SplitDefault(text string) []string {
	return Split(text, DefaultSize, DefaultOverlap)
}
