// Package normalize strips the textual expression down to the dense
// character sequence the parser consumes.
package normalize

import "strings"

// Strip removes every space character (0x20) from text. No other
// whitespace class is recognised — a tab or newline passes through
// unchanged, matching the source's `remove_spaces` behaviour exactly.
func Strip(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		if r == ' ' {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
