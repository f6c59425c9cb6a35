// Package transcript assembles decoded Morse words into output text.
package transcript

import "strings"

// Options controls transcript assembly formatting behavior.
type Options struct {
	// Uppercase renders the transcript the way CW operators read it.
	Uppercase bool
	// TrailingNewline terminates a non-empty transcript with "\n".
	TrailingNewline bool
}

// Assemble joins decoded words and applies configured normalization.
func Assemble(words []string, opts Options) string {
	kept := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		kept = append(kept, word)
	}
	if len(kept) == 0 {
		return ""
	}

	joined := strings.Join(kept, " ")
	if opts.Uppercase {
		joined = strings.ToUpper(joined)
	}
	if opts.TrailingNewline {
		return joined + "\n"
	}
	return joined
}
