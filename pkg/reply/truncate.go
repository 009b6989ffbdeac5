package reply

import (
	"regexp"
	"strings"
)

// truncateThreshold is the reply length above which the sentence backstop
// kicks in, independent of whatever brevity the provider honored.
const truncateThreshold = 200

// maxSentences is the number of sentence chunks kept by the backstop.
const maxSentences = 3

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)

// Truncate applies the hard brevity backstop: replies longer than the
// threshold are split into sentence-like chunks and only the first three
// are kept, joined by single spaces. Text the pattern cannot chunk is
// returned unchanged; the result is never longer than the input.
func Truncate(text string) string {
	if len(text) <= truncateThreshold {
		return text
	}

	chunks := sentenceRe.FindAllString(text, -1)
	if len(chunks) <= maxSentences {
		return text
	}

	kept := make([]string, maxSentences)
	for i := range kept {
		kept[i] = strings.TrimSpace(chunks[i])
	}
	return strings.Join(kept, " ")
}
