package chunker

import (
	"strings"
	"unicode"
)

// DefaultMaxWords bounds one spoken piece.
const DefaultMaxWords = 60

var markup = strings.NewReplacer("```", " ", "**", "", "`", "", "#", "", "* ", "")

// Utterances splits an answer into pieces for speech playback. Markdown markers are
// dropped, sentences are kept whole where they fit, and consecutive short sentences are
// packed together up to maxWords words. A sentence longer than maxWords is cut into
// word windows.
func Utterances(text string, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	var (
		pieces []string
		cur    []string
	)
	flush := func() {
		if len(cur) > 0 {
			pieces = append(pieces, strings.Join(cur, " "))
			cur = cur[:0]
		}
	}

	for _, sentence := range sentences(markup.Replace(text)) {
		words := strings.Fields(sentence)
		if len(cur)+len(words) > maxWords {
			flush()
		}
		for len(words) > maxWords {
			pieces = append(pieces, strings.Join(words[:maxWords], " "))
			words = words[maxWords:]
		}
		cur = append(cur, words...)
	}
	flush()
	return pieces
}

// sentences splits after . ! ? and at line breaks.
func sentences(text string) []string {
	var out []string
	start := 0
	runes := []rune(text)
	for i, r := range runes {
		end := r == '\n' || ((r == '.' || r == '!' || r == '?') && (i+1 == len(runes) || unicode.IsSpace(runes[i+1])))
		if !end {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}
