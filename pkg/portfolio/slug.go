package portfolio

import (
	"strings"
	"unicode"
)

// Slugify derives an identifier from free text.
//
// The text is trimmed and lowercased, every character outside [a-z0-9],
// whitespace and '-' is removed, whitespace runs become a single hyphen and
// hyphen runs collapse to one. Letters outside ASCII are dropped rather than
// transliterated. Empty or fully stripped input returns "".
func Slugify(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	b.Grow(len(text))
	prevHyphen := false
	inSpace := false
	for _, r := range text {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if inSpace {
				writeHyphen(&b, &prevHyphen)
				inSpace = false
			}
			b.WriteRune(r)
			prevHyphen = false
		case r == '-':
			if inSpace {
				writeHyphen(&b, &prevHyphen)
				inSpace = false
			}
			writeHyphen(&b, &prevHyphen)
		case unicode.IsSpace(r):
			inSpace = true
		}
	}
	if inSpace {
		writeHyphen(&b, &prevHyphen)
	}
	return b.String()
}

func writeHyphen(b *strings.Builder, prev *bool) {
	if *prev {
		return
	}
	b.WriteByte('-')
	*prev = true
}
