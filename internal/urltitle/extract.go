package urltitle

import (
	"regexp"
	"unicode/utf8"
)

var urlPattern = regexp.MustCompile(`(?i)(?:http|https|ftp)://\S+`)

// Extractor finds URLs in free-form text.
type Extractor struct {
	exclusion rune
}

// NewExtractor returns an extractor that ignores URLs written directly after
// the first rune of exclusionChar.
func NewExtractor(exclusionChar string) *Extractor {
	r, _ := utf8.DecodeRuneInString(exclusionChar)
	return &Extractor{exclusion: r}
}

// Extract returns the URLs in text in order of appearance, duplicates included.
func (e *Extractor) Extract(text string) []string {
	var urls []string
	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		if loc[0] > 0 {
			prev, _ := utf8.DecodeLastRuneInString(text[:loc[0]])
			if prev == e.exclusion {
				continue
			}
		}
		urls = append(urls, text[loc[0]:loc[1]])
	}
	return urls
}
