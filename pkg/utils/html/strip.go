// ABOUTME: HTML utilities for stripping tags and truncating plain text
// ABOUTME: Tokenizes with golang.org/x/net/html so entities and scripts are handled correctly

package html

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// StripHTML returns the visible text of an HTML fragment. Script and style
// content is dropped, entities are decoded and whitespace is collapsed.
func StripHTML(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way the text so far is the result
			return collapseSpace(b.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if isHidden(name) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			name, _ := z.TagName()
			if isHidden(name) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// Truncate shortens s to at most n runes, cutting at the last word boundary
// and appending an ellipsis when anything was removed
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}

	runes := []rune(s)
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "…"
}

func isHidden(tag []byte) bool {
	switch string(tag) {
	case "script", "style", "template":
		return true
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
