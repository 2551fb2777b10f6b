// ABOUTME: Markdown rendering for server descriptions and the posting rules
// ABOUTME: Produces HTML with goldmark, extracts images with goquery and builds plain-text excerpts

package render

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	htmlutil "serverlist-api/pkg/utils/html"
)

// md renders GitHub flavoured markdown. Raw HTML in the source is omitted.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Markdown converts markdown to HTML
func Markdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Images returns the src of every <img> in an HTML fragment, in order
func Images(fragment string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil
	}

	var srcs []string
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			srcs = append(srcs, src)
		}
	})
	return srcs
}

// Excerpt returns the first n characters of the description as plain text
func Excerpt(content string, n int) string {
	rendered, err := Markdown(content)
	if err != nil {
		return htmlutil.Truncate(strings.Join(strings.Fields(content), " "), n)
	}
	return htmlutil.Truncate(htmlutil.StripHTML(rendered), n)
}
