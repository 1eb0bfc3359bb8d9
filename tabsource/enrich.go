// CLAUDE:SUMMARY Page-text enrichment: sanitize DOM HTML, extract plain text, markdown excerpt.
package tabsource

import (
	"context"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var sanitizer = bluemonday.UGCPolicy()

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// PageText fetches a tab's DOM and reduces it to plain text, capped at
// maxRunes. The text supplements the title as embedding input for pages
// with uninformative titles.
func (s *Source) PageText(ctx context.Context, tabID int, maxRunes int) (string, error) {
	s.mu.Lock()
	target, ok := s.targets[tabID]
	browser := s.browser
	s.mu.Unlock()
	if browser == nil {
		return "", fmt.Errorf("tabsource: not connected")
	}
	if !ok {
		return "", fmt.Errorf("tabsource: unknown tab id %d", tabID)
	}

	pages, err := browser.Context(ctx).Pages()
	if err != nil {
		return "", fmt.Errorf("tabsource: list pages: %w", err)
	}
	for _, p := range pages {
		if p.TargetID != target {
			continue
		}
		res, err := p.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
		if err != nil {
			return "", fmt.Errorf("tabsource: get DOM: %w", err)
		}
		return Truncate(ExtractText(Sanitize(res.Value.Str())), maxRunes), nil
	}
	return "", fmt.Errorf("tabsource: tab %d closed", tabID)
}

// Sanitize strips scripts, event handlers, and everything else outside the
// UGC policy from raw page HTML.
func Sanitize(rawHTML string) string {
	return sanitizer.Sanitize(rawHTML)
}

// ExtractText reduces HTML to whitespace-normalized visible text.
func ExtractText(htmlSrc string) string {
	doc, err := html.Parse(strings.NewReader(htmlSrc))
	if err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript"):
			return
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(strings.Fields(b.String()), " ")
}

// MarkdownExcerpt converts page HTML to markdown, falling back to plain
// text when conversion fails, truncated to maxRunes.
func MarkdownExcerpt(htmlSrc, sourceURL string, maxRunes int) string {
	md, err := mdConverter.ConvertString(htmlSrc, converter.WithDomain(sourceURL))
	if err != nil || strings.TrimSpace(md) == "" {
		return Truncate(ExtractText(htmlSrc), maxRunes)
	}
	return Truncate(strings.TrimSpace(md), maxRunes)
}

// Truncate cuts s to at most maxRunes runes, breaking at a word boundary
// when one is near. maxRunes <= 0 means no limit.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	cut := string(runes[:maxRunes])
	if i := strings.LastIndexByte(cut, ' '); i > maxRunes/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ")
}
