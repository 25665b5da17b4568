package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLToText reduces an HTML document to plain text for terminal
// output. The reduction is structural: tags are dropped, block
// elements become line breaks, entities are decoded.
type HTMLToText struct {
	spaceRegex   *regexp.Regexp
	newlineRegex *regexp.Regexp
}

// NewHTMLToText creates a new reducer
func NewHTMLToText() *HTMLToText {
	return &HTMLToText{
		// All whitespace except newlines collapses to one space
		spaceRegex:   regexp.MustCompile(`[^\S\n]+`),
		newlineRegex: regexp.MustCompile(`\n{3,}`),
	}
}

// Reduce converts HTML to clean plain text
func (r *HTMLToText) Reduce(html string) (string, error) {
	if html == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	// Drop everything that never renders as text
	doc.Find("script, style, head, meta, link, title").Remove()

	// Break lines before block elements so doc.Text() keeps structure
	doc.Find("p, div, br, hr, h1, h2, h3, h4, h5, h6, li, tr, pre").Each(func(i int, s *goquery.Selection) {
		s.PrependHtml("\n")
	})

	text := doc.Text()
	text = r.spaceRegex.ReplaceAllString(text, " ")

	// Trim each line; keep blank lines only between paragraphs
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, strings.TrimSpace(line))
	}
	text = strings.Join(cleaned, "\n")
	text = r.newlineRegex.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text), nil
}
