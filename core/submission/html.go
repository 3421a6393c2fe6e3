package submission

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blockSelector = "p, div, h1, h2, h3, h4, h5, h6, li, tr, pre, blockquote"

// DescriptionText turns an assignment description into plain text: one line per
// block element, list items prefixed with "- ", links followed by their URL.
func DescriptionText(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return strings.TrimSpace(body)
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href != "" && strings.TrimSpace(s.Text()) != href {
			s.AppendHtml(" (" + html.EscapeString(href) + ")")
		}
	})
	doc.Find("li").PrependHtml("- ")
	doc.Find(blockSelector).AppendHtml("\n")

	var lines []string
	blank := false
	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if len(lines) > 0 {
				blank = true
			}
			continue
		}
		if blank {
			lines = append(lines, "")
			blank = false
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
