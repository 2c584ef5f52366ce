package fetch

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractText parses HTML and returns its visible text, whitespace-collapsed.
// Non-HTML content passes through unchanged by the caller; the html parser
// itself never fails on arbitrary input, so the only work here is filtering.
func ExtractText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}
	return extractVisibleText(doc), nil
}

// extractVisibleText walks the DOM collecting text nodes, skipping
// script/style/noscript/iframe subtrees
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.TrimSpace(buf.String())
}
