package document

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Select picks the text of a filing body. An empty targetDocType returns
// body untouched. Otherwise the first <document> block whose <type> label
// equals targetDocType exactly (after trimming) wins and its visible text
// is returned; with no such block the whole page's visible text is used.
func Select(body, targetDocType string) string {
	if targetDocType == "" {
		return body
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return normalizeSpace(body)
	}

	var match *html.Node
	doc.Find("document").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		typeSel := sel.Find("type").First()
		if typeSel.Length() == 0 {
			return true
		}
		if typeLabel(typeSel.Nodes[0]) == targetDocType {
			match = sel.Nodes[0]
			return false
		}
		return true
	})

	if match != nil {
		return VisibleText(match)
	}
	return VisibleText(doc.Nodes[0])
}

// typeLabel returns the first text directly inside a <type> element.
// EDGAR leaves <TYPE> unclosed, so later siblings like <SEQUENCE> end up
// nested inside it and must not leak into the label.
func typeLabel(n *html.Node) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			if label := strings.TrimSpace(c.Data); label != "" {
				return label
			}
			continue
		}
		break
	}
	return ""
}

// VisibleText returns the text nodes under n joined by single spaces,
// skipping script and style content
func VisibleText(n *html.Node) string {
	var parts []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := normalizeSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.Join(parts, " ")
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
