package scrape

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Item types.
const (
	TypeLink  = "a"
	TypeImage = "img"
)

// Item is one link or image found on a page.
type Item struct {
	// Label is the link text, or the alt (falling back to title) of an image.
	Label string `json:"label"`
	// Href is the absolute URL.
	Href string `json:"href"`
	// Type is TypeLink or TypeImage.
	Type string `json:"type"`
}

// Parser extracts items from HTML.
//
// Design decision: golang.org/x/net/html rather than regular expressions,
// because scraped pages are frequently malformed and the tokenizer recovers
// the same tree a browser would.
type Parser struct {
	baseURL *url.URL
}

// NewParser creates a Parser that resolves relative references against baseURL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse returns all links followed by all images, each in document order.
func (p *Parser) Parse(content io.Reader) ([]Item, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	links := make([]Item, 0)
	images := make([]Item, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a":
				if href, ok := lookupAttr(n, "href"); ok {
					links = append(links, Item{
						Label: NormalizeLabel(textContent(n)),
						Href:  p.resolveURL(href),
						Type:  TypeLink,
					})
				}
			case "img":
				if src, ok := lookupAttr(n, "src"); ok {
					label := getAttr(n, "alt")
					if strings.TrimSpace(label) == "" {
						label = getAttr(n, "title")
					}
					images = append(images, Item{
						Label: NormalizeLabel(label),
						Href:  p.resolveURL(src),
						Type:  TypeImage,
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return append(links, images...), nil
}

// resolveURL resolves href against the base URL. References that do not
// parse are returned trimmed but otherwise untouched; data: and javascript:
// references are absolute already and pass through ResolveReference as is.
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	return p.baseURL.ResolveReference(u).String()
}

// textContent concatenates the text nodes below n, including image alt text
// so that image-only links still get a label.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
		case n.Type == html.ElementNode && n.Data == "img":
			b.WriteString(getAttr(n, "alt"))
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}
