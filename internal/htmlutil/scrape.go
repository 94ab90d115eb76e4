package htmlutil

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// Element is a matched HTML element.
type Element struct {
	node *html.Node
}

// Attr returns the value of the named attribute, or "".
func (e Element) Attr(name string) string {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// InnerHTML renders the element's children back to HTML.
func (e Element) InnerHTML() string {
	var buf bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			break
		}
	}
	return buf.String()
}

// FindByClass returns all elements with the given tag that carry class among
// their classes, in document order.
func FindByClass(doc []byte, tag, class string) ([]Element, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var found []Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			el := Element{node: n}
			if slices.Contains(strings.Fields(el.Attr("class")), class) {
				found = append(found, el)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found, nil
}
