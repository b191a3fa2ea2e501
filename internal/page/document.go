// Package page turns a server-rendered HTML page into a chart surface registry
// and runs the chart initialization against it.
package page

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/wesleyorama2/picarx-dash/internal/chart"
)

// Element is an HTML element with an id. Its payload fields are its data-* attributes.
type Element struct {
	node *html.Node
	id   string
}

// Name implements chart.Surface.
func (e *Element) Name() string {
	return e.id
}

// Field implements chart.Surface. Keys follow the DOM dataset naming,
// so "sensorId" reads the data-sensor-id attribute.
func (e *Element) Field(key string) (string, bool) {
	name := datasetAttr(key)
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
	body *html.Node
	byID map[string]*Element
}

// Parse parses an HTML page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	doc := &Document{
		root: root,
		byID: make(map[string]*Element),
	}
	doc.index(root)

	return doc, nil
}

// index records the first element carrying each id, like getElementById.
func (d *Document) index(n *html.Node) {
	if n.Type == html.ElementNode {
		if n.DataAtom == atom.Body && d.body == nil {
			d.body = n
		}
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "id" && a.Val != "" {
				if _, seen := d.byID[a.Val]; !seen {
					d.byID[a.Val] = &Element{node: n, id: a.Val}
				}
				break
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.index(c)
	}
}

// Lookup implements chart.Registry.
func (d *Document) Lookup(name string) (chart.Surface, bool) {
	e, ok := d.byID[name]
	if !ok {
		return nil, false
	}
	return e, true
}

// AppendScript adds an inline script element at the end of the body.
func (d *Document) AppendScript(src string) {
	parent := d.body
	if parent == nil {
		parent = d.root
	}

	script := &html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
	}
	script.AppendChild(&html.Node{Type: html.TextNode, Data: src})
	parent.AppendChild(script)
}

// Render writes the page.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// datasetAttr converts a dataset key to its attribute name.
func datasetAttr(key string) string {
	var sb strings.Builder
	sb.WriteString("data-")
	for _, r := range key {
		if unicode.IsUpper(r) {
			sb.WriteByte('-')
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
