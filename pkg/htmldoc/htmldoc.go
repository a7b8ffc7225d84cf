// Package htmldoc wraps golang.org/x/net/html behind the small query
// surface the checker needs: by-tag and by-attribute lookup, full
// traversal, attribute access, outer-HTML serialization, and class
// tokenization. The parser normalizes source text, so callers needing
// verbatim excerpts must scan the raw document themselves.
package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed HTML tree.
type Document struct {
	root *html.Node
}

// Parse parses HTML text. Whitespace-only input yields a nil Document
// and no error: the caller treats that as the no-content case.
func Parse(text string) (*Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	root, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// walk visits every node in document order.
func (d *Document) walk(fn func(*html.Node)) {
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		fn(n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(d.root)
}

// AllElements returns every element node in document order.
func (d *Document) AllElements() []*html.Node {
	var out []*html.Node
	d.walk(func(n *html.Node) {
		if n.Type == html.ElementNode {
			out = append(out, n)
		}
	})
	return out
}

// ElementsByTag returns all elements with the given tag name, in
// document order. Tag names are lower-case in the parsed tree.
func (d *Document) ElementsByTag(name string) []*html.Node {
	var out []*html.Node
	d.walk(func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == name {
			out = append(out, n)
		}
	})
	return out
}

// First returns the first element with the given tag name, or nil.
func (d *Document) First(name string) *html.Node {
	for _, n := range d.ElementsByTag(name) {
		return n
	}
	return nil
}

// Attr returns the value of the named attribute on n. Attribute name
// matching is case-insensitive; namespaced names like "xml:lang" are
// matched against the parser's namespace+local split as well as the
// raw key.
func Attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		if strings.EqualFold(key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// Render serializes n back to HTML (outer HTML). The output is the
// parser's normalized form, not the verbatim source text.
func Render(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}

// RenderOpenTag serializes just the opening tag of n, attributes included.
func RenderOpenTag(n *html.Node) string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(n.Data)
	for _, a := range n.Attr {
		sb.WriteByte(' ')
		if a.Namespace != "" {
			sb.WriteString(a.Namespace)
			sb.WriteByte(':')
		}
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(a.Val)
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
	return sb.String()
}

// ClassTokens splits the element's class attribute on whitespace.
func ClassTokens(n *html.Node) []string {
	val, ok := Attr(n, "class")
	if !ok {
		return nil
	}
	return strings.Fields(val)
}
