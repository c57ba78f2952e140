// Package dom wraps a parsed HTML snapshot in a read-only tree handle with
// structural matching. The host page is never mutated through this package;
// extraction only reads text, attributes and document order.
package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Document is one parsed snapshot of the host page. Detached holds subtrees
// that live outside the top-level tree in the live page (shadow roots); they
// are searched only as a secondary pass, never mixed into scoped queries.
type Document struct {
	Root     *Node
	Detached []*Node

	order map[*html.Node]int
}

// Node is an opaque, read-only handle to one element of a Document.
type Node struct {
	el  *html.Node
	doc *Document
}

// Parse builds a Document from the page HTML plus any detached subtree
// fragments captured alongside it.
func Parse(pageHTML string, detached ...string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	doc := &Document{order: make(map[*html.Node]int)}
	pos := 0
	index(root, doc.order, &pos)
	doc.Root = &Node{el: root, doc: doc}

	for _, frag := range detached {
		sub, err := html.Parse(strings.NewReader(frag))
		if err != nil {
			continue
		}
		index(sub, doc.order, &pos)
		doc.Detached = append(doc.Detached, &Node{el: sub, doc: doc})
	}
	return doc, nil
}

// index assigns document-order positions depth-first. Detached trees continue
// the same counter so positions stay unique, but callers only compare
// positions of nodes inside one container.
func index(n *html.Node, order map[*html.Node]int, pos *int) {
	order[n] = *pos
	*pos++
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		index(c, order, pos)
	}
}

// Pos returns the node's position in document order.
func (n *Node) Pos() int { return n.doc.order[n.el] }

// Tag returns the lowercase element name, or "" for non-element nodes.
func (n *Node) Tag() string {
	if n.el.Type != html.ElementNode {
		return ""
	}
	return n.el.Data
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.el.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute or the fallback when absent.
func (n *Node) AttrOr(name, fallback string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return fallback
}

// Text returns the node's concatenated text content, trimmed.
func (n *Node) Text() string {
	var sb strings.Builder
	collectText(n.el, &sb)
	return strings.TrimSpace(sb.String())
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// Parent returns the parent element, or nil at the tree root.
func (n *Node) Parent() *Node {
	p := n.el.Parent
	for p != nil && p.Type != html.ElementNode {
		p = p.Parent
	}
	if p == nil {
		return nil
	}
	return &Node{el: p, doc: n.doc}
}

// Matches reports whether the node itself satisfies the matcher.
func (n *Node) Matches(m *Matcher) bool {
	return m.matches(n)
}

// Closest walks up from the node (inclusive) and returns the first ancestor
// satisfying the matcher, or nil.
func (n *Node) Closest(m *Matcher) *Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if m.matches(cur) {
			return cur
		}
	}
	return nil
}

// Find returns the first descendant (document order) matching m, or nil.
func (n *Node) Find(m *Matcher) *Node {
	var found *Node
	n.walk(func(c *Node) bool {
		if m.matches(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns all descendants matching m, in document order.
func (n *Node) FindAll(m *Matcher) []*Node {
	var out []*Node
	n.walk(func(c *Node) bool {
		if m.matches(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// walk visits element descendants depth-first; the visitor returns false to
// stop early.
func (n *Node) walk(visit func(*Node) bool) bool {
	for c := n.el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			child := &Node{el: c, doc: n.doc}
			if !visit(child) {
				return false
			}
			if !child.walk(visit) {
				return false
			}
		} else if c.Type != html.TextNode {
			// comments etc. may still contain element children in malformed
			// trees; descend through them
			if !(&Node{el: c, doc: n.doc}).walk(visit) {
				return false
			}
		}
	}
	return true
}
