package selector

import "linkdraft/internal/dom"

// Resolver answers "where is concept X" questions against one parsed page.
// Matchers are tried in table order; the first that yields nodes wins. When a
// document-wide lookup comes up empty, the detached sub-documents (captured
// shadow roots) are searched in a second pass with the same list.
type Resolver struct {
	doc   *dom.Document
	table *Table
}

func NewResolver(doc *dom.Document, table *Table) *Resolver {
	if table == nil {
		table = DefaultTable()
	}
	return &Resolver{doc: doc, table: table}
}

// Resolve returns the first node matching the concept, or nil. A non-nil
// scope restricts the search to that subtree and skips the detached pass.
func (r *Resolver) Resolve(concept Concept, scope *dom.Node) *dom.Node {
	if scope != nil {
		for _, m := range r.table.Matchers(concept) {
			if n := scope.Find(m); n != nil {
				return n
			}
		}
		return nil
	}
	for _, m := range r.table.Matchers(concept) {
		if n := r.doc.Root.Find(m); n != nil {
			return n
		}
	}
	for _, m := range r.table.Matchers(concept) {
		for _, d := range r.doc.Detached {
			if n := d.Find(m); n != nil {
				return n
			}
		}
	}
	return nil
}

// ResolveAll returns every node matched by the first matcher that yields any,
// preserving document order. Later matchers are not merged in: mixing layout
// generations produces duplicate hits for the same logical element.
func (r *Resolver) ResolveAll(concept Concept, scope *dom.Node) []*dom.Node {
	if scope != nil {
		for _, m := range r.table.Matchers(concept) {
			if ns := scope.FindAll(m); len(ns) > 0 {
				return ns
			}
		}
		return nil
	}
	for _, m := range r.table.Matchers(concept) {
		if ns := r.doc.Root.FindAll(m); len(ns) > 0 {
			return ns
		}
	}
	for _, m := range r.table.Matchers(concept) {
		var all []*dom.Node
		for _, d := range r.doc.Detached {
			all = append(all, d.FindAll(m)...)
		}
		if len(all) > 0 {
			return all
		}
	}
	return nil
}

// Doc exposes the underlying document for callers that need raw traversal.
func (r *Resolver) Doc() *dom.Document { return r.doc }

// Table exposes the active matcher table.
func (r *Resolver) Table() *Table { return r.table }
