// Package extract turns a captured page snapshot into the structured
// conversation, profile, and post models the prompt builders consume. The page
// is hostile input: markup shifts between layout generations, names show up in
// half a dozen places, and the wrong guess about who said what produces a
// reply written from the wrong side. Everything here is heuristic layering,
// ordered from most to least reliable.
package extract

import (
	"log/slog"
	"time"

	"linkdraft/internal/dom"
	"linkdraft/internal/selector"
)

// Extractor answers extraction queries against one resolved page snapshot.
type Extractor struct {
	res    *selector.Resolver
	logger *slog.Logger
	now    func() time.Time
}

func New(res *selector.Resolver, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{res: res, logger: logger, now: time.Now}
}

// FromHTML parses a page (plus any detached shadow fragments) and returns an
// extractor over it.
func FromHTML(pageHTML string, table *selector.Table, logger *slog.Logger, detached ...string) (*Extractor, error) {
	doc, err := dom.Parse(pageHTML, detached...)
	if err != nil {
		return nil, err
	}
	return New(selector.NewResolver(doc, table), logger), nil
}

// closestConcept walks ancestors of node looking for the first concept match.
func (e *Extractor) closestConcept(node *dom.Node, concept selector.Concept) *dom.Node {
	for _, m := range e.res.Table().Matchers(concept) {
		if n := node.Closest(m); n != nil {
			return n
		}
	}
	return nil
}
