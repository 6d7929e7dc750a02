package document

import (
	"math"
	"sync"
)

// Store holds the authoritative document for one editing session.
// Every write passes through a structural re-validation step and is
// committed atomically, so observers only ever see a point-in-time
// consistent document. Notification is synchronous: by the time Apply
// returns, every subscriber has seen the new document.
type Store struct {
	mu      sync.RWMutex
	doc     Document
	nextSub int
	subs    map[int]func(Document)
}

// NewStore creates a store seeded with the given document. The seed is
// cloned and passed through the same invariant pass as any other write.
func NewStore(initial Document) *Store {
	s := &Store{subs: make(map[int]func(Document))}
	doc := initial.Clone()
	revalidate(&doc)
	s.doc = doc
	return s
}

// Document returns the current committed document. Callers must not
// mutate the returned value; mutations go through Apply.
func (s *Store) Document() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Apply clones next, re-derives structural invariants, commits, and
// notifies every subscriber before returning. There is no batching and
// no async delay.
func (s *Store) Apply(next Document) {
	doc := next.Clone()
	revalidate(&doc)

	s.mu.Lock()
	s.doc = doc
	subs := make([]func(Document), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(doc)
	}
}

// Subscribe registers fn to be called synchronously after every commit.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Document)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// revalidate re-derives every cross-field structural invariant on every
// write, not just on the write that changed the triggering field, so
// invariants can never drift.
func revalidate(doc *Document) {
	for i := range doc.Elements {
		e := &doc.Elements[i]

		// Geometry invariant: extents are never negative and never below
		// the minimum size.
		b := e.Box().Normalize()
		if b.W < MinElementSizeMm {
			b.W = MinElementSizeMm
		}
		if b.H < MinElementSizeMm {
			b.H = MinElementSizeMm
		}
		e.SetBox(b)

		if e.Type == ElementTable && e.Table != nil {
			revalidateTable(e)
		}
	}
}

// revalidateTable keeps a table's column widths summing to the table
// width. Whenever the sum has drifted (width changed, column added or
// removed, or an invalid column width was written), widths are
// redistributed evenly across the current table width.
func revalidateTable(e *Element) {
	cols := e.Table.Columns
	if len(cols) == 0 {
		return
	}

	sum := 0.0
	valid := true
	for _, c := range cols {
		if c.WidthMm <= 0 || math.IsNaN(c.WidthMm) || math.IsInf(c.WidthMm, 0) {
			valid = false
		}
		sum += c.WidthMm
	}

	const eps = 1e-6
	if valid && math.Abs(sum-e.WidthMm) < eps {
		return
	}

	even := e.WidthMm / float64(len(cols))
	for i := range cols {
		cols[i].WidthMm = even
	}
}
