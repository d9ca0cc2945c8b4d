package drill

import (
	"time"

	"github.com/abhisek/lingo/internal/grading"
	"github.com/abhisek/lingo/internal/session"
)

// Drill tracks progress through a deck.
type Drill struct {
	Title string

	items   []Item
	pos     int
	results []grading.ItemResult

	started time.Time
	shownAt time.Time
	now     func() time.Time
}

// New starts a drill over the deck's first limit items. A limit of zero
// or less uses every item. A nil clock uses time.Now.
func New(deck *Deck, limit int, now func() time.Time) *Drill {
	if now == nil {
		now = time.Now
	}
	items := deck.Items
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	t := now()
	return &Drill{
		Title:   deck.Title,
		items:   items,
		started: t,
		shownAt: t,
		now:     now,
	}
}

// Current returns the item awaiting an answer.
func (d *Drill) Current() (Item, bool) {
	if d.Done() {
		return Item{}, false
	}
	return d.items[d.pos], true
}

// Submit grades answer against the current item and records the result.
// The drill stays on the item until Next is called.
func (d *Drill) Submit(answer string) grading.ItemResult {
	it := d.items[d.pos]
	res := grading.ItemResult{
		ItemID:     it.ID,
		UserAnswer: answer,
		LatencyMs:  int(d.now().Sub(d.shownAt).Milliseconds()),
		ConceptKey: it.Snapshot.ConceptKey,
		Result:     grading.Grade(answer, it.Snapshot.Canonical, it.Snapshot.Variants, it.Snapshot.NearMisses),
	}
	d.results = append(d.results, res)
	return res
}

// Next moves to the following item and reports whether one remains.
func (d *Drill) Next() bool {
	if d.pos < len(d.items) {
		d.pos++
	}
	d.shownAt = d.now()
	return !d.Done()
}

// Done reports whether every item has been answered.
func (d *Drill) Done() bool { return d.pos >= len(d.items) }

// Progress returns the number of answered items and the total.
func (d *Drill) Progress() (answered, total int) {
	return len(d.results), len(d.items)
}

// Results returns the graded answers in order.
func (d *Drill) Results() []grading.ItemResult { return d.results }

// Submissions returns the answers for grading as a stored session.
func (d *Drill) Submissions() []grading.Submission {
	out := make([]grading.Submission, len(d.results))
	for i, r := range d.results {
		out[i] = grading.Submission{ItemID: r.ItemID, UserAnswer: r.UserAnswer, LatencyMs: r.LatencyMs}
	}
	return out
}

// Summary totals the answers so far.
func (d *Drill) Summary() *session.Summary {
	return session.BuildSummary(d.results, d.now().Sub(d.started))
}
