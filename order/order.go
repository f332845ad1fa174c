// Package order implements the order validation and remediation engine: the
// candidate/confirmed order model, the validator, the suggestion resolver,
// the remediation session state machine, and the finalizer.
package order

import (
	"slices"
	"time"

	"roomservice/catalog"
)

// LineItem is one requested line of a candidate order. The name is the
// guest's wording as extracted upstream, not yet resolved against the menu.
type LineItem struct {
	Name          string   `json:"name"`
	Quantity      int      `json:"quantity"`
	Modifications []string `json:"modifications,omitempty"`
}

// WithoutModification returns a copy of the line item with exactly the given
// modification removed (case-insensitive match). Other modifications keep
// their order.
func (li LineItem) WithoutModification(mod string) LineItem {
	out := li
	out.Modifications = make([]string, 0, len(li.Modifications))
	want := catalog.Normalize(mod)
	removed := false
	for _, m := range li.Modifications {
		if !removed && catalog.Normalize(m) == want {
			removed = true
			continue
		}
		out.Modifications = append(out.Modifications, m)
	}
	if len(out.Modifications) == 0 {
		out.Modifications = nil
	}
	return out
}

// Candidate is an unvalidated order as handed over by the upstream extractor.
// Candidates are never mutated in place: every remediation step produces a
// replacement with a bumped revision, which keeps the loop auditable.
type Candidate struct {
	Room     string     `json:"room"`
	Items    []LineItem `json:"items"`
	Revision int        `json:"revision"`
}

// NewCandidate builds a revision-zero candidate.
func NewCandidate(room string, items []LineItem) Candidate {
	return Candidate{Room: room, Items: slices.Clone(items)}
}

// withItem returns a new candidate with the item at index i replaced.
func (c Candidate) withItem(i int, li LineItem) Candidate {
	out := c
	out.Items = slices.Clone(c.Items)
	out.Items[i] = li
	out.Revision = c.Revision + 1
	return out
}

// withoutItem returns a new candidate with the item at index i dropped.
func (c Candidate) withoutItem(i int) Candidate {
	out := c
	out.Items = append(slices.Clone(c.Items[:i]), c.Items[i+1:]...)
	out.Revision = c.Revision + 1
	return out
}

// withRoom returns a new candidate with a replacement room number.
func (c Candidate) withRoom(room string) Candidate {
	out := c
	out.Room = room
	out.Revision = c.Revision + 1
	return out
}

// ConfirmedItem is a catalog-backed line of a confirmed order with its unit
// price snapshotted at confirmation time.
type ConfirmedItem struct {
	Name            string   `json:"name"`
	Quantity        int      `json:"quantity"`
	Modifications   []string `json:"modifications,omitempty"`
	UnitPrice       float64  `json:"unit_price"`
	PrepTimeMinutes int      `json:"prep_time_minutes"`
}

// Confirmed is a fully validated, placed order. It is immutable once the
// finalizer returns it and is the only value that crosses to the placement
// collaborator.
type Confirmed struct {
	OrderID         string          `json:"order_id"`
	Room            string          `json:"room"`
	Items           []ConfirmedItem `json:"items"`
	Total           float64         `json:"total"`
	PrepTimeMinutes int             `json:"prep_time_minutes"`
	PlacedAt        time.Time       `json:"placed_at"`
}
