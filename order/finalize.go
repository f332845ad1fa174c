package order

import (
	"context"
	"fmt"
	"time"

	"roomservice/catalog"
)

// Placer is the external placement collaborator. It either assigns an order
// ID or fails; protocol details stay on its side of the boundary.
type Placer interface {
	Place(ctx context.Context, o Confirmed) (orderID string, err error)
}

// Finalizer turns a fully valid candidate into an immutable confirmed order
// and hands it to the placement collaborator.
type Finalizer struct {
	validator *Validator
	catalog   *catalog.Catalog
	placer    Placer
}

// NewFinalizer builds a finalizer over the given catalog and placer.
func NewFinalizer(c *catalog.Catalog, placer Placer) *Finalizer {
	return &Finalizer{
		validator: NewValidator(c),
		catalog:   c,
		placer:    placer,
	}
}

// Finalize re-validates the candidate, snapshots unit prices from the
// catalog, computes the total and the preparation estimate, and places the
// order. Calling it on a candidate that does not validate cleanly fails with
// ErrNotValidated and constructs nothing. A placement failure is surfaced as
// ErrPlacementFailed wrapping the collaborator's error, with no retry here.
func (f *Finalizer) Finalize(ctx context.Context, c Candidate) (Confirmed, error) {
	// An order needs at least one line item; the validator has no position to
	// pin an empty order's violation on, so the guard lives here.
	if len(c.Items) == 0 {
		return Confirmed{}, fmt.Errorf("%w: order has no items", ErrNotValidated)
	}

	if res := f.validator.Validate(c); !res.Valid() {
		n := len(res.Items)
		if res.Room != nil {
			n++
		}
		return Confirmed{}, fmt.Errorf("%w: %d violation(s)", ErrNotValidated, n)
	}

	confirmed := Confirmed{
		Room:  c.Room,
		Items: make([]ConfirmedItem, 0, len(c.Items)),
	}
	for _, item := range c.Items {
		mi, ok := f.catalog.Lookup(item.Name)
		if !ok {
			// Validate just resolved every item; a miss here is a bug.
			return Confirmed{}, fmt.Errorf("%w: %q vanished from the catalog", ErrNotValidated, item.Name)
		}
		confirmed.Items = append(confirmed.Items, ConfirmedItem{
			Name:            mi.Name,
			Quantity:        item.Quantity,
			Modifications:   item.Modifications,
			UnitPrice:       mi.Price,
			PrepTimeMinutes: mi.PrepTimeMinutes,
		})
		confirmed.Total += mi.Price * float64(item.Quantity)
		if mi.PrepTimeMinutes > confirmed.PrepTimeMinutes {
			confirmed.PrepTimeMinutes = mi.PrepTimeMinutes
		}
	}

	orderID, err := f.placer.Place(ctx, confirmed)
	if err != nil {
		return Confirmed{}, fmt.Errorf("%w: %w", ErrPlacementFailed, err)
	}
	confirmed.OrderID = orderID
	confirmed.PlacedAt = time.Now()

	return confirmed, nil
}
