package order

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"roomservice/catalog"
)

// The hotel has floors 1-3 with rooms 00-20 on each, so valid room numbers
// run 100-399 with the last two digits at most 20.
const (
	minRoom        = 100
	maxRoom        = 399
	maxRoomOnFloor = 20
)

// Validator checks candidate orders against the menu. It is a pure function
// of the catalog and its input: no side effects, identical input always
// yields an identical result.
type Validator struct {
	catalog *catalog.Catalog
}

// NewValidator builds a validator over the given catalog.
func NewValidator(c *catalog.Catalog) *Validator {
	return &Validator{catalog: c}
}

// Validate checks the room once and then each line item in order. Per item
// the checks short-circuit at the first failure so the guest sees one primary
// violation per item rather than a cascade.
func (v *Validator) Validate(c Candidate) Result {
	res := Result{}

	if rv := v.validateRoom(c.Room); rv != nil {
		res.Room = rv
	}

	for i, item := range c.Items {
		if iv := v.validateItem(item); iv != nil {
			if res.Items == nil {
				res.Items = make(map[int]Violation)
			}
			res.Items[i] = *iv
		}
	}

	return res
}

func (v *Validator) validateRoom(room string) *Violation {
	trimmed := strings.TrimSpace(room)
	n, err := strconv.Atoi(trimmed)
	if err != nil || trimmed == "" {
		return &Violation{
			Kind:      InvalidRoom,
			Offending: []string{room},
			Detail:    fmt.Sprintf("%q is not a room number", room),
		}
	}
	if n < minRoom || n > maxRoom || n%100 > maxRoomOnFloor {
		return &Violation{
			Kind:      InvalidRoom,
			Offending: []string{room},
			Detail:    fmt.Sprintf("room %d does not exist in this hotel", n),
		}
	}
	return nil
}

func (v *Validator) validateItem(item LineItem) *Violation {
	if item.Quantity < 1 {
		return &Violation{
			Kind:      InvalidQuantity,
			Offending: []string{strconv.Itoa(item.Quantity)},
			Detail:    fmt.Sprintf("quantity for %q must be at least 1", item.Name),
		}
	}

	mi, ok := v.catalog.Lookup(item.Name)
	if !ok {
		return &Violation{
			Kind:      UnknownItem,
			Offending: []string{item.Name},
			Detail:    fmt.Sprintf("%q is not on the menu", item.Name),
		}
	}

	if item.Quantity > mi.AvailableQuantity {
		return &Violation{
			Kind:      InvalidQuantity,
			Offending: []string{strconv.Itoa(item.Quantity)},
			Detail:    fmt.Sprintf("only %d of %q available", mi.AvailableQuantity, mi.Name),
		}
	}

	if len(item.Modifications) == 0 {
		return nil
	}

	if !mi.ModificationsAllowed {
		// Report every requested modification, not just the first.
		return &Violation{
			Kind:      UnsupportedModification,
			Offending: slices.Clone(item.Modifications),
			Detail:    fmt.Sprintf("%q does not allow modifications", mi.Name),
		}
	}

	var offending []string
	for _, m := range item.Modifications {
		if !mi.AllowsModification(m) {
			offending = append(offending, m)
		}
	}
	if len(offending) > 0 {
		return &Violation{
			Kind:      UnsupportedModification,
			Offending: offending,
			Detail:    fmt.Sprintf("%q cannot be prepared with: %s", mi.Name, strings.Join(offending, ", ")),
		}
	}

	return nil
}
