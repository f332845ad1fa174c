package order

import "slices"

// ViolationKind classifies why a line item or order failed validation.
type ViolationKind string

const (
	UnknownItem             ViolationKind = "unknown_item"
	UnsupportedModification ViolationKind = "unsupported_modification"
	InvalidQuantity         ViolationKind = "invalid_quantity"
	InvalidRoom             ViolationKind = "invalid_room"
)

// Violation is a single validation failure with the offending value(s) and a
// guest-readable detail.
type Violation struct {
	Kind      ViolationKind `json:"kind"`
	Offending []string      `json:"offending,omitempty"`
	Detail    string        `json:"detail"`
}

func (v Violation) equal(o Violation) bool {
	return v.Kind == o.Kind && v.Detail == o.Detail && slices.Equal(v.Offending, o.Offending)
}

// Result maps each violating line item position to its primary violation.
// The room is checked once per order, not per item, so it gets its own slot.
// An order is valid iff the result is empty.
type Result struct {
	Room  *Violation        `json:"room,omitempty"`
	Items map[int]Violation `json:"items,omitempty"`
}

// Valid reports whether the result carries no violations at all.
func (r Result) Valid() bool {
	return r.Room == nil && len(r.Items) == 0
}

// Equal reports whether two results describe the same violation set. The
// remediation session's caller uses this to detect a stalled loop: if
// applying a choice yields a result equal to the one the options were offered
// against, no progress was made.
func (r Result) Equal(o Result) bool {
	if (r.Room == nil) != (o.Room == nil) {
		return false
	}
	if r.Room != nil && !r.Room.equal(*o.Room) {
		return false
	}
	if len(r.Items) != len(o.Items) {
		return false
	}
	for i, v := range r.Items {
		ov, ok := o.Items[i]
		if !ok || !v.equal(ov) {
			return false
		}
	}
	return true
}

// OptionKind classifies a remediation option.
type OptionKind string

const (
	OptionRemove            OptionKind = "remove"
	OptionSubstitute        OptionKind = "substitute"
	OptionStripModification OptionKind = "strip_modification"
)

// RemediationOption is a proposed, not-yet-applied fix for one violating line
// item. Target carries the substitute item name for OptionSubstitute;
// Modification carries the modification to drop for OptionStripModification.
type RemediationOption struct {
	Kind         OptionKind `json:"kind"`
	Target       string     `json:"target,omitempty"`
	Modification string     `json:"modification,omitempty"`
	Rationale    string     `json:"rationale"`
}
