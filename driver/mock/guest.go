// Package mock provides a deterministic guest for driving remediation
// sessions in tests and demos without a human (or an LLM) in the loop.
package mock

import (
	"context"
	"fmt"
	"log/slog"

	"roomservice/order"
)

// Guest is a scripted stand-in for the person on the phone. It always takes
// the first offered option, which by the resolver's ordering prefers a
// substitution over stripping a modification over removal, and answers a
// room re-collection with a fixed fallback room. It is, of course,
// deterministic; real guests may not be so kind :)
type Guest struct {
	// FallbackRoom is the answer to any room re-collection. Defaults to 101.
	FallbackRoom string
}

// NewGuest creates a mock guest.
func NewGuest() *Guest {
	return &Guest{FallbackRoom: "101"}
}

// Choose picks the first offered option.
func (g *Guest) Choose(ctx context.Context, item order.LineItem, v order.Violation, opts []order.RemediationOption) (order.RemediationOption, error) {
	if len(opts) == 0 {
		return order.RemediationOption{}, fmt.Errorf("no options offered for %q", item.Name)
	}

	picked := opts[0]
	slog.Info("GUEST: Accepting first option",
		"item", item.Name,
		"violation", v.Kind,
		"kind", picked.Kind,
		"target", picked.Target,
	)
	return picked, nil
}

// Room answers with the fallback room number.
func (g *Guest) Room(ctx context.Context, current string, v order.Violation) (string, error) {
	room := g.FallbackRoom
	if room == "" {
		room = "101"
	}
	slog.Info("GUEST: Correcting room number", "rejected", current, "corrected", room)
	return room, nil
}
