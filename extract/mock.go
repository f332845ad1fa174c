package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"roomservice/order"
)

// Mock parses a deliberately tiny order grammar:
//
//	room 312: 1 Club Sandwich with extra bacon, no tomato; 2 Still Water
//
// A leading "room <number>:" sets the room, semicolons separate items, each
// item is "<quantity> <name>" with an optional "with <mod>, <mod>, ..."
// suffix. It never guesses; anything outside the grammar is an error.
type Mock struct{}

// NewMock creates a mock extractor.
func NewMock() *Mock {
	return &Mock{}
}

// Extract parses the utterance against the fixed grammar.
func (m *Mock) Extract(ctx context.Context, utterance string) (order.Candidate, error) {
	slog.Info("EXTRACT: Parsing utterance", "len", len(utterance))

	text := strings.TrimSpace(utterance)
	if text == "" {
		return order.Candidate{}, ErrNoOrder
	}

	var room string
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "room ") {
		head, rest, ok := strings.Cut(text, ":")
		if !ok {
			return order.Candidate{}, fmt.Errorf("%w: room prefix without ':'", ErrNoOrder)
		}
		room = strings.TrimSpace(head[len("room "):])
		text = strings.TrimSpace(rest)
	}

	if text == "" {
		return order.Candidate{}, ErrNoOrder
	}

	var items []order.LineItem
	for _, part := range strings.Split(text, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		item, err := parseItem(part)
		if err != nil {
			return order.Candidate{}, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return order.Candidate{}, ErrNoOrder
	}

	slog.Info("EXTRACT: Parsed order", "room", room, "items", len(items))
	return order.NewCandidate(room, items), nil
}

// parseItem handles "<quantity> <name> [with <mod>, <mod>, ...]".
func parseItem(part string) (order.LineItem, error) {
	name := part
	var mods []string
	if i := strings.Index(strings.ToLower(part), " with "); i >= 0 {
		name = strings.TrimSpace(part[:i])
		for _, mod := range strings.Split(part[i+len(" with "):], ",") {
			if mod = strings.TrimSpace(mod); mod != "" {
				mods = append(mods, mod)
			}
		}
	}

	qty := 1
	if first, rest, ok := strings.Cut(name, " "); ok {
		if n, err := strconv.Atoi(first); err == nil {
			qty = n
			name = strings.TrimSpace(rest)
		}
	}
	if name == "" {
		return order.LineItem{}, fmt.Errorf("%w: item %q has no name", ErrNoOrder, part)
	}

	return order.LineItem{Name: name, Quantity: qty, Modifications: mods}, nil
}
