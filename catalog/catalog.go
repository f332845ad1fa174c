// Package catalog holds the hotel menu: a read-only set of items loaded once
// at startup and shared by the validator and the suggestion resolver.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"roomservice/catalog/storage"
)

// Category groups menu items for substitution suggestions.
type Category string

const (
	CategoryMain     Category = "Main"
	CategoryBeverage Category = "Beverage"
	CategoryDessert  Category = "Dessert"
	CategorySide     Category = "Side"
)

// Item is a single entry on the menu. Items are immutable after load.
type Item struct {
	Name                   string   `json:"name"`
	Description            string   `json:"description,omitempty"`
	Price                  float64  `json:"price"`
	Category               Category `json:"category"`
	ModificationsAllowed   bool     `json:"modifications_allowed"`
	AvailableModifications []string `json:"available_modifications,omitempty"`
	Allergens              []string `json:"allergens,omitempty"`
	PrepTimeMinutes        int      `json:"prep_time_minutes"`
	AvailableQuantity      int      `json:"available_quantity"`
}

// AllowsModification reports whether mod is one of the item's available
// modifications. The match is case-insensitive and exact, never fuzzy.
func (i Item) AllowsModification(mod string) bool {
	if !i.ModificationsAllowed {
		return false
	}
	want := Normalize(mod)
	for _, m := range i.AvailableModifications {
		if Normalize(m) == want {
			return true
		}
	}
	return false
}

// Catalog is the process-wide menu. Construct it once and pass it by
// reference; it is never mutated after New returns.
type Catalog struct {
	items  []Item
	byName map[string]Item
}

// New builds a catalog from a list of items. Item names must be unique under
// normalization.
func New(items []Item) (*Catalog, error) {
	c := &Catalog{
		items:  make([]Item, len(items)),
		byName: make(map[string]Item, len(items)),
	}
	copy(c.items, items)
	for _, it := range c.items {
		key := Normalize(it.Name)
		if key == "" {
			return nil, fmt.Errorf("menu item with empty name")
		}
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("duplicate menu item %q", it.Name)
		}
		c.byName[key] = it
	}
	return c, nil
}

// Load reads menu JSON from the given state and builds a catalog from it.
func Load(ctx context.Context, state storage.MenuState) (*Catalog, error) {
	b, err := state.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("read menu: %w", err)
	}
	var items []Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	return New(items)
}

// Lookup resolves a requested name to a menu item. Matching is
// case-insensitive and tolerant of extra whitespace; a miss is reported as
// absence, not an error.
func (c *Catalog) Lookup(name string) (Item, bool) {
	it, ok := c.byName[Normalize(name)]
	return it, ok
}

// ItemsInCategory returns the items of one category in menu order.
func (c *Catalog) ItemsInCategory(cat Category) []Item {
	var out []Item
	for _, it := range c.items {
		if it.Category == cat {
			out = append(out, it)
		}
	}
	return out
}

// Items returns all menu items in menu order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Normalize lowercases a name and collapses runs of whitespace so that
// "  Club   Sandwich " and "club sandwich" resolve to the same key.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
