package order

import (
	"fmt"
	"strings"

	"roomservice/catalog"
)

// categoryHints maps guest wording to the menu category it implies. A request
// containing "coke" or "soda" suggests the guest wants a beverage even though
// no menu item shares a token with it. The slice is ordered so proposals come
// out the same way every time.
var categoryHints = []struct {
	category catalog.Category
	words    []string
}{
	{catalog.CategoryBeverage, []string{"water", "juice", "coke", "cola", "soda", "pop", "tea", "coffee", "lemonade", "drink", "beer", "wine"}},
	{catalog.CategoryDessert, []string{"cake", "dessert", "sweet", "chocolate", "ice", "cream", "pie", "sundae"}},
	{catalog.CategorySide, []string{"fries", "chips", "side"}},
}

// SuggestionResolver proposes remediation options for invalid line items. It
// never mutates anything; it only proposes, in order of preference.
type SuggestionResolver struct {
	catalog *catalog.Catalog
}

// NewSuggestionResolver builds a resolver over the given catalog.
func NewSuggestionResolver(c *catalog.Catalog) *SuggestionResolver {
	return &SuggestionResolver{catalog: c}
}

// Propose returns remediation options for one violating line item, possibly
// none. Substitutions come before removal: removal is the last resort.
// Room and quantity violations are order-level and get no item-level options;
// the driver has to re-collect those from the guest.
func (r *SuggestionResolver) Propose(item LineItem, v Violation) []RemediationOption {
	switch v.Kind {
	case UnknownItem:
		return r.proposeSubstitutes(item)
	case UnsupportedModification:
		return r.proposeStrips(item, v)
	default:
		return nil
	}
}

func (r *SuggestionResolver) proposeSubstitutes(item LineItem) []RemediationOption {
	var opts []RemediationOption
	seen := make(map[string]bool)

	add := func(mi catalog.Item, why string) {
		key := catalog.Normalize(mi.Name)
		if seen[key] {
			return
		}
		seen[key] = true
		opts = append(opts, RemediationOption{
			Kind:      OptionSubstitute,
			Target:    mi.Name,
			Rationale: why,
		})
	}

	tokens := strings.Fields(catalog.Normalize(item.Name))

	// First preference: menu items sharing a token with the request.
	for _, mi := range r.catalog.Items() {
		if sharesToken(tokens, mi.Name) {
			add(mi, fmt.Sprintf("%s is the closest match on our menu", mi.Name))
		}
	}

	// Second preference: items from the category the wording implies.
	for _, hint := range categoryHints {
		if !containsAny(tokens, hint.words) {
			continue
		}
		for _, mi := range r.catalog.ItemsInCategory(hint.category) {
			add(mi, fmt.Sprintf("%s is available from our %s selection", mi.Name, strings.ToLower(string(hint.category))))
		}
	}

	// Removal is always offered, last.
	opts = append(opts, RemediationOption{
		Kind:      OptionRemove,
		Rationale: fmt.Sprintf("remove %q from the order", item.Name),
	})
	return opts
}

func (r *SuggestionResolver) proposeStrips(item LineItem, v Violation) []RemediationOption {
	var opts []RemediationOption
	for _, mod := range v.Offending {
		opts = append(opts, RemediationOption{
			Kind:         OptionStripModification,
			Modification: mod,
			Rationale:    fmt.Sprintf("prepare %s without %q", item.Name, mod),
		})
	}

	// When the item disallows modifications entirely, every requested mod is
	// offending and removal is a sensible fallback. When only some mods are
	// unsupported the valid ones are kept, so removal is not offered.
	mi, ok := r.catalog.Lookup(item.Name)
	if ok && !mi.ModificationsAllowed {
		opts = append(opts, RemediationOption{
			Kind:      OptionRemove,
			Rationale: fmt.Sprintf("remove %q from the order", item.Name),
		})
	}
	return opts
}

func sharesToken(tokens []string, name string) bool {
	for _, t := range strings.Fields(catalog.Normalize(name)) {
		for _, rt := range tokens {
			if t == rt {
				return true
			}
		}
	}
	return false
}

func containsAny(tokens []string, hints []string) bool {
	for _, t := range tokens {
		for _, h := range hints {
			if t == h {
				return true
			}
		}
	}
	return false
}
