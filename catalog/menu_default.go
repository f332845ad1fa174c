package catalog

// DefaultItems is the built-in hotel menu, used when no menu artifact is
// configured. Prices and stock levels are snapshots, not live inventory.
func DefaultItems() []Item {
	return []Item{
		{
			Name:                   "Club Sandwich",
			Description:            "Triple-decker with turkey, bacon, lettuce and tomato",
			Price:                  15.00,
			Category:               CategoryMain,
			ModificationsAllowed:   true,
			AvailableModifications: []string{"extra bacon", "no bacon", "no tomato", "no mayo", "gluten-free bread"},
			Allergens:              []string{"gluten", "egg"},
			PrepTimeMinutes:        15,
			AvailableQuantity:      10,
		},
		{
			Name:                   "Caesar Salad",
			Description:            "Romaine, parmesan, croutons, anchovy dressing",
			Price:                  12.00,
			Category:               CategoryMain,
			ModificationsAllowed:   true,
			AvailableModifications: []string{"no croutons", "no parmesan", "add chicken", "dressing on the side"},
			Allergens:              []string{"gluten", "dairy", "fish"},
			PrepTimeMinutes:        10,
			AvailableQuantity:      8,
		},
		{
			Name:                   "Grilled Salmon",
			Description:            "Atlantic salmon with seasonal vegetables",
			Price:                  24.00,
			Category:               CategoryMain,
			ModificationsAllowed:   true,
			AvailableModifications: []string{"no butter", "extra lemon", "well done"},
			Allergens:              []string{"fish", "dairy"},
			PrepTimeMinutes:        25,
			AvailableQuantity:      6,
		},
		{
			Name:                   "French Fries",
			Description:            "Hand-cut fries with sea salt",
			Price:                  6.00,
			Category:               CategorySide,
			ModificationsAllowed:   true,
			AvailableModifications: []string{"extra crispy", "no salt", "truffle oil"},
			PrepTimeMinutes:        10,
			AvailableQuantity:      5,
		},
		{
			Name:              "Still Water",
			Description:       "750ml bottled still water",
			Price:             4.00,
			Category:          CategoryBeverage,
			PrepTimeMinutes:   2,
			AvailableQuantity: 50,
		},
		{
			Name:              "Sparkling Water",
			Description:       "750ml bottled sparkling water",
			Price:             4.50,
			Category:          CategoryBeverage,
			PrepTimeMinutes:   2,
			AvailableQuantity: 40,
		},
		{
			Name:              "Fresh Orange Juice",
			Description:       "Squeezed to order",
			Price:             7.00,
			Category:          CategoryBeverage,
			PrepTimeMinutes:   5,
			AvailableQuantity: 12,
		},
		{
			Name:                   "Chocolate Lava Cake",
			Description:            "Warm chocolate cake with a molten center",
			Price:                  9.50,
			Category:               CategoryDessert,
			ModificationsAllowed:   true,
			AvailableModifications: []string{"no powdered sugar", "extra berries", "vanilla ice cream"},
			Allergens:              []string{"gluten", "dairy", "egg"},
			PrepTimeMinutes:        20,
			AvailableQuantity:      7,
		},
	}
}

// Default builds a catalog over the built-in menu.
func Default() *Catalog {
	c, err := New(DefaultItems())
	if err != nil {
		// The built-in menu is fixed at compile time; a failure here is a bug.
		panic(err)
	}
	return c
}
