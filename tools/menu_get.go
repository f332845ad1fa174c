package tools

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"roomservice/catalog"
)

type MenuGet struct{ catalog *catalog.Catalog }

func NewMenuGet(c *catalog.Catalog) *MenuGet { return &MenuGet{catalog: c} }

func (t *MenuGet) Name() string  { return "menu_get" }
func (t *MenuGet) Title() string { return "Get Menu" }
func (t *MenuGet) Description() string {
	return "Returns the room service menu, optionally filtered by category (Main, Beverage, Dessert, Side)."
}

func (t *MenuGet) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"category": {
				Type: "string",
				Enum: []any{"Main", "Beverage", "Dessert", "Side"},
			},
		},
	}
}

func (t *MenuGet) OutputSchema() *jsonschema.Schema {
	minPrice := 0.0
	minQty := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"menu": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"items": {
						Type: "array",
						Items: &jsonschema.Schema{
							Type: "object",
							Properties: map[string]*jsonschema.Schema{
								"name":                    {Type: "string"},
								"price":                   {Type: "number", Minimum: &minPrice},
								"category":                {Type: "string"},
								"modifications_allowed":   {Type: "boolean"},
								"available_modifications": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
								"allergens":               {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
								"prep_time_minutes":       {Type: "integer", Minimum: &minQty},
								"available_quantity":      {Type: "integer", Minimum: &minQty},
							},
							Required: []string{"name", "price", "category", "modifications_allowed"},
						},
					},
				},
				Required: []string{"items"},
			},
		},
		Required: []string{"menu"},
	}
}

func (t *MenuGet) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	items := t.catalog.Items()
	if cat, ok := input["category"].(string); ok && cat != "" {
		items = t.catalog.ItemsInCategory(catalog.Category(cat))
	}

	out := struct {
		Menu struct {
			Items []catalog.Item `json:"items"`
		} `json:"menu"`
	}{}

	// Initialize items slice to prevent nil when empty
	out.Menu.Items = make([]catalog.Item, 0, len(items))
	out.Menu.Items = append(out.Menu.Items, items...)

	// marshal -> map[string]any to keep outputs uniform
	b, _ := json.Marshal(out)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m, nil
}
