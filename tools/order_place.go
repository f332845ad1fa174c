package tools

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"roomservice/catalog"
	"roomservice/order"
)

// OrderPlace finalizes a validated order and hands it to the kitchen. The
// finalizer re-validates, so calling this with an invalid order fails with
// order.ErrNotValidated rather than placing anything.
type OrderPlace struct {
	finalizer *order.Finalizer
}

func NewOrderPlace(c *catalog.Catalog, placer order.Placer) *OrderPlace {
	return &OrderPlace{finalizer: order.NewFinalizer(c, placer)}
}

func (t *OrderPlace) Name() string  { return "order_place" }
func (t *OrderPlace) Title() string { return "Place Order" }
func (t *OrderPlace) Description() string {
	return "Places a validated room service order with the kitchen. Validate the order first with order_validate."
}

func (t *OrderPlace) InputSchema() *jsonschema.Schema {
	return orderInputSchema()
}

func (t *OrderPlace) OutputSchema() *jsonschema.Schema {
	minTotal := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"order_id":          {Type: "string"},
			"total":             {Type: "number", Minimum: &minTotal},
			"prep_time_minutes": {Type: "integer"},
			"message":           {Type: "string"},
		},
		Required: []string{"order_id", "total", "message"},
	}
}

func (t *OrderPlace) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	candidate, err := candidateFromInput(input)
	if err != nil {
		return nil, err
	}

	confirmed, err := t.finalizer.Finalize(ctx, candidate)
	if err != nil {
		return nil, err
	}

	out := struct {
		OrderID         string  `json:"order_id"`
		Total           float64 `json:"total"`
		PrepTimeMinutes int     `json:"prep_time_minutes"`
		Message         string  `json:"message"`
	}{
		OrderID:         confirmed.OrderID,
		Total:           confirmed.Total,
		PrepTimeMinutes: confirmed.PrepTimeMinutes,
		Message:         "Order successfully placed",
	}

	// marshal -> map[string]any to keep outputs uniform
	b, _ := json.Marshal(out)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m, nil
}
