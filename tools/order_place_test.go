package tools

import (
	"context"
	"errors"
	"testing"

	"roomservice/catalog"
	"roomservice/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlacer struct {
	orderID string
	err     error
	placed  int
}

func (p *fakePlacer) Place(ctx context.Context, o order.Confirmed) (string, error) {
	p.placed++
	if p.err != nil {
		return "", p.err
	}
	return p.orderID, nil
}

func TestOrderPlace_Run(t *testing.T) {
	t.Run("places a valid order", func(t *testing.T) {
		placer := &fakePlacer{orderID: "ORD-abc123"}
		tool := NewOrderPlace(catalog.Default(), placer)

		result, err := tool.Run(context.Background(), map[string]any{
			"room": "312",
			"items": []any{
				map[string]any{"name": "Club Sandwich", "quantity": 1, "modifications": []any{"extra bacon"}},
				map[string]any{"name": "Still Water", "quantity": 2},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "ORD-abc123", result["order_id"])
		assert.Equal(t, 23.0, result["total"])
		assert.Equal(t, 15.0, result["prep_time_minutes"])
		assert.Equal(t, "Order successfully placed", result["message"])
		assert.Equal(t, 1, placer.placed)
	})

	t.Run("refuses an unvalidated order", func(t *testing.T) {
		placer := &fakePlacer{orderID: "ORD-nope"}
		tool := NewOrderPlace(catalog.Default(), placer)

		_, err := tool.Run(context.Background(), map[string]any{
			"room": "312",
			"items": []any{
				map[string]any{"name": "Diet Coke", "quantity": 1},
			},
		})
		assert.ErrorIs(t, err, order.ErrNotValidated)
		assert.Zero(t, placer.placed, "nothing may reach the kitchen")
	})

	t.Run("refuses an order with no items", func(t *testing.T) {
		placer := &fakePlacer{orderID: "ORD-nope"}
		tool := NewOrderPlace(catalog.Default(), placer)

		_, err := tool.Run(context.Background(), map[string]any{
			"room":  "312",
			"items": []any{},
		})
		assert.ErrorIs(t, err, order.ErrNotValidated)
		assert.Zero(t, placer.placed, "nothing may reach the kitchen")
	})

	t.Run("surfaces placement failures", func(t *testing.T) {
		placer := &fakePlacer{err: errors.New("kitchen offline")}
		tool := NewOrderPlace(catalog.Default(), placer)

		_, err := tool.Run(context.Background(), map[string]any{
			"room": "312",
			"items": []any{
				map[string]any{"name": "Still Water", "quantity": 1},
			},
		})
		assert.ErrorIs(t, err, order.ErrPlacementFailed)
	})
}

func TestOrderPlace_ToolMethods(t *testing.T) {
	tool := NewOrderPlace(catalog.Default(), &fakePlacer{})

	assert.Equal(t, "order_place", tool.Name())
	assert.Equal(t, "Place Order", tool.Title())
	assert.Contains(t, tool.Description(), "order_validate")

	outputSchema := tool.OutputSchema()
	require.NotNil(t, outputSchema)
	assert.Contains(t, outputSchema.Properties, "order_id")
	assert.Contains(t, outputSchema.Properties, "total")
}

func TestRegistry(t *testing.T) {
	registry, err := NewRegistry(catalog.Default(), &fakePlacer{})
	require.NoError(t, err)

	assert.Len(t, registry.GetTools(), 3)

	for _, name := range []string{"menu_get", "order_validate", "order_place"} {
		tool, err := registry.GetTool(name)
		require.NoError(t, err)
		assert.Equal(t, name, tool.Name())
	}

	_, err = registry.GetTool("does_not_exist")
	assert.ErrorContains(t, err, "not found")
}
