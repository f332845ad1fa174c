package tools

import (
	"context"
	"testing"

	"roomservice/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderValidate_Run(t *testing.T) {
	tool := NewOrderValidate(catalog.Default())

	t.Run("valid order", func(t *testing.T) {
		result, err := tool.Run(context.Background(), map[string]any{
			"room": "312",
			"items": []any{
				map[string]any{"name": "Club Sandwich", "quantity": 1, "modifications": []any{"extra bacon"}},
				map[string]any{"name": "Still Water", "quantity": 2},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, true, result["valid"])
		assert.NotContains(t, result, "violations")
		assert.NotContains(t, result, "suggestions")
	})

	t.Run("unknown item comes back with suggestions", func(t *testing.T) {
		result, err := tool.Run(context.Background(), map[string]any{
			"room": "312",
			"items": []any{
				map[string]any{"name": "Diet Coke", "quantity": 1},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, false, result["valid"])

		violations, ok := result["violations"].(map[string]any)
		require.True(t, ok)
		items, ok := violations["items"].(map[string]any)
		require.True(t, ok)
		v, ok := items["0"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "unknown_item", v["kind"])

		suggestions, ok := result["suggestions"].(map[string]any)
		require.True(t, ok)
		opts, ok := suggestions["0"].([]any)
		require.True(t, ok)
		require.NotEmpty(t, opts)

		first := opts[0].(map[string]any)
		assert.Equal(t, "substitute", first["kind"])
		last := opts[len(opts)-1].(map[string]any)
		assert.Equal(t, "remove", last["kind"])
	})

	t.Run("invalid room is reported at the order level", func(t *testing.T) {
		result, err := tool.Run(context.Background(), map[string]any{
			"room": "999",
			"items": []any{
				map[string]any{"name": "Still Water", "quantity": 1},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, false, result["valid"])
		violations := result["violations"].(map[string]any)
		room, ok := violations["room"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "invalid_room", room["kind"])
		assert.NotContains(t, result, "suggestions", "room violations get no item suggestions")
	})

	t.Run("malformed input", func(t *testing.T) {
		_, err := tool.Run(context.Background(), map[string]any{
			"room":  "312",
			"items": "not a list",
		})
		assert.Error(t, err)
	})
}

func TestOrderValidate_ToolMethods(t *testing.T) {
	tool := NewOrderValidate(catalog.Default())

	assert.Equal(t, "order_validate", tool.Name())
	assert.Equal(t, "Validate Order", tool.Title())
	assert.NotEmpty(t, tool.Description())

	inputSchema := tool.InputSchema()
	require.NotNil(t, inputSchema)
	assert.Contains(t, inputSchema.Properties, "room")
	assert.Contains(t, inputSchema.Properties, "items")
	assert.ElementsMatch(t, []string{"room", "items"}, inputSchema.Required)

	outputSchema := tool.OutputSchema()
	require.NotNil(t, outputSchema)
	assert.Contains(t, outputSchema.Properties, "valid")
	assert.Contains(t, outputSchema.Properties, "violations")
	assert.Contains(t, outputSchema.Properties, "suggestions")
}
