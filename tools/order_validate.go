package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"roomservice/catalog"
	"roomservice/order"
)

// OrderValidate checks a candidate order against the menu and, for anything
// invalid, attaches the remediation options a guest could pick from.
type OrderValidate struct {
	validator *order.Validator
	resolver  *order.SuggestionResolver
}

func NewOrderValidate(c *catalog.Catalog) *OrderValidate {
	return &OrderValidate{
		validator: order.NewValidator(c),
		resolver:  order.NewSuggestionResolver(c),
	}
}

func (t *OrderValidate) Name() string  { return "order_validate" }
func (t *OrderValidate) Title() string { return "Validate Order" }
func (t *OrderValidate) Description() string {
	return "Validates a room service order against the menu and room constraints, returning violations and suggested fixes."
}

func (t *OrderValidate) InputSchema() *jsonschema.Schema {
	return orderInputSchema()
}

func (t *OrderValidate) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"valid": {Type: "boolean"},
			"violations": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"room":  violationSchema(),
					"items": {Type: "object", AdditionalProperties: violationSchema()},
				},
			},
			"suggestions": {
				Type: "object",
				AdditionalProperties: &jsonschema.Schema{
					Type: "array",
					Items: &jsonschema.Schema{
						Type: "object",
						Properties: map[string]*jsonschema.Schema{
							"kind":         {Type: "string", Enum: []any{"remove", "substitute", "strip_modification"}},
							"target":       {Type: "string"},
							"modification": {Type: "string"},
							"rationale":    {Type: "string"},
						},
						Required: []string{"kind", "rationale"},
					},
				},
			},
		},
		Required: []string{"valid"},
	}
}

func (t *OrderValidate) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	candidate, err := candidateFromInput(input)
	if err != nil {
		return nil, err
	}

	res := t.validator.Validate(candidate)

	out := struct {
		Valid      bool `json:"valid"`
		Violations *struct {
			Room  *order.Violation        `json:"room,omitempty"`
			Items map[int]order.Violation `json:"items,omitempty"`
		} `json:"violations,omitempty"`
		Suggestions map[int][]order.RemediationOption `json:"suggestions,omitempty"`
	}{Valid: res.Valid()}

	if !res.Valid() {
		out.Violations = &struct {
			Room  *order.Violation        `json:"room,omitempty"`
			Items map[int]order.Violation `json:"items,omitempty"`
		}{Room: res.Room, Items: res.Items}

		out.Suggestions = make(map[int][]order.RemediationOption, len(res.Items))
		for i, v := range res.Items {
			out.Suggestions[i] = t.resolver.Propose(candidate.Items[i], v)
		}
	}

	// marshal -> map[string]any to keep outputs uniform
	b, _ := json.Marshal(out)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m, nil
}

// orderInputSchema is the shared room + items input shape for order tools.
func orderInputSchema() *jsonschema.Schema {
	minQty := 1.0
	minItems := 1
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"room": {Type: "string"},
			"items": {
				Type:     "array",
				MinItems: &minItems,
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"name":          {Type: "string"},
						"quantity":      {Type: "integer", Minimum: &minQty},
						"modifications": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
					},
					Required: []string{"name", "quantity"},
				},
			},
		},
		Required: []string{"room", "items"},
	}
}

func violationSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"kind":      {Type: "string"},
			"offending": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			"detail":    {Type: "string"},
		},
		Required: []string{"kind", "detail"},
	}
}

// candidateFromInput decodes the generic tool input into a candidate order.
func candidateFromInput(input map[string]any) (order.Candidate, error) {
	b, err := json.Marshal(input)
	if err != nil {
		return order.Candidate{}, fmt.Errorf("encode order input: %w", err)
	}
	var decoded struct {
		Room  string           `json:"room"`
		Items []order.LineItem `json:"items"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		return order.Candidate{}, fmt.Errorf("decode order input: %w", err)
	}
	return order.NewCandidate(decoded.Room, decoded.Items), nil
}
