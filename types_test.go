package roomservice_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"roomservice"
	"roomservice/catalog"
	"roomservice/notify"
	"roomservice/order"
	"roomservice/tools"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

type stubPlacer struct{}

func (stubPlacer) Place(ctx context.Context, o order.Confirmed) (string, error) {
	return "ORD-stub", nil
}

func TestRegistryServesToolsThroughProvider(t *testing.T) {
	registry, err := tools.NewRegistry(catalog.Default(), stubPlacer{})
	must.NoError(t, err)

	var tp roomservice.ToolProvider = registry
	should.Len(t, tp.GetTools(), 3)

	tool, err := tp.GetTool("order_validate")
	must.NoError(t, err)
	should.Equal(t, "order_validate", tool.Name())

	_, err = tp.GetTool("order_cancel")
	should.Error(t, err)
}

func TestNotifyClientAcceptsHTTPClient(t *testing.T) {
	var hc roomservice.HTTPClient = http.DefaultClient
	var n roomservice.Notifier = notify.NewClient("http://hotel.example/webhook", hc)
	should.NotNil(t, n)
}

func confirmedFixture() order.Confirmed {
	return order.Confirmed{
		OrderID: "ORD-abc123",
		Room:    "312",
		Items: []order.ConfirmedItem{
			{Name: "Club Sandwich", Quantity: 1, Modifications: []string{"extra bacon"}, UnitPrice: 15.00, PrepTimeMinutes: 15},
			{Name: "Still Water", Quantity: 2, UnitPrice: 4.00, PrepTimeMinutes: 2},
		},
		Total:           23.00,
		PrepTimeMinutes: 15,
		PlacedAt:        time.Now(),
	}
}

func TestNewReceipt(t *testing.T) {
	r := roomservice.NewReceipt(confirmedFixture())

	should.Equal(t, "ORD-abc123", r.OrderID)
	should.Equal(t, "312", r.Room)
	should.Equal(t, 23.00, r.Total)
	should.Equal(t, 15, r.PrepTimeMinutes)
	must.Len(t, r.Items, 2)
	should.Equal(t, 15.00, r.Items[0].UnitPrice)
	should.True(t, r.IsValid())
}

func TestReceiptIsValid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*roomservice.Receipt)
		want   bool
	}{
		{"complete receipt", func(r *roomservice.Receipt) {}, true},
		{"missing order id", func(r *roomservice.Receipt) { r.OrderID = "" }, false},
		{"missing room", func(r *roomservice.Receipt) { r.Room = "" }, false},
		{"no items", func(r *roomservice.Receipt) { r.Items = nil }, false},
		{"zero total", func(r *roomservice.Receipt) { r.Total = 0 }, false},
		{"unnamed item", func(r *roomservice.Receipt) { r.Items[0].Name = "" }, false},
		{"nonpositive quantity", func(r *roomservice.Receipt) { r.Items[1].Quantity = 0 }, false},
		{"negative unit price", func(r *roomservice.Receipt) { r.Items[0].UnitPrice = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := roomservice.NewReceipt(confirmedFixture())
			tt.mutate(&r)
			should.Equal(t, tt.want, r.IsValid())
		})
	}
}

func TestReceiptString(t *testing.T) {
	r := roomservice.NewReceipt(confirmedFixture())
	msg := r.String()

	should.Contains(t, msg, "ORD-abc123")
	should.Contains(t, msg, "room 312")
	should.Contains(t, msg, "1 x Club Sandwich (extra bacon)")
	should.Contains(t, msg, "2 x Still Water")
	should.Contains(t, msg, "$23.00")
	should.Contains(t, msg, "15 minutes")
}
