package roomservice

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"roomservice/order"
	"roomservice/tools"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Notifier interface {
	PostMessage(ctx context.Context, station string, message string) error
}

type ToolProvider interface {
	GetTools() []tools.Tool
	GetTool(name string) (tools.Tool, error)
}

// Driver owns the interactive remediation loop: it validates a candidate
// order, offers fixes for anything invalid, applies the guest's choices, and
// finalizes once the order is clean.
type Driver interface {
	Run(ctx context.Context, candidate order.Candidate) (order.Confirmed, error)
}

// Receipt is the guest-facing summary of a placed order.
type Receipt struct {
	OrderID         string        `json:"order_id"`
	Room            string        `json:"room"`
	Items           []ReceiptItem `json:"items"`
	Total           float64       `json:"total"`
	PrepTimeMinutes int           `json:"prep_time_minutes"`
}

// ReceiptItem is a single priced line on a receipt.
type ReceiptItem struct {
	Name          string   `json:"name"`
	Quantity      int      `json:"quantity"`
	Modifications []string `json:"modifications,omitempty"`
	UnitPrice     float64  `json:"unit_price"`
}

// NewReceipt builds a receipt from a confirmed order.
func NewReceipt(o order.Confirmed) Receipt {
	r := Receipt{
		OrderID:         o.OrderID,
		Room:            o.Room,
		Total:           o.Total,
		PrepTimeMinutes: o.PrepTimeMinutes,
		Items:           make([]ReceiptItem, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		r.Items = append(r.Items, ReceiptItem{
			Name:          it.Name,
			Quantity:      it.Quantity,
			Modifications: it.Modifications,
			UnitPrice:     it.UnitPrice,
		})
	}
	return r
}

// IsValid checks that the receipt is complete enough to show a guest.
func (r *Receipt) IsValid() bool {
	if r.OrderID == "" || r.Room == "" || len(r.Items) == 0 {
		return false
	}
	for _, it := range r.Items {
		if it.Name == "" || it.Quantity <= 0 || it.UnitPrice < 0 {
			return false
		}
	}
	return r.Total > 0
}

// String renders the receipt as a one-paragraph confirmation message.
func (r *Receipt) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s for room %s: ", r.OrderID, r.Room)
	for i, it := range r.Items {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d x %s", it.Quantity, it.Name)
		if len(it.Modifications) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(it.Modifications, ", "))
		}
	}
	fmt.Fprintf(&b, ". Total $%.2f, ready in about %d minutes.", r.Total, r.PrepTimeMinutes)
	return b.String()
}
