// Package extract turns a guest's free-form utterance into a structured
// candidate order. The mock extractor parses a small fixed grammar for tests
// and demos; the bedrock extractor asks a model to do the same for real
// speech.
package extract

import (
	"context"
	"errors"

	"roomservice/order"
)

// ErrNoOrder means the utterance contained nothing that looks like an order.
var ErrNoOrder = errors.New("no order found in utterance")

// Extractor produces a candidate order from what the guest said.
type Extractor interface {
	Extract(ctx context.Context, utterance string) (order.Candidate, error)
}
