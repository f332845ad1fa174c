// Package kitchen is the mock placement collaborator. It stands in for the
// hotel's real kitchen system: it assigns order IDs and can simulate the
// latency and failure modes a network-backed API would have.
package kitchen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/lucsky/cuid"

	"roomservice/order"
)

// ErrOverloaded means the kitchen is at capacity and the order was not taken.
var ErrOverloaded = errors.New("kitchen is currently at capacity, try again in 15 minutes")

// Options configures the simulated behavior of the mock API.
type Options struct {
	// SimulateFailures randomly rejects a fraction of orders.
	SimulateFailures bool
	// SimulateLatency sleeps briefly before responding.
	SimulateLatency bool
	// Seed makes the failure simulation reproducible. Zero means seed from
	// the clock.
	Seed int64
}

// API is the mock kitchen endpoint. It implements order.Placer.
type API struct {
	opts Options
	rng  *rand.Rand
}

// NewAPI builds a mock kitchen API.
func NewAPI(opts Options) *API {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &API{
		opts: opts,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Place accepts a confirmed order and returns its assigned order ID, or a
// failure when the simulated kitchen rejects it.
func (a *API) Place(ctx context.Context, o order.Confirmed) (string, error) {
	if a.opts.SimulateLatency {
		delay := time.Duration(100+a.rng.Intn(400)) * time.Millisecond
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if a.opts.SimulateFailures {
		switch roll := a.rng.Float64(); {
		case roll < 0.10:
			return "", errors.New("failed to connect to kitchen system")
		case roll < 0.15:
			return "", ErrOverloaded
		}
	}

	orderID := fmt.Sprintf("ORD-%s", cuid.Slug())
	slog.Info("KITCHEN: Order placed",
		"order_id", orderID,
		"room", o.Room,
		"items", len(o.Items),
		"total", o.Total,
	)
	return orderID, nil
}
