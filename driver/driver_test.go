package driver_test

import (
	"context"
	"errors"
	"testing"

	"roomservice"
	"roomservice/catalog"
	"roomservice/driver"
	"roomservice/driver/mock"
	"roomservice/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlacer struct {
	orderID string
	err     error
	placed  []order.Confirmed
}

func (p *fakePlacer) Place(ctx context.Context, o order.Confirmed) (string, error) {
	p.placed = append(p.placed, o)
	if p.err != nil {
		return "", p.err
	}
	return p.orderID, nil
}

type captureLogger struct {
	rounds []roomservice.RoundLog
}

func (l *captureLogger) LogRound(round roomservice.RoundLog) error {
	l.rounds = append(l.rounds, round)
	return nil
}

func TestDriverConfirmsValidOrderWithoutRemediation(t *testing.T) {
	placer := &fakePlacer{orderID: "ORD-abc123"}
	logger := &captureLogger{}
	d := driver.New(catalog.Default(), placer, mock.NewGuest(), 5, logger)

	confirmed, err := d.Run(context.Background(), order.NewCandidate("312", []order.LineItem{
		{Name: "Club Sandwich", Quantity: 1, Modifications: []string{"extra bacon", "no tomato"}},
		{Name: "Still Water", Quantity: 2},
	}))
	require.NoError(t, err)

	assert.Equal(t, "ORD-abc123", confirmed.OrderID)
	assert.Equal(t, 23.00, confirmed.Total)
	assert.Empty(t, logger.rounds, "a clean order needs no rounds")
}

func TestDriverRemediatesUnknownItem(t *testing.T) {
	placer := &fakePlacer{orderID: "ORD-abc123"}
	logger := &captureLogger{}
	d := driver.New(catalog.Default(), placer, mock.NewGuest(), 5, logger)

	confirmed, err := d.Run(context.Background(), order.NewCandidate("312", []order.LineItem{
		{Name: "Diet Coke", Quantity: 1},
	}))
	require.NoError(t, err)

	// The mock guest takes the first offer, which for "Diet Coke" is the
	// first beverage on the menu.
	require.Len(t, confirmed.Items, 1)
	assert.Equal(t, "Still Water", confirmed.Items[0].Name)
	assert.Equal(t, 4.00, confirmed.Total)

	require.Len(t, logger.rounds, 1)
	assert.Equal(t, 1, logger.rounds[0].Round)
	require.NotNil(t, logger.rounds[0].Choice)
	assert.Equal(t, "substitute", logger.rounds[0].Choice.Kind)
}

func TestDriverRecollectsInvalidRoom(t *testing.T) {
	placer := &fakePlacer{orderID: "ORD-abc123"}
	logger := &captureLogger{}
	d := driver.New(catalog.Default(), placer, mock.NewGuest(), 5, logger)

	confirmed, err := d.Run(context.Background(), order.NewCandidate("999", []order.LineItem{
		{Name: "Still Water", Quantity: 1},
	}))
	require.NoError(t, err)

	assert.Equal(t, "101", confirmed.Room, "mock guest answers with its fallback room")
	require.Len(t, logger.rounds, 1)
	require.NotNil(t, logger.rounds[0].Choice)
	assert.Equal(t, "update_room", logger.rounds[0].Choice.Kind)
	assert.Equal(t, -1, logger.rounds[0].Choice.ItemIndex)
}

func TestDriverFixesRoomBeforeItems(t *testing.T) {
	placer := &fakePlacer{orderID: "ORD-abc123"}
	logger := &captureLogger{}
	d := driver.New(catalog.Default(), placer, mock.NewGuest(), 5, logger)

	confirmed, err := d.Run(context.Background(), order.NewCandidate("999", []order.LineItem{
		{Name: "Diet Coke", Quantity: 1},
	}))
	require.NoError(t, err)
	assert.Equal(t, "101", confirmed.Room)

	require.Len(t, logger.rounds, 2)
	assert.Equal(t, "update_room", logger.rounds[0].Choice.Kind)
	assert.Equal(t, "substitute", logger.rounds[1].Choice.Kind)
}

func TestDriverAbandonsWhenRoundsExhausted(t *testing.T) {
	placer := &fakePlacer{orderID: "ORD-abc123"}
	logger := &captureLogger{}
	d := driver.New(catalog.Default(), placer, mock.NewGuest(), 1, logger)

	_, err := d.Run(context.Background(), order.NewCandidate("312", []order.LineItem{
		{Name: "Diet Coke", Quantity: 1},
		{Name: "Peking Duck", Quantity: 1},
	}))
	assert.ErrorIs(t, err, driver.ErrRoundsExhausted)
	assert.Empty(t, placer.placed, "an abandoned order never reaches the kitchen")

	last := logger.rounds[len(logger.rounds)-1]
	assert.Equal(t, string(order.StateAbandoned), last.State)
}

func TestDriverRejectsEmptyOrder(t *testing.T) {
	placer := &fakePlacer{orderID: "ORD-abc123"}
	d := driver.New(catalog.Default(), placer, mock.NewGuest(), 5, roomservice.NewNoOpSessionLogger())

	_, err := d.Run(context.Background(), order.NewCandidate("312", nil))
	assert.ErrorIs(t, err, order.ErrNotValidated)
	assert.Empty(t, placer.placed, "a zero-item order must never reach the kitchen")
}

func TestDriverFailsWhenNothingCanBeOffered(t *testing.T) {
	placer := &fakePlacer{orderID: "ORD-abc123"}
	d := driver.New(catalog.Default(), placer, mock.NewGuest(), 5, roomservice.NewNoOpSessionLogger())

	// Only 5 portions of fries exist and quantity violations have no
	// item-level fix, so the order has to be re-taken.
	_, err := d.Run(context.Background(), order.NewCandidate("312", []order.LineItem{
		{Name: "French Fries", Quantity: 9},
	}))
	assert.ErrorIs(t, err, driver.ErrNoRemediation)
	assert.Empty(t, placer.placed)
}

func TestDriverSurfacesPlacementFailure(t *testing.T) {
	placer := &fakePlacer{err: errors.New("kitchen offline")}
	d := driver.New(catalog.Default(), placer, mock.NewGuest(), 5, roomservice.NewNoOpSessionLogger())

	_, err := d.Run(context.Background(), order.NewCandidate("312", []order.LineItem{
		{Name: "Still Water", Quantity: 1},
	}))
	assert.ErrorIs(t, err, order.ErrPlacementFailed)
}

func TestDriverSurfacesGuestErrors(t *testing.T) {
	placer := &fakePlacer{orderID: "ORD-abc123"}
	guest := &erroringGuest{err: errors.New("guest hung up")}
	d := driver.New(catalog.Default(), placer, guest, 5, roomservice.NewNoOpSessionLogger())

	_, err := d.Run(context.Background(), order.NewCandidate("312", []order.LineItem{
		{Name: "Diet Coke", Quantity: 1},
	}))
	assert.ErrorContains(t, err, "guest hung up")
	assert.Empty(t, placer.placed)
}

type erroringGuest struct {
	err error
}

func (g *erroringGuest) Choose(ctx context.Context, item order.LineItem, v order.Violation, opts []order.RemediationOption) (order.RemediationOption, error) {
	return order.RemediationOption{}, g.err
}

func (g *erroringGuest) Room(ctx context.Context, current string, v order.Violation) (string, error) {
	return "", g.err
}
