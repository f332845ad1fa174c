// Package driver owns the interactive remediation loop between a guest and
// the order engine: validate, offer fixes, apply the guest's choice, repeat,
// then finalize. The engine itself never bounds the loop; the driver does.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"roomservice"
	"roomservice/catalog"
	"roomservice/order"
)

var (
	// ErrStalled means applying a guest choice produced the exact violation
	// set it was offered against; looping further would spin forever.
	ErrStalled = errors.New("remediation made no progress")

	// ErrRoundsExhausted means the guest ran out of remediation rounds and
	// the order was abandoned.
	ErrRoundsExhausted = errors.New("remediation rounds exhausted")

	// ErrNoRemediation means a violation has no automatic fix (bad quantity
	// with nothing to substitute) and the order has to be re-taken.
	ErrNoRemediation = errors.New("order cannot be remediated")
)

// ChoiceSource is the guest side of the conversation: it picks one of the
// offered remediation options, or supplies a replacement room number.
type ChoiceSource interface {
	Choose(ctx context.Context, item order.LineItem, v order.Violation, opts []order.RemediationOption) (order.RemediationOption, error)
	Room(ctx context.Context, current string, v order.Violation) (string, error)
}

// Driver runs remediation sessions to completion.
type Driver struct {
	catalog   *catalog.Catalog
	placer    order.Placer
	guest     ChoiceSource
	maxRounds int
	logger    roomservice.SessionLogger
}

// New initializes a driver.
func New(cat *catalog.Catalog, placer order.Placer, guest ChoiceSource, maxRounds int, log roomservice.SessionLogger) *Driver {
	return &Driver{
		catalog:   cat,
		placer:    placer,
		guest:     guest,
		maxRounds: maxRounds,
		logger:    log,
	}
}

// Run validates the candidate and, while violations remain, collects and
// applies one guest choice per round up to the round limit, then finalizes.
func (d *Driver) Run(ctx context.Context, candidate order.Candidate) (order.Confirmed, error) {
	slog.Info("DRIVER: Starting run", "room", candidate.Room, "items", len(candidate.Items))

	session := order.NewSession(order.NewValidator(d.catalog), order.NewSuggestionResolver(d.catalog), candidate)

	res, err := session.Validate()
	if err != nil {
		return order.Confirmed{}, fmt.Errorf("initial validation: %w", err)
	}

	for round := 1; session.State() == order.StateAwaitingChoice; round++ {
		if round > d.maxRounds {
			session.Abandon()
			d.logRound(roomservice.RoundLog{
				Round:     round,
				Timestamp: time.Now(),
				State:     string(session.State()),
				Revision:  session.Candidate().Revision,
				Error:     ErrRoundsExhausted.Error(),
			})
			return order.Confirmed{}, ErrRoundsExhausted
		}

		roundLog := roomservice.RoundLog{
			Round:      round,
			Timestamp:  time.Now(),
			State:      string(session.State()),
			Revision:   session.Candidate().Revision,
			Violations: res,
			Offers:     session.Offers(),
		}

		next, choiceLog, err := d.nextChoice(ctx, session, res)
		roundLog.Choice = choiceLog
		if err != nil {
			session.Abandon()
			roundLog.Error = err.Error()
			d.logRound(roundLog)
			return order.Confirmed{}, err
		}

		if next.Equal(res) {
			session.Abandon()
			roundLog.Error = ErrStalled.Error()
			d.logRound(roundLog)
			return order.Confirmed{}, ErrStalled
		}

		d.logRound(roundLog)
		res = next
	}

	if session.State() != order.StateConfirmed {
		return order.Confirmed{}, fmt.Errorf("session ended in state %q", session.State())
	}

	confirmed, err := order.NewFinalizer(d.catalog, d.placer).Finalize(ctx, session.Candidate())
	if err != nil {
		return order.Confirmed{}, err
	}

	slog.Info("DRIVER: Order confirmed",
		"order_id", confirmed.OrderID,
		"room", confirmed.Room,
		"total", confirmed.Total,
		"revisions", session.Candidate().Revision,
	)
	return confirmed, nil
}

// nextChoice collects one decision from the guest and applies it. Room
// violations are re-collected first since every item check is moot until the
// order has somewhere to go.
func (d *Driver) nextChoice(ctx context.Context, session *order.Session, res order.Result) (order.Result, *roomservice.ChoiceLog, error) {
	if res.Room != nil {
		current := session.Candidate().Room
		room, err := d.guest.Room(ctx, current, *res.Room)
		if err != nil {
			return order.Result{}, nil, fmt.Errorf("collect room number: %w", err)
		}
		slog.Info("DRIVER: Room re-collected", "old", current, "new", room)
		next, err := session.UpdateRoom(room)
		if err != nil {
			return order.Result{}, nil, err
		}
		return next, &roomservice.ChoiceLog{ItemIndex: -1, Kind: "update_room", Target: room}, nil
	}

	// One violating item per round, lowest position first so rounds are
	// deterministic and every item eventually gets its turn.
	indexes := make([]int, 0, len(res.Items))
	for i := range res.Items {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	for _, i := range indexes {
		opts := session.Offers()[i]
		if len(opts) == 0 {
			continue
		}
		item := session.Candidate().Items[i]
		picked, err := d.guest.Choose(ctx, item, res.Items[i], opts)
		if err != nil {
			return order.Result{}, nil, fmt.Errorf("collect choice for %q: %w", item.Name, err)
		}
		slog.Info("DRIVER: Guest chose", "item", item.Name, "kind", picked.Kind, "target", picked.Target)
		next, err := session.Apply(order.Choice{ItemIndex: i, Option: picked})
		if err != nil {
			return order.Result{}, nil, err
		}
		return next, &roomservice.ChoiceLog{ItemIndex: i, Kind: string(picked.Kind), Target: picked.Target}, nil
	}

	// Violations remain but nothing can be offered; the order has to be
	// re-taken from scratch.
	return order.Result{}, nil, fmt.Errorf("%w: %d unfixable violation(s)", ErrNoRemediation, len(res.Items))
}

// logRound logs a round using the configured logger, handling errors gracefully
func (d *Driver) logRound(round roomservice.RoundLog) {
	if d.logger != nil {
		if err := d.logger.LogRound(round); err != nil {
			slog.Error("Failed to log remediation round", "error", err, "round", round.Round)
		}
	}
}
