package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"roomservice"
	"roomservice/catalog"
	"roomservice/order"
)

// InstrumentedDriver is an instrumented version of the Driver with
// observability metrics around every remediation round.
type InstrumentedDriver struct {
	catalog   *catalog.Catalog
	placer    order.Placer
	guest     ChoiceSource
	maxRounds int
	logger    roomservice.SessionLogger
	tracer    trace.Tracer
	meter     metric.Meter
}

// NewInstrumentedDriver initializes a new instrumented driver.
func NewInstrumentedDriver(cat *catalog.Catalog, placer order.Placer, guest ChoiceSource, maxRounds int, log roomservice.SessionLogger, tracer trace.Tracer, meter metric.Meter) *InstrumentedDriver {
	return &InstrumentedDriver{
		catalog:   cat,
		placer:    placer,
		guest:     guest,
		maxRounds: maxRounds,
		logger:    log,
		tracer:    tracer,
		meter:     meter,
	}
}

// Run executes the remediation loop for a candidate order with full instrumentation.
func (d *InstrumentedDriver) Run(ctx context.Context, candidate order.Candidate) (order.Confirmed, error) {
	ctx, span := d.tracer.Start(ctx, "InstrumentedDriver.Run")
	defer span.End()

	slog.Info("DRIVER: Starting instrumented run", "room", candidate.Room, "items", len(candidate.Items))

	runsCounter, _ := d.meter.Int64Counter("driver_runs_total",
		metric.WithDescription("Total number of remediation runs started"))
	runsConfirmedCounter, _ := d.meter.Int64Counter("driver_runs_confirmed_total",
		metric.WithDescription("Total number of runs that ended in a confirmed order"))
	runsFailedCounter, _ := d.meter.Int64Counter("driver_runs_failed_total",
		metric.WithDescription("Total number of runs that were abandoned or failed"))
	roundsCounter, _ := d.meter.Int64Counter("remediation_rounds_total",
		metric.WithDescription("Total number of remediation rounds"))
	violationsCounter, _ := d.meter.Int64Counter("violations_total",
		metric.WithDescription("Total number of violations observed, by kind"))
	choicesCounter, _ := d.meter.Int64Counter("remediation_choices_total",
		metric.WithDescription("Total number of guest choices applied, by option kind"))
	stallsCounter, _ := d.meter.Int64Counter("remediation_stalls_total",
		metric.WithDescription("Total number of runs aborted because a choice made no progress"))

	violationsGauge, _ := d.meter.Int64Gauge("violations_open_count",
		metric.WithDescription("Number of open violations after the latest validation"))
	revisionGauge, _ := d.meter.Int64Gauge("candidate_revision",
		metric.WithDescription("Revision counter of the current candidate order"))

	runDurationHist, _ := d.meter.Float64Histogram("remediation_run_duration_seconds",
		metric.WithDescription("Total duration of a remediation run in seconds"))
	roundDurationHist, _ := d.meter.Float64Histogram("remediation_round_duration_seconds",
		metric.WithDescription("Duration of individual remediation rounds in seconds"))
	placementDurationHist, _ := d.meter.Float64Histogram("placement_duration_seconds",
		metric.WithDescription("Time spent placing the confirmed order with the kitchen"))

	runsCounter.Add(ctx, 1)
	runStart := time.Now()

	session := order.NewSession(order.NewValidator(d.catalog), order.NewSuggestionResolver(d.catalog), candidate)

	res, err := session.Validate()
	if err != nil {
		runsFailedCounter.Add(ctx, 1)
		span.SetStatus(codes.Error, "Initial validation failed")
		span.RecordError(err)
		return order.Confirmed{}, fmt.Errorf("initial validation: %w", err)
	}
	d.recordViolations(ctx, violationsCounter, violationsGauge, res)

	plain := &Driver{
		catalog:   d.catalog,
		placer:    d.placer,
		guest:     d.guest,
		maxRounds: d.maxRounds,
		logger:    d.logger,
	}

	for round := 1; session.State() == order.StateAwaitingChoice; round++ {
		roundStart := time.Now()
		ctx, span := d.tracer.Start(ctx, fmt.Sprintf("InstrumentedDriver.Run.Round.%d", round))
		defer span.End()

		roundsCounter.Add(ctx, 1)
		revisionGauge.Record(ctx, int64(session.Candidate().Revision))

		if round > d.maxRounds {
			session.Abandon()
			runsFailedCounter.Add(ctx, 1)
			span.SetStatus(codes.Error, "Rounds exhausted")
			plain.logRound(roomservice.RoundLog{
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

		next, choiceLog, err := plain.nextChoice(ctx, session, res)
		roundLog.Choice = choiceLog
		if err != nil {
			session.Abandon()
			roundLog.Error = err.Error()
			plain.logRound(roundLog)
			runsFailedCounter.Add(ctx, 1)
			span.SetStatus(codes.Error, "Choice collection failed")
			span.RecordError(err)
			return order.Confirmed{}, err
		}

		if choiceLog != nil {
			choicesCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("choice_kind", choiceLog.Kind),
			))
			span.AddEvent("Choice applied", trace.WithAttributes(
				attribute.String("choice_kind", choiceLog.Kind),
				attribute.Int("item_index", choiceLog.ItemIndex),
			))
		}

		if next.Equal(res) {
			stallsCounter.Add(ctx, 1)
			session.Abandon()
			roundLog.Error = ErrStalled.Error()
			plain.logRound(roundLog)
			runsFailedCounter.Add(ctx, 1)
			span.SetStatus(codes.Error, "Remediation stalled")
			return order.Confirmed{}, ErrStalled
		}

		plain.logRound(roundLog)
		res = next
		d.recordViolations(ctx, violationsCounter, violationsGauge, res)
		roundDurationHist.Record(ctx, time.Since(roundStart).Seconds())
	}

	if session.State() != order.StateConfirmed {
		runsFailedCounter.Add(ctx, 1)
		span.SetStatus(codes.Error, "Session ended without confirmation")
		return order.Confirmed{}, fmt.Errorf("session ended in state %q", session.State())
	}

	placeStart := time.Now()
	confirmed, err := order.NewFinalizer(d.catalog, d.placer).Finalize(ctx, session.Candidate())
	placementDurationHist.Record(ctx, time.Since(placeStart).Seconds())
	if err != nil {
		runsFailedCounter.Add(ctx, 1)
		span.SetStatus(codes.Error, "Placement failed")
		span.RecordError(err)
		return order.Confirmed{}, err
	}

	runsConfirmedCounter.Add(ctx, 1)
	runDurationHist.Record(ctx, time.Since(runStart).Seconds())

	span.AddEvent("Order confirmed", trace.WithAttributes(
		attribute.String("order_id", confirmed.OrderID),
		attribute.Float64("total", confirmed.Total),
		attribute.Int("revisions", session.Candidate().Revision),
	))

	slog.Info("DRIVER: Order confirmed",
		"order_id", confirmed.OrderID,
		"room", confirmed.Room,
		"total", confirmed.Total,
		"revisions", session.Candidate().Revision,
	)
	return confirmed, nil
}

func (d *InstrumentedDriver) recordViolations(ctx context.Context, counter metric.Int64Counter, gauge metric.Int64Gauge, res order.Result) {
	open := int64(len(res.Items))
	if res.Room != nil {
		open++
		counter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(res.Room.Kind))))
	}
	for _, v := range res.Items {
		counter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(v.Kind))))
	}
	gauge.Record(ctx, open)
}
