package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joeshaw/envdecode"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"roomservice"
	"roomservice/catalog"
	"roomservice/catalog/storage"
	"roomservice/driver"
	"roomservice/driver/mock"
	"roomservice/extract"
	"roomservice/kitchen"
	"roomservice/notify"
)

func main() {
	ctx := context.Background()

	var modelConfig roomservice.ModelConfig
	if err := envdecode.Decode(&modelConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var svcConfig roomservice.ServiceConfig
	if err := envdecode.Decode(&svcConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	cat, err := catalog.Load(ctx, storage.NewFileMenuState(svcConfig.MenuPath))
	if err != nil {
		slog.Error("SETUP: Failed to load menu", "error", err)
		return
	}
	slog.Info("SETUP: Menu loaded", "items", len(cat.Items()))

	utterance := argOr(1, "room 312: 1 Club Sandwich with extra bacon, no tomato; 2 Still Water")

	brc, err := newBedrockRuntimeClient(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to create Bedrock client", "error", err)
		return
	}

	extractor := extract.NewBedrock(brc, extract.BedrockOptions{
		ModelID:     modelConfig.ModelID,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
		TopP:        modelConfig.TopP,
	})

	candidate, err := extractor.Extract(ctx, utterance)
	if err != nil {
		slog.Error("SETUP: Failed to extract order", "error", err)
		return
	}

	logger, cleanup, err := newSessionLogger(candidate.Room)
	if err != nil {
		slog.Error("SETUP: Failed to create session logger", "error", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("Failed to flush session log", "error", err)
		}
	}()

	tracerProvider, meterProvider, otelShutdown, err := roomservice.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	tracer := tracerProvider.Tracer(roomservice.TracerNameDriver)
	ctx, span := tracer.Start(ctx, roomservice.TracerNameDriver, trace.WithAttributes(
		attribute.String("model.id", modelConfig.ModelID),
		attribute.Int("model.max_tokens", int(modelConfig.MaxTokens)),
		attribute.Float64("model.temperature", float64(modelConfig.Temperature)),
		attribute.Float64("model.top_p", float64(modelConfig.TopP)),
	))
	defer span.End()

	api := kitchen.NewAPI(kitchen.Options{
		SimulateFailures: svcConfig.SimulateFailures,
		SimulateLatency:  svcConfig.SimulateLatency,
	})

	confirmed, err := driver.NewInstrumentedDriver(
		cat,
		api,
		mock.NewGuest(),
		svcConfig.MaxRounds,
		logger,
		tracer,
		meterProvider.Meter(roomservice.TracerNameDriver),
	).Run(ctx, candidate)
	if err != nil {
		slog.Error("RESULT: Order not placed", "error", err)
		return
	}

	receipt := roomservice.NewReceipt(confirmed)

	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := new(bytes.Buffer)
		body.ReadFrom(r.Body) // nolint: errcheck
		slog.Info("FINAL: Received request",
			"method", r.Method,
			"path", r.URL.Path,
			"header", r.Header,
			"body", body.String(),
		)
		w.WriteHeader(http.StatusOK)
	}))
	defer testServer.Close()

	webhook := svcConfig.WebhookURL
	if webhook == "" {
		webhook = testServer.URL
	}

	client := notify.NewClient(webhook, http.DefaultClient)
	if err := client.PostMessage(ctx, svcConfig.NotifyStation, receipt.String()); err != nil {
		slog.Error("Failed to notify kitchen station", "error", err)
	}
}

func newBedrockRuntimeClient(ctx context.Context) (*bedrockruntime.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
	if err != nil {
		return nil, err
	}
	return bedrockruntime.NewFromConfig(awsCfg), nil
}

func argOr(i int, def string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return def
}

func newSessionLogger(room string) (roomservice.SessionLogger, func() error, error) {
	logFilePath := roomservice.NewSessionLogFilePath(room)
	if err := os.MkdirAll("./logs", 0755); err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to create log dir: %w", err)
	}
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := roomservice.NewFileSessionLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}
