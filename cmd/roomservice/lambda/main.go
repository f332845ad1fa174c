package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"roomservice"
	"roomservice/catalog"
	"roomservice/catalog/storage"
	"roomservice/driver"
	"roomservice/driver/mock"
	"roomservice/kitchen"
	"roomservice/order"
	"roomservice/tools"
)

type Params struct {
	Room  string           `json:"room"`
	Items []order.LineItem `json:"items"`
}

type Results struct {
	Receipt roomservice.Receipt `json:"receipt"`
}

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
		var svcConfig roomservice.ServiceConfig
		if err := envdecode.Decode(&svcConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		// S3 config from env
		s3Bucket := os.Getenv("ARTIFACTS_S3_BUCKET")
		menuKey := os.Getenv("ARTIFACTS_MENU_S3_KEY")
		if s3Bucket == "" || menuKey == "" {
			return Results{}, fmt.Errorf("missing S3 config: ARTIFACTS_S3_BUCKET, ARTIFACTS_MENU_S3_KEY must be set")
		}

		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return Results{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		s3Client := s3.NewFromConfig(awsCfg)

		cat, err := catalog.Load(ctx, storage.NewS3MenuState(s3Client, s3Bucket, menuKey))
		if err != nil {
			slog.Error("SETUP: Failed to load menu from S3", "error", err)
			return Results{}, err
		}
		slog.Info("SETUP: Menu loaded from S3", "items", len(cat.Items()))

		api := kitchen.NewAPI(kitchen.Options{
			SimulateFailures: svcConfig.SimulateFailures,
			SimulateLatency:  svcConfig.SimulateLatency,
		})

		if len(params.Items) == 0 {
			return Results{}, fmt.Errorf("event carries no order items")
		}

		registry, err := tools.NewRegistry(cat, api)
		if err != nil {
			return Results{}, fmt.Errorf("failed to build tool registry: %w", err)
		}

		candidate := order.NewCandidate(params.Room, params.Items)
		if err := logIncomingOrder(ctx, registry, candidate); err != nil {
			slog.Warn("SETUP: Incoming order pre-check failed", "error", err)
		}

		confirmed, err := driver.New(
			cat,
			api,
			mock.NewGuest(),
			svcConfig.MaxRounds,
			roomservice.NewStdoutSessionLogger(),
		).Run(ctx, candidate)
		if err != nil {
			slog.Error("RESULT: Order not placed", "error", err)
			return Results{}, err
		}

		return Results{Receipt: roomservice.NewReceipt(confirmed)}, nil
	}

	lambda.Start(fn)
}

// logIncomingOrder runs the raw event order through the order_validate tool so
// the initial violation picture lands in the logs before remediation starts.
func logIncomingOrder(ctx context.Context, tp roomservice.ToolProvider, c order.Candidate) error {
	tool, err := tp.GetTool("order_validate")
	if err != nil {
		return err
	}
	out, err := tool.Run(ctx, map[string]any{"room": c.Room, "items": c.Items})
	if err != nil {
		return err
	}
	slog.Info("SETUP: Incoming order checked", "room", c.Room, "valid", out["valid"])
	return nil
}
