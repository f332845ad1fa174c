package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"roomservice"
	"roomservice/catalog"
	"roomservice/catalog/storage"
	"roomservice/driver"
	"roomservice/driver/mock"
	"roomservice/extract"
	"roomservice/kitchen"
	"roomservice/notify"
)

var rootCmd = &cobra.Command{
	Use:   "roomservice [utterance]",
	Short: "Takes, validates, and places a hotel room service order",
	Long: `roomservice runs one guest order end to end: it extracts an order from the
utterance, validates it against the menu and room constraints, walks the guest
through fixing anything invalid, and places the clean order with the kitchen.

The utterance follows a small grammar:

  room 312: 1 Club Sandwich with extra bacon, no tomato; 2 Still Water`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), args)
	},
}

func init() {
	rootCmd.Flags().String("menu", "", "Menu JSON file path (built-in menu when empty)")
	rootCmd.Flags().Int("max-rounds", 5, "Maximum remediation rounds before abandoning the order")
	rootCmd.Flags().String("webhook", "", "Kitchen webhook URL for order confirmations")
	rootCmd.Flags().String("station", "#kitchen", "Kitchen station to notify")
	rootCmd.Flags().Bool("interactive", false, "Collect remediation choices from stdin instead of auto-accepting")
	rootCmd.Flags().Bool("simulate-failures", false, "Randomly reject a fraction of placements")
	rootCmd.Flags().Bool("simulate-latency", false, "Add latency to placements")
	rootCmd.Flags().Bool("debug", false, "Dump the confirmed order before printing the receipt")

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.BindPFlags(rootCmd.Flags()) // nolint: errcheck
}

func run(ctx context.Context, args []string) error {
	var svcConfig roomservice.ServiceConfig
	if err := envdecode.Decode(&svcConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	cat, err := loadCatalog(ctx, viper.GetString("menu"))
	if err != nil {
		slog.Error("SETUP: Failed to load menu", "error", err)
		return err
	}
	slog.Info("SETUP: Menu loaded", "items", len(cat.Items()))

	utterance := strings.Join(args, " ")
	if utterance == "" {
		utterance = "room 312: 1 Club Sandwich with extra bacon, no tomato; 2 Still Water"
	}

	candidate, err := extract.NewMock().Extract(ctx, utterance)
	if err != nil {
		slog.Error("SETUP: Failed to extract order", "error", err)
		return err
	}

	api := kitchen.NewAPI(kitchen.Options{
		SimulateFailures: viper.GetBool("simulate-failures") || svcConfig.SimulateFailures,
		SimulateLatency:  viper.GetBool("simulate-latency") || svcConfig.SimulateLatency,
	})

	var guest driver.ChoiceSource = mock.NewGuest()
	if viper.GetBool("interactive") {
		guest = newStdinGuest(os.Stdin, os.Stdout)
	}

	logger, cleanup, err := newSessionLogger(candidate.Room)
	if err != nil {
		slog.Error("SETUP: Failed to create session logger", "error", err)
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("Failed to flush session log", "error", err)
		}
	}()

	maxRounds := viper.GetInt("max-rounds")
	if maxRounds <= 0 {
		maxRounds = svcConfig.MaxRounds
	}

	confirmed, err := driver.New(cat, api, guest, maxRounds, logger).Run(ctx, candidate)
	if err != nil {
		slog.Error("RESULT: Order not placed", "error", err)
		return err
	}

	if viper.GetBool("debug") {
		roomservice.Dump(confirmed)
	}

	receipt := roomservice.NewReceipt(confirmed)
	if !receipt.IsValid() {
		return fmt.Errorf("confirmed order produced an incomplete receipt")
	}
	fmt.Println(receipt.String())

	if webhook := firstNonEmpty(viper.GetString("webhook"), svcConfig.WebhookURL); webhook != "" {
		station := firstNonEmpty(viper.GetString("station"), svcConfig.NotifyStation)
		client := notify.NewClient(webhook, http.DefaultClient)
		if err := client.PostMessage(ctx, station, receipt.String()); err != nil {
			slog.Error("Failed to notify kitchen station", "error", err)
		}
	}

	return nil
}

func loadCatalog(ctx context.Context, menuPath string) (*catalog.Catalog, error) {
	if menuPath == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(ctx, storage.NewFileMenuState(menuPath))
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

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
