package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-ledger/internal/logger"
	"github.com/rxtech-lab/argo-ledger/pkg/marketdata"
	"github.com/rxtech-lab/argo-ledger/pkg/marketdata/provider"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// progressReporter renders download progress as a percentage bar.
func progressReporter() func(current float64, total float64, message string) {
	var bar *progressbar.ProgressBar

	return func(current float64, total float64, message string) {
		if bar == nil {
			bar = progressbar.NewOptions(100,
				progressbar.OptionSetDescription(message),
				progressbar.OptionShowCount(),
				progressbar.OptionSetPredictTime(true),
			)
		}

		bar.Describe(message)

		if total > 0 {
			_ = bar.Set(int(current / total * 100))
		}
	}
}

// downloadAction parses arguments, sets up the market data client, and starts the download.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLoggerWithLevel(logger.ParseLevel(cmd.String("log-level")))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	config, err := downloadConfig(downloadFlags{
		provider:   cmd.String("provider"),
		configFile: cmd.String("config"),
		ticker:     cmd.String("ticker"),
		start:      cmd.Timestamp("start"),
		end:        cmd.Timestamp("end"),
		interval:   cmd.String("interval"),
		apiKey:     os.Getenv("POLYGON_API_KEY"),
	})
	if err != nil {
		return err
	}

	params, err := config.ToDownloadParams()
	if err != nil {
		return err
	}

	client, err := marketdata.NewClient(config.ToClientConfig(cmd.String("data")), progressReporter(), log)
	if err != nil {
		return err
	}

	log.Info("Starting download",
		zap.String("ticker", params.Ticker),
		zap.Time("start", params.StartDate),
		zap.Time("end", params.EndDate),
	)

	path, err := client.Download(ctx, params)
	if err != nil {
		return err
	}

	fmt.Printf("\nSaved %s bars to %s\n", params.Ticker, path)

	return nil
}

func providersAction(_ context.Context, cmd *cli.Command) error {
	for _, name := range marketdata.GetSupportedProviders() {
		info, err := marketdata.GetProviderInfo(name)
		if err != nil {
			return err
		}

		if cmd.Bool("schema") {
			schema, err := marketdata.GetDownloadConfigSchema(name)
			if err != nil {
				return err
			}

			fmt.Printf("%s download: %s\n", name, schema)

			streamSchema, err := provider.GetStreamConfigSchema(name)
			if err != nil {
				return err
			}

			fmt.Printf("%s stream: %s\n", name, streamSchema)

			continue
		}

		data, err := json.Marshal(info)
		if err != nil {
			return err
		}

		fmt.Println(string(data))
	}

	return nil
}

func main() {
	_ = godotenv.Load()

	providers := strings.Join(marketdata.GetSupportedProviders(), ", ")

	cmd := &cli.Command{
		Name:  "market",
		Usage: "Download historical market data",
		Commands: []*cli.Command{
			{
				Name:  "download",
				Usage: "Download bars to a parquet file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "provider",
						Aliases: []string{"p"},
						Usage:   fmt.Sprintf("Data provider to use (%s)", providers),
						Value:   string(marketdata.ProviderBinance),
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "JSON download config `FILE`; replaces the ticker, date and interval flags",
					},
					&cli.StringFlag{
						Name:    "ticker",
						Aliases: []string{"t"},
						Usage:   "Ticker symbol",
					},
					&cli.TimestampFlag{
						Name:    "start",
						Aliases: []string{"s"},
						Usage:   "Start date in `YYYY-MM-DD` format",
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02", time.RFC3339},
						},
					},
					&cli.TimestampFlag{
						Name:    "end",
						Aliases: []string{"e"},
						Usage:   "End date in `YYYY-MM-DD` format. Defaults to now.",
						Value:   time.Now(),
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02", time.RFC3339},
						},
					},
					&cli.StringFlag{
						Name:    "interval",
						Aliases: []string{"i"},
						Usage:   "Bar interval e.g. 1m, 1h, 1d",
						Value:   "1m",
					},
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "Path to the data output directory",
						Value:   "data",
					},
					&cli.StringFlag{
						Name:  "log-level",
						Usage: "Log level (debug, info, warn, error)",
						Value: "warn",
					},
				},
				Action: downloadAction,
			},
			{
				Name:  "providers",
				Usage: "List the supported providers",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "schema",
						Usage: "Print the download and stream config JSON schemas of each provider",
					},
				},
				Action: providersAction,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
