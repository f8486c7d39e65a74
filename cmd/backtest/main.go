package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rxtech-lab/argo-ledger/internal/backtest/engine"
	backtestv1 "github.com/rxtech-lab/argo-ledger/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-ledger/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-ledger/internal/logger"
	"github.com/rxtech-lab/argo-ledger/internal/strategy"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

func readOptionalFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	if path := cmd.String("show"); path != "" {
		summary, err := showSavedRun(path)
		if err != nil {
			return err
		}

		fmt.Println(summary)

		return nil
	}

	if cmd.String("config") == "" || cmd.String("data") == "" {
		return fmt.Errorf("--config and --data are required unless --show is given")
	}

	log, err := logger.NewLoggerWithLevel(logger.ParseLevel(cmd.String("log-level")))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	config, err := os.ReadFile(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	params, err := readOptionalFile(cmd.String("strategy-params"))
	if err != nil {
		return fmt.Errorf("failed to read strategy params: %w", err)
	}

	s, err := strategy.NewStrategy(cmd.String("strategy"), params)
	if err != nil {
		return err
	}

	ds, err := datasource.NewDataSource(":memory:", log)
	if err != nil {
		return err
	}
	defer ds.Close()

	if err := ds.Initialize(cmd.String("data")); err != nil {
		return err
	}

	if err := checkSymbol(ds, string(config), log); err != nil {
		return err
	}

	backtester := backtestv1.NewBacktestEngineV1(backtestv1.WithLogger(log))
	if err := backtester.Initialize(string(config)); err != nil {
		return err
	}

	if err := backtester.LoadStrategy(s); err != nil {
		return err
	}

	if err := backtester.SetDataSource(ds); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar

	onStart := engine.OnBacktestStartCallback(func(totalBars int) error {
		if !cmd.Bool("quiet") {
			bar = progressbar.Default(int64(totalBars), "Backtesting "+s.Name())
		}

		return nil
	})
	onProcess := engine.OnProcessDataCallback(func(_ int, _ int) error {
		if bar != nil {
			return bar.Add(1)
		}

		return nil
	})
	onStrategyError := engine.OnStrategyErrorCallback(func(data types.MarketData, err error) {
		logStrategyError(log, data, err)
	})

	result, err := backtester.Run(ctx, engine.LifecycleCallbacks{
		OnBacktestStart: &onStart,
		OnBacktestEnd:   nil,
		OnProcessData:   &onProcess,
		OnStrategyError: &onStrategyError,
	})
	if bar != nil {
		_ = bar.Finish()
	}

	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(renderSummary(result.Stats))

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Simulate a strategy over historical bars",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the backtest engine YAML `FILE`",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the parquet or CSV bars `FILE`",
			},
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Usage:   fmt.Sprintf("Strategy to run (%s)", strings.Join(strategy.Names(), ", ")),
				Value:   strategy.NameBuyAndHold,
			},
			&cli.StringFlag{
				Name:  "strategy-params",
				Usage: "Path to a YAML or JSON strategy config `FILE`",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "warn",
			},
			&cli.StringFlag{
				Name:  "show",
				Usage: "Print the summary of a saved run's stats.yaml `FILE` instead of running a backtest",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Hide the progress bar",
			},
		},
		Action: backtestAction,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
