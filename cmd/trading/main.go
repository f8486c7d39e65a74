package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rxtech-lab/argo-ledger/internal/logger"
	"github.com/rxtech-lab/argo-ledger/internal/strategy"
	"github.com/rxtech-lab/argo-ledger/internal/trading/engine"
	enginev1 "github.com/rxtech-lab/argo-ledger/internal/trading/engine/engine_v1"
	tradingprovider "github.com/rxtech-lab/argo-ledger/internal/trading/provider"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/marketdata/provider"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func tradingAction(ctx context.Context, cmd *cli.Command) error {
	if err := loadEnv(cmd.String("env-file")); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	log, err := logger.NewLoggerWithLevel(logger.ParseLevel(cmd.String("log-level")))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	params := ""
	if path := cmd.String("strategy-params"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read strategy params: %w", err)
		}

		params = string(data)
	}

	s, err := strategy.NewStrategy(cmd.String("strategy"), params)
	if err != nil {
		return err
	}

	brokerType := tradingprovider.ProviderType(cmd.String("broker"))

	config, err := brokerConfig(brokerType, brokerFlags{
		capital:    cmd.Float("capital"),
		commission: cmd.Float("commission"),
		baseAsset:  cmd.String("base-asset"),
		quoteAsset: cmd.String("quote-asset"),
		precision:  int(cmd.Int("quantity-precision")),
	}, os.Getenv)
	if err != nil {
		return err
	}

	broker, err := tradingprovider.NewBroker(ctx, brokerType, config,
		tradingprovider.WithLogger(log),
		tradingprovider.WithVerbose(cmd.Bool("verbose")),
	)
	if err != nil {
		return err
	}

	streamConfig, err := marketDataConfig(marketDataFlags{
		provider:   cmd.String("market-data"),
		configFile: cmd.String("market-data-config"),
		symbol:     cmd.String("symbol"),
		interval:   cmd.String("interval"),
	}, os.Getenv)
	if err != nil {
		return err
	}

	marketData, err := streamConfig.NewProvider()
	if err != nil {
		return err
	}

	stream := streamConfig.Base()

	eng, err := enginev1.NewLiveTradingEngineV1(enginev1.WithLogger(log))
	if err != nil {
		return err
	}

	if err := eng.Initialize(engine.LiveTradingEngineConfig{
		Symbol:              stream.Symbols[0],
		Interval:            stream.Interval,
		MarketDataCacheSize: int(cmd.Int("cache-size")),
		HistoryStart:        cmd.Timestamp("history-start"),
	}); err != nil {
		return err
	}

	if err := eng.LoadStrategy(s); err != nil {
		return err
	}

	if err := eng.SetMarketDataProvider(marketData); err != nil {
		return err
	}

	if err := eng.SetBroker(broker); err != nil {
		return err
	}

	onStart := engine.OnEngineStartCallback(func(symbol string, interval string, historyBars int) error {
		fmt.Printf("Trading %s on %s candles with %s (%d history bars)\n", symbol, interval, s.Name(), historyBars)

		return nil
	})
	onMarketData := engine.OnMarketDataCallback(func(data types.MarketData) error {
		fmt.Printf("[%s] %s: O=%.4f H=%.4f L=%.4f C=%.4f V=%.2f | shares=%s buying power=%s\n",
			data.Time.Format(time.TimeOnly), data.Symbol,
			data.Open, data.High, data.Low, data.Close, data.Volume,
			broker.Shares().String(), broker.BuyingPower().StringFixed(2))

		return nil
	})
	onError := engine.OnErrorCallback(func(err error) {
		fmt.Printf("Error: %v\n", err)
	})
	onStrategyError := engine.OnStrategyErrorCallback(func(data types.MarketData, err error) error {
		log.Warn("Strategy failed", zap.Time("time", data.Time), zap.Error(err))

		if cmd.Bool("stop-on-error") {
			return err
		}

		return nil
	})

	err = eng.Run(ctx, engine.LiveTradingCallbacks{
		OnEngineStart:   &onStart,
		OnEngineStop:    nil,
		OnMarketData:    &onMarketData,
		OnError:         &onError,
		OnStrategyError: &onStrategyError,
	})
	if errors.Is(err, context.Canceled) {
		fmt.Println("Trading stopped")

		return nil
	}

	return err
}

func main() {
	cmd := &cli.Command{
		Name:  "trading",
		Usage: "Run a strategy against live closed candles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "symbol",
				Usage: "Symbol to trade e.g. BTCUSDT",
			},
			&cli.StringFlag{
				Name:  "interval",
				Usage: "Candle interval e.g. 1m, 1h",
				Value: "1m",
			},
			&cli.StringFlag{
				Name:  "strategy",
				Usage: fmt.Sprintf("Strategy to run (%s)", strings.Join(strategy.Names(), ", ")),
				Value: strategy.NameBuyAndHold,
			},
			&cli.StringFlag{
				Name:  "strategy-params",
				Usage: "Path to a YAML or JSON strategy config `FILE`",
			},
			&cli.StringFlag{
				Name:  "broker",
				Usage: fmt.Sprintf("Broker to send orders to (%s)", strings.Join(tradingprovider.GetSupportedProviders(), ", ")),
				Value: string(tradingprovider.ProviderPaper),
			},
			&cli.FloatFlag{
				Name:  "capital",
				Usage: "Initial capital of the paper account",
				Value: 10000,
			},
			&cli.FloatFlag{
				Name:  "commission",
				Usage: "Commission rate of the paper account",
			},
			&cli.StringFlag{
				Name:  "base-asset",
				Usage: "Base asset for exchange brokers e.g. BTC",
			},
			&cli.StringFlag{
				Name:  "quote-asset",
				Usage: "Quote asset for exchange brokers e.g. USDT",
			},
			&cli.IntFlag{
				Name:  "quantity-precision",
				Usage: "Decimals exchange order quantities are truncated to",
				Value: tradingprovider.DefaultQuantityPrecision,
			},
			&cli.StringFlag{
				Name:  "market-data",
				Usage: "Market data provider (binance, polygon)",
				Value: string(provider.ProviderBinance),
			},
			&cli.StringFlag{
				Name:  "market-data-config",
				Usage: "JSON market data config `FILE`; replaces the symbol and interval flags",
			},
			&cli.IntFlag{
				Name:  "cache-size",
				Usage: "Number of bars kept for the strategy",
				Value: enginev1.DefaultMarketDataCacheSize,
			},
			&cli.TimestampFlag{
				Name:  "history-start",
				Usage: "Fetch history from this time instead of the latest bars",
				Config: cli.TimestampConfig{
					Layouts: []string{time.RFC3339, "2006-01-02"},
				},
			},
			&cli.BoolFlag{
				Name:  "stop-on-error",
				Usage: "Stop trading on the first strategy error",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log every order",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env `FILE` with exchange credentials",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
		},
		Action: tradingAction,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
