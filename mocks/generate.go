package mocks

//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/rxtech-lab/argo-ledger/internal/strategy Strategy
//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-ledger/internal/backtest/engine/engine_v1/datasource DataSource
//go:generate mockgen -destination=./mock_trading_broker.go -package=mocks github.com/rxtech-lab/argo-ledger/internal/trading/provider Broker
//go:generate mockgen -destination=./mock_market_data_provider.go -package=mocks github.com/rxtech-lab/argo-ledger/pkg/marketdata/provider Provider
