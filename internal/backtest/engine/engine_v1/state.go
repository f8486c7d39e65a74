package engine

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/internal/backtest/engine"
	"github.com/rxtech-lab/argo-ledger/internal/logger"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BacktestState stores the results of one run in an in-memory DuckDB database so they can
// be queried and exported to parquet.
type BacktestState struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

func NewBacktestState(logger *logger.Logger) (*BacktestState, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to open results database", err)
	}

	return &BacktestState{
		logger: logger,
		db:     db,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the trades, equity, positions and outcomes tables
func (b *BacktestState) Initialize() error {
	_, err := b.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			id TEXT,
			position_id TEXT,
			symbol TEXT,
			time TIMESTAMP,
			side TEXT,
			shares DOUBLE,
			price DOUBLE,
			stop_loss DOUBLE
		);
		CREATE TABLE IF NOT EXISTS equity (
			bar INTEGER,
			time TIMESTAMP,
			close DOUBLE,
			equity DOUBLE
		);
		CREATE TABLE IF NOT EXISTS positions (
			id TEXT,
			symbol TEXT,
			type TEXT,
			entry_date TIMESTAMP,
			close_date TIMESTAMP,
			shares DOUBLE,
			shares_bought DOUBLE
		);
		CREATE TABLE IF NOT EXISTS outcomes (
			bar INTEGER,
			time TIMESTAMP,
			status TEXT,
			reason TEXT
		);
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create results tables", err)
	}

	return nil
}

func nullableDecimal(v optional.Option[decimal.Decimal]) any {
	d, err := v.Take()
	if err != nil {
		return nil
	}

	return d.InexactFloat64()
}

func nullableTime(v optional.Option[time.Time]) any {
	t, err := v.Take()
	if err != nil {
		return nil
	}

	return t
}

// Record inserts a finished run. bars must be the simulated bars the equity curve was recorded on.
func (b *BacktestState) Record(result *engine.Result, bars []types.MarketData) error {
	tx, err := b.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to begin transaction", err)
	}

	if err := b.insertAll(tx, result, bars); err != nil {
		_ = tx.Rollback()

		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to commit results", err)
	}

	return nil
}

func (b *BacktestState) insertAll(tx *sql.Tx, result *engine.Result, bars []types.MarketData) error {
	for _, trade := range result.Trades {
		_, err := b.sq.Insert("trades").
			Columns("id", "position_id", "symbol", "time", "side", "shares", "price", "stop_loss").
			Values(trade.ID, trade.PositionID, result.Symbol, trade.Time, string(trade.Side),
				trade.Shares.InexactFloat64(), trade.Price.InexactFloat64(), nullableDecimal(trade.StopLoss)).
			RunWith(tx).
			Exec()
		if err != nil {
			return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to insert trade", err)
		}
	}

	for i, equity := range result.EquityCurve {
		_, err := b.sq.Insert("equity").
			Columns("bar", "time", "close", "equity").
			Values(i, bars[i].Time, bars[i].Close, equity.InexactFloat64()).
			RunWith(tx).
			Exec()
		if err != nil {
			return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to insert equity", err)
		}
	}

	positions := result.ClosedPositions
	if active, err := result.ActivePosition.Take(); err == nil {
		positions = append(positions, active)
	}

	for _, p := range positions {
		_, err := b.sq.Insert("positions").
			Columns("id", "symbol", "type", "entry_date", "close_date", "shares", "shares_bought").
			Values(p.ID, result.Symbol, string(p.Type), p.EntryDate, nullableTime(p.CloseDate),
				p.Shares.InexactFloat64(), p.SharesBought.InexactFloat64()).
			RunWith(tx).
			Exec()
		if err != nil {
			return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to insert position", err)
		}
	}

	for _, o := range result.Outcomes {
		_, err := b.sq.Insert("outcomes").
			Columns("bar", "time", "status", "reason").
			Values(o.Index, o.Time, string(o.Status), o.Reason).
			RunWith(tx).
			Exec()
		if err != nil {
			return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to insert outcome", err)
		}
	}

	return nil
}

// GetAllTrades returns all recorded trades ordered by time
func (b *BacktestState) GetAllTrades() ([]types.Trade, error) {
	rows, err := b.sq.
		Select("id", "position_id", "time", "side", "shares", "price", "stop_loss").
		From("trades").
		OrderBy("time ASC").
		RunWith(b.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query trades", err)
	}
	defer rows.Close()

	var trades []types.Trade

	for rows.Next() {
		var (
			trade         types.Trade
			side          string
			shares, price float64
			stopLoss      sql.NullFloat64
		)

		if err := rows.Scan(&trade.ID, &trade.PositionID, &trade.Time, &side, &shares, &price, &stopLoss); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan trade", err)
		}

		trade.Side = types.PurchaseType(side)
		trade.Shares = decimal.NewFromFloat(shares)
		trade.Price = decimal.NewFromFloat(price)
		trade.StopLoss = optional.None[decimal.Decimal]()

		if stopLoss.Valid {
			trade.StopLoss = optional.Some(decimal.NewFromFloat(stopLoss.Float64))
		}

		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating trades", err)
	}

	return trades, nil
}

// CountRows returns the number of rows in one of the result tables.
func (b *BacktestState) CountRows(table string) (int, error) {
	var count int

	err := b.sq.Select("COUNT(*)").From(table).RunWith(b.db).QueryRow().Scan(&count)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to count %s", table)
	}

	return count, nil
}

// Cleanup resets the database state
func (b *BacktestState) Cleanup() error {
	// squirrel has no DROP syntax
	_, err := b.db.Exec(`
		DROP TABLE IF EXISTS trades;
		DROP TABLE IF EXISTS equity;
		DROP TABLE IF EXISTS positions;
		DROP TABLE IF EXISTS outcomes;
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to cleanup tables", err)
	}

	return b.Initialize()
}

// ResultFiles are the paths Write exported to.
type ResultFiles struct {
	Trades    string
	Equity    string
	Positions string
	Outcomes  string
}

// Write exports every table to a parquet file inside folder
func (b *BacktestState) Write(folder string) (ResultFiles, error) {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return ResultFiles{}, errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to create results folder", err)
	}

	files := ResultFiles{
		Trades:    filepath.Join(folder, "trades.parquet"),
		Equity:    filepath.Join(folder, "equity.parquet"),
		Positions: filepath.Join(folder, "positions.parquet"),
		Outcomes:  filepath.Join(folder, "outcomes.parquet"),
	}

	exports := []struct{ table, path string }{
		{"trades", files.Trades},
		{"equity", files.Equity},
		{"positions", files.Positions},
		{"outcomes", files.Outcomes},
	}

	for _, e := range exports {
		// squirrel does not support COPY
		if _, err := b.db.Exec(fmt.Sprintf(`COPY %s TO '%s' (FORMAT PARQUET)`, e.table, e.path)); err != nil {
			return ResultFiles{}, errors.Wrapf(errors.ErrCodeResultsWriteFailed, err, "failed to export %s to parquet", e.table)
		}
	}

	b.logger.Info("Successfully exported backtest results to Parquet files",
		zap.String("trades", files.Trades),
		zap.String("equity", files.Equity),
		zap.String("positions", files.Positions),
		zap.String("outcomes", files.Outcomes),
	)

	return files, nil
}

func (b *BacktestState) Close() error {
	return b.db.Close()
}
