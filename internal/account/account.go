package account

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/internal/logger"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CashPrecision is the number of decimal places sale proceeds and valuations are rounded to.
const CashPrecision = 2

// Account is a paper broker account holding quote currency and at most one long position.
//
// Commission is charged asymmetrically: on a buy it is folded into a smaller share count
// while the full entry capital leaves buying power; on a sell it is subtracted from the proceeds.
type Account struct {
	initialCapital decimal.Decimal
	buyingPower    decimal.Decimal
	commission     decimal.Decimal

	activePosition  Position
	closedPositions []Position
	trades          []types.Trade
	equityCurve     []decimal.Decimal
	currentDate     time.Time

	newID   func() string
	log     *logger.Logger
	verbose bool
}

// Option configures an Account.
type Option func(*Account)

// WithCommission sets the commission rate charged on every order, e.g. 0.001 for 0.1%.
func WithCommission(rate decimal.Decimal) Option {
	return func(a *Account) {
		a.commission = rate
	}
}

// WithLogger sets the logger used for verbose order logging.
func WithLogger(log *logger.Logger) Option {
	return func(a *Account) {
		a.log = log
	}
}

// WithVerbose logs every executed order at debug level.
func WithVerbose(verbose bool) Option {
	return func(a *Account) {
		a.verbose = verbose
	}
}

// WithIDGenerator replaces the uuid generator used for trade and position ids.
func WithIDGenerator(fn func() string) Option {
	return func(a *Account) {
		a.newID = fn
	}
}

// NewAccount creates a paper account funded with initialCapital.
func NewAccount(initialCapital decimal.Decimal, opts ...Option) (*Account, error) {
	a := &Account{
		initialCapital:  initialCapital,
		buyingPower:     initialCapital,
		commission:      decimal.Zero,
		activePosition:  nil,
		closedPositions: []Position{},
		trades:          []types.Trade{},
		equityCurve:     []decimal.Decimal{},
		currentDate:     time.Time{},
		newID:           func() string { return uuid.New().String() },
		log:             logger.NewNopLogger(),
		verbose:         false,
	}

	for _, opt := range opts {
		opt(a)
	}

	if initialCapital.IsNegative() {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "initial capital cannot be negative, got %s", initialCapital)
	}

	if a.commission.IsNegative() {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "commission cannot be negative, got %s", a.commission)
	}

	return a, nil
}

// Buy spends entryCapital at entryPrice, opening a long position or adding to the active one.
func (a *Account) Buy(entryCapital, entryPrice decimal.Decimal, stopLoss optional.Option[decimal.Decimal]) error {
	if !entryCapital.IsPositive() {
		return errors.Newf(errors.ErrCodeInvalidParameter, "entry capital must be positive, got %s", entryCapital)
	}

	if entryPrice.IsNegative() {
		return errors.Newf(errors.ErrCodeInvalidParameter, "entry price cannot be negative, got %s", entryPrice)
	}

	if entryCapital.GreaterThan(a.buyingPower) {
		return errors.Newf(errors.ErrCodeInsufficientFunds,
			"not enough buying power to enter position: need %s, have %s", entryCapital, a.buyingPower)
	}

	effectivePrice := entryPrice
	if a.commission.IsPositive() {
		effectivePrice = entryPrice.Mul(decimal.NewFromInt(1).Add(a.commission))
	}

	if effectivePrice.IsZero() {
		return errors.New(errors.ErrCodeInvalidParameter, "entry price must be positive")
	}

	shares := entryCapital.Div(effectivePrice)

	a.buyingPower = a.buyingPower.Sub(entryCapital)

	if a.activePosition != nil {
		a.activePosition.Increase(shares)
	} else {
		position, err := NewPosition(types.PositionTypeLong, a.newID(), a.currentDate, shares)
		if err != nil {
			return err
		}

		a.activePosition = position
	}

	a.trades = append(a.trades, types.Trade{
		ID:         a.newID(),
		PositionID: a.activePosition.ID(),
		Time:       a.currentDate,
		Side:       types.PurchaseTypeBuy,
		Shares:     shares,
		Price:      entryPrice,
		StopLoss:   stopLoss,
	})

	if a.verbose {
		a.log.Debug("BUY ORDER",
			zap.Time("date", a.currentDate),
			zap.String("units", shares.String()),
			zap.String("price", entryPrice.String()),
		)
	}

	return nil
}

// Sell liquidates percent (0..1) of the active position at currentPrice.
func (a *Account) Sell(percent, currentPrice decimal.Decimal, stopLoss optional.Option[decimal.Decimal]) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(1)) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "percent must range between 0 and 1, got %s", percent)
	}

	if currentPrice.IsNegative() {
		return errors.Newf(errors.ErrCodeInvalidParameter, "current price cannot be negative, got %s", currentPrice)
	}

	if a.activePosition == nil {
		return errors.New(errors.ErrCodeNoActivePosition, "no active position, cannot sell yet")
	}

	quantity := a.activePosition.Shares().Mul(percent)

	a.trades = append(a.trades, types.Trade{
		ID:         a.newID(),
		PositionID: a.activePosition.ID(),
		Time:       a.currentDate,
		Side:       types.PurchaseTypeSell,
		Shares:     quantity,
		Price:      currentPrice,
		StopLoss:   stopLoss,
	})

	proceeds := a.activePosition.Close(percent, currentPrice)
	if a.commission.IsPositive() {
		proceeds = proceeds.Sub(proceeds.Mul(a.commission))
	}

	a.buyingPower = a.buyingPower.Add(proceeds.RoundBank(CashPrecision))

	if a.activePosition.Shares().IsZero() {
		a.activePosition.MarkClosed(a.currentDate)
		a.closedPositions = append(a.closedPositions, a.activePosition)
		a.activePosition = nil
	}

	if a.verbose {
		a.log.Debug("SELL ORDER",
			zap.Time("date", a.currentDate),
			zap.String("units", quantity.String()),
			zap.String("price", currentPrice.String()),
		)
	}

	return nil
}

// TotalValue returns the buying power the account would hold after selling everything at
// currentPrice. The liquidation runs on a private copy, so the ledger is left untouched.
func (a *Account) TotalValue(currentPrice decimal.Decimal) (decimal.Decimal, error) {
	if currentPrice.IsNegative() {
		return decimal.Zero, errors.Newf(errors.ErrCodeInvalidParameter, "current price cannot be negative, got %s", currentPrice)
	}

	temporary := a.clone()
	if temporary.activePosition != nil {
		if err := temporary.Sell(decimal.NewFromInt(1), currentPrice, optional.None[decimal.Decimal]()); err != nil {
			return decimal.Zero, err
		}
	}

	return temporary.buyingPower.RoundBank(CashPrecision), nil
}

// RecordEquity appends the mark-to-market value at price to the equity curve and returns it.
func (a *Account) RecordEquity(price decimal.Decimal) (decimal.Decimal, error) {
	equity, err := a.TotalValue(price)
	if err != nil {
		return decimal.Zero, err
	}

	a.equityCurve = append(a.equityCurve, equity)

	return equity, nil
}

// TriggeredStopLoss returns the price at which a stop-loss attached to a trade of the active
// position is breached by bar. Trades of closed positions are never considered.
func (a *Account) TriggeredStopLoss(bar types.MarketData) optional.Option[decimal.Decimal] {
	if a.activePosition == nil {
		return optional.None[decimal.Decimal]()
	}

	positionID := a.activePosition.ID()
	for _, trade := range a.trades {
		if trade.PositionID != positionID {
			continue
		}

		if price, hit := trade.StopTriggered(bar); hit {
			return optional.Some(price)
		}
	}

	return optional.None[decimal.Decimal]()
}

// SettleBar marks the account to market at bar's close and, when bar breaches the active
// stop-loss, liquidates the whole position at the breach price. The forced sell carries the
// current date, which the engines have not yet advanced to bar. It returns the fill price
// of the forced sell, if any.
func (a *Account) SettleBar(bar types.MarketData) (optional.Option[decimal.Decimal], error) {
	if _, err := a.RecordEquity(decimal.NewFromFloat(bar.Close)); err != nil {
		return optional.None[decimal.Decimal](), err
	}

	stop, err := a.TriggeredStopLoss(bar).Take()
	if err != nil {
		return optional.None[decimal.Decimal](), nil
	}

	if err := a.Sell(decimal.NewFromInt(1), stop, optional.None[decimal.Decimal]()); err != nil {
		return optional.None[decimal.Decimal](), err
	}

	return optional.Some(stop), nil
}

func (a *Account) clone() *Account {
	c := &Account{
		initialCapital:  a.initialCapital,
		buyingPower:     a.buyingPower,
		commission:      a.commission,
		activePosition:  nil,
		closedPositions: make([]Position, len(a.closedPositions)),
		trades:          slices.Clone(a.trades),
		equityCurve:     slices.Clone(a.equityCurve),
		currentDate:     a.currentDate,
		// the copy must not consume ids from a shared generator
		newID:   func() string { return "" },
		log:     logger.NewNopLogger(),
		verbose: false,
	}

	if a.activePosition != nil {
		c.activePosition = a.activePosition.clone()
	}

	for i, p := range a.closedPositions {
		c.closedPositions[i] = p.clone()
	}

	return c
}

func (a *Account) InitialCapital() decimal.Decimal {
	return a.initialCapital
}

func (a *Account) BuyingPower() decimal.Decimal {
	return a.buyingPower
}

func (a *Account) Commission() decimal.Decimal {
	return a.commission
}

// Shares returns the quantity held in the active position, or zero.
func (a *Account) Shares() decimal.Decimal {
	if a.activePosition == nil {
		return decimal.Zero
	}

	return a.activePosition.Shares()
}

func (a *Account) CurrentDate() time.Time {
	return a.currentDate
}

// SetCurrentDate sets the date stamped on trades and positions created from now on.
func (a *Account) SetCurrentDate(t time.Time) {
	a.currentDate = t
}

func (a *Account) ActivePosition() optional.Option[types.Position] {
	if a.activePosition == nil {
		return optional.None[types.Position]()
	}

	return optional.Some(a.activePosition.Snapshot())
}

func (a *Account) ClosedPositions() []types.Position {
	out := make([]types.Position, len(a.closedPositions))
	for i, p := range a.closedPositions {
		out[i] = p.Snapshot()
	}

	return out
}

// Trades returns a copy of the trade log in execution order.
func (a *Account) Trades() []types.Trade {
	return slices.Clone(a.trades)
}

// EquityCurve returns a copy of the recorded per-bar equity values.
func (a *Account) EquityCurve() []decimal.Decimal {
	return slices.Clone(a.equityCurve)
}
