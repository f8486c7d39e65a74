package account

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/shopspring/decimal"
)

// Position is one open holding owned by an Account.
// Implementations differ in how increasing and closing affect the holding.
type Position interface {
	ID() string
	Type() types.PositionType
	EntryDate() time.Time
	Shares() decimal.Decimal
	// Increase adds shares to the holding.
	Increase(shares decimal.Decimal)
	// Close reduces the holding by shares*percent and returns the proceeds at price.
	Close(percent, price decimal.Decimal) decimal.Decimal
	// MarkClosed stamps the close date once the holding is empty.
	MarkClosed(at time.Time)
	Snapshot() types.Position
	clone() Position
}

// NewPosition creates a position of the given variant.
// Only long positions are supported; short selling is outside the ledger's scope.
func NewPosition(positionType types.PositionType, id string, entryDate time.Time, shares decimal.Decimal) (Position, error) {
	switch positionType {
	case types.PositionTypeLong:
		return newLongPosition(id, entryDate, shares), nil
	case types.PositionTypeShort:
		return nil, errors.New(errors.ErrCodeUnsupportedPosition, "short positions are not supported")
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedPosition, "unknown position type %q", positionType)
	}
}

// LongPosition is a long holding that can be grown and partially sold.
type LongPosition struct {
	id           string
	entryDate    time.Time
	closeDate    optional.Option[time.Time]
	shares       decimal.Decimal
	sharesBought decimal.Decimal
}

func newLongPosition(id string, entryDate time.Time, shares decimal.Decimal) *LongPosition {
	return &LongPosition{
		id:           id,
		entryDate:    entryDate,
		closeDate:    optional.None[time.Time](),
		shares:       shares,
		sharesBought: shares,
	}
}

func (p *LongPosition) ID() string {
	return p.id
}

func (p *LongPosition) Type() types.PositionType {
	return types.PositionTypeLong
}

func (p *LongPosition) EntryDate() time.Time {
	return p.entryDate
}

func (p *LongPosition) Shares() decimal.Decimal {
	return p.shares
}

func (p *LongPosition) Increase(shares decimal.Decimal) {
	p.shares = p.shares.Add(shares)
	p.sharesBought = p.sharesBought.Add(shares)
}

func (p *LongPosition) Close(percent, price decimal.Decimal) decimal.Decimal {
	quantity := p.shares.Mul(percent)
	p.shares = p.shares.Sub(quantity)

	return quantity.Mul(price)
}

func (p *LongPosition) MarkClosed(at time.Time) {
	p.closeDate = optional.Some(at)
}

func (p *LongPosition) Snapshot() types.Position {
	return types.Position{
		ID:           p.id,
		Type:         types.PositionTypeLong,
		EntryDate:    p.entryDate,
		CloseDate:    p.closeDate,
		Shares:       p.shares,
		SharesBought: p.sharesBought,
	}
}

func (p *LongPosition) clone() Position {
	c := *p

	return &c
}
