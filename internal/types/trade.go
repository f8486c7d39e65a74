package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// PurchaseType is the side of an executed order.
type PurchaseType string

const (
	PurchaseTypeBuy  PurchaseType = "BUY"
	PurchaseTypeSell PurchaseType = "SELL"
)

// Trade is the immutable record of one executed order.
// A trade is appended for every buy or sell, whether it opens, grows, reduces or closes a position.
type Trade struct {
	ID         string       `yaml:"id" json:"id" csv:"id"`
	PositionID string       `yaml:"position_id" json:"position_id" csv:"position_id"`
	Time       time.Time    `yaml:"time" json:"time" csv:"time"`
	Side       PurchaseType `yaml:"side" json:"side" csv:"side"`
	// Shares bought, or shares sold for a sell.
	Shares decimal.Decimal `yaml:"shares" json:"shares" csv:"shares"`
	Price  decimal.Decimal `yaml:"price" json:"price" csv:"price"`
	// StopLoss is the exit threshold attached to the order, if any.
	StopLoss optional.Option[decimal.Decimal] `yaml:"stop_loss" json:"stop_loss" csv:"stop_loss"`
}

// StopTriggered reports whether the bar breaches the trade's stop-loss and, if so,
// the bar price that breached it. A buy stop fires when the low reaches the stop,
// a sell stop when the high reaches it.
func (t Trade) StopTriggered(bar MarketData) (decimal.Decimal, bool) {
	stop, err := t.StopLoss.Take()
	if err != nil {
		return decimal.Zero, false
	}

	switch t.Side {
	case PurchaseTypeBuy:
		low := decimal.NewFromFloat(bar.Low)
		if low.LessThanOrEqual(stop) {
			return low, true
		}
	case PurchaseTypeSell:
		high := decimal.NewFromFloat(bar.High)
		if high.GreaterThanOrEqual(stop) {
			return high, true
		}
	}

	return decimal.Zero, false
}

// CountTrades returns the number of buy and sell trades.
func CountTrades(trades []Trade) (buys int, sells int) {
	for _, t := range trades {
		switch t.Side {
		case PurchaseTypeBuy:
			buys++
		case PurchaseTypeSell:
			sells++
		}
	}

	return buys, sells
}
