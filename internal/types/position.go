package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// PositionType tags the position variant.
type PositionType string

const (
	PositionTypeLong  PositionType = "LONG"
	PositionTypeShort PositionType = "SHORT"
)

// Position is a read-only snapshot of a ledger position handed to reporting.
type Position struct {
	ID        string                     `yaml:"id" json:"id" csv:"id"`
	Type      PositionType               `yaml:"type" json:"type" csv:"type"`
	EntryDate time.Time                  `yaml:"entry_date" json:"entry_date" csv:"entry_date"`
	CloseDate optional.Option[time.Time] `yaml:"close_date" json:"close_date" csv:"close_date"`
	Shares    decimal.Decimal            `yaml:"shares" json:"shares" csv:"shares"`
	// SharesBought is the total quantity added to the position over its lifetime.
	SharesBought decimal.Decimal `yaml:"shares_bought" json:"shares_bought" csv:"shares_bought"`
}

// IsClosed reports whether the position has been fully sold.
func (p Position) IsClosed() bool {
	return p.CloseDate.IsSome()
}
