package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewAndNewf() {
	err := New(ErrCodeInsufficientFunds, "not enough buying power")
	suite.Equal(ErrCodeInsufficientFunds, err.Code)
	suite.Equal("not enough buying power", err.Message)
	suite.Nil(err.Cause)
	suite.Equal("[503] not enough buying power", err.Error())

	errf := Newf(ErrCodeInvalidParameter, "percent must be between 0 and 1, got %s", "1.5")
	suite.Equal("percent must be between 0 and 1, got 1.5", errf.Message)
	suite.Equal("[100] percent must be between 0 and 1, got 1.5", errf.Error())
}

func (suite *ErrorTestSuite) TestWrapKeepsCause() {
	cause := errors.New("connection reset")
	err := Wrap(ErrCodeProviderError, "failed to place order", cause)
	suite.Equal(cause, err.Unwrap())
	suite.True(Is(err, cause))
	suite.Equal("[706] failed to place order: connection reset", err.Error())

	errf := Wrapf(ErrCodeSymbolNotFound, cause, "no market for %s/%s", "BTC", "USDT")
	suite.Equal("no market for BTC/USDT", errf.Message)
	suite.Equal(cause, errf.Cause)
}

func (suite *ErrorTestSuite) TestGetCode() {
	suite.Equal(ErrCodeNoActivePosition, GetCode(New(ErrCodeNoActivePosition, "nothing held")))
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("plain")))

	inner := New(ErrCodeNoActivePosition, "nothing held")
	outer := Wrap(ErrCodeStrategyRuntimeError, "strategy failed", inner)
	suite.Equal(ErrCodeStrategyRuntimeError, GetCode(outer))

	// fmt wrapping still exposes the structured error
	suite.Equal(ErrCodeNoActivePosition, GetCode(fmt.Errorf("bar 3: %w", inner)))
}

func (suite *ErrorTestSuite) TestHasCodeAndAs() {
	err := New(ErrCodeInvalidPeriod, "period must be positive")
	suite.True(HasCode(err, ErrCodeInvalidPeriod))
	suite.False(HasCode(err, ErrCodeInvalidParameter))

	var structured *Error
	suite.True(As(err, &structured))
	suite.Equal(ErrCodeInvalidPeriod, structured.Code)
}

func (suite *ErrorTestSuite) TestIsLedgerError() {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "invalid argument", err: New(ErrCodeInvalidParameter, "bad"), expected: true},
		{name: "insufficient funds", err: New(ErrCodeInsufficientFunds, "bad"), expected: true},
		{name: "no active position", err: New(ErrCodeNoActivePosition, "bad"), expected: true},
		{name: "unsupported position", err: New(ErrCodeUnsupportedPosition, "bad"), expected: true},
		{name: "provider error", err: New(ErrCodeProviderError, "bad"), expected: false},
		{name: "plain error", err: errors.New("bad"), expected: false},
		{name: "nil", err: nil, expected: false},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, IsLedgerError(tc.err))
		})
	}
}

func (suite *ErrorTestSuite) TestErrorCodeRanges() {
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidParameter)
	suite.Equal(ErrorCode(200), ErrCodeDataNotFound)
	suite.Equal(ErrorCode(300), ErrCodeIndicatorNotFound)
	suite.Equal(ErrorCode(400), ErrCodeStrategyNotLoaded)
	suite.Equal(ErrorCode(500), ErrCodeOrderFailed)
	suite.Equal(ErrorCode(601), ErrCodeBacktestInitFailed)
	suite.Equal(ErrorCode(700), ErrCodeMarketDataFetchFailed)
	suite.Equal(ErrorCode(800), ErrCodeCallbackFailed)
}

func (suite *ErrorTestSuite) TestInsufficientDataError() {
	err := NewInsufficientDataErrorf(20, 5, "BTCUSDT", "bollinger bands need %d bars, got %d", 20, 5)
	suite.Equal(20, err.Required)
	suite.Equal(5, err.Actual)
	suite.Equal("BTCUSDT", err.Symbol)
	suite.Equal("bollinger bands need 20 bars, got 5", err.Error())

	suite.True(IsInsufficientDataError(fmt.Errorf("wrapped: %w", err)))
	suite.False(IsInsufficientDataError(New(ErrCodeInvalidParameter, "bad")))
	suite.False(IsInsufficientDataError(nil))

	plain := NewInsufficientDataError(14, 3, "", "rsi warming up")
	suite.Equal("rsi warming up", plain.Error())
}

func (suite *ErrorTestSuite) TestCategory() {
	suite.Equal("general", ErrCodeUnknown.Category())
	suite.Equal("validation", ErrCodeUnorderedData.Category())
	suite.Equal("ledger", ErrCodeInsufficientFunds.Category())
	suite.Equal("strategy", ErrCodeStrategyPanic.Category())
	suite.Equal("market_data", ErrCodeProviderError.Category())
	suite.Equal("callback", ErrCodeCallbackFailed.Category())
	suite.Equal("general", GetCode(fmt.Errorf("plain")).Category())
}
