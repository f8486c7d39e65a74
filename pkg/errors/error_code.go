package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInsufficientData     ErrorCode = 106
	ErrCodeInvalidType          ErrorCode = 107
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110
	ErrCodeInvalidMultiplier    ErrorCode = 111
	ErrCodeUnorderedData        ErrorCode = 120

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302

	// Strategy errors (400-499)
	ErrCodeStrategyNotLoaded    ErrorCode = 400
	ErrCodeStrategySetupFailed  ErrorCode = 401
	ErrCodeStrategyRuntimeError ErrorCode = 402
	ErrCodeUnsupportedStrategy  ErrorCode = 403
	ErrCodeVersionMismatch      ErrorCode = 404
	ErrCodeStrategyPanic        ErrorCode = 405

	// Ledger and trading errors (500-599)
	ErrCodeOrderFailed         ErrorCode = 500
	ErrCodeInsufficientFunds   ErrorCode = 503
	ErrCodeNoActivePosition    ErrorCode = 504
	ErrCodeUnsupportedPosition ErrorCode = 505

	// Backtest errors (600-699)
	ErrCodeBacktestInitFailed   ErrorCode = 601
	ErrCodeBacktestConfigError  ErrorCode = 602
	ErrCodeBacktestNoDatasource ErrorCode = 608
	ErrCodeResultsWriteFailed   ErrorCode = 609

	// Market data and provider errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidInterval       ErrorCode = 703
	ErrCodeInvalidProvider       ErrorCode = 704
	ErrCodeSymbolNotFound        ErrorCode = 705
	ErrCodeProviderError         ErrorCode = 706

	// Callback errors (800-899)
	ErrCodeCallbackFailed ErrorCode = 800
)

// Category names the range a code belongs to, e.g. "ledger" for 503.
func (c ErrorCode) Category() string {
	switch {
	case c >= 100 && c < 200:
		return "validation"
	case c >= 200 && c < 300:
		return "data"
	case c >= 300 && c < 400:
		return "indicator"
	case c >= 400 && c < 500:
		return "strategy"
	case c >= 500 && c < 600:
		return "ledger"
	case c >= 600 && c < 700:
		return "backtest"
	case c >= 700 && c < 800:
		return "market_data"
	case c >= 800 && c < 900:
		return "callback"
	default:
		return "general"
	}
}
