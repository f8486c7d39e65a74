package indicator

import (
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// intParam reads an integer parameter, accepting float64 as decoded from YAML or JSON.
func intParam(params []any, index int, name string) (int, error) {
	if index >= len(params) {
		return 0, errors.Newf(errors.ErrCodeMissingParameter, "missing %s parameter", name)
	}

	switch v := params[index].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter, expected int or float", name)
	}
}

// floatParam reads a float parameter, accepting ints.
func floatParam(params []any, index int, name string) (float64, error) {
	if index >= len(params) {
		return 0, errors.Newf(errors.ErrCodeMissingParameter, "missing %s parameter", name)
	}

	switch v := params[index].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter, expected float", name)
	}
}

// periodParam reads a strictly positive period.
func periodParam(params []any, index int, name string) (int, error) {
	period, err := intParam(params, index, name)
	if err != nil {
		return 0, err
	}

	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "%s must be a positive integer, got %d", name, period)
	}

	return period, nil
}

// expectParams checks the parameter count.
func expectParams(params []any, n int, usage string) error {
	if len(params) != n {
		return errors.Newf(errors.ErrCodeInvalidParameter, "Config expects %d parameter(s): %s", n, usage)
	}

	return nil
}
