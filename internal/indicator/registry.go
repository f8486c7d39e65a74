package indicator

import (
	"slices"
	"sync"

	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// IndicatorRegistry manages the indicators a strategy works with.
type IndicatorRegistry interface {
	RegisterIndicator(indicator Indicator) error
	GetIndicator(name types.IndicatorType) (Indicator, error)
	// ListIndicators returns the registered names in registration order.
	ListIndicators() []types.IndicatorType
	RemoveIndicator(name types.IndicatorType) error
	// All returns the registered indicators in registration order.
	All() []Indicator
}

// IndicatorRegistryV1 manages all available indicators.
type IndicatorRegistryV1 struct {
	indicators map[types.IndicatorType]Indicator
	order      []types.IndicatorType
	mu         sync.RWMutex
}

// NewIndicatorRegistry creates a new indicator registry.
func NewIndicatorRegistry() IndicatorRegistry {
	return &IndicatorRegistryV1{
		indicators: make(map[types.IndicatorType]Indicator),
		order:      []types.IndicatorType{},
		mu:         sync.RWMutex{},
	}
}

// RegisterIndicator adds an indicator to the registry.
func (r *IndicatorRegistryV1) RegisterIndicator(indicator Indicator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := indicator.Name()
	if _, exists := r.indicators[name]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "indicator with name %s already registered", name)
	}

	r.indicators[name] = indicator
	r.order = append(r.order, name)

	return nil
}

// GetIndicator retrieves an indicator by name.
func (r *IndicatorRegistryV1) GetIndicator(name types.IndicatorType) (Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indicator, exists := r.indicators[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator with name %s not found", name)
	}

	return indicator, nil
}

// ListIndicators returns a list of all registered indicator names.
func (r *IndicatorRegistryV1) ListIndicators() []types.IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

// RemoveIndicator removes an indicator from the registry.
func (r *IndicatorRegistryV1) RemoveIndicator(name types.IndicatorType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.indicators[name]; !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator with name %s not found", name)
	}

	delete(r.indicators, name)
	r.order = slices.DeleteFunc(r.order, func(n types.IndicatorType) bool { return n == name })

	return nil
}

func (r *IndicatorRegistryV1) All() []Indicator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Indicator, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.indicators[name])
	}

	return out
}

// ComputeAll rebuilds every registered indicator over bars.
func ComputeAll(r IndicatorRegistry, bars []types.MarketData) error {
	for _, ind := range r.All() {
		if err := ind.Compute(bars); err != nil {
			return errors.Wrapf(errors.ErrCodeIndicatorCalculation, err, "failed to compute %s", ind.Name())
		}
	}

	return nil
}

// UpdateAll appends one value to every registered indicator for the last bar of bars.
func UpdateAll(r IndicatorRegistry, bars []types.MarketData) error {
	for _, ind := range r.All() {
		if err := ind.Update(bars); err != nil {
			return errors.Wrapf(errors.ErrCodeIndicatorCalculation, err, "failed to update %s", ind.Name())
		}
	}

	return nil
}

// SetLookbackAll limits every registered indicator's lookback to n values.
func SetLookbackAll(r IndicatorRegistry, n int) {
	for _, ind := range r.All() {
		ind.SetLookback(n)
	}
}

// TrimAll keeps at most keep values in every registered indicator.
func TrimAll(r IndicatorRegistry, keep int) {
	for _, ind := range r.All() {
		ind.Trim(keep)
	}
}
