package types

import "time"

// OutcomeStatus is the result of one strategy call.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
)

// BarOutcome records how the strategy fared on a single bar.
type BarOutcome struct {
	Index  int           `yaml:"index" json:"index"`
	Time   time.Time     `yaml:"time" json:"time"`
	Status OutcomeStatus `yaml:"status" json:"status"`
	Reason string        `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// NewBarOutcome builds the outcome for bar index from the strategy's error.
func NewBarOutcome(index int, t time.Time, err error) BarOutcome {
	if err == nil {
		return BarOutcome{Index: index, Time: t, Status: OutcomeSuccess, Reason: ""}
	}

	return BarOutcome{Index: index, Time: t, Status: OutcomeFailed, Reason: err.Error()}
}

// Failed reports whether the strategy call failed.
func (o BarOutcome) Failed() bool {
	return o.Status == OutcomeFailed
}

// CountFailures returns the number of failed outcomes.
func CountFailures(outcomes []BarOutcome) int {
	n := 0

	for _, o := range outcomes {
		if o.Failed() {
			n++
		}
	}

	return n
}
