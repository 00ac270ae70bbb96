package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoDataForSymbol means the provider returned nothing usable for a symbol.
	ErrNoDataForSymbol = errors.New("no data for symbol")
	// ErrNoDataInRange means a symbol has data, but none on or after the requested start.
	ErrNoDataInRange = errors.New("no data in requested range")
	// ErrEmptyResultSet means every requested symbol was excluded.
	ErrEmptyResultSet = errors.New("no data")
	// ErrDisjointWindow means the surviving symbols share no common dates.
	ErrDisjointWindow = errors.New("symbols have no overlapping date range")
	// ErrInvalidRequest marks input that fails request validation.
	ErrInvalidRequest = errors.New("invalid request")
)

// ComputationError reports an unexpected failure while computing a symbol's metrics.
type ComputationError struct {
	Symbol string
	Op     string
	Err    error
}

func (e *ComputationError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Symbol, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// Exclusion records a symbol dropped from the run and why.
type Exclusion struct {
	Symbol string
	Reason error
}

func (e Exclusion) String() string {
	return fmt.Sprintf("%s: %v", e.Symbol, e.Reason)
}

// MarshalJSON renders the reason as its message.
func (e Exclusion) MarshalJSON() ([]byte, error) {
	reason := ""
	if e.Reason != nil {
		reason = e.Reason.Error()
	}
	return json.Marshal(struct {
		Symbol string `json:"symbol"`
		Reason string `json:"reason"`
	}{e.Symbol, reason})
}
