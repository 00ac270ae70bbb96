package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DefaultInitialCapital is the simulated starting amount of every comparison.
const DefaultInitialCapital = 10000

// EarliestStart bounds how far back a comparison may reach.
var EarliestStart = Date(1900, time.January, 1)

// Request is one comparison run's input.
type Request struct {
	Start          time.Time
	End            time.Time
	InitialCapital float64
	Symbols        []string
}

// NormalizeSymbols trims, upper-cases, drops empty entries and de-duplicates,
// keeping first-seen order.
func NormalizeSymbols(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Normalize returns a copy with canonical symbols and day-truncated dates.
// The capital is left as given; callers fill in DefaultInitialCapital when
// the user supplied none.
func (r Request) Normalize() Request {
	r.Symbols = NormalizeSymbols(r.Symbols)
	r.Start = Day(r.Start)
	r.End = Day(r.End)
	return r
}

// Validate checks the request against the input contract. now bounds the dates.
func (r Request) Validate(now time.Time) error {
	today := Day(now)
	switch {
	case len(r.Symbols) == 0:
		return fmt.Errorf("%w: at least one symbol is required", ErrInvalidRequest)
	case r.Start.IsZero() || r.End.IsZero():
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidRequest)
	case r.Start.Before(EarliestStart):
		return fmt.Errorf("%w: start %s is before %s", ErrInvalidRequest, r.Start.Format(DateLayout), EarliestStart.Format(DateLayout))
	case r.Start.After(today) || r.End.After(today):
		return fmt.Errorf("%w: dates must not be in the future", ErrInvalidRequest)
	case r.Start.After(r.End):
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidRequest, r.Start.Format(DateLayout), r.End.Format(DateLayout))
	case math.IsNaN(r.InitialCapital) || math.IsInf(r.InitialCapital, 0) || r.InitialCapital <= 0:
		return fmt.Errorf("%w: initial capital must be a positive finite number", ErrInvalidRequest)
	}
	return nil
}
