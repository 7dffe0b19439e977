/*
Copyright © 2026 the PDep authors.
This file is part of PDep.

PDep is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PDep is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PDep.  If not, see <http://www.gnu.org/licenses/>.
*/

package pdep

import (
	"errors"
	"fmt"
)

var (
	// ErrInputIO is returned when the solver input file cannot be written.
	ErrInputIO = errors.New("pdep: writing solver input")

	// ErrInconsistentNetwork is returned when a path reaction refers to
	// an isomer that is not where the network says it should be.
	// Nothing is written to disk when this error occurs.
	ErrInconsistentNetwork = errors.New("pdep: inconsistent network")

	// ErrMissingKinetics is returned when the reverse kinetics of
	// a path reaction stored in the reverse direction are unavailable.
	ErrMissingKinetics = errors.New("pdep: missing reverse kinetics")

	// ErrOutputMissing is returned when the solver output file is
	// absent, empty, or unreadable.
	ErrOutputMissing = errors.New("pdep: solver output missing or unreadable")

	// ErrMalformedOutput is returned when the solver output file has
	// content that does not match the network or cannot be parsed.
	ErrMalformedOutput = errors.New("pdep: solver output malformed")

	// ErrInvalidRates is returned alongside otherwise usable parse
	// results when one or more fitted rate coefficients contained a
	// zero or non-finite value.
	ErrInvalidRates = errors.New("pdep: one or more rate coefficients in solver output were invalid")
)

// SolverErrorKind classifies solver invocation failures.
type SolverErrorKind int

// Kinds of solver failure.
const (
	SolverLaunch SolverErrorKind = iota
	SolverExit
	SolverTimeout
	SolverCanceled
)

func (k SolverErrorKind) String() string {
	switch k {
	case SolverLaunch:
		return "launch"
	case SolverExit:
		return "exit"
	case SolverTimeout:
		return "timeout"
	case SolverCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// SolverError is returned when the external solver could not be
// run to successful completion.
type SolverError struct {
	Kind     SolverErrorKind
	ExitCode int
	Output   []byte
	Err      error
}

func (e *SolverError) Error() string {
	switch e.Kind {
	case SolverExit:
		return fmt.Sprintf("pdep: solver exited with status %d: %v", e.ExitCode, e.Err)
	default:
		return fmt.Sprintf("pdep: solver %v failure: %v", e.Kind, e.Err)
	}
}

func (e *SolverError) Unwrap() error { return e.Err }

// IsFatal returns whether err should stop the whole program rather than
// only the current network. Invalid rates are recoverable and an
// inconsistent network only affects that network; everything else
// means downstream kinetics cannot be trusted.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidRates) || errors.Is(err, ErrInconsistentNetwork) ||
		errors.Is(err, ErrMissingKinetics) {
		return false
	}
	return true
}
