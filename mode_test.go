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
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestParseMode(t *testing.T) {
	for _, test := range []struct {
		s    string
		mode Mode
	}{
		{"ReservoirState", ModeReservoirState},
		{"reservoirstate", ModeReservoirState},
		{"rs", ModeReservoirState},
		{"ModifiedStrongCollision", ModeStrongCollision},
		{"StrongCollision", ModeStrongCollision},
		{"msc", ModeStrongCollision},
	} {
		m, err := ParseMode(test.s)
		if err != nil {
			t.Errorf("%s: %v", test.s, err)
		}
		if m != test.mode {
			t.Errorf("%s: got %v, want %v", test.s, m, test.mode)
		}
		if back, _ := ParseMode(m.String()); back != m {
			t.Errorf("%v does not round trip", m)
		}
	}
	if _, err := ParseMode("Chemically significant eigenvalues"); err == nil {
		t.Error("expected an error")
	}
	if ModeNone.String() != "" {
		t.Error("ModeNone should have no solver name")
	}
}

func TestIsFatal(t *testing.T) {
	for _, test := range []struct {
		err   error
		fatal bool
	}{
		{nil, false},
		{fmt.Errorf("%w (2 ignored)", ErrInvalidRates), false},
		{fmt.Errorf("%w: reaction", ErrInconsistentNetwork), false},
		{fmt.Errorf("%w: reaction", ErrMissingKinetics), false},
		{fmt.Errorf("%w: no file", ErrOutputMissing), true},
		{fmt.Errorf("%w: no fit range", ErrMalformedOutput), true},
		{fmt.Errorf("%w: disk full", ErrInputIO), true},
		{&SolverError{Kind: SolverExit, ExitCode: 1, Err: errors.New("exit status 1")}, true},
		{context.Canceled, true},
	} {
		if got := IsFatal(test.err); got != test.fatal {
			t.Errorf("IsFatal(%v) = %v, want %v", test.err, got, test.fatal)
		}
	}
}

func TestSolverErrorMessage(t *testing.T) {
	err := &SolverError{Kind: SolverTimeout, Err: context.DeadlineExceeded}
	if err.Error() != "pdep: solver timeout failure: context deadline exceeded" {
		t.Errorf("got %q", err.Error())
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("SolverError should unwrap")
	}
}

func TestOutcomeString(t *testing.T) {
	for o, want := range map[Outcome]string{Skipped: "skipped", Updated: "updated", NotUpdated: "not updated"} {
		if o.String() != want {
			t.Errorf("got %q, want %q", o.String(), want)
		}
	}
}
