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

import "fmt"

// Mode is the set of approximations the solver uses to estimate k(T, P).
type Mode int

const (
	// ModeNone means no method has been selected. It cannot be run.
	ModeNone Mode = iota

	// ModeStrongCollision is the steady state/modified strong collision
	// method of Chang, Bozzelli, and Dean.
	ModeStrongCollision

	// ModeReservoirState is the steady state/reservoir state method
	// of N. J. B. Green and Bhatti.
	ModeReservoirState
)

// String returns the mode as written in the solver input file.
func (m Mode) String() string {
	switch m {
	case ModeStrongCollision:
		return "ModifiedStrongCollision"
	case ModeReservoirState:
		return "ReservoirState"
	default:
		return ""
	}
}

// ParseMode converts s to a Mode. It accepts the solver input names
// as well as the short forms "strongcollision" and "reservoirstate".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "ModifiedStrongCollision", "StrongCollision", "strongcollision", "msc":
		return ModeStrongCollision, nil
	case "ReservoirState", "reservoirstate", "rs":
		return ModeReservoirState, nil
	default:
		return ModeNone, fmt.Errorf("pdep: invalid mode %q; valid options are "+
			"ModifiedStrongCollision and ReservoirState", s)
	}
}

// State is carried from one estimation to the next.
type State struct {
	// RunCount is the number of completed solver runs, used
	// only to label input files.
	RunCount int

	// Mode is the estimation mode for the next network.
	Mode Mode
}
