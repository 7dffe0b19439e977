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

// Package pdep estimates pressure-dependent rate coefficients k(T, P) for
// networks of chemical wells connected by elementary reactions. The
// master equation itself is solved by the external FAME executable;
// this package plans the energy grain grid, writes FAME's input file,
// runs the solver, and turns its Chebyshev output back into net reactions.
package pdep

// Version gives the version number.
const Version = "0.3.0"

// Physical constants and fixed simulation parameters.
const (
	// StdTemp is the reference temperature at which isomer
	// thermochemistry is evaluated [K].
	StdTemp = 298.0

	// MaxTemp is the highest temperature simulated by the solver and
	// the temperature used for the energy grid margin [K].
	MaxTemp = 2100.0

	// R is the gas constant [kJ/(mol K)].
	R = 0.008314

	// kcalToKJ converts kcal/mol to kJ/mol.
	kcalToKJ = 4.184

	// boltzmann is the Boltzmann constant [J/K].
	boltzmann = 1.381e-23

	// angstrom is one Ångström [m].
	angstrom = 1e-10
)

// Temperatures is the ladder of temperatures [K] at which the solver
// evaluates k(T, P).
var Temperatures = []float64{300, 600, 900, 1200, 1500, 1800, 2100}

// Pressures is the ladder of pressures [bar] at which the solver
// evaluates k(T, P).
var Pressures = []float64{0.01, 0.1, 1, 10, 100}

// Orders of the Chebyshev fits requested from the solver.
const (
	ChebyshevTemperatures = 4
	ChebyshevPressures    = 4
)
