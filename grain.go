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
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Grid is the energy grain grid shared by all wells in a network.
// All values are in kJ/mol.
type Grid struct {
	Min, Max, Size float64
}

func (g Grid) String() string {
	return fmt.Sprintf("%g to %g kJ/mol in %g kJ/mol grains", g.Min, g.Max, g.Size)
}

// EnergyGrid plans the energy grain grid for a network with the
// given unimolecular and multimolecular isomers.
func EnergyGrid(uni, multi []*Isomer) Grid {
	min := GrainMinEnergy(uni, multi)
	max := GrainMaxEnergy(uni, multi, MaxTemp)
	return Grid{
		Min:  min,
		Max:  max,
		Size: GrainSize(min, max, len(uni)),
	}
}

// isomerEnthalpies returns the enthalpy of each isomer at StdTemp in kJ/mol.
func isomerEnthalpies(uni, multi []*Isomer) []float64 {
	h := make([]float64, 0, len(uni)+len(multi))
	for _, iso := range uni {
		h = append(h, iso.Enthalpy(StdTemp)*kcalToKJ)
	}
	for _, iso := range multi {
		h = append(h, iso.Enthalpy(StdTemp)*kcalToKJ)
	}
	return h
}

// GrainMinEnergy returns the lowest isomer enthalpy rounded down
// to the nearest 10 kJ/mol, so the grid starts at or below the
// ground state of the network.
func GrainMinEnergy(uni, multi []*Isomer) float64 {
	h := isomerEnthalpies(uni, multi)
	if len(h) == 0 {
		return 0
	}
	return math.Floor(floats.Min(h)/10) * 10
}

// GrainMaxEnergy returns the highest isomer enthalpy plus 100 RT at
// temperature T [K], rounded up to the nearest 10 kJ/mol. The margin
// captures the equilibrium distributions even at the hottest
// simulated condition.
func GrainMaxEnergy(uni, multi []*Isomer, T float64) float64 {
	h := isomerEnthalpies(uni, multi)
	var emax float64
	if len(h) > 0 {
		emax = floats.Max(h)
	}
	return math.Ceil((emax+100*R*T)/10) * 10
}

// GrainSize returns the grain size [kJ/mol] for a grid spanning min to
// max. Larger networks get coarser grains to keep solver runtime
// tractable.
func GrainSize(min, max float64, numUniWells int) float64 {
	return (max - min) / grainDivisor(numUniWells)
}

func grainDivisor(numUniWells int) float64 {
	switch {
	case numUniWells < 5:
		return 200
	case numUniWells < 10:
		return 100
	case numUniWells < 20:
		return 50
	default:
		return 20
	}
}
