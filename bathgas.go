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

	"github.com/ctessum/unit"
	"gonum.org/v1/gonum/floats"
)

// ReactionSystem provides the present conditions of the reactor
// that a network belongs to.
type ReactionSystem interface {
	// Temperature returns the present temperature [K].
	Temperature() float64

	// Pressure returns the present pressure [bar].
	Pressure() float64

	// BathGas returns the present composition of the inert
	// carrier gas.
	BathGas() []BathGasComponent
}

// BathGasComponent is one species of the bath gas.
type BathGasComponent struct {
	Species      Species
	MoleFraction float64

	// ExpDown is the average energy transferred in a deactivating
	// collision [kJ/mol].
	ExpDown float64
}

// BathGas holds the collision parameters of a bath gas mixture.
type BathGas struct {
	ExpDown         float64 // [kJ/mol]
	Sigma           float64 // [m]
	Epsilon         float64 // [J]
	MolecularWeight float64 // [g/mol]
}

var joulePerKelvin = unit.Dimensions{
	unit.MassDim:        1,
	unit.LengthDim:      2,
	unit.TimeDim:        -2,
	unit.TemperatureDim: -1,
}

// SigmaSI returns the Lennard-Jones collision diameter in meters.
func (lj LennardJones) SigmaSI() *unit.Unit {
	return unit.Mul(unit.New(lj.Sigma, unit.Dimless), unit.New(angstrom, unit.Meter))
}

// EpsilonSI returns the Lennard-Jones well depth in Joules.
func (lj LennardJones) EpsilonSI() *unit.Unit {
	return unit.Mul(unit.New(lj.Epsilon, unit.Kelvin), unit.New(boltzmann, joulePerKelvin))
}

// SummarizeBathGas computes the mole-fraction-weighted collision
// parameters of the bath gas in sys. It is recomputed on every call
// because the composition may change between estimations.
func SummarizeBathGas(sys ReactionSystem) (BathGas, error) {
	components := sys.BathGas()
	if len(components) == 0 {
		return BathGas{}, fmt.Errorf("pdep: reaction system has no bath gas")
	}
	fractions := make([]float64, len(components))
	for i, c := range components {
		if c.MoleFraction < 0 || math.IsNaN(c.MoleFraction) {
			return BathGas{}, fmt.Errorf("pdep: bath gas %s has invalid mole fraction %g",
				c.Species.Name(), c.MoleFraction)
		}
		fractions[i] = c.MoleFraction
	}
	total := floats.Sum(fractions)
	if !(total > 0) {
		return BathGas{}, fmt.Errorf("pdep: bath gas mole fractions sum to %g", total)
	}
	floats.Scale(1/total, fractions)

	expDown := make([]float64, len(components))
	mw := make([]float64, len(components))
	sigma := unit.New(0, unit.Meter)
	epsilon := unit.New(0, unit.Joule)
	for i, c := range components {
		expDown[i] = c.ExpDown
		mw[i] = c.Species.MolecularWeight()
		x := unit.New(fractions[i], unit.Dimless)
		lj := c.Species.LennardJones()
		sigma.Add(unit.Mul(lj.SigmaSI(), x))
		epsilon.Add(unit.Mul(lj.EpsilonSI(), x))
	}
	if err := sigma.Check(unit.Meter); err != nil {
		return BathGas{}, fmt.Errorf("pdep: bath gas sigma: %v", err)
	}
	if err := epsilon.Check(unit.Joule); err != nil {
		return BathGas{}, fmt.Errorf("pdep: bath gas epsilon: %v", err)
	}
	return BathGas{
		ExpDown:         floats.Dot(fractions, expDown),
		Sigma:           sigma.Value(),
		Epsilon:         epsilon.Value(),
		MolecularWeight: floats.Dot(fractions, mw),
	}, nil
}
