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

package pdeputil

import (
	"fmt"
	"math"

	"github.com/spatialmodel/pdep"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	rKcal     = 1.987204e-3 // gas constant [kcal/(mol K)]
	rSI       = 8.314462    // gas constant [J/(mol K)]
	stdPress  = 1e5         // standard pressure [Pa]
	m3ToCm3   = 1e6
	fitMaxRel = 0.05 // largest acceptable relative error of a refitted rate
)

// DetailedBalanceFitter provides reverse kinetics of path reactions.
// Reverse kinetics given in Explicit are used as is. Otherwise the
// reverse rate is calculated from the forward rate and the equilibrium
// constant at each of pdep.Temperatures and fitted to a modified
// Arrhenius expression. Rates of multimolecular reactions are in
// cm^3/(mol s).
type DetailedBalanceFitter struct {
	Explicit map[*pdep.PathReaction]pdep.Kinetics
}

// ReverseKinetics implements pdep.KineticsFitter.
func (f DetailedBalanceFitter) ReverseKinetics(rxn *pdep.PathReaction) (pdep.Kinetics, error) {
	if k, ok := f.Explicit[rxn]; ok {
		return k, nil
	}
	temps := pdep.Temperatures
	kr := make([]float64, len(temps))
	for i, T := range temps {
		kr[i] = arrhenius(rxn.Kinetics, T) / equilibriumConstant(rxn, T)
		if kr[i] <= 0 || math.IsInf(kr[i], 0) || math.IsNaN(kr[i]) {
			return pdep.Kinetics{}, fmt.Errorf("reverse rate of %v at %g K is %g", rxn, T, kr[i])
		}
	}
	k, err := fitArrhenius(temps, kr)
	if err != nil {
		return pdep.Kinetics{}, fmt.Errorf("fitting reverse kinetics of %v: %v", rxn, err)
	}
	return k, nil
}

// arrhenius returns k = A T^n exp(-Ea/RT).
func arrhenius(k pdep.Kinetics, T float64) float64 {
	return k.A * math.Pow(T, k.N) * math.Exp(-k.Ea/(rKcal*T))
}

// equilibriumConstant returns the concentration equilibrium constant
// of rxn in the direction it is stored in, in units of (mol/cm^3)^Δn.
func equilibriumConstant(rxn *pdep.PathReaction, T float64) float64 {
	dG := rxn.Product.FreeEnergy(T) - rxn.Reactant.FreeEnergy(T)
	kp := math.Exp(-dG / (rKcal * T))
	dn := len(rxn.Product.Species) - len(rxn.Reactant.Species)
	c0 := stdPress / (rSI * T) / m3ToCm3 // [mol/cm^3]
	return kp * math.Pow(c0, float64(dn))
}

// fitArrhenius fits ln k = ln A + n ln T - Ea/(RT) by least squares.
func fitArrhenius(temps, k []float64) (pdep.Kinetics, error) {
	x := mat.NewDense(len(temps), 3, nil)
	y := mat.NewVecDense(len(temps), nil)
	for i, T := range temps {
		x.Set(i, 0, 1)
		x.Set(i, 1, math.Log(T))
		x.Set(i, 2, -1/(rKcal*T))
		y.SetVec(i, math.Log(k[i]))
	}
	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return pdep.Kinetics{}, err
	}
	fit := pdep.Kinetics{A: math.Exp(beta.AtVec(0)), N: beta.AtVec(1), Ea: beta.AtVec(2)}

	rel := make([]float64, len(temps))
	for i, T := range temps {
		rel[i] = math.Abs(arrhenius(fit, T)-k[i]) / k[i]
	}
	if worst := floats.Max(rel); !(worst < fitMaxRel) {
		return fit, fmt.Errorf("modified Arrhenius fit has a relative error of %g", worst)
	}
	return fit, nil
}
