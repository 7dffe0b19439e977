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
	"sync"
)

type testSpecies struct {
	name    string
	id      int
	h, s    float64 // [kcal/mol], [cal/(mol K)]
	mw      float64
	lj      LennardJones
	atoms   int
	spec    *SpectroscopicData
	genErr  error
	genSpec *SpectroscopicData
}

func (s *testSpecies) Name() string { return s.name }
func (s *testSpecies) ID() int { return s.id }
func (s *testSpecies) Enthalpy(T float64) float64 { return s.h }
func (s *testSpecies) FreeEnergy(T float64) float64 { return s.h - T*s.s/1000 }
func (s *testSpecies) MolecularWeight() float64 { return s.mw }
func (s *testSpecies) LennardJones() LennardJones { return s.lj }
func (s *testSpecies) Monatomic() bool { return s.atoms == 1 }
func (s *testSpecies) SpectroscopicData() *SpectroscopicData {
	return s.spec
}
func (s *testSpecies) GenerateSpectroscopicData() error {
	if s.genErr != nil {
		return s.genErr
	}
	s.spec = s.genSpec
	return nil
}

// testFitter returns fixed reverse kinetics.
type testFitter struct {
	k     Kinetics
	err   error
	mu    sync.Mutex
	calls int
}

func (f *testFitter) ReverseKinetics(*PathReaction) (Kinetics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.k, f.err
}

type testSystem struct {
	T, P float64
	bath []BathGasComponent
}

func (s testSystem) Temperature() float64 { return s.T }
func (s testSystem) Pressure() float64 { return s.P }
func (s testSystem) BathGas() []BathGasComponent { return s.bath }

var (
	nitrogen = &testSpecies{name: "N2", id: 10, mw: 28.01, atoms: 2,
		lj: LennardJones{Sigma: 3.62, Epsilon: 97.53}}
	argon = &testSpecies{name: "Ar", id: 11, mw: 39.95, atoms: 1,
		lj: LennardJones{Sigma: 3.33, Epsilon: 136.5}}
)

// testConditions is 80% nitrogen and 20% argon, given unnormalized.
func testConditions() testSystem {
	return testSystem{T: 1000, P: 1, bath: []BathGasComponent{
		{Species: nitrogen, MoleFraction: 4, ExpDown: 4.86},
		{Species: argon, MoleFraction: 1, ExpDown: 3},
	}}
}

// testNetwork returns network 7: two unimolecular wells, C2H5OO and
// C2H4OOH, and the multimolecular well C2H4 + HO2, connected by three
// path reactions. The third reaction is stored in reverse.
func testNetwork() *Network {
	a := &testSpecies{name: "C2H5OO", id: 1, h: -6.5, s: 74.0, mw: 61.06, atoms: 8,
		lj: LennardJones{Sigma: 5.0, Epsilon: 400},
		spec: &SpectroscopicData{Vibrations: []float64{300, 1000}, Rotations: []float64{0.8}, SymmetryNumber: 1}}
	b := &testSpecies{name: "C2H4OOH", id: 2, h: 12.0, s: 78.0, mw: 61.06, atoms: 8,
		lj: LennardJones{Sigma: 5.0, Epsilon: 400},
		spec: &SpectroscopicData{Vibrations: []float64{250, 900, 1500}, Rotations: []float64{0.75},
			HinderedRotors: []HinderedRotor{{Frequency: 100, Barrier: 300}}, SymmetryNumber: 2}}
	c := &testSpecies{name: "C2H4", id: 3, h: 12.5, s: 52.4, mw: 28.05, atoms: 6,
		lj: LennardJones{Sigma: 4.16, Epsilon: 280.8},
		spec: &SpectroscopicData{Vibrations: []float64{826, 943}, Rotations: []float64{4.8}, SymmetryNumber: 4}}
	d := &testSpecies{name: "HO2", id: 4, h: 3.0, s: 54.7, mw: 33.01, atoms: 3,
		lj: LennardJones{Sigma: 3.46, Epsilon: 107.4},
		spec: &SpectroscopicData{Vibrations: []float64{1100, 1400, 3400}, Rotations: []float64{20}, SymmetryNumber: 1}}

	isoA, isoB, isoCD := NewIsomer(a), NewIsomer(b), NewIsomer(c, d)
	return &Network{
		ID:           7,
		UniIsomers:   []*Isomer{isoA, isoB},
		MultiIsomers: []*Isomer{isoCD},
		PathReactions: []*PathReaction{
			{Reactant: isoA, Product: isoB, Kinetics: Kinetics{A: 1e10, N: 0.5, Ea: 30}, Forward: true},
			{Reactant: isoCD, Product: isoA, Kinetics: Kinetics{A: 1e11, N: 0, Ea: -2}, Forward: true},
			{Reactant: isoB, Product: isoCD, Kinetics: Kinetics{A: 1e12, N: 0, Ea: 20}, Forward: false},
		},
		Altered: true,
	}
}

func testReverseFitter() *testFitter {
	return &testFitter{k: Kinetics{A: 5e10, N: 1, Ea: 15}}
}

// outputBlock returns a coefficient block whose first coefficient is
// first and whose remaining coefficients are 0.1.
func outputBlock(first string) string {
	s := "# net reaction\n"
	for t := 0; t < ChebyshevTemperatures; t++ {
		for p := 0; p < ChebyshevPressures; p++ {
			if t == 0 && p == 0 {
				s += first
			} else {
				s += " 1.0D-01"
			}
		}
		s += "\n"
	}
	return s + "\n"
}

// outputFile returns solver output for nUni and nMulti wells with
// the given coefficient blocks.
func outputFile(nUni, nMulti int, blocks ...string) string {
	s := fmt.Sprintf(`# FAME output
Number of unimolecular wells        %d
Number of multimolecular wells      %d
Number of Chebyshev temperatures    %d
Number of Chebyshev pressures       %d
Temperature range of fit            300 - 2100 K
Pressure range of fit               0.01 - 100 bar

`, nUni, nMulti, ChebyshevTemperatures, ChebyshevPressures)
	for _, b := range blocks {
		s += b
	}
	return s
}

// validOutput returns solver output for testNetwork with all six
// blocks valid.
func validOutput() string {
	return outputFile(2, 1, outputBlock("8.0"), outputBlock("7.0"), outputBlock("6.0"),
		outputBlock("5.0"), outputBlock("4.0"), outputBlock("3.0"))
}

// invalidOutput returns solver output for testNetwork with one
// invalid block.
func invalidOutput() string {
	return outputFile(2, 1, outputBlock("8.0"), outputBlock("7.0"), outputBlock("6.0"),
		outputBlock("0.0"), outputBlock("4.0"), outputBlock("3.0"))
}

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}
