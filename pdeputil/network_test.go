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
	"math"
	"strings"
	"testing"

	"github.com/spatialmodel/pdep"
)

const testNetworkFile = "testdata/network.toml"

func loadTestModel(t *testing.T) *Model {
	t.Helper()
	nf, err := ReadNetworkFile(testNetworkFile)
	if err != nil {
		t.Fatal(err)
	}
	m, err := nf.Load(1000, 10)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func TestLoad(t *testing.T) {
	m := loadTestModel(t)
	if len(m.Species) != 10 {
		t.Errorf("%d species, want 10", len(m.Species))
	}
	if len(m.Networks) != 3 {
		t.Fatalf("%d networks, want 3", len(m.Networks))
	}
	if m.Conditions.Temperature() != 1000 {
		t.Errorf("temperature %g should come from the default", m.Conditions.Temperature())
	}
	if m.Conditions.Pressure() != 1 {
		t.Errorf("pressure %g should come from the file", m.Conditions.Pressure())
	}
	if len(m.Conditions.BathGas()) != 2 {
		t.Errorf("%d bath gas components, want 2", len(m.Conditions.BathGas()))
	}

	n := m.Network(1)
	if n == nil {
		t.Fatal("network 1 is missing")
	}
	if !n.Altered {
		t.Error("loaded networks should be altered")
	}
	if len(n.UniIsomers) != 2 || len(n.MultiIsomers) != 1 || len(n.PathReactions) != 3 {
		t.Errorf("network 1 has %d+%d wells and %d reactions",
			len(n.UniIsomers), len(n.MultiIsomers), len(n.PathReactions))
	}
	// Species order in the reaction doesn't matter.
	if n.PathReactions[1].Reactant != n.MultiIsomers[0] {
		t.Error("HO2 + C2H4 should be the C2H4 + HO2 well")
	}
	rev := n.PathReactions[2]
	if rev.Forward {
		t.Error("reaction 3 is stored in reverse")
	}
	if k, ok := m.ReverseKinetics[rev]; !ok || k != (pdep.Kinetics{A: 5e10, N: 1, Ea: 15}) {
		t.Errorf("explicit reverse kinetics %+v, %v", k, ok)
	}
	if m.Network(4) != nil {
		t.Error("network 4 should not exist")
	}
}

func TestSpecies(t *testing.T) {
	m := loadTestModel(t)
	s := m.Species["C2H4OOH"]
	if s.Enthalpy(pdep.StdTemp) != 12 {
		t.Errorf("H298 = %g", s.Enthalpy(pdep.StdTemp))
	}
	// H(T) = H298 + Cp (T - 298); S(T) = S298 + Cp ln(T/298).
	T := 1000.0
	h := 12 + 16*(T-298)/1000
	sT := 78 + 16*math.Log(T/298)
	if g := s.FreeEnergy(T); different(g, h-T*sT/1000, 1e-12) {
		t.Errorf("G(1000 K) = %g, want %g", g, h-T*sT/1000)
	}
	data := s.SpectroscopicData()
	if data == nil {
		t.Fatal("spectroscopic data should come from the file")
	}
	if len(data.HinderedRotors) != 1 || data.HinderedRotors[0].Barrier != 300 || data.SymmetryNumber != 2 {
		t.Errorf("data %+v", data)
	}
	if m.Species["HO2"].SpectroscopicData().SymmetryNumber != 1 {
		t.Error("symmetry number should default to 1")
	}
	if s.LennardJones() != (pdep.LennardJones{Sigma: 5, Epsilon: 400}) {
		t.Errorf("LJ %+v", s.LennardJones())
	}

	t.Run("atom", func(t *testing.T) {
		h := m.Species["H"]
		if !h.Monatomic() || h.SpectroscopicData() != nil {
			t.Fatal("H should be an atom without data")
		}
		if err := h.GenerateSpectroscopicData(); err != nil {
			t.Fatal(err)
		}
		if d := h.SpectroscopicData(); d == nil || len(d.Vibrations) != 0 || d.SymmetryNumber != 1 {
			t.Errorf("data %+v", d)
		}
	})
	t.Run("molecule", func(t *testing.T) {
		if err := m.Species["N2"].GenerateSpectroscopicData(); err == nil {
			t.Error("expected an error for a molecule without data")
		}
	})
}

func TestLoadErrors(t *testing.T) {
	for _, test := range []struct {
		name, toml string
	}{
		{
			name: "undefined species",
			toml: `[[Network]]
ID = 1
Uni = ["X"]`,
		},
		{
			name: "duplicate species",
			toml: `[[Species]]
Name = "X"
[[Species]]
Name = "X"`,
		},
		{
			name: "duplicate network",
			toml: `[[Network]]
ID = 1
[[Network]]
ID = 1`,
		},
		{
			name: "reaction outside network",
			toml: `[[Species]]
Name = "X"
[[Species]]
Name = "Y"
[[Network]]
ID = 1
Uni = ["X"]
  [[Network.Reaction]]
  Reactant = ["X"]
  Product = ["Y"]`,
		},
		{
			name: "single species multimolecular well",
			toml: `[[Species]]
Name = "X"
[[Network]]
ID = 1
Multi = [["X"]]`,
		},
		{
			name: "undefined bath gas",
			toml: `[[BathGas]]
Species = "N2"`,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			var nf NetworkFile
			if err := decodeNetworkFile(strings.NewReader(test.toml), &nf); err != nil {
				t.Fatal(err)
			}
			if _, err := nf.Load(1000, 1); err == nil {
				t.Error("expected an error")
			}
		})
	}
	if _, err := (&NetworkFile{}).Load(0, 1); err == nil {
		t.Error("expected an error for a zero temperature")
	}
	var nf NetworkFile
	if err := decodeNetworkFile(strings.NewReader("Temprature = 300"), &nf); err == nil {
		t.Error("expected an error for a misspelled key")
	}
}
