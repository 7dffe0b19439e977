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
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/pdep"
)

// NetworkFile is the contents of a network description file.
type NetworkFile struct {
	// Temperature [K] and Pressure [bar] of the reaction system.
	// Zero values are replaced by the configured defaults.
	Temperature, Pressure float64

	Species []SpeciesData
	BathGas []BathGasData
	Network []NetworkData
}

// SpeciesData describes a species.
type SpeciesData struct {
	Name string
	ID   int

	H298 float64 // standard enthalpy of formation [kcal/mol]
	S298 float64 // standard entropy [cal/(mol K)]
	Cp   float64 // constant heat capacity [cal/(mol K)]

	MolecularWeight float64 // [g/mol]
	Sigma           float64 // Lennard-Jones diameter [Å]
	Epsilon         float64 // Lennard-Jones well depth [K]
	Atoms           int

	Vibrations     []float64 // [cm^-1]
	Rotations      []float64 // [cm^-1]
	HinderedRotors []pdep.HinderedRotor
	Symmetry       int
}

// BathGasData is one component of the bath gas.
type BathGasData struct {
	Species      string
	MoleFraction float64
	ExpDown      float64 // [kJ/mol]
}

// NetworkData describes a network.
type NetworkData struct {
	ID int

	// Uni lists the unimolecular wells and Multi the
	// multimolecular wells, by species name.
	Uni   []string
	Multi [][]string

	Reaction []ReactionData
}

// ReactionData describes a path reaction.
type ReactionData struct {
	Reactant, Product []string

	A, N, Ea float64 // Ea [kcal/mol]

	// Reversed is true if the reaction is stored in the reverse of the
	// direction it was generated in.
	Reversed bool

	// Reverse optionally gives the kinetics in the opposite direction.
	Reverse *ArrheniusData
}

// ArrheniusData holds modified Arrhenius parameters.
type ArrheniusData struct {
	A, N, Ea float64
}

// ReadNetworkFile reads a TOML network description file.
func ReadNetworkFile(path string) (*NetworkFile, error) {
	path = os.ExpandEnv(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdep: problem reading network file: %v", err)
	}
	defer f.Close()
	nf := new(NetworkFile)
	if err := decodeNetworkFile(f, nf); err != nil {
		return nil, fmt.Errorf("pdep: problem reading network file %s: %v", path, err)
	}
	return nf, nil
}

// decodeNetworkFile decodes TOML from r into nf. Keys that do not
// match a field are an error.
func decodeNetworkFile(r io.Reader, nf *NetworkFile) error {
	md, err := toml.NewDecoder(r).Decode(nf)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys %v", undecoded)
	}
	return nil
}

// Species is a species loaded from a network file.
type Species struct {
	d    SpeciesData
	spec *pdep.SpectroscopicData
}

// Name returns the species name.
func (s *Species) Name() string { return s.d.Name }

// ID returns the species identifier.
func (s *Species) ID() int { return s.d.ID }

// Enthalpy returns the enthalpy at T [K] in kcal/mol.
func (s *Species) Enthalpy(T float64) float64 {
	return s.d.H298 + s.d.Cp*(T-pdep.StdTemp)/1000
}

// Entropy returns the entropy at T [K] in cal/(mol K).
func (s *Species) Entropy(T float64) float64 {
	return s.d.S298 + s.d.Cp*math.Log(T/pdep.StdTemp)
}

// FreeEnergy returns the Gibbs free energy at T [K] in kcal/mol.
func (s *Species) FreeEnergy(T float64) float64 {
	return s.Enthalpy(T) - T*s.Entropy(T)/1000
}

// MolecularWeight returns the molecular weight in g/mol.
func (s *Species) MolecularWeight() float64 { return s.d.MolecularWeight }

// LennardJones returns the collision parameters.
func (s *Species) LennardJones() pdep.LennardJones {
	return pdep.LennardJones{Sigma: s.d.Sigma, Epsilon: s.d.Epsilon}
}

// Monatomic returns whether the species is a single atom.
func (s *Species) Monatomic() bool { return s.d.Atoms == 1 }

// SpectroscopicData returns the internal modes of the species.
func (s *Species) SpectroscopicData() *pdep.SpectroscopicData { return s.spec }

// GenerateSpectroscopicData gives atoms an empty set of internal modes.
// Molecules must have their modes in the network file.
func (s *Species) GenerateSpectroscopicData() error {
	if s.spec != nil {
		return nil
	}
	if !s.Monatomic() {
		return fmt.Errorf("no vibrations or rotations given for %d-atom species %s", s.d.Atoms, s.d.Name)
	}
	s.spec = &pdep.SpectroscopicData{SymmetryNumber: 1}
	return nil
}

func newSpecies(d SpeciesData) *Species {
	s := &Species{d: d}
	if len(d.Vibrations) > 0 || len(d.Rotations) > 0 || len(d.HinderedRotors) > 0 {
		sym := d.Symmetry
		if sym == 0 {
			sym = 1
		}
		s.spec = &pdep.SpectroscopicData{
			Vibrations:     d.Vibrations,
			Rotations:      d.Rotations,
			HinderedRotors: d.HinderedRotors,
			SymmetryNumber: sym,
		}
	}
	return s
}

// Conditions are the conditions of a reaction system. It implements
// pdep.ReactionSystem.
type Conditions struct {
	T, P float64
	Bath []pdep.BathGasComponent
}

// Temperature returns the temperature [K].
func (c *Conditions) Temperature() float64 { return c.T }

// Pressure returns the pressure [bar].
func (c *Conditions) Pressure() float64 { return c.P }

// BathGas returns the bath gas composition.
func (c *Conditions) BathGas() []pdep.BathGasComponent { return c.Bath }

// Model is a set of networks and the system they react in.
type Model struct {
	Species    map[string]*Species
	Networks   []*pdep.Network
	Conditions *Conditions

	// ReverseKinetics holds the reverse kinetics given explicitly
	// in the network file.
	ReverseKinetics map[*pdep.PathReaction]pdep.Kinetics
}

// Network returns the network with the given ID, or nil.
func (m *Model) Network(id int) *pdep.Network {
	for _, n := range m.Networks {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Load builds a model from nf. T [K] and P [bar] are used if nf does
// not specify the conditions. All networks start out altered.
func (nf *NetworkFile) Load(T, P float64) (*Model, error) {
	m := &Model{
		Species:         make(map[string]*Species),
		ReverseKinetics: make(map[*pdep.PathReaction]pdep.Kinetics),
		Conditions:      &Conditions{T: nf.Temperature, P: nf.Pressure},
	}
	if m.Conditions.T == 0 {
		m.Conditions.T = T
	}
	if m.Conditions.P == 0 {
		m.Conditions.P = P
	}
	if !(m.Conditions.T > 0) || !(m.Conditions.P > 0) {
		return nil, fmt.Errorf("pdep: temperature (%g K) and pressure (%g bar) must be positive",
			m.Conditions.T, m.Conditions.P)
	}
	for _, d := range nf.Species {
		if d.Name == "" {
			return nil, fmt.Errorf("pdep: species with ID %d has no name", d.ID)
		}
		if _, ok := m.Species[d.Name]; ok {
			return nil, fmt.Errorf("pdep: species %s is defined more than once", d.Name)
		}
		m.Species[d.Name] = newSpecies(d)
	}
	for _, b := range nf.BathGas {
		s, ok := m.Species[b.Species]
		if !ok {
			return nil, fmt.Errorf("pdep: bath gas species %s is not defined", b.Species)
		}
		m.Conditions.Bath = append(m.Conditions.Bath, pdep.BathGasComponent{
			Species:      s,
			MoleFraction: b.MoleFraction,
			ExpDown:      b.ExpDown,
		})
	}
	ids := make(map[int]bool)
	for _, nd := range nf.Network {
		if ids[nd.ID] {
			return nil, fmt.Errorf("pdep: network %d is defined more than once", nd.ID)
		}
		ids[nd.ID] = true
		n, err := m.loadNetwork(nd)
		if err != nil {
			return nil, fmt.Errorf("pdep: network %d: %v", nd.ID, err)
		}
		m.Networks = append(m.Networks, n)
	}
	return m, nil
}

func (m *Model) loadNetwork(nd NetworkData) (*pdep.Network, error) {
	n := &pdep.Network{ID: nd.ID, Altered: true}
	isomers := make(map[string]*pdep.Isomer)
	add := func(names []string) (*pdep.Isomer, error) {
		k := isomerKey(names)
		if _, ok := isomers[k]; ok {
			return nil, fmt.Errorf("isomer %s is listed more than once", k)
		}
		iso, err := m.isomer(names)
		if err != nil {
			return nil, err
		}
		isomers[k] = iso
		return iso, nil
	}
	for _, name := range nd.Uni {
		iso, err := add([]string{name})
		if err != nil {
			return nil, err
		}
		n.UniIsomers = append(n.UniIsomers, iso)
	}
	for _, names := range nd.Multi {
		if len(names) < 2 {
			return nil, fmt.Errorf("multimolecular isomer %v has fewer than two species", names)
		}
		iso, err := add(names)
		if err != nil {
			return nil, err
		}
		n.MultiIsomers = append(n.MultiIsomers, iso)
	}
	for i, rd := range nd.Reaction {
		reac, ok := isomers[isomerKey(rd.Reactant)]
		if !ok {
			return nil, fmt.Errorf("reaction %d: reactant %v is not a well of the network", i+1, rd.Reactant)
		}
		prod, ok := isomers[isomerKey(rd.Product)]
		if !ok {
			return nil, fmt.Errorf("reaction %d: product %v is not a well of the network", i+1, rd.Product)
		}
		rxn := &pdep.PathReaction{
			Reactant: reac,
			Product:  prod,
			Kinetics: pdep.Kinetics{A: rd.A, N: rd.N, Ea: rd.Ea},
			Forward:  !rd.Reversed,
		}
		if rd.Reverse != nil {
			m.ReverseKinetics[rxn] = pdep.Kinetics{A: rd.Reverse.A, N: rd.Reverse.N, Ea: rd.Reverse.Ea}
		}
		n.PathReactions = append(n.PathReactions, rxn)
	}
	return n, nil
}

func (m *Model) isomer(names []string) (*pdep.Isomer, error) {
	species := make([]pdep.Species, len(names))
	for i, name := range names {
		s, ok := m.Species[name]
		if !ok {
			return nil, fmt.Errorf("species %s is not defined", name)
		}
		species[i] = s
	}
	return pdep.NewIsomer(species...), nil
}

// isomerKey identifies an isomer independently of species order.
func isomerKey(names []string) string {
	s := append([]string(nil), names...)
	sort.Strings(s)
	return strings.Join(s, "+")
}
