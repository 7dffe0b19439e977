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
	"strings"
	"sync"

	"github.com/spatialmodel/pdep/internal/hash"
)

// Species is an interface for the chemical species that make up
// the wells of a network. Thermochemistry and spectroscopic data
// are provided by the implementation.
type Species interface {
	// Name returns the species name.
	Name() string

	// ID returns the species identifier.
	ID() int

	// Enthalpy returns the standard enthalpy of formation at
	// temperature T [K] in units of kcal/mol.
	Enthalpy(T float64) float64

	// FreeEnergy returns the standard Gibbs free energy of formation
	// at temperature T [K] in units of kcal/mol.
	FreeEnergy(T float64) float64

	// MolecularWeight returns the molecular weight in g/mol.
	MolecularWeight() float64

	// LennardJones returns the Lennard-Jones collision parameters.
	LennardJones() LennardJones

	// Monatomic returns whether the species is a single atom.
	Monatomic() bool

	// SpectroscopicData returns the vibrational and rotational
	// modes of the species, or nil if they have not been generated.
	SpectroscopicData() *SpectroscopicData

	// GenerateSpectroscopicData estimates the spectroscopic data
	// of the species so that subsequent calls to SpectroscopicData
	// return a non-nil value.
	GenerateSpectroscopicData() error
}

// LennardJones holds Lennard-Jones collision parameters.
type LennardJones struct {
	Sigma   float64 // [Å]
	Epsilon float64 // [K]
}

// HinderedRotor is a hindered internal rotation.
type HinderedRotor struct {
	Frequency float64 // [cm^-1]
	Barrier   float64 // [cm^-1]
}

// SpectroscopicData holds the internal degrees of freedom of a species.
type SpectroscopicData struct {
	// Vibrations are harmonic oscillator frequencies [cm^-1].
	Vibrations []float64

	// Rotations are rigid rotor constants [cm^-1].
	Rotations []float64

	HinderedRotors []HinderedRotor

	SymmetryNumber int
}

// Isomer is a well in a network: one species for a unimolecular
// well, or two or more species for a multimolecular well.
type Isomer struct {
	Species []Species
}

// NewIsomer returns a new isomer made up of the given species.
func NewIsomer(species ...Species) *Isomer {
	return &Isomer{Species: species}
}

// Unimolecular returns whether the isomer contains exactly one species.
func (i *Isomer) Unimolecular() bool { return len(i.Species) == 1 }

// Enthalpy returns the summed enthalpy of the isomer's species
// at temperature T [K] in kcal/mol.
func (i *Isomer) Enthalpy(T float64) float64 {
	var h float64
	for _, s := range i.Species {
		h += s.Enthalpy(T)
	}
	return h
}

// FreeEnergy returns the summed Gibbs free energy of the isomer's
// species at temperature T [K] in kcal/mol.
func (i *Isomer) FreeEnergy(T float64) float64 {
	var g float64
	for _, s := range i.Species {
		g += s.FreeEnergy(T)
	}
	return g
}

// allMonatomic returns true if every species in the isomer is a
// single atom.
func (i *Isomer) allMonatomic() bool {
	for _, s := range i.Species {
		if !s.Monatomic() {
			return false
		}
	}
	return true
}

func (i *Isomer) String() string {
	names := make([]string, len(i.Species))
	for j, s := range i.Species {
		names[j] = speciesLabel(s)
	}
	return strings.Join(names, " + ")
}

func speciesLabel(s Species) string {
	return fmt.Sprintf("%s(%d)", s.Name(), s.ID())
}

// Kinetics holds modified Arrhenius parameters, k = A T^n exp(-Ea/RT).
type Kinetics struct {
	A  float64 // pre-exponential factor
	N  float64 // temperature exponent
	Ea float64 // activation energy [kcal/mol]
}

// PathReaction is an elementary reaction step between two isomers.
type PathReaction struct {
	Reactant, Product *Isomer

	// Kinetics are the kinetics in the direction the reaction
	// is stored in.
	Kinetics Kinetics

	// Forward is false if the reaction is stored in the reverse
	// of the direction it was generated in, in which case the
	// reverse kinetics must be used for the solver.
	Forward bool
}

func (r *PathReaction) String() string {
	return fmt.Sprintf("%v --> %v", r.Reactant, r.Product)
}

// NetReaction is a pressure-dependent reaction between two
// isomers calculated by the solver.
type NetReaction struct {
	Reactant, Product *Isomer

	// Rate is the fitted k(T, P) surface.
	Rate *ChebyshevSurface

	// Reverse is the paired reaction in the opposite direction, if any.
	Reverse *NetReaction
}

func (r *NetReaction) String() string {
	return fmt.Sprintf("%v <=> %v", r.Reactant, r.Product)
}

// Network is a pressure-dependent reaction network.
type Network struct {
	ID int

	UniIsomers    []*Isomer
	MultiIsomers  []*Isomer
	PathReactions []*PathReaction

	// NetReactions are the reactions calculated by the most recent
	// successful estimation.
	NetReactions []*NetReaction

	// Altered is true when the network has changed since the last
	// successful estimation.
	Altered bool

	mu sync.Mutex
}

// Isomers returns the unimolecular isomers followed by the
// multimolecular isomers, in solver well order.
func (n *Network) Isomers() []*Isomer {
	o := make([]*Isomer, 0, len(n.UniIsomers)+len(n.MultiIsomers))
	o = append(o, n.UniIsomers...)
	return append(o, n.MultiIsomers...)
}

// Species returns every distinct species in the network's isomers.
func (n *Network) Species() []Species {
	seen := make(map[Species]bool)
	var o []Species
	for _, iso := range n.Isomers() {
		for _, s := range iso.Species {
			if !seen[s] {
				seen[s] = true
				o = append(o, s)
			}
		}
	}
	return o
}

// Fingerprint identifies the wells and path reactions of n,
// including the full contents of every species.
func (n *Network) Fingerprint() string {
	return hash.Hash(struct {
		Uni, Multi []*Isomer
		Reactions  []*PathReaction
	}{n.UniIsomers, n.MultiIsomers, n.PathReactions})
}

// wellIndex returns the 1-based solver index of iso, with unimolecular
// wells numbered first. It returns an error if iso is not a member of
// the list its size says it belongs to.
func (n *Network) wellIndex(iso *Isomer) (int, error) {
	if iso.Unimolecular() {
		for i, u := range n.UniIsomers {
			if u == iso {
				return i + 1, nil
			}
		}
		return 0, fmt.Errorf("%w: unimolecular isomer %v is not in network %d",
			ErrInconsistentNetwork, iso, n.ID)
	}
	for i, m := range n.MultiIsomers {
		if m == iso {
			return len(n.UniIsomers) + i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: multimolecular isomer %v is not in network %d",
		ErrInconsistentNetwork, iso, n.ID)
}

// skippable returns a non-empty reason if the network should not be
// estimated.
func (n *Network) skippable() string {
	if len(n.MultiIsomers) > 0 {
		monatomic := true
		for _, iso := range n.MultiIsomers {
			if !iso.allMonatomic() {
				monatomic = false
				break
			}
		}
		if monatomic {
			return "all multimolecular isomers are monatomic"
		}
	}
	if len(n.PathReactions) == 0 {
		return "empty pressure-dependent network"
	}
	return ""
}
