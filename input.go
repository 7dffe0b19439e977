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
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// KineticsFitter provides the kinetics of a path reaction in the
// direction opposite to the one it is stored in.
type KineticsFitter interface {
	ReverseKinetics(rxn *PathReaction) (Kinetics, error)
}

// Input holds everything that is written to the solver input file.
type Input struct {
	Network  *Network
	Mode     Mode
	RunCount int
	Grid     Grid
	BathGas  BathGas
}

// ResolvedReaction is a path reaction in the orientation the solver
// expects: Isomer1 is always the reactant of Kinetics.
type ResolvedReaction struct {
	Reaction *PathReaction

	// Isomer1 and Isomer2 are 1-based well indices.
	Isomer1, Isomer2 int

	// Reactant is the isomer with index Isomer1.
	Reactant *Isomer

	Kinetics Kinetics

	// Clamped is true if a negative activation energy was raised to
	// zero. OriginalEa then holds the unclamped value [kcal/mol].
	Clamped    bool
	OriginalEa float64
}

// TransitionStateEnergy returns the ground-state energy of the
// transition state [kcal/mol].
func (r ResolvedReaction) TransitionStateEnergy() float64 {
	return r.Reactant.Enthalpy(StdTemp) + r.Kinetics.Ea
}

// Resolve returns rxn in canonical orientation. If rxn is stored in
// reverse, its reverse kinetics are requested from fitter and the well
// indices are swapped. rxn itself is not modified. ok is false if
// either end of the reaction is not set, in which case the reaction
// should be skipped.
func Resolve(n *Network, rxn *PathReaction, fitter KineticsFitter) (r ResolvedReaction, ok bool, err error) {
	if rxn.Reactant == nil || rxn.Product == nil {
		return ResolvedReaction{}, false, nil
	}
	i1, err := n.wellIndex(rxn.Reactant)
	if err != nil {
		return ResolvedReaction{}, false, err
	}
	i2, err := n.wellIndex(rxn.Product)
	if err != nil {
		return ResolvedReaction{}, false, err
	}
	r = ResolvedReaction{
		Reaction: rxn,
		Isomer1:  i1,
		Isomer2:  i2,
		Reactant: rxn.Reactant,
		Kinetics: rxn.Kinetics,
	}
	if !rxn.Forward {
		if fitter == nil {
			return ResolvedReaction{}, false, fmt.Errorf("%w: reaction %v", ErrMissingKinetics, rxn)
		}
		k, err := fitter.ReverseKinetics(rxn)
		if err != nil {
			return ResolvedReaction{}, false, fmt.Errorf("%w: reaction %v: %v", ErrMissingKinetics, rxn, err)
		}
		r.Kinetics = k
		r.Isomer1, r.Isomer2 = i2, i1
		r.Reactant = rxn.Product
	}
	if r.Kinetics.Ea < 0 {
		r.Clamped = true
		r.OriginalEa = r.Kinetics.Ea
		r.Kinetics.Ea = 0
	}
	return r, true, nil
}

// InputWriter writes solver input files.
type InputWriter struct {
	// Fitter supplies reverse kinetics for path reactions stored
	// in the reverse direction.
	Fitter KineticsFitter

	Log logrus.FieldLogger
}

// Write writes the solver input file for in to path and returns the
// number of reaction blocks written along with the file contents.
// The file is assembled in memory and moved into place only when
// complete, so a failed write never leaves a partial file at path.
func (iw InputWriter) Write(path string, in Input) (int, []byte, error) {
	var b bytes.Buffer
	n, err := iw.Encode(&b, in)
	if err != nil {
		return 0, nil, err
	}
	if err := writeFileAtomic(path, b.Bytes()); err != nil {
		return 0, nil, err
	}
	return n, b.Bytes(), nil
}

// Encode writes the solver input for in to w and returns the number
// of reaction blocks written. All path reactions are resolved before
// anything is written.
func (iw InputWriter) Encode(w io.Writer, in Input) (int, error) {
	net := in.Network
	if err := checkWells(net); err != nil {
		return 0, err
	}
	var resolved []ResolvedReaction
	for _, rxn := range net.PathReactions {
		r, ok, err := Resolve(net, rxn, iw.Fitter)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		if r.Clamped && iw.Log != nil {
			iw.Log.WithFields(logrus.Fields{
				"network":  net.ID,
				"reaction": rxn.String(),
			}).Warnf("adjusted activation energy from %g kcal/mol to 0 kcal/mol for solver calculation", r.OriginalEa)
		}
		resolved = append(resolved, r)
	}

	e := &encoder{w: w}
	e.header(in, len(resolved))
	for i, iso := range net.UniIsomers {
		e.uniWell(i, iso)
	}
	for i, iso := range net.MultiIsomers {
		e.multiWell(i, iso)
	}
	for _, r := range resolved {
		e.reaction(r)
	}
	e.printf("\n")
	if e.err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInputIO, e.err)
	}
	return len(resolved), nil
}

// checkWells makes sure each well is in the list matching its size
// and that every species has spectroscopic data.
func checkWells(n *Network) error {
	for i, iso := range n.UniIsomers {
		if !iso.Unimolecular() {
			return fmt.Errorf("%w: unimolecular well %d of network %d has %d species",
				ErrInconsistentNetwork, i+1, n.ID, len(iso.Species))
		}
	}
	for i, iso := range n.MultiIsomers {
		if len(iso.Species) < 2 {
			return fmt.Errorf("%w: multimolecular well %d of network %d has %d species",
				ErrInconsistentNetwork, i+1, n.ID, len(iso.Species))
		}
	}
	for _, s := range n.Species() {
		if s.SpectroscopicData() == nil {
			return fmt.Errorf("%w: species %s has no spectroscopic data",
				ErrInconsistentNetwork, speciesLabel(s))
		}
	}
	return nil
}

// encoder writes the key-value lines of the solver input format,
// remembering the first error.
type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) printf(format string, a ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, a...)
}

// field writes a key padded to the value column followed by value.
func (e *encoder) field(key string, value interface{}) {
	e.printf("%-36s%v\n", key, value)
}

func ff(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func withUnits(v float64, units string) string { return ff(v) + " " + units }

func (e *encoder) header(in Input, numReactions int) {
	net := in.Network
	e.printf("# FAME input for pressure dependent network #%d\n", in.RunCount)
	e.field("Mode", in.Mode)
	e.field("Temperatures", len(Temperatures))
	for _, t := range Temperatures {
		e.printf("%s\n", withUnits(t, "K"))
	}
	e.field("Pressures", len(Pressures))
	for _, p := range Pressures {
		e.printf("%s\n", withUnits(p, "bar"))
	}
	e.field("Grain size", withUnits(in.Grid.Size, "kJ/mol"))
	e.field("Minimum grain energy", withUnits(in.Grid.Min, "kJ/mol"))
	e.field("Maximum grain energy", withUnits(in.Grid.Max, "kJ/mol"))
	e.field("Number of unimolecular wells", len(net.UniIsomers))
	e.field("Number of multimolecular wells", len(net.MultiIsomers))
	e.field("Number of reactions", numReactions)
	e.field("Exponential down parameter", withUnits(in.BathGas.ExpDown, "kJ/mol"))
	e.field("Bath gas LJ sigma parameter", withUnits(in.BathGas.Sigma, "m"))
	e.field("Bath gas LJ epsilon parameter", withUnits(in.BathGas.Epsilon, "J"))
	e.field("Bath gas molecular weight", withUnits(in.BathGas.MolecularWeight, "g/mol"))
	e.field("Number of Chebyshev temperatures", ChebyshevTemperatures)
	e.field("Number of Chebyshev pressures", ChebyshevPressures)
	e.printf("\n")
}

func (e *encoder) uniWell(i int, iso *Isomer) {
	s := iso.Species[0]
	h := s.Enthalpy(StdTemp) * kcalToKJ
	lj := s.LennardJones()
	data := s.SpectroscopicData()

	e.printf("# Unimolecular well %d: %s\n", i+1, speciesLabel(s))
	e.field("Ground-state energy", withUnits(h, "kJ/mol"))
	e.field("Enthalpy of formation", withUnits(h, "kJ/mol"))
	e.field("Free energy of formation", withUnits(s.FreeEnergy(StdTemp)*kcalToKJ, "kJ/mol"))
	e.field("LJ sigma parameter", withUnits(lj.SigmaSI().Value(), "m"))
	e.field("LJ epsilon parameter", withUnits(lj.EpsilonSI().Value(), "J"))
	e.field("Molecular weight", withUnits(s.MolecularWeight(), "g/mol"))
	if len(data.Vibrations) > 0 {
		e.field("Harmonic oscillators", len(data.Vibrations))
		e.frequencies(data.Vibrations)
	}
	if len(data.Rotations) > 0 {
		e.field("Rigid rotors", len(data.Rotations))
		e.frequencies(data.Rotations)
	}
	if len(data.HinderedRotors) > 0 {
		e.field("Hindered rotors", len(data.HinderedRotors))
		e.hinderedRotors(data.HinderedRotors)
	}
	e.field("Symmetry number", data.SymmetryNumber)
	e.printf("\n")
}

func (e *encoder) frequencies(v []float64) {
	for _, f := range v {
		e.printf("%s\n", withUnits(f, "cm^-1"))
	}
}

func (e *encoder) hinderedRotors(hr []HinderedRotor) {
	for _, r := range hr {
		e.printf("%s\n", withUnits(r.Frequency, "cm^-1"))
	}
	for _, r := range hr {
		e.printf("%s\n", withUnits(r.Barrier, "cm^-1"))
	}
}

// row writes key followed by one value per species of iso.
func (e *encoder) row(key string, iso *Isomer, value func(Species) string) {
	v := make([]string, len(iso.Species))
	for j, s := range iso.Species {
		v[j] = value(s)
	}
	e.field(key, strings.Join(v, "    "))
}

func (e *encoder) multiWell(i int, iso *Isomer) {
	kj := func(f func(Species) float64) func(Species) string {
		return func(s Species) string { return withUnits(f(s)*kcalToKJ, "kJ/mol") }
	}
	h := func(s Species) float64 { return s.Enthalpy(StdTemp) }
	g := func(s Species) float64 { return s.FreeEnergy(StdTemp) }
	data := func(s Species) *SpectroscopicData { return s.SpectroscopicData() }

	e.printf("# Multimolecular well %d: %v\n", i+1, iso)
	e.field("Number of species", len(iso.Species))
	e.row("Ground-state energy", iso, kj(h))
	e.row("Enthalpy of formation", iso, kj(h))
	e.row("Free energy of formation", iso, kj(g))
	e.row("LJ sigma parameter", iso, func(s Species) string {
		return withUnits(s.LennardJones().SigmaSI().Value(), "m")
	})
	e.row("LJ epsilon parameter", iso, func(s Species) string {
		return withUnits(s.LennardJones().EpsilonSI().Value(), "J")
	})
	e.row("Molecular weight", iso, func(s Species) string {
		return withUnits(s.MolecularWeight(), "g/mol")
	})

	e.row("Harmonic oscillators", iso, func(s Species) string { return strconv.Itoa(len(data(s).Vibrations)) })
	for _, s := range iso.Species {
		e.frequencies(data(s).Vibrations)
	}
	e.row("Rigid rotors", iso, func(s Species) string { return strconv.Itoa(len(data(s).Rotations)) })
	for _, s := range iso.Species {
		e.frequencies(data(s).Rotations)
	}
	e.row("Hindered rotors", iso, func(s Species) string { return strconv.Itoa(len(data(s).HinderedRotors)) })
	for _, s := range iso.Species {
		e.hinderedRotors(data(s).HinderedRotors)
	}
	e.row("Symmetry number", iso, func(s Species) string { return strconv.Itoa(data(s).SymmetryNumber) })
	e.printf("\n")
}

func (e *encoder) reaction(r ResolvedReaction) {
	e.printf("# Reaction %v:\n", r.Reaction)
	e.field("Isomer 1", r.Isomer1)
	e.field("Isomer 2", r.Isomer2)
	e.field("Ground-state energy", withUnits(r.TransitionStateEnergy()*kcalToKJ, "kJ/mol"))
	e.field("Arrhenius preexponential", withUnits(r.Kinetics.A, "s^-1"))
	e.field("Arrhenius activation energy", withUnits(r.Kinetics.Ea*kcalToKJ, "kJ/mol"))
	e.field("Arrhenius temperature exponent", ff(r.Kinetics.N))
	e.printf("\n")
}
