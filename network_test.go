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
	"errors"
	"testing"
)

func TestNetworkWells(t *testing.T) {
	n := testNetwork()
	if got := len(n.Isomers()); got != 3 {
		t.Errorf("%d isomers, want 3", got)
	}
	if got := len(n.Species()); got != 4 {
		t.Errorf("%d species, want 4", got)
	}
	for i, iso := range n.Isomers() {
		idx, err := n.wellIndex(iso)
		if err != nil {
			t.Fatal(err)
		}
		if idx != i+1 {
			t.Errorf("%v has index %d, want %d", iso, idx, i+1)
		}
	}
	if _, err := n.wellIndex(NewIsomer(n.Species()[0])); !errors.Is(err, ErrInconsistentNetwork) {
		t.Errorf("err = %v, want ErrInconsistentNetwork", err)
	}
}

func TestNetworkStrings(t *testing.T) {
	n := testNetwork()
	if s := n.MultiIsomers[0].String(); s != "C2H4(3) + HO2(4)" {
		t.Errorf("isomer %q", s)
	}
	if s := n.PathReactions[0].String(); s != "C2H5OO(1) --> C2H4OOH(2)" {
		t.Errorf("path reaction %q", s)
	}
	r := &NetReaction{Reactant: n.UniIsomers[0], Product: n.MultiIsomers[0]}
	if s := r.String(); s != "C2H5OO(1) <=> C2H4(3) + HO2(4)" {
		t.Errorf("net reaction %q", s)
	}
	if h := n.MultiIsomers[0].Enthalpy(StdTemp); different(h, 15.5, 1e-12) {
		t.Errorf("enthalpy %g, want 15.5", h)
	}
}

func TestSkippable(t *testing.T) {
	n := testNetwork()
	if reason := n.skippable(); reason != "" {
		t.Errorf("network should not be skipped: %s", reason)
	}
	he := &testSpecies{name: "He", atoms: 1}
	n.MultiIsomers = append(n.MultiIsomers, NewIsomer(he, he))
	if reason := n.skippable(); reason != "" {
		t.Errorf("one monatomic well should not skip the network: %s", reason)
	}
	n.MultiIsomers = n.MultiIsomers[1:]
	if reason := n.skippable(); reason != "all multimolecular isomers are monatomic" {
		t.Errorf("reason %q", reason)
	}
}

func TestNetworkFingerprint(t *testing.T) {
	want := testNetwork().Fingerprint()
	if len(want) != 32 {
		t.Fatalf("fingerprint %q should be 32 hex digits", want)
	}
	for _, test := range []struct {
		name   string
		modify func(n *Network)
		same   bool
	}{
		{name: "unchanged", modify: func(*Network) {}, same: true},
		{name: "net reactions", modify: func(n *Network) {
			n.NetReactions = []*NetReaction{{Reactant: n.UniIsomers[0], Product: n.UniIsomers[1]}}
			n.Altered = false
		}, same: true},
		{name: "kinetics", modify: func(n *Network) { n.PathReactions[0].Kinetics.A *= 2 }},
		{name: "direction", modify: func(n *Network) { n.PathReactions[2].Forward = true }},
		{name: "species enthalpy", modify: func(n *Network) {
			n.UniIsomers[0].Species[0].(*testSpecies).h += 1
		}},
		{name: "vibrations", modify: func(n *Network) {
			n.MultiIsomers[0].Species[1].SpectroscopicData().Vibrations[0] = 1200
		}},
		{name: "wells", modify: func(n *Network) {
			n.UniIsomers[0], n.UniIsomers[1] = n.UniIsomers[1], n.UniIsomers[0]
		}},
	} {
		t.Run(test.name, func(t *testing.T) {
			n := testNetwork()
			test.modify(n)
			if got := n.Fingerprint(); (got == want) != test.same {
				t.Errorf("fingerprint %q, unmodified %q, same = %v", got, want, test.same)
			}
		})
	}
}
