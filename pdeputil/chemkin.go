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
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/spatialmodel/pdep"
)

const barToAtm = 1 / 1.01325

// ChemkinWriter keeps the net reactions of every estimated network
// in a Chemkin file with Chebyshev (CHEB) rate expressions. It
// implements pdep.ModelUpdater.
type ChemkinWriter struct {
	Path string

	mu       sync.Mutex
	networks map[int][]*pdep.NetReaction
}

// UpdateReactionLists replaces the reactions of n in the file.
func (c *ChemkinWriter) UpdateReactionLists(n *pdep.Network) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.networks == nil {
		c.networks = make(map[int][]*pdep.NetReaction)
	}
	c.networks[n.ID] = n.NetReactions

	var b bytes.Buffer
	WriteChemkin(&b, c.networks)
	tmp := c.Path + ".tmp"
	if err := os.WriteFile(tmp, b.Bytes(), 0644); err != nil {
		return fmt.Errorf("pdep: writing %s: %v", c.Path, err)
	}
	return os.Rename(tmp, c.Path)
}

// WriteChemkin writes a REACTIONS section holding the net reactions of
// each network, in order of network ID. Each reaction and its reverse
// are written as separate irreversible reactions.
func WriteChemkin(b *bytes.Buffer, networks map[int][]*pdep.NetReaction) {
	ids := make([]int, 0, len(networks))
	for id := range networks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	b.WriteString("REACTIONS    KCAL/MOLE   MOLES\n\n")
	for _, id := range ids {
		fmt.Fprintf(b, "! Pressure-dependent network #%d\n", id)
		for _, r := range networks[id] {
			writeCheb(b, r)
			if r.Reverse != nil {
				writeCheb(b, r.Reverse)
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("END\n")
}

func writeCheb(b *bytes.Buffer, r *pdep.NetReaction) {
	c := r.Rate
	eq := fmt.Sprintf("%s(+M)=>%s(+M)", chemkinSide(r.Reactant), chemkinSide(r.Product))
	fmt.Fprintf(b, "%-52s 1.0E0 0.0 0.0\n", eq)
	fmt.Fprintf(b, "    TCHEB/ %.1f %.1f /\n", c.Tmin, c.Tmax)
	fmt.Fprintf(b, "    PCHEB/ %.4g %.4g /\n", c.Pmin*barToAtm, c.Pmax*barToAtm)
	fmt.Fprintf(b, "    CHEB/ %d %d /\n", c.NT(), c.NP())
	for t := 0; t < c.NT(); t++ {
		b.WriteString("    CHEB/")
		for p := 0; p < c.NP(); p++ {
			fmt.Fprintf(b, " %12.5e", c.Coeffs.At(t, p))
		}
		b.WriteString(" /\n")
	}
}

func chemkinSide(iso *pdep.Isomer) string {
	names := make([]string, len(iso.Species))
	for i, s := range iso.Species {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}
