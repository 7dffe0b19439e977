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
	"text/tabwriter"
	"time"

	"github.com/spatialmodel/pdep"
	"github.com/spatialmodel/pdep/internal/ledger"
)

// WriteInput writes the solver input file for network n of m in the
// given mode to w. Atoms that lack spectroscopic data are given
// empty data first.
func WriteInput(w io.Writer, m *Model, n *pdep.Network, mode pdep.Mode) error {
	for _, s := range n.Species() {
		if s.SpectroscopicData() != nil {
			continue
		}
		if err := s.GenerateSpectroscopicData(); err != nil {
			return fmt.Errorf("pdep: network %d: %v", n.ID, err)
		}
	}
	bg, err := pdep.SummarizeBathGas(m.Conditions)
	if err != nil {
		return err
	}
	iw := pdep.InputWriter{Fitter: DetailedBalanceFitter{Explicit: m.ReverseKinetics}}
	_, err = iw.Encode(w, pdep.Input{
		Network: n,
		Mode:    mode,
		Grid:    pdep.EnergyGrid(n.UniIsomers, n.MultiIsomers),
		BathGas: bg,
	})
	return err
}

func printHistory(out io.Writer, entries []ledger.Entry) error {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tNETWORK\tRUN\tMODE\tREACTIONS\tIGNORED\tELAPSED\tERROR")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%d\t%d\t%v\t%s\n",
			e.Started.Local().Format(time.RFC3339), e.NetworkID, e.RunCount, e.Mode,
			e.NetReactions, e.Ignored, e.Elapsed, e.Err)
	}
	return w.Flush()
}
