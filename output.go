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
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// OutputHeader holds the fields of the solver output header.
type OutputHeader struct {
	NumUniWells, NumMultiWells    int
	NumTemperatures, NumPressures int

	Tmin, Tmax float64 // [K]
	Pmin, Pmax float64 // [bar]
}

// Output is the result of parsing a solver output file.
type Output struct {
	Header OutputHeader

	// Reactions holds one net reaction per pair of wells, with the
	// opposite direction attached as its reverse.
	Reactions []*NetReaction

	// Ignored is the number of coefficient blocks that were dropped
	// because they contained a zero or non-finite value.
	Ignored int
}

// ReadOutput reads the solver output file in ws. uni and multi are the
// isomers the solver input was written for. If the output file is
// empty or absent the legacy output file is tried.
//
// If some coefficient blocks are invalid, the valid reactions are
// returned together with an error wrapping ErrInvalidRates.
func ReadOutput(ws Workspace, uni, multi []*Isomer) (*Output, error) {
	var path string
	for _, p := range []string{ws.OutputPath(), ws.LegacyOutputPath()} {
		if fi, err := os.Stat(p); err == nil && fi.Size() > 0 {
			path = p
			break
		}
	}
	if path == "" {
		return nil, fmt.Errorf("%w: neither %s nor %s has any content",
			ErrOutputMissing, ws.OutputPath(), ws.LegacyOutputPath())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputMissing, err)
	}
	defer f.Close()
	return ParseOutput(f, uni, multi)
}

// ParseOutput parses solver output from r. See ReadOutput.
func ParseOutput(r io.Reader, uni, multi []*Isomer) (*Output, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)

	h, err := parseOutputHeader(s)
	if err != nil {
		return nil, err
	}
	if h.NumUniWells != len(uni) || h.NumMultiWells != len(multi) {
		return nil, fmt.Errorf("%w: output has %d unimolecular and %d multimolecular wells "+
			"but network has %d and %d", ErrMalformedOutput,
			h.NumUniWells, h.NumMultiWells, len(uni), len(multi))
	}
	wells := make([]*Isomer, 0, len(uni)+len(multi))
	wells = append(append(wells, uni...), multi...)

	o := &Output{Header: h}
	var rxns []*NetReaction
blocks:
	for i := range wells {
		for j := range wells {
			if i == j {
				continue
			}
			alpha, valid, complete := parseBlock(s, h.NumTemperatures, h.NumPressures)
			if alpha == nil {
				break blocks // end of file
			}
			if valid {
				cheb, err := NewChebyshevSurface(h.Tmin, h.Tmax, h.Pmin, h.Pmax, alpha)
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
				}
				rxns = append(rxns, &NetReaction{
					Reactant: wells[j],
					Product:  wells[i],
					Rate:     cheb,
				})
			} else {
				o.Ignored++
			}
			if !complete {
				break blocks
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputMissing, err)
	}

	o.Reactions = pairReverse(rxns)
	if o.Ignored > 0 {
		return o, fmt.Errorf("%w (%d ignored)", ErrInvalidRates, o.Ignored)
	}
	return o, nil
}

// parseOutputHeader reads header lines up to and including the blank
// line that terminates the header.
func parseOutputHeader(s *bufio.Scanner) (OutputHeader, error) {
	var h OutputHeader
	ints := []struct {
		prefix string
		v      *int
	}{
		{"Number of unimolecular wells", &h.NumUniWells},
		{"Number of multimolecular wells", &h.NumMultiWells},
		{"Number of Chebyshev temperatures", &h.NumTemperatures},
		{"Number of Chebyshev pressures", &h.NumPressures},
	}
	ranges := []struct {
		prefix   string
		min, max *float64
	}{
		{"Temperature range of fit", &h.Tmin, &h.Tmax},
		{"Pressure range of fit", &h.Pmin, &h.Pmax},
	}

	terminated, read := false, false
lines:
	for s.Scan() {
		read = true
		line := strings.TrimSpace(s.Text())
		if line == "" {
			terminated = true
			break
		}
		if line[0] == '#' {
			continue
		}
		for _, f := range ints {
			if strings.HasPrefix(line, f.prefix) {
				v, err := strconv.Atoi(strings.TrimSpace(line[len(f.prefix):]))
				if err != nil {
					return h, fmt.Errorf("%w: header field %q: %v", ErrMalformedOutput, f.prefix, err)
				}
				*f.v = v
				continue lines
			}
		}
		for _, f := range ranges {
			if strings.HasPrefix(line, f.prefix) {
				// The range is given as "min <sep> max [units]".
				tok := strings.Fields(line[len(f.prefix):])
				if len(tok) < 3 {
					return h, fmt.Errorf("%w: header field %q is malformed", ErrMalformedOutput, f.prefix)
				}
				var err error
				if *f.min, err = parseFloat(tok[0]); err != nil {
					return h, fmt.Errorf("%w: header field %q: %v", ErrMalformedOutput, f.prefix, err)
				}
				if *f.max, err = parseFloat(tok[2]); err != nil {
					return h, fmt.Errorf("%w: header field %q: %v", ErrMalformedOutput, f.prefix, err)
				}
				continue lines
			}
		}
	}
	if !terminated {
		if err := s.Err(); err != nil {
			return h, fmt.Errorf("%w: %v", ErrOutputMissing, err)
		}
		if !read {
			return h, fmt.Errorf("%w: output is empty", ErrOutputMissing)
		}
		return h, fmt.Errorf("%w: output header is not terminated", ErrMalformedOutput)
	}
	if h.NumTemperatures < 1 || h.NumPressures < 1 {
		return h, fmt.Errorf("%w: output has %d×%d Chebyshev coefficients",
			ErrMalformedOutput, h.NumTemperatures, h.NumPressures)
	}
	if !(h.Tmin > 0 && h.Tmin < h.Tmax) || !(h.Pmin > 0 && h.Pmin < h.Pmax) {
		return h, fmt.Errorf("%w: fit range %g-%g K, %g-%g bar", ErrMalformedOutput,
			h.Tmin, h.Tmax, h.Pmin, h.Pmax)
	}
	return h, nil
}

// parseBlock reads one coefficient block: a comment line, nt lines of
// np coefficients, and a blank separator line. alpha is nil if the
// file ended before the block started. valid is false if any
// coefficient is missing, unparseable, zero, or non-finite. complete
// is false if the file ended partway through the block.
func parseBlock(s *bufio.Scanner, nt, np int) (alpha *mat.Dense, valid, complete bool) {
	if !s.Scan() { // comment line
		return nil, false, false
	}
	alpha = mat.NewDense(nt, np, nil)
	valid = true
	for t := 0; t < nt; t++ {
		if !s.Scan() {
			return alpha, false, false
		}
		tok := strings.Fields(s.Text())
		for p := 0; p < np; p++ {
			if p >= len(tok) {
				valid = false
				break
			}
			v, err := parseFloat(tok[p])
			if err != nil || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				valid = false
				continue
			}
			alpha.Set(t, p, v)
		}
	}
	s.Scan() // blank separator; may be absent at the end of the file
	return alpha, valid, true
}

// parseFloat parses a number that may use a Fortran 'D' exponent.
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.NewReplacer("D", "E", "d", "e").Replace(s), 64)
}

// pairReverse attaches each reaction to the reaction in the opposite
// direction and removes the later one of each pair from the list.
func pairReverse(rxns []*NetReaction) []*NetReaction {
	paired := make(map[*NetReaction]bool)
	out := make([]*NetReaction, 0, len(rxns))
	for i, r1 := range rxns {
		if paired[r1] {
			continue
		}
		for _, r2 := range rxns[i+1:] {
			if !paired[r2] && r1.Reactant == r2.Product && r2.Reactant == r1.Product {
				r1.Reverse = r2
				r2.Reverse = r1
				paired[r2] = true
				break
			}
		}
		out = append(out, r1)
	}
	return out
}
