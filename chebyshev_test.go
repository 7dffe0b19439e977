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
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestChebyshevRate(t *testing.T) {
	alpha := mat.NewDense(2, 2, []float64{
		10, 0.5,
		1, 0.25,
	})
	c, err := NewChebyshevSurface(300, 2100, 0.01, 100, alpha)
	if err != nil {
		t.Fatal(err)
	}
	if c.NT() != 2 || c.NP() != 2 {
		t.Fatalf("dims %d×%d, want 2×2", c.NT(), c.NP())
	}
	for _, test := range []struct {
		T, P, log10k float64
	}{
		// The reduced inverse temperature is -1 at Tmin and 1 at Tmax.
		{T: 300, P: 100, log10k: 10 + 0.5 - 1 - 0.25},
		{T: 2100, P: 0.01, log10k: 10 - 0.5 + 1 - 0.25},
		// Both reduced variables are 0 here.
		{T: 2 / (1/300.0 + 1/2100.0), P: 1, log10k: 10},
	} {
		k, err := c.Rate(test.T, test.P)
		if err != nil {
			t.Fatal(err)
		}
		if different(math.Log10(k), test.log10k, 1e-10) {
			t.Errorf("k(%g K, %g bar) = 10^%g, want 10^%g", test.T, test.P, math.Log10(k), test.log10k)
		}
	}
	if _, err := c.Rate(250, 1); err == nil {
		t.Error("expected an error below the temperature range")
	}
	if _, err := c.Rate(1000, 1000); err == nil {
		t.Error("expected an error above the pressure range")
	}
}

func TestNewChebyshevSurfaceInvalid(t *testing.T) {
	for _, test := range []struct {
		name                   string
		tmin, tmax, pmin, pmax float64
		v                      float64
	}{
		{name: "zero", tmin: 300, tmax: 2100, pmin: 0.01, pmax: 100, v: 0},
		{name: "NaN", tmin: 300, tmax: 2100, pmin: 0.01, pmax: 100, v: math.NaN()},
		{name: "Inf", tmin: 300, tmax: 2100, pmin: 0.01, pmax: 100, v: math.Inf(-1)},
		{name: "temperature range", tmin: 2100, tmax: 300, pmin: 0.01, pmax: 100, v: 1},
		{name: "pressure range", tmin: 300, tmax: 2100, pmin: 0, pmax: 100, v: 1},
	} {
		t.Run(test.name, func(t *testing.T) {
			alpha := mat.NewDense(2, 2, []float64{1, 1, 1, test.v})
			if _, err := NewChebyshevSurface(test.tmin, test.tmax, test.pmin, test.pmax, alpha); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
