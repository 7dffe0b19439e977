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

	"gonum.org/v1/gonum/mat"
)

// ChebyshevSurface is a fitted rate coefficient k(T, P) in the form
//
//	log10 k = Σₜ Σₚ α[t][p] φₜ(T̃) φₚ(P̃)
//
// where φ are Chebyshev polynomials of the first kind, T̃ is the
// reduced inverse temperature and P̃ the reduced log pressure.
type ChebyshevSurface struct {
	Tmin, Tmax float64 // [K]
	Pmin, Pmax float64 // [bar]

	// Coeffs has one row per temperature order and one column
	// per pressure order.
	Coeffs *mat.Dense
}

// NewChebyshevSurface returns a surface with the given ranges and
// coefficients. Every coefficient must be finite and non-zero.
func NewChebyshevSurface(tmin, tmax, pmin, pmax float64, alpha *mat.Dense) (*ChebyshevSurface, error) {
	if !validCoefficients(alpha) {
		return nil, fmt.Errorf("pdep: Chebyshev coefficients must be finite and non-zero")
	}
	if !(tmin > 0 && tmax > tmin) {
		return nil, fmt.Errorf("pdep: invalid Chebyshev temperature range %g-%g K", tmin, tmax)
	}
	if !(pmin > 0 && pmax > pmin) {
		return nil, fmt.Errorf("pdep: invalid Chebyshev pressure range %g-%g bar", pmin, pmax)
	}
	return &ChebyshevSurface{
		Tmin: tmin, Tmax: tmax,
		Pmin: pmin, Pmax: pmax,
		Coeffs: alpha,
	}, nil
}

// validCoefficients returns false if any element of alpha is zero,
// NaN, or infinite.
func validCoefficients(alpha *mat.Dense) bool {
	r, c := alpha.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := alpha.At(i, j)
			if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// NT returns the number of temperature polynomials.
func (c *ChebyshevSurface) NT() int {
	r, _ := c.Coeffs.Dims()
	return r
}

// NP returns the number of pressure polynomials.
func (c *ChebyshevSurface) NP() int {
	_, p := c.Coeffs.Dims()
	return p
}

// Rate returns k at temperature T [K] and pressure P [bar]. It returns
// an error if the conditions are outside of the fitted range.
func (c *ChebyshevSurface) Rate(T, P float64) (float64, error) {
	if T < c.Tmin || T > c.Tmax {
		return 0, fmt.Errorf("pdep: temperature %g K is outside of fitted range %g-%g K", T, c.Tmin, c.Tmax)
	}
	if P < c.Pmin || P > c.Pmax {
		return 0, fmt.Errorf("pdep: pressure %g bar is outside of fitted range %g-%g bar", P, c.Pmin, c.Pmax)
	}
	tr := (2/T - 1/c.Tmin - 1/c.Tmax) / (1/c.Tmax - 1/c.Tmin)
	pr := (2*math.Log10(P) - math.Log10(c.Pmin) - math.Log10(c.Pmax)) /
		(math.Log10(c.Pmax) - math.Log10(c.Pmin))

	phiT := mat.NewVecDense(c.NT(), chebyshevSeries(c.NT(), tr))
	phiP := mat.NewVecDense(c.NP(), chebyshevSeries(c.NP(), pr))
	return math.Pow(10, mat.Inner(phiT, c.Coeffs, phiP)), nil
}

// chebyshevSeries returns φ₀(x) … φₙ₋₁(x).
func chebyshevSeries(n int, x float64) []float64 {
	phi := make([]float64, n)
	for i := range phi {
		switch i {
		case 0:
			phi[i] = 1
		case 1:
			phi[i] = x
		default:
			phi[i] = 2*x*phi[i-1] - phi[i-2]
		}
	}
	return phi
}
