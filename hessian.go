/*
 * hessian.go, part of godfi.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package dfi

import (
	"math"

	v3 "github.com/rmera/godfi/v3"
	"gonum.org/v1/gonum/mat"
)

// Hessian builds the 3Nx3N Hessian of the anisotropic elastic network
// defined by coords (one residue per row) and the coupling in o.
// The 3x3 block (i,j), i!=j, is -k_ij*d*dᵀ/|d|², where d = r_i-r_j,
// and each diagonal block is minus the sum of the off-diagonal blocks
// in its row. A nil o means DefaultOptions().
func Hessian(coords *v3.Matrix, o *Options) (*mat.SymDense, error) {
	o = orDefault(o)
	if err := o.validate("Hessian"); err != nil {
		return nil, err
	}
	n := coords.NVecs()
	if n < 2 {
		return nil, newError(ErrShape, "Hessian", "need at least 2 residues, got %d", n)
	}
	k := o.coupling()
	dim := 3 * n
	data := make([]float64, dim*dim)
	//Each call only writes to the 3 rows of residue i.
	row := func(i int) error {
		ri := coords.Vec(i)
		var d [3]float64
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			rj := coords.Vec(j)
			d[0] = ri[0] - rj[0]
			d[1] = ri[1] - rj[1]
			d[2] = ri[2] - rj[2]
			r2 := d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
			if r2 == 0 {
				return newError(ErrCoincident, "Hessian", "residues %d and %d share the same position", i, j)
			}
			spring := k(r2)
			if math.IsNaN(spring) || math.IsInf(spring, 0) {
				return newError(ErrCoincident, "Hessian", "non-finite coupling (%v) between residues %d and %d, separation %g", spring, i, j, math.Sqrt(r2))
			}
			if spring == 0 {
				continue
			}
			for a := 0; a < 3; a++ {
				ia := (3*i + a) * dim
				for b := 0; b < 3; b++ {
					c := spring * (d[a] * d[b] / r2)
					data[ia+3*i+b] += c
					data[ia+3*j+b] -= c
				}
			}
		}
		return nil
	}
	if err := parallelFor(n, o.Cpus, row); err != nil {
		return nil, err
	}
	h := mat.NewSymDense(dim, data)
	if o.Diagnostics != nil {
		o.Diagnostics.Hessian(h)
	}
	return h, nil
}
