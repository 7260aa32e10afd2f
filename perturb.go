/*
 * perturb.go, part of godfi.
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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Direction is a force direction in cartesian space. It needs not be normalized.
type Direction [3]float64

// DefaultDirections returns the 7 directions used to perturb each residue:
// the 3 axes, the 3 face diagonals and the body diagonal.
func DefaultDirections() []Direction {
	return []Direction{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{1, 1, 0},
		{1, 0, 1},
		{0, 1, 1},
		{1, 1, 1},
	}
}

func unitDirections(dirs []Direction) ([]Direction, error) {
	ret := make([]Direction, len(dirs))
	for i, d := range dirs {
		norm := floats.Norm(d[:], 2)
		if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
			return nil, newError(ErrShape, "PerturbationMatrix", "direction %d (%v) cannot be normalized", i, d)
		}
		floats.ScaleTo(ret[i][:], 1/norm, d[:])
	}
	return ret, nil
}

// PerturbationMatrix applies a unit force at each of the n residues, along
// each of the directions in o, and measures the displacement response of every
// residue through the pseudoinverse pinv (3nx3n). The element (i,j) of the
// returned nxn matrix is the response magnitude of residue i to forces on
// residue j, averaged over the directions. If o.Normalize is set, the matrix
// is further divided by the sum of all its elements.
func PerturbationMatrix(pinv mat.Matrix, n int, o *Options) (*mat.Dense, error) {
	o = orDefault(o)
	if err := o.validate("PerturbationMatrix"); err != nil {
		return nil, err
	}
	r, c := pinv.Dims()
	if n < 1 || r != 3*n || c != 3*n {
		return nil, newError(ErrShape, "PerturbationMatrix", "pseudoinverse is %dx%d, expected %dx%d for %d residues", r, c, 3*n, 3*n, n)
	}
	if i, j, bad := firstNonFinite(pinv); bad {
		return nil, newError(ErrNonFinite, "PerturbationMatrix", "element (%d,%d) of the pseudoinverse is %g", i, j, pinv.At(i, j))
	}
	dirs, err := unitDirections(o.directions())
	if err != nil {
		return nil, err
	}
	p, ok := pinv.(*mat.Dense)
	if !ok {
		p = mat.DenseCopyOf(pinv)
	}
	praw := p.RawMatrix()
	pm := mat.NewDense(n, n, nil)
	pmraw := pm.RawMatrix()
	//Each call writes only to column j of pm.
	column := func(j int) error {
		disp := make([]float64, 3*n)
		for _, d := range dirs {
			//The force is zero outside the 3 coordinates of residue j,
			//so only those columns of pinv contribute to the displacement.
			for k := 0; k < 3*n; k++ {
				row := praw.Data[k*praw.Stride+3*j : k*praw.Stride+3*j+3]
				disp[k] = row[0]*d[0] + row[1]*d[1] + row[2]*d[2]
			}
			for i := 0; i < n; i++ {
				pmraw.Data[i*pmraw.Stride+j] += floats.Norm(disp[3*i:3*i+3], 2)
			}
		}
		return nil
	}
	if err := parallelFor(n, o.Cpus, column); err != nil {
		return nil, err
	}
	nd := float64(len(dirs))
	for i := 0; i < n; i++ {
		row := pmraw.Data[i*pmraw.Stride : i*pmraw.Stride+n]
		for j := range row {
			row[j] /= nd
		}
	}
	if o.Normalize {
		var total float64
		for i := 0; i < n; i++ {
			total += floats.Sum(pmraw.Data[i*pmraw.Stride : i*pmraw.Stride+n])
		}
		if total == 0 {
			return nil, newError(ErrShape, "PerturbationMatrix", "all responses are zero, cannot normalize")
		}
		for i := 0; i < n; i++ {
			row := pmraw.Data[i*pmraw.Stride : i*pmraw.Stride+n]
			for j := range row {
				row[j] /= total
			}
		}
	} else {
		o.logf("WARNING: perturbation matrix is not normalized, DFI values of different structures are not comparable")
	}
	if o.Diagnostics != nil {
		o.Diagnostics.Perturbation(pm)
	}
	return pm, nil
}
