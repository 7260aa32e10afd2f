/*
 * refinverter.go, part of godfi.
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

	matrix "github.com/skelterjohn/go.matrix"
	"gonum.org/v1/gonum/mat"
)

// MatrixInverter is a reference Inverter built on the go.matrix library.
// It only accepts symmetric matrices, for which the SVD follows from the
// eigendecomposition H = QΛQᵀ: w = |λ|, V = Q and U = Q with the columns of
// negative eigenvalues flipped. It is much slower than GonumInverter and is
// meant for cross-checking.
type MatrixInverter struct{}

// SVD implements Inverter.
func (MatrixInverter) SVD(h mat.Matrix) (*mat.Dense, []float64, *mat.Dense, error) {
	r, c := h.Dims()
	if r != c {
		return nil, nil, nil, newError(ErrShape, "MatrixInverter.SVD", "matrix must be square, got %dx%d", r, c)
	}
	A := matrix.Zeros(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if h.At(i, j) != h.At(j, i) {
				return nil, nil, nil, newError(ErrShape, "MatrixInverter.SVD", "matrix is not symmetric at (%d,%d)", i, j)
			}
			A.Set(i, j, h.At(i, j))
		}
	}
	Q, D, err := A.Eigen()
	if err != nil {
		return nil, nil, nil, newError(ErrReconstruction, "MatrixInverter.SVD", "eigendecomposition failed: %s", err.Error())
	}
	u := mat.NewDense(r, r, nil)
	v := mat.NewDense(r, r, nil)
	w := make([]float64, r)
	for k := 0; k < r; k++ {
		l := D.Get(k, k)
		w[k] = math.Abs(l)
		sign := 1.0
		if l < 0 {
			sign = -1
		}
		for i := 0; i < r; i++ {
			q := Q.Get(i, k)
			v.Set(i, k, q)
			u.Set(i, k, sign*q)
		}
	}
	u, w, v = sortSVD(u, w, v)
	return u, w, v, nil
}

// CrossCheck decomposes h with both the gonum and the go.matrix backends
// and returns the largest difference between the two spectra, relative to
// the largest singular value.
func CrossCheck(h mat.Symmetric) (float64, error) {
	_, wg, _, err := GonumInverter{}.SVD(h)
	if err != nil {
		return 0, errDecorate(err, "CrossCheck")
	}
	_, wr, _, err := MatrixInverter{}.SVD(h)
	if err != nil {
		return 0, errDecorate(err, "CrossCheck")
	}
	if len(wg) != len(wr) {
		return 0, newError(ErrShape, "CrossCheck", "spectra of different lengths: %d and %d", len(wg), len(wr))
	}
	if len(wg) == 0 || wg[0] == 0 {
		return 0, nil
	}
	var max float64
	for k := range wg {
		if d := math.Abs(wg[k] - wr[k]); d > max {
			max = d
		}
	}
	return max / wg[0], nil
}
