/*
 * pinv.go, part of godfi.
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
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Inverter computes the singular value decomposition H = U·diag(w)·Vᵀ
// of a square matrix. w must be returned in descending order, with the
// columns of U and V ordered accordingly.
type Inverter interface {
	SVD(h mat.Matrix) (u *mat.Dense, w []float64, v *mat.Dense, err error)
}

// GonumInverter decomposes with gonum's LAPACK-based SVD.
type GonumInverter struct{}

// SVD implements Inverter.
func (GonumInverter) SVD(h mat.Matrix) (*mat.Dense, []float64, *mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(h, mat.SVDFull); !ok {
		return nil, nil, nil, newError(ErrReconstruction, "GonumInverter.SVD", "factorization did not converge")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	return &u, svd.Values(nil), &v, nil
}

// SVDInfo summarizes the decomposition of a Hessian.
type SVDInfo struct {
	Values              []float64 //Singular values, descending
	NearZero            int       //How many of them are below the tolerance
	ReconstructionError float64   //max|UΣVᵀ-H|
}

// PseudoInverse returns the pseudoinverse of the Hessian h, obtained from its
// SVD by inverting every singular value except those below o.Tolerance,
// which are set to zero. Exactly o.RigidModes singular values must fall below
// the tolerance (the rigid-body motions of the network); any other count is
// an ErrNullSpace. The returned SVDInfo is non-nil whenever the decomposition
// itself succeeded, even if err is not nil.
func PseudoInverse(h mat.Symmetric, o *Options) (*mat.Dense, *SVDInfo, error) {
	o = orDefault(o)
	if err := o.validate("PseudoInverse"); err != nil {
		return nil, nil, err
	}
	r, c := h.Dims()
	if r != c || r == 0 {
		return nil, nil, newError(ErrShape, "PseudoInverse", "Hessian must be square and non-empty, got %dx%d", r, c)
	}
	u, w, v, err := o.inverter().SVD(h)
	if err != nil {
		return nil, nil, errDecorate(err, "PseudoInverse")
	}
	if o.Diagnostics != nil {
		o.Diagnostics.SingularValues(w)
	}
	info := &SVDInfo{Values: w}
	info.ReconstructionError = reconstructionError(u, w, v, h)
	//written so that a NaN error also fails
	if hmax := maxAbs(h); !(info.ReconstructionError <= o.ReconstructionTol*math.Max(1, hmax)) {
		return nil, info, newError(ErrReconstruction, "PseudoInverse", "max|UΣVᵀ-H| = %g for max|H| = %g", info.ReconstructionError, hmax)
	}
	invw := make([]float64, len(w))
	for k, val := range w {
		if val < o.Tolerance {
			info.NearZero++
			continue
		}
		invw[k] = 1 / val
	}
	if info.NearZero != o.RigidModes {
		return nil, info, newError(ErrNullSpace, "PseudoInverse", "%d singular values below %g, expected %d; the coupling network has %d connected component(s)",
			info.NearZero, o.Tolerance, o.RigidModes, Components(h))
	}
	p := mat.NewDense(r, r, nil)
	p.Mul(scaleColumns(u, invw), v.T())
	if i, j, bad := firstNonFinite(p); bad {
		return nil, info, newError(ErrNonFinite, "PseudoInverse", "element (%d,%d) of the pseudoinverse is %g", i, j, p.At(i, j))
	}
	if o.Diagnostics != nil {
		o.Diagnostics.PseudoInverse(p)
	}
	return p, info, nil
}

// scaleColumns returns a copy of u with column k multiplied by s[k].
func scaleColumns(u *mat.Dense, s []float64) *mat.Dense {
	ret := mat.DenseCopyOf(u)
	raw := ret.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
		for k := range row {
			row[k] *= s[k]
		}
	}
	return ret
}

func reconstructionError(u *mat.Dense, w []float64, v *mat.Dense, h mat.Matrix) float64 {
	r, c := h.Dims()
	rec := mat.NewDense(r, c, nil)
	rec.Mul(scaleColumns(u, w), v.T())
	rec.Sub(rec, h)
	return maxAbs(rec)
}

// firstNonFinite returns the position of the first NaN or infinite
// element of m, in row-major order.
func firstNonFinite(m mat.Matrix) (int, int, bool) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// maxAbs returns the largest absolute element of m, or NaN if any
// element is NaN.
func maxAbs(m mat.Matrix) float64 {
	r, c := m.Dims()
	var max float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			a := math.Abs(m.At(i, j))
			if math.IsNaN(a) {
				return a
			}
			if a > max {
				max = a
			}
		}
	}
	return max
}

// sortSVD reorders w in descending order, permuting the columns
// of u and v to match.
func sortSVD(u *mat.Dense, w []float64, v *mat.Dense) (*mat.Dense, []float64, *mat.Dense) {
	perm := make([]int, len(w))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool { return w[perm[a]] > w[perm[b]] })
	ur, _ := u.Dims()
	vr, _ := v.Dims()
	nu := mat.NewDense(ur, len(w), nil)
	nv := mat.NewDense(vr, len(w), nil)
	nw := make([]float64, len(w))
	for to, from := range perm {
		nw[to] = w[from]
		for i := 0; i < ur; i++ {
			nu.Set(i, to, u.At(i, from))
		}
		for i := 0; i < vr; i++ {
			nv.Set(i, to, v.At(i, from))
		}
	}
	return nu, nw, nv
}
