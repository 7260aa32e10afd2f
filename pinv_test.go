/*
 * pinv_test.go, part of godfi.
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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPseudoInverseHelix(Te *testing.T) {
	h, err := Hessian(helix(6), nil)
	require.NoError(Te, err)
	p, info, err := PseudoInverse(h, nil)
	require.NoError(Te, err)
	require.NotNil(Te, info)
	assert.Equal(Te, 6, info.NearZero)
	assert.Len(Te, info.Values, 18)
	assert.Less(Te, info.ReconstructionError, 1e-8)
	assert.InDelta(Te, 15.707384, info.Values[11], 1e-5)
	for k := 1; k < len(info.Values); k++ {
		assert.GreaterOrEqual(Te, info.Values[k-1], info.Values[k])
	}
	//Moore-Penrose conditions H·P·H = H and P·H·P = P.
	var hp, hph, ph, php mat.Dense
	hp.Mul(h, p)
	hph.Mul(&hp, h)
	assert.True(Te, mat.EqualApprox(&hph, h, 1e-8))
	ph.Mul(p, h)
	php.Mul(&ph, p)
	assert.True(Te, mat.EqualApprox(&php, p, 1e-8))
	assert.True(Te, mat.EqualApprox(p, p.T(), 1e-10))
}

// A collinear chain has no transverse stiffness, so its null space is
// larger than 6.
func TestPseudoInverseCollinear(Te *testing.T) {
	coords := coordsOf([3]float64{0, 0, 0}, [3]float64{3.8, 0, 0}, [3]float64{7.6, 0, 0}, [3]float64{11.4, 0, 0})
	h, err := Hessian(coords, nil)
	require.NoError(Te, err)
	_, info, err := PseudoInverse(h, nil)
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrNullSpace))
	require.NotNil(Te, info)
	assert.Equal(Te, 9, info.NearZero)
	assert.Contains(Te, err.Error(), "9 singular values")
	assert.Contains(Te, err.Error(), "1 connected component(s)")

	o := DefaultOptions()
	o.RigidModes = 9
	p, info, err := PseudoInverse(h, o)
	require.NoError(Te, err)
	assert.Equal(Te, 9, info.NearZero)
	r, c := p.Dims()
	assert.Equal(Te, 12, r)
	assert.Equal(Te, 12, c)
}

func TestPseudoInversePlanar(Te *testing.T) {
	coords := coordsOf([3]float64{0, 0, 0}, [3]float64{3.8, 0, 0}, [3]float64{5.0, 3.6, 0}, [3]float64{8.8, 3.6, 0})
	h, err := Hessian(coords, nil)
	require.NoError(Te, err)
	_, info, err := PseudoInverse(h, nil)
	assert.True(Te, errors.Is(err, ErrNullSpace))
	assert.Equal(Te, 7, info.NearZero)
}

// Two helices far apart, with a cutoff, are two independent networks
// with 6 rigid modes each.
func TestPseudoInverseDisconnected(Te *testing.T) {
	both := stack(helix(6), helixAt(6, 100, 0, 0))
	o := DefaultOptions()
	o.Cutoff = 15
	h, err := Hessian(both, o)
	require.NoError(Te, err)
	assert.Equal(Te, 2, Components(h))
	_, info, err := PseudoInverse(h, o)
	require.True(Te, errors.Is(err, ErrNullSpace))
	assert.Equal(Te, 12, info.NearZero)
	assert.Contains(Te, err.Error(), "2 connected component(s)")
}

// An inverter that returns a broken decomposition must be caught
// by the reconstruction check.
type badInverter struct{}

func (badInverter) SVD(h mat.Matrix) (*mat.Dense, []float64, *mat.Dense, error) {
	u, w, v, err := GonumInverter{}.SVD(h)
	if err != nil {
		return nil, nil, nil, err
	}
	w[0] *= 1.01
	return u, w, v, nil
}

func TestPseudoInverseReconstruction(Te *testing.T) {
	h, err := Hessian(helix(6), nil)
	require.NoError(Te, err)
	o := DefaultOptions()
	o.Inverter = badInverter{}
	_, info, err := PseudoInverse(h, o)
	assert.True(Te, errors.Is(err, ErrReconstruction))
	require.NotNil(Te, info)
	assert.Greater(Te, info.ReconstructionError, 1e-3)
}

type nanInverter struct{}

func (nanInverter) SVD(h mat.Matrix) (*mat.Dense, []float64, *mat.Dense, error) {
	u, w, v, err := GonumInverter{}.SVD(h)
	if err != nil {
		return nil, nil, nil, err
	}
	u.Set(0, 0, math.NaN())
	return u, w, v, nil
}

// A NaN in the decomposition must fail the reconstruction check
// instead of reaching the pseudoinverse.
func TestPseudoInverseNaN(Te *testing.T) {
	h, err := Hessian(helix(6), nil)
	require.NoError(Te, err)
	o := DefaultOptions()
	o.Inverter = nanInverter{}
	p, _, err := PseudoInverse(h, o)
	assert.Nil(Te, p)
	assert.True(Te, errors.Is(err, ErrReconstruction), "%v", err)
}

func TestPseudoInverseDiagnostics(Te *testing.T) {
	d := new(MemDiagnostics)
	o := DefaultOptions()
	o.Diagnostics = d
	h, err := Hessian(helix(6), o)
	require.NoError(Te, err)
	p, info, err := PseudoInverse(h, o)
	require.NoError(Te, err)
	assert.True(Te, mat.Equal(h, d.H))
	assert.Equal(Te, info.Values, d.W)
	assert.True(Te, mat.Equal(p, d.P))
}
