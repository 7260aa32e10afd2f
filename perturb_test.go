/*
 * perturb_test.go, part of godfi.
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
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func helixPinv(Te *testing.T, n int) *mat.Dense {
	h, err := Hessian(helix(n), nil)
	require.NoError(Te, err)
	p, _, err := PseudoInverse(h, nil)
	require.NoError(Te, err)
	return p
}

func TestPerturbationHelix(Te *testing.T) {
	p := helixPinv(Te, 6)
	pm, err := PerturbationMatrix(p, 6, nil)
	require.NoError(Te, err)
	assert.InDelta(Te, 0.081431, pm.At(0, 0), 1e-6)
	assert.InDelta(Te, 0.042181, pm.At(0, 1), 1e-6)
	assert.InDelta(Te, 0.012588, pm.At(3, 2), 1e-6)
	assert.InDelta(Te, 0.049903, pm.At(5, 5), 1e-6)
	d := DFI(pm)
	m := MDFI(pm)
	for i := range d {
		assert.InDelta(Te, helix6DFI[i], d[i], 2e-6, "DFI of residue %d", i)
		assert.InDelta(Te, helix6MDFI[i], m[i], 2e-6, "MDFI of residue %d", i)
	}
	assert.InDelta(Te, 1, floats.Sum(pm.RawMatrix().Data), 1e-12)
	for _, v := range pm.RawMatrix().Data {
		assert.GreaterOrEqual(Te, v, 0.0)
	}
}

func TestPerturbationNotNormalized(Te *testing.T) {
	p := helixPinv(Te, 6)
	var buf bytes.Buffer
	o := quietOptions(&buf)
	o.Normalize = false
	raw, err := PerturbationMatrix(p, 6, o)
	require.NoError(Te, err)
	assert.Contains(Te, buf.String(), "WARNING")
	norm, err := PerturbationMatrix(p, 6, nil)
	require.NoError(Te, err)
	total := floats.Sum(raw.RawMatrix().Data)
	assert.NotEqual(Te, 1.0, total)
	var scaled mat.Dense
	scaled.Scale(1/total, raw)
	assert.True(Te, mat.EqualApprox(&scaled, norm, 1e-12))
}

func TestPerturbationParallel(Te *testing.T) {
	p := helixPinv(Te, 12)
	serial, err := PerturbationMatrix(p, 12, nil)
	require.NoError(Te, err)
	o := DefaultOptions()
	o.Cpus = 5
	parallel, err := PerturbationMatrix(p, 12, o)
	require.NoError(Te, err)
	assert.True(Te, mat.Equal(serial, parallel))
}

func TestPerturbationDirections(Te *testing.T) {
	p := helixPinv(Te, 6)
	o1 := DefaultOptions()
	o1.Directions = []Direction{{1, 0, 0}, {0, 1, 1}}
	o2 := DefaultOptions()
	o2.Directions = []Direction{{3, 0, 0}, {0, 0.5, 0.5}}
	pm1, err := PerturbationMatrix(p, 6, o1)
	require.NoError(Te, err)
	pm2, err := PerturbationMatrix(p, 6, o2)
	require.NoError(Te, err)
	assert.True(Te, mat.EqualApprox(pm1, pm2, 1e-12))

	o2.Directions = []Direction{{1, 0, 0}, {0, 0, 0}}
	_, err = PerturbationMatrix(p, 6, o2)
	assert.True(Te, errors.Is(err, ErrShape))
}

func TestPerturbationShape(Te *testing.T) {
	p := helixPinv(Te, 6)
	_, err := PerturbationMatrix(p, 5, nil)
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrShape))
	assert.Contains(Te, err.Error(), "18x18")
}

// Any mat.Matrix can be used as pseudoinverse.
func TestPerturbationMatrixInterface(Te *testing.T) {
	p := helixPinv(Te, 6)
	pm1, err := PerturbationMatrix(p, 6, nil)
	require.NoError(Te, err)
	pm2, err := PerturbationMatrix(struct{ mat.Matrix }{p}, 6, nil)
	require.NoError(Te, err)
	assert.True(Te, mat.Equal(pm1, pm2))
}

func TestPerturbationNonFinite(Te *testing.T) {
	p := mat.NewDense(6, 6, nil)
	for i := 0; i < 6; i++ {
		p.Set(i, i, 1)
	}
	p.Set(4, 1, math.Inf(1))
	_, err := PerturbationMatrix(p, 2, nil)
	assert.True(Te, errors.Is(err, ErrNonFinite), "%v", err)
	p.Set(4, 1, math.NaN())
	_, err = PerturbationMatrix(p, 2, nil)
	assert.True(Te, errors.Is(err, ErrNonFinite), "%v", err)
}
