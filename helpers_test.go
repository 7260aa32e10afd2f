/*
 * helpers_test.go, part of godfi.
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
	"log"
	"math"

	v3 "github.com/rmera/godfi/v3"
)

// helix returns the alpha-carbons of an ideal alpha helix of n residues:
// radius 2.3 A, 1.5 A rise and 100 degrees per residue.
func helix(n int) *v3.Matrix {
	return helixAt(n, 0, 0, 0)
}

func helixAt(n int, x, y, z float64) *v3.Matrix {
	data := make([]float64, 0, 3*n)
	for i := 0; i < n; i++ {
		t := float64(i) * 100 * math.Pi / 180
		data = append(data, x+2.3*math.Cos(t), y+2.3*math.Sin(t), z+1.5*float64(i))
	}
	m, err := v3.NewMatrix(data)
	if err != nil {
		panic(err)
	}
	return m
}

func coordsOf(points ...[3]float64) *v3.Matrix {
	data := make([]float64, 0, 3*len(points))
	for _, p := range points {
		data = append(data, p[0], p[1], p[2])
	}
	m, err := v3.NewMatrix(data)
	if err != nil {
		panic(err)
	}
	return m
}

// stack returns a matrix with the vectors of all ms, in order.
func stack(ms ...*v3.Matrix) *v3.Matrix {
	var data []float64
	for _, m := range ms {
		for i := 0; i < m.NVecs(); i++ {
			v := m.Vec(i)
			data = append(data, v[:]...)
		}
	}
	ret, err := v3.NewMatrix(data)
	if err != nil {
		panic(err)
	}
	return ret
}

// chain returns n alanines in chain c, numbered from first.
func chain(n int, c string, first int) Residues {
	ret := make(Residues, n)
	for i := range ret {
		ret[i] = Residue{Chain: c, ResID: first + i, Name: "ALA", Name1: 'A'}
	}
	return ret
}

// quietOptions returns DefaultOptions with a logger that writes to buf.
func quietOptions(buf *bytes.Buffer) *Options {
	o := DefaultOptions()
	o.Logger = log.New(buf, "", 0)
	return o
}

// Reference values for helix(6) with the default options.
var (
	helix6DFI  = []float64{0.240903, 0.162973, 0.123558, 0.125571, 0.150936, 0.196060}
	helix6MDFI = []float64{0.273972, 0.161758, 0.120293, 0.126140, 0.132995, 0.184843}
)
