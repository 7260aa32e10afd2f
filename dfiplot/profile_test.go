/*
 * profile_test.go, part of godfi.
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

package dfiplot

import (
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"testing"

	dfi "github.com/rmera/godfi"
	v3 "github.com/rmera/godfi/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helixResult(Te *testing.T, n int, functional ...string) *dfi.Result {
	Te.Helper()
	data := make([]float64, 0, 3*n)
	res := make(dfi.Residues, n)
	for i := 0; i < n; i++ {
		t := float64(i) * 100 * math.Pi / 180
		data = append(data, 2.3*math.Cos(t), 2.3*math.Sin(t), 1.5*float64(i))
		res[i] = dfi.Residue{Chain: "A", ResID: i + 1, Name: "GLY", Name1: 'G'}
	}
	coords, err := v3.NewMatrix(data)
	require.NoError(Te, err)
	o := dfi.DefaultOptions()
	o.Logger = log.New(io.Discard, "", 0)
	r, err := dfi.Run(res, coords, functional, o)
	require.NoError(Te, err)
	return r
}

func TestProfile(Te *testing.T) {
	r := helixResult(Te, 20, "A5")
	p, err := Profile(r, "pctfdfi", "f-DFI")
	require.NoError(Te, err)
	assert.Equal(Te, "f-DFI", p.Title.Text)
	assert.Equal(Te, 20.0, p.X.Max)

	_, err = Profile(r, "nonsense", "x")
	assert.Error(Te, err)
	_, err = Profile(helixResult(Te, 6), "fdfi", "x")
	assert.Error(Te, err)
}

func TestSaveProfile(Te *testing.T) {
	r := helixResult(Te, 20, "A5", "A6")
	for _, name := range []string{"p.png", "p.svg"} {
		filename := filepath.Join(Te.TempDir(), name)
		require.NoError(Te, SaveProfile(r, "pctdfi", "DFI profile", filename))
		st, err := os.Stat(filename)
		require.NoError(Te, err)
		assert.Greater(Te, st.Size(), int64(0))
	}
}
