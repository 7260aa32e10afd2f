/*
 * files_test.go, part of godfi.
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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestWriteFlat(Te *testing.T) {
	var buf bytes.Buffer
	m := mat.NewDense(2, 2, []float64{1, 2.5, -3, 0.1234567})
	require.NoError(Te, WriteFlat(&buf, m))
	assert.Equal(Te, "1.000000\n2.500000\n-3.000000\n0.123457\n", buf.String())
}

func TestReadCovariance(Te *testing.T) {
	in := "# a comment\n1 2 3\n\n4 5 6\n7 8 9\n"
	m, err := ReadCovariance(strings.NewReader(in))
	require.NoError(Te, err)
	assert.True(Te, mat.Equal(mat.NewDense(3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}), m))

	flat, err := ReadCovariance(strings.NewReader("1\n2\n3\n4\n"))
	require.NoError(Te, err)
	assert.True(Te, mat.Equal(mat.NewDense(2, 2, []float64{1, 2, 3, 4}), flat))

	for _, bad := range []string{"", "1 2\n3\n", "1 2 3\n4 5 6\n", "1\n2\n3\n", "1 x\n2 3\n"} {
		_, err := ReadCovariance(strings.NewReader(bad))
		assert.Error(Te, err, "input %q", bad)
	}
}

// Matrices written with WriteFlatFile, compressed or not, can be
// read back with ReadCovarianceFile.
func TestFlatFiles(Te *testing.T) {
	dir := Te.TempDir()
	h, err := Hessian(helix(4), nil)
	require.NoError(Te, err)
	for _, name := range []string{"hess.debug", "hess.debug.zst"} {
		path := filepath.Join(dir, name)
		require.NoError(Te, WriteFlatFile(path, h))
		m, err := ReadCovarianceFile(path)
		require.NoError(Te, err)
		assert.True(Te, mat.EqualApprox(h, m, 1e-6), name)
	}
	plain, err := os.Stat(filepath.Join(dir, "hess.debug"))
	require.NoError(Te, err)
	compressed, err := os.Stat(filepath.Join(dir, "hess.debug.zst"))
	require.NoError(Te, err)
	assert.Less(Te, compressed.Size(), plain.Size())

	_, err = ReadCovarianceFile(filepath.Join(dir, "nothere.txt"))
	assert.Error(Te, err)
}
