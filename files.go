/*
 * files.go, part of godfi.
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
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

//Why couldn't *zstd.Decoder implement io.ReadCloser? :-(
type stdql struct {
	*zstd.Decoder
	f *os.File
}

//Close closes the decoder and the underlying file.
func (s stdql) Close() error {
	s.Decoder.Close()
	return s.f.Close()
}

type gzfile struct {
	*gzip.Reader
	f *os.File
}

func (g gzfile) Close() error {
	err := g.Reader.Close()
	if err2 := g.f.Close(); err == nil {
		err = err2
	}
	return err
}

// Open opens the file name for reading. Files ending in ".zst" are
// decompressed with zstd, and files ending in ".gz" with gzip.
func Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(name, ".zst"):
		d, err := zstd.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		return stdql{d, f}, nil
	case strings.HasSuffix(name, ".gz"):
		g, err := gzip.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		return gzfile{g, f}, nil
	}
	return f, nil
}

type zstdfile struct {
	*zstd.Encoder
	f *os.File
}

func (z zstdfile) Close() error {
	err := z.Encoder.Close()
	if err2 := z.f.Close(); err == nil {
		err = err2
	}
	return err
}

// Create creates the file name for writing. If the name ends in ".zst",
// whatever is written is compressed with zstd.
func Create(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(name, ".zst") {
		return f, nil
	}
	z, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return zstdfile{z, f}, nil
}

// WriteFlat writes the elements of m to w, one per line with
// the %f format, in row-major order.
func WriteFlat(w io.Writer, m mat.Matrix) error {
	bw := bufio.NewWriter(w)
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if _, err := fmt.Fprintf(bw, "%f\n", m.At(i, j)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriteFlatFile writes m to the file name with WriteFlat.
func WriteFlatFile(name string, m mat.Matrix) error {
	f, err := Create(name)
	if err != nil {
		return err
	}
	if err = WriteFlat(f, m); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}

// ReadCovariance reads a square matrix written as text, one row per line,
// with whitespace-separated elements. Empty lines and lines starting
// with '#' are ignored. A file with a single value per line is read as a
// flattened matrix, in row-major order, if the number of values is a perfect
// square.
func ReadCovariance(r io.Reader) (*mat.Dense, error) {
	var data []float64
	var cols int
	rows := 0
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 1024*1024), 64*1024*1024)
	line := 0
	for s.Scan() {
		line++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if rows == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("line %d: %d values, previous lines had %d", line, len(fields), cols)
		}
		for _, v := range fields {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			data = append(data, f)
		}
		rows++
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("no data")
	}
	if cols == 1 && rows > 1 {
		n := 1
		for n*n < rows {
			n++
		}
		if n*n != rows {
			return nil, fmt.Errorf("flat matrix with %d values is not square", rows)
		}
		rows, cols = n, n
	}
	if rows != cols {
		return nil, fmt.Errorf("matrix is %dx%d, not square", rows, cols)
	}
	return mat.NewDense(rows, cols, data), nil
}

// ReadCovarianceFile reads a matrix from the file name with ReadCovariance.
// The file can be compressed (see Open).
func ReadCovarianceFile(name string) (*mat.Dense, error) {
	f, err := Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := ReadCovariance(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return m, nil
}
