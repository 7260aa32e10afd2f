/*
 * diagnostics.go, part of godfi.
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
	"fmt"
	"log"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Diagnostics receives the intermediate matrices of a calculation. Its
// methods are called synchronously, once per stage, and must not modify
// their arguments.
type Diagnostics interface {
	Hessian(h mat.Symmetric)
	SingularValues(w []float64)
	PseudoInverse(p mat.Matrix)
	Perturbation(pm mat.Matrix)
}

// MemDiagnostics keeps copies of the intermediate matrices.
type MemDiagnostics struct {
	H  *mat.SymDense
	W  []float64
	P  *mat.Dense
	PM *mat.Dense
}

func (M *MemDiagnostics) Hessian(h mat.Symmetric) {
	M.H = mat.NewSymDense(h.SymmetricDim(), nil)
	M.H.CopySym(h)
}

func (M *MemDiagnostics) SingularValues(w []float64) {
	M.W = append([]float64(nil), w...)
}

func (M *MemDiagnostics) PseudoInverse(p mat.Matrix) {
	M.P = mat.DenseCopyOf(p)
}

func (M *MemDiagnostics) Perturbation(pm mat.Matrix) {
	M.PM = mat.DenseCopyOf(pm)
}

// DumpDiagnostics writes the intermediate matrices to files named after
// Prefix: Prefix-hess.debug, Prefix-eigenvalues.txt, Prefix-pinv_svd.debug
// and Prefix-perturbation.debug. Matrices are written with WriteFlat, and
// compressed with zstd if Compress is true. Write failures are logged, and
// the first one is returned by Err.
type DumpDiagnostics struct {
	Prefix   string
	Compress bool
	Logger   *log.Logger
	err      error
}

func (D *DumpDiagnostics) name(suffix string) string {
	if D.Compress {
		return D.Prefix + suffix + ".zst"
	}
	return D.Prefix + suffix
}

func (D *DumpDiagnostics) fail(name string, err error) {
	if err == nil {
		return
	}
	if D.err == nil {
		D.err = err
	}
	msg := fmt.Sprintf("WARNING: could not write diagnostics file %s: %s", name, err.Error())
	if D.Logger != nil {
		D.Logger.Print(msg)
		return
	}
	log.Print(msg)
}

func (D *DumpDiagnostics) flat(suffix string, m mat.Matrix) {
	name := D.name(suffix)
	D.fail(name, WriteFlatFile(name, m))
}

func (D *DumpDiagnostics) Hessian(h mat.Symmetric) { D.flat("-hess.debug", h) }

func (D *DumpDiagnostics) PseudoInverse(p mat.Matrix) { D.flat("-pinv_svd.debug", p) }

func (D *DumpDiagnostics) Perturbation(pm mat.Matrix) { D.flat("-perturbation.debug", pm) }

// SingularValues writes the spectrum in ascending order, one
// "index<TAB>value" pair per line.
func (D *DumpDiagnostics) SingularValues(w []float64) {
	name := D.name("-eigenvalues.txt")
	s := append([]float64(nil), w...)
	sort.Float64s(s)
	f, err := Create(name)
	if err != nil {
		D.fail(name, err)
		return
	}
	bw := bufio.NewWriter(f)
	for i, v := range s {
		fmt.Fprintf(bw, "%d\t%f\n", i, v)
	}
	err = bw.Flush()
	if err2 := f.Close(); err == nil {
		err = err2
	}
	D.fail(name, err)
}

// Err returns the first error found while writing, if any.
func (D *DumpDiagnostics) Err() error {
	return D.err
}
