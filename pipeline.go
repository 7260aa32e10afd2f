/*
 * pipeline.go, part of godfi.
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
	"fmt"
	"sort"

	v3 "github.com/rmera/godfi/v3"
	"gonum.org/v1/gonum/mat"
)

// Record contains all the scores computed for one residue.
type Record struct {
	Residue
	DFI, RelDFI, PctDFI, ZDFI     float64
	MDFI, RelMDFI, PctMDFI, ZMDFI float64
	//Only meaningful if the structure has hinges (Result.Hinges is not empty).
	HMDFI, RelHMDFI, PctHMDFI, ZHMDFI float64
	//Only meaningful if a functional site was given (Result.HasFunctional).
	FDFI, RelFDFI, PctFDFI, ZFDFI float64
	RAvg, RMin                    float64
	Allosteric                    bool
}

// Result is the outcome of a DFI calculation.
type Result struct {
	Records      []Record
	Perturbation *mat.Dense
	Functional   []int //Indexes of the resolved functional residues
	Hinges       []int
	Warnings     []string
	SVD          *SVDInfo //nil when the pseudoinverse was given
}

// HasFunctional returns true if the f-DFI scores were computed.
func (R *Result) HasFunctional() bool {
	return len(R.Functional) > 0
}

// HasHinges returns true if the hinge-restricted m-DFI scores were computed.
func (R *Result) HasHinges() bool {
	return len(R.Hinges) > 0
}

var columns = map[string]func(r *Record) float64{
	"dfi":      func(r *Record) float64 { return r.DFI },
	"rdfi":     func(r *Record) float64 { return r.RelDFI },
	"pctdfi":   func(r *Record) float64 { return r.PctDFI },
	"zdfi":     func(r *Record) float64 { return r.ZDFI },
	"mdfi":     func(r *Record) float64 { return r.MDFI },
	"rmdfi":    func(r *Record) float64 { return r.RelMDFI },
	"pctmdfi":  func(r *Record) float64 { return r.PctMDFI },
	"zmdfi":    func(r *Record) float64 { return r.ZMDFI },
	"hmdfi":    func(r *Record) float64 { return r.HMDFI },
	"rhmdfi":   func(r *Record) float64 { return r.RelHMDFI },
	"pcthmdfi": func(r *Record) float64 { return r.PctHMDFI },
	"zhmdfi":   func(r *Record) float64 { return r.ZHMDFI },
	"fdfi":     func(r *Record) float64 { return r.FDFI },
	"rfdfi":    func(r *Record) float64 { return r.RelFDFI },
	"pctfdfi":  func(r *Record) float64 { return r.PctFDFI },
	"zfdfi":    func(r *Record) float64 { return r.ZFDFI },
	"ravg":     func(r *Record) float64 { return r.RAvg },
	"rmin":     func(r *Record) float64 { return r.RMin },
}

// ColumnNames returns the names accepted by Result.Column, sorted.
func ColumnNames() []string {
	ret := make([]string, 0, len(columns))
	for k := range columns {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Column returns one score for all residues, by name ("dfi", "pctdfi",
// "fdfi", "pctfdfi", etc.). Functional and hinge columns are only
// available if they were computed.
func (R *Result) Column(name string) ([]float64, error) {
	f, ok := columns[name]
	if !ok {
		return nil, fmt.Errorf("unknown score %q, valid names are %v", name, ColumnNames())
	}
	switch name {
	case "fdfi", "rfdfi", "pctfdfi", "zfdfi", "ravg", "rmin":
		if !R.HasFunctional() {
			return nil, fmt.Errorf("score %q requires a functional site", name)
		}
	case "hmdfi", "rhmdfi", "pcthmdfi", "zhmdfi":
		if !R.HasHinges() {
			return nil, fmt.Errorf("score %q requires hinge residues, and none were found", name)
		}
	}
	ret := make([]float64, len(R.Records))
	for i := range R.Records {
		ret[i] = f(&R.Records[i])
	}
	return ret, nil
}

// Run computes the DFI of the structure given by res and coords, and, if
// functional is not empty, the f-DFI with respect to the residues it names.
// Functional identifiers that match no residue are reported as warnings, but
// it is an error if none of them can be resolved.
func Run(res Residues, coords *v3.Matrix, functional []string, o *Options) (*Result, error) {
	o = orDefault(o)
	if err := checkInput(res, coords); err != nil {
		return nil, errDecorate(err, "Run")
	}
	fidx, warnings, err := resolveFunctional(res, functional, o)
	if err != nil {
		return nil, errDecorate(err, "Run")
	}
	h, err := Hessian(coords, o)
	if err != nil {
		return nil, errDecorate(err, "Run")
	}
	if o.CrossCheck {
		diff, err := CrossCheck(h)
		if err != nil {
			return nil, errDecorate(err, "Run")
		}
		if diff > o.Tolerance {
			return nil, newError(ErrReconstruction, "Run", "reference SVD spectrum differs by %g (relative)", diff)
		}
		o.logf("SVD spectra cross-check passed, max relative difference %g", diff)
	}
	pinv, info, err := PseudoInverse(h, o)
	if err != nil {
		return nil, errDecorate(err, "Run")
	}
	result, err := fromPseudoInverse(res, coords, pinv, fidx, o)
	if err != nil {
		return nil, errDecorate(err, "Run")
	}
	result.SVD = info
	result.Warnings = warnings
	return result, nil
}

// RunCovariance is like Run, but uses the given pseudoinverse of the Hessian
// (for instance, a covariance matrix from a simulation) instead of building
// one from the coordinates. The coordinates are only used for distances to
// the functional site.
func RunCovariance(res Residues, coords *v3.Matrix, pinv mat.Matrix, functional []string, o *Options) (*Result, error) {
	o = orDefault(o)
	if err := checkInput(res, coords); err != nil {
		return nil, errDecorate(err, "RunCovariance")
	}
	n := len(res)
	if r, c := pinv.Dims(); r != 3*n || c != 3*n {
		return nil, newError(ErrShape, "RunCovariance", "covariance matrix is %dx%d, expected %dx%d for %d residues", r, c, 3*n, 3*n, n)
	}
	fidx, warnings, err := resolveFunctional(res, functional, o)
	if err != nil {
		return nil, errDecorate(err, "RunCovariance")
	}
	result, err := fromPseudoInverse(res, coords, pinv, fidx, o)
	if err != nil {
		return nil, errDecorate(err, "RunCovariance")
	}
	result.Warnings = warnings
	return result, nil
}

func checkInput(res Residues, coords *v3.Matrix) error {
	if coords == nil {
		return newError(ErrShape, "checkInput", "no coordinates")
	}
	if n := coords.NVecs(); n != len(res) {
		return newError(ErrShape, "checkInput", "%d residues but %d coordinate rows", len(res), n)
	}
	return nil
}

func resolveFunctional(res Residues, functional []string, o *Options) ([]int, []string, error) {
	if len(functional) == 0 {
		return nil, nil, nil
	}
	idx, unresolved := Resolve(res, functional)
	warnings := make([]string, 0, len(unresolved))
	for _, v := range unresolved {
		w := fmt.Sprintf("WARNING: Can't find functional residue %s", v)
		o.logf("%s", w)
		warnings = append(warnings, w)
	}
	if len(idx) == 0 {
		return nil, warnings, newError(ErrNoFunctional, "resolveFunctional", "none of %d identifiers matched a residue", len(functional))
	}
	return idx, warnings, nil
}

func fromPseudoInverse(res Residues, coords *v3.Matrix, pinv mat.Matrix, fidx []int, o *Options) (*Result, error) {
	pm, err := PerturbationMatrix(pinv, len(res), o)
	if err != nil {
		return nil, err
	}
	records, hinges, err := Aggregate(res, coords, pm, fidx, o)
	if err != nil {
		return nil, err
	}
	return &Result{Records: records, Perturbation: pm, Functional: fidx, Hinges: hinges}, nil
}

// Aggregate computes all the per-residue scores from the perturbation matrix
// pm. The f-DFI scores, and the distances to the functional site, are only
// computed if functional is not empty. It returns the records and the
// indexes of the hinge residues.
func Aggregate(res Residues, coords *v3.Matrix, pm mat.Matrix, functional []int, o *Options) ([]Record, []int, error) {
	o = orDefault(o)
	n := len(res)
	if r, c := pm.Dims(); r != n || c != n {
		return nil, nil, newError(ErrShape, "Aggregate", "perturbation matrix is %dx%d for %d residues", r, c, n)
	}
	records := make([]Record, n)
	d := Analyze(DFI(pm))
	m := Analyze(MDFI(pm))
	for i := range records {
		records[i] = Record{
			Residue: res[i],
			DFI:     d.Raw[i], RelDFI: d.Rel[i], PctDFI: d.Pct[i], ZDFI: d.Z[i],
			MDFI: m.Raw[i], RelMDFI: m.Rel[i], PctMDFI: m.Pct[i], ZMDFI: m.Z[i],
		}
	}
	hinges := Hinges(d.Pct, o.HingePct)
	if len(hinges) > 0 {
		raw, err := HingeMDFI(pm, hinges)
		if err != nil {
			return nil, nil, errDecorate(err, "Aggregate")
		}
		h := Analyze(raw)
		for i := range records {
			r := &records[i]
			r.HMDFI, r.RelHMDFI, r.PctHMDFI, r.ZHMDFI = h.Raw[i], h.Rel[i], h.Pct[i], h.Z[i]
		}
	}
	if len(functional) == 0 {
		return records, hinges, nil
	}
	raw, err := FDFI(pm, functional)
	if err != nil {
		return nil, nil, errDecorate(err, "Aggregate")
	}
	f := Analyze(raw)
	ravg, rmin, err := SiteDistances(coords, functional)
	if err != nil {
		return nil, nil, errDecorate(err, "Aggregate")
	}
	allo := Allosteric(rmin, f.Pct, o)
	for i := range records {
		r := &records[i]
		r.FDFI, r.RelFDFI, r.PctFDFI, r.ZFDFI = f.Raw[i], f.Rel[i], f.Pct[i], f.Z[i]
		r.RAvg, r.RMin = ravg[i], rmin[i]
		r.Allosteric = allo[i]
	}
	return records, hinges, nil
}
