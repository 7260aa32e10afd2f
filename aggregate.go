/*
 * aggregate.go, part of godfi.
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

	v3 "github.com/rmera/godfi/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Analysis holds a per-residue score and its three standard transforms.
type Analysis struct {
	Raw []float64
	Rel []float64 //Raw divided by its mean
	Pct []float64 //Percentile rank, in (0,1]
	Z   []float64 //Z-score with the population standard deviation
}

// DFI returns the row sums of the perturbation matrix pm, i.e. the total
// response of each residue to perturbations anywhere in the structure.
func DFI(pm mat.Matrix) []float64 {
	r, _ := pm.Dims()
	ret := make([]float64, r)
	for i := range ret {
		ret[i] = floats.Sum(mat.Row(nil, i, pm))
	}
	return ret
}

// MDFI returns the column sums of pm, i.e. how strongly perturbing each
// residue displaces the rest of the structure.
func MDFI(pm mat.Matrix) []float64 {
	_, c := pm.Dims()
	ret := make([]float64, c)
	for j := range ret {
		ret[j] = floats.Sum(mat.Col(nil, j, pm))
	}
	return ret
}

// Analyze computes the relative score, percentile rank and z-score of raw.
func Analyze(raw []float64) Analysis {
	return Analysis{
		Raw: raw,
		Rel: Relative(raw),
		Pct: PctRank(raw, false),
		Z:   ZScore(raw),
	}
}

// Relative divides each element of x by the mean of x.
func Relative(x []float64) []float64 {
	mean := stat.Mean(x, nil)
	ret := make([]float64, len(x))
	for i, v := range x {
		ret[i] = v / mean
	}
	return ret
}

// PctRank returns, for each element m of x, the fraction of elements of x
// that are less than or equal to m. Ties count as "equal", so the
// largest element always gets 1. If inverse is true, the fraction of
// elements greater than or equal to m is returned instead.
func PctRank(x []float64, inverse bool) []float64 {
	n := float64(len(x))
	ret := make([]float64, len(x))
	for i, m := range x {
		var count int
		for _, v := range x {
			if (!inverse && v <= m) || (inverse && v >= m) {
				count++
			}
		}
		ret[i] = float64(count) / n
	}
	return ret
}

// ZScore standardizes x with its mean and population standard deviation.
// If all the elements of x are equal, all z-scores are 0.
func ZScore(x []float64) []float64 {
	mean, std := stat.PopMeanStdDev(x, nil)
	ret := make([]float64, len(x))
	if std == 0 || math.IsNaN(std) {
		return ret
	}
	for i, v := range x {
		ret[i] = (v - mean) / std
	}
	return ret
}

// restrictedRatio returns, for each row i of pm, the average of pm over the
// columns in idx divided by the average over all columns. If rows is true,
// the role of rows and columns is exchanged.
func restrictedRatio(pm mat.Matrix, idx []int, rows bool) ([]float64, error) {
	r, c := pm.Dims()
	if rows {
		r, c = c, r
	}
	for _, v := range idx {
		if v < 0 || v >= c {
			return nil, newError(ErrShape, "restrictedRatio", "index %d out of range for %d residues", v, c)
		}
	}
	ret := make([]float64, r)
	all := make([]float64, c)
	sub := make([]float64, len(idx))
	for i := 0; i < r; i++ {
		if rows {
			mat.Col(all, i, pm)
		} else {
			mat.Row(all, i, pm)
		}
		for k, v := range idx {
			sub[k] = all[v]
		}
		top := floats.Sum(sub) / float64(len(idx))
		bottom := floats.Sum(all) / float64(c)
		ret[i] = top / bottom
	}
	return ret, nil
}

// FDFI returns the functional DFI of every residue: the average response
// to perturbations on the functional residues idx, divided by the average
// response to perturbations on all residues.
func FDFI(pm mat.Matrix, idx []int) ([]float64, error) {
	if len(idx) == 0 {
		return nil, newError(ErrNoFunctional, "FDFI", "empty functional set")
	}
	ret, err := restrictedRatio(pm, idx, false)
	return ret, errDecorate(err, "FDFI")
}

// Hinges returns the indexes of the residues whose DFI percentile
// is below threshold.
func Hinges(pct []float64, threshold float64) []int {
	var ret []int
	for i, v := range pct {
		if v < threshold {
			ret = append(ret, i)
		}
	}
	return ret
}

// HingeMDFI returns, for every residue j, the average response of the hinge
// residues to a perturbation on j, divided by the average response of all
// residues to the same perturbation.
func HingeMDFI(pm mat.Matrix, hinges []int) ([]float64, error) {
	if len(hinges) == 0 {
		return nil, newError(ErrNoFunctional, "HingeMDFI", "empty hinge set")
	}
	ret, err := restrictedRatio(pm, hinges, true)
	return ret, errDecorate(err, "HingeMDFI")
}

// TopQuartile returns the indexes of the residues with percentile above 0.75.
func TopQuartile(pct []float64) []int {
	var ret []int
	for i, v := range pct {
		if v > 0.75 {
			ret = append(ret, i)
		}
	}
	return ret
}

// SiteDistances returns, for each residue in coords, the average and the
// minimum distance to the residues with indexes in idx.
func SiteDistances(coords *v3.Matrix, idx []int) (avg, min []float64, err error) {
	n := coords.NVecs()
	if len(idx) == 0 {
		return nil, nil, newError(ErrNoFunctional, "SiteDistances", "empty functional set")
	}
	for _, v := range idx {
		if v < 0 || v >= n {
			return nil, nil, newError(ErrShape, "SiteDistances", "index %d out of range for %d residues", v, n)
		}
	}
	site := v3.Zeros(len(idx))
	site.SomeVecs(coords, idx)
	avg = make([]float64, n)
	min = make([]float64, n)
	d := make([]float64, len(idx))
	for i := 0; i < n; i++ {
		for k := range idx {
			d[k] = coords.Distance(i, site, k)
		}
		avg[i] = stat.Mean(d, nil)
		min[i] = floats.Min(d)
	}
	return avg, min, nil
}

// Allosteric flags the residues that are further than o.AllostericMinDist
// from every functional residue and have an f-DFI percentile
// above o.AllostericPct.
func Allosteric(rmin, pctfdfi []float64, o *Options) []bool {
	o = orDefault(o)
	ret := make([]bool, len(rmin))
	for i := range ret {
		ret[i] = rmin[i] > o.AllostericMinDist && pctfdfi[i] > o.AllostericPct
	}
	return ret
}
