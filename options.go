/*
 * options.go, part of godfi.
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
	"log"
	"math"
	"sync"
)

// Coupling returns the spring constant between two residues, given
// their squared separation.
type Coupling func(r2 float64) float64

// InverseSixth returns the default coupling, gamma^3/(r2)^3, where r2 is
// the squared separation between the residues.
func InverseSixth(gamma float64) Coupling {
	g3 := gamma * gamma * gamma
	return func(r2 float64) float64 {
		return g3 / (r2 * r2 * r2)
	}
}

// WithCutoff wraps c so that pairs further apart than cutoff (in Angstrom)
// are not coupled.
func WithCutoff(c Coupling, cutoff float64) Coupling {
	return func(r2 float64) float64 {
		if math.Sqrt(r2) > cutoff {
			return 0
		}
		return c(r2)
	}
}

// Options contains the parameters for all the stages of a DFI calculation.
// Zero values are not replaced by defaults: Gamma (unless Coupling is set),
// Tolerance and ReconstructionTol must be positive, or the calculation fails
// with ErrConfig. Start from DefaultOptions and change what is needed.
type Options struct {
	Gamma    float64  //Force-constant scale for the default coupling
	Cutoff   float64  //Pairs further apart (A) are not coupled. 0 or less means no cutoff
	Coupling Coupling //If nil, InverseSixth(Gamma) is used

	Tolerance         float64 //Singular values below this are treated as zero
	RigidModes        int     //Exact number of near-zero singular values expected
	ReconstructionTol float64 //Relative max-norm tolerance for the UΣVᵀ = H check
	Inverter          Inverter
	CrossCheck        bool //Compare the spectrum against the reference SVD backend

	Directions []Direction
	Normalize  bool //Divide the perturbation matrix by its grand total
	Cpus       int

	HingePct          float64 //DFI percentile below which a residue is a hinge
	AllostericMinDist float64 //Minimum distance (A) to the functional site for allosteric residues
	AllostericPct     float64 //f-DFI percentile above which a distant residue is allosteric

	Diagnostics Diagnostics
	Logger      *log.Logger
}

// DefaultOptions returns the parameters used in the published DFI method.
func DefaultOptions() *Options {
	r := new(Options)
	r.Gamma = 100
	r.Cutoff = 0
	r.Tolerance = 1e-6
	r.RigidModes = 6
	r.ReconstructionTol = 1e-8
	r.Directions = DefaultDirections()
	r.Normalize = true
	r.Cpus = 1
	r.HingePct = 0.10
	r.AllostericMinDist = 8.0
	r.AllostericPct = 0.75
	return r
}

func orDefault(o *Options) *Options {
	if o == nil {
		return DefaultOptions()
	}
	return o
}

// validate checks the fields of O that have no usable zero value. Options
// built by hand must set them, usually starting from DefaultOptions.
func (O *Options) validate(caller string) error {
	switch {
	case O.Coupling == nil && !(O.Gamma > 0):
		return newError(ErrConfig, caller, "Gamma must be positive when no Coupling is given, got %g", O.Gamma)
	case !(O.Tolerance > 0):
		return newError(ErrConfig, caller, "Tolerance must be positive, got %g", O.Tolerance)
	case !(O.ReconstructionTol > 0):
		return newError(ErrConfig, caller, "ReconstructionTol must be positive, got %g", O.ReconstructionTol)
	case O.RigidModes < 0:
		return newError(ErrConfig, caller, "RigidModes cannot be negative, got %d", O.RigidModes)
	}
	return nil
}

func (O *Options) coupling() Coupling {
	c := O.Coupling
	if c == nil {
		c = InverseSixth(O.Gamma)
	}
	if O.Cutoff > 0 {
		c = WithCutoff(c, O.Cutoff)
	}
	return c
}

func (O *Options) inverter() Inverter {
	if O.Inverter == nil {
		return GonumInverter{}
	}
	return O.Inverter
}

func (O *Options) directions() []Direction {
	if len(O.Directions) == 0 {
		return DefaultDirections()
	}
	return O.Directions
}

func (O *Options) logf(format string, v ...interface{}) {
	if O.Logger == nil {
		log.Printf(format, v...)
		return
	}
	O.Logger.Printf(format, v...)
}

// parallelFor calls f(i) for every i in [0,n), using up to cpus goroutines.
// Each index is processed by exactly one goroutine, and f must only write
// data owned by that index. The error for the lowest failing index is returned.
func parallelFor(n, cpus int, f func(i int) error) error {
	errs := make([]error, n)
	if cpus <= 1 || n < 2 {
		for i := 0; i < n; i++ {
			if errs[i] = f(i); errs[i] != nil {
				return errs[i]
			}
		}
		return nil
	}
	if cpus > n {
		cpus = n
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(cpus)
	for w := 0; w < cpus; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				errs[i] = f(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
