/*
 * options_test.go, part of godfi.
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
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoupling(Te *testing.T) {
	c := InverseSixth(100)
	assert.InDelta(Te, 1e6/(4*4*4), c(4), 1e-9)
	cut := WithCutoff(c, 3)
	assert.Equal(Te, 0.0, cut(9.01))
	assert.Equal(Te, c(9), cut(9))
	o := DefaultOptions()
	o.Cutoff = 3
	assert.Equal(Te, 0.0, o.coupling()(10))
}

func TestParallelFor(Te *testing.T) {
	for _, cpus := range []int{1, 3, 50} {
		var count int64
		seen := make([]int, 20)
		err := parallelFor(20, cpus, func(i int) error {
			atomic.AddInt64(&count, 1)
			seen[i]++
			return nil
		})
		assert.NoError(Te, err)
		assert.Equal(Te, int64(20), count)
		for i, v := range seen {
			assert.Equal(Te, 1, v, "index %d with %d cpus", i, cpus)
		}
		err = parallelFor(20, cpus, func(i int) error {
			if i == 7 || i == 13 {
				return fmt.Errorf("failed %d", i)
			}
			return nil
		})
		assert.EqualError(Te, err, "failed 7")
	}
}

func TestOptionsValidate(Te *testing.T) {
	assert.NoError(Te, DefaultOptions().validate("test"))
	custom := &Options{Coupling: InverseSixth(1), Tolerance: 1e-6, ReconstructionTol: 1e-8, RigidModes: 6}
	assert.NoError(Te, custom.validate("test"))
	tests := []struct {
		name string
		set  func(o *Options)
	}{
		{"zero gamma", func(o *Options) { o.Gamma = 0 }},
		{"negative gamma", func(o *Options) { o.Gamma = -1 }},
		{"zero tolerance", func(o *Options) { o.Tolerance = 0 }},
		{"NaN tolerance", func(o *Options) { o.Tolerance = math.NaN() }},
		{"zero reconstruction tolerance", func(o *Options) { o.ReconstructionTol = 0 }},
		{"negative rigid modes", func(o *Options) { o.RigidModes = -1 }},
	}
	for _, t := range tests {
		o := DefaultOptions()
		t.set(o)
		err := o.validate("test")
		assert.True(Te, errors.Is(err, ErrConfig), "%s: %v", t.name, err)
	}
}
