/*
 * network.go, part of godfi.
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

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/mat"
)

// Network returns the coupling network encoded in the Hessian h as a gonum
// graph. Node IDs are residue indexes. Two residues are joined by an edge
// when their off-diagonal block is not zero, and the edge weight is the
// spring constant of the pair, i.e. minus the trace of the block.
func Network(h mat.Matrix) *simple.WeightedUndirectedGraph {
	r, _ := h.Dims()
	n := r / 3
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !blockNonZero(h, i, j) {
				continue
			}
			k := -(h.At(3*i, 3*j) + h.At(3*i+1, 3*j+1) + h.At(3*i+2, 3*j+2))
			g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(i), T: simple.Node(j), W: k})
		}
	}
	return g
}

// Components returns the number of connected components of the
// coupling network in the Hessian h.
func Components(h mat.Matrix) int {
	return len(topo.ConnectedComponents(Network(h)))
}

func blockNonZero(h mat.Matrix, i, j int) bool {
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			if h.At(3*i+a, 3*j+b) != 0 {
				return true
			}
		}
	}
	return false
}
