/*
 * doc.go, part of godfi.
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

/*
Package dfi computes the Dynamic Flexibility Index (DFI) of proteins.

The structure is represented by its alpha carbons, connected by springs in an
anisotropic elastic network. The package builds the Hessian of the network
(Hessian), obtains its pseudoinverse by removing the rigid-body modes
(PseudoInverse), applies unit forces along 7 directions on every residue and
measures the response of all the others (PerturbationMatrix). The DFI of a
residue is its total response to all perturbations. When a functional site is
given, the functional DFI (f-DFI) measures the response to perturbations on
that site, relative to the response to perturbations anywhere.

Run does all the steps. RunCovariance starts from a precomputed
pseudoinverse, such as a covariance matrix from a simulation. The pdb package
reads structures, and the report and dfiplot packages export results.

A typical use:

	res, coords, err := pdb.ReadCAFile("1btl.pdb", nil)
	if err != nil {
		log.Fatal(err)
	}
	result, err := dfi.Run(res, coords, []string{"A130", "A234"}, dfi.DefaultOptions())
	if err != nil {
		log.Fatal(err)
	}
	for _, r := range result.Records {
		fmt.Println(r.Key(), r.PctDFI, r.PctFDFI)
	}

The numbers are deterministic: with Options.Cpus > 1 the work is split among
goroutines, but the results are identical to those of a serial run.
*/
package dfi
