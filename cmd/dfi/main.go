/*
 * main.go, part of godfi.
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

// Command dfi computes the Dynamic Flexibility Index of a protein
// from the alpha carbons in a PDB file.
//
// Usage:
//
//	dfi -pdb 1l2y.pdb [-fdfi A10,A12] [-out prefix] [-colorpdb] [-plot pctdfi] [-db results.db]
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	dfi "github.com/rmera/godfi"
	"github.com/rmera/godfi/dfiplot"
	"github.com/rmera/godfi/pdb"
	"github.com/rmera/godfi/report"
	v3 "github.com/rmera/godfi/v3"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func splitList(s string) []string {
	var ret []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			ret = append(ret, v)
		}
	}
	return ret
}

// outPrefix is the -out flag, or the PDB file name without directory
// and extensions.
func outPrefix(out, pdbname string) string {
	if out != "" {
		return out
	}
	base := filepath.Base(pdbname)
	for _, ext := range []string{".zst", ".gz", ".pdb", ".ent"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("dfi", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pdbname := fs.String("pdb", "", "PDB file with the structure (.gz and .zst accepted)")
	covar := fs.String("covar", "", "use this covariance (pseudoinverse) matrix instead of building the Hessian")
	chains := fs.String("chain", "", "comma-separated chains to read, all if empty")
	hetatm := fs.Bool("hetatm", false, "also read CA atoms from HETATM records")
	fdfi := fs.String("fdfi", "", "comma-separated functional residues, i.e. A10,B25")
	out := fs.String("out", "", "prefix for the output files, by default the PDB name")
	csvout := fs.Bool("csv", true, "write prefix-dfianalysis.csv")
	colorpdb := fs.Bool("colorpdb", false, "write PDB files with the percentile scores as B-factors")
	plotcol := fs.String("plot", "", "plot this score (i.e. pctdfi) to prefix-<score>.png")
	db := fs.String("db", "", "store the results in this SQLite database")
	cpus := fs.Int("cpus", 1, "number of goroutines for the Hessian and perturbation stages")
	gamma := fs.Float64("gamma", 100, "force-constant scale")
	cutoff := fs.Float64("cutoff", 0, "no coupling beyond this distance (A), 0 for no cutoff")
	rigid := fs.Int("rigid", 6, "expected number of zero singular values")
	debug := fs.Bool("debug", false, "write the Hessian, spectrum, pseudoinverse and perturbation matrices")
	compress := fs.Bool("compress", false, "compress the debug files with zstd")
	crosscheck := fs.Bool("crosscheck", false, "compare the SVD spectrum against a second backend")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *pdbname == "" {
		fs.Usage()
		return fmt.Errorf("a PDB file is required")
	}
	logger := log.New(stderr, "", log.LstdFlags)
	prefix := outPrefix(*out, *pdbname)

	po := pdb.DefaultOptions()
	po.Chains = splitList(*chains)
	po.Hetatm = *hetatm
	res, coords, err := pdb.ReadCAFile(*pdbname, po)
	if err != nil {
		return err
	}
	logger.Printf("read %d residues from %s", len(res), *pdbname)

	o := dfi.DefaultOptions()
	o.Gamma = *gamma
	o.Cutoff = *cutoff
	o.RigidModes = *rigid
	o.Cpus = *cpus
	o.CrossCheck = *crosscheck
	o.Logger = logger
	var dump *dfi.DumpDiagnostics
	if *debug {
		dump = &dfi.DumpDiagnostics{Prefix: prefix, Compress: *compress, Logger: logger}
		o.Diagnostics = dump
	}
	functional := splitList(*fdfi)
	var result *dfi.Result
	if *covar != "" {
		pinv, err := dfi.ReadCovarianceFile(*covar)
		if err != nil {
			return err
		}
		result, err = dfi.RunCovariance(res, coords, pinv, functional, o)
		if err != nil {
			return err
		}
	} else {
		result, err = dfi.Run(res, coords, functional, o)
		if err != nil {
			return err
		}
	}
	if dump != nil && dump.Err() != nil {
		logger.Printf("WARNING: some debug files were not written: %v", dump.Err())
	}
	if *csvout {
		name := prefix + "-dfianalysis.csv"
		if err := report.WriteCSVFile(name, result); err != nil {
			return err
		}
		logger.Printf("wrote %s", name)
	}
	if *colorpdb {
		if err := writeColored(prefix+"-dficolor.pdb", res, coords, result, "pctdfi"); err != nil {
			return err
		}
		if result.HasFunctional() {
			if err := writeColored(prefix+"-fdficolor.pdb", res, coords, result, "pctfdfi"); err != nil {
				return err
			}
		}
	}
	if *plotcol != "" {
		name := prefix + "-" + *plotcol + ".png"
		if err := dfiplot.SaveProfile(result, *plotcol, prefix+" "+*plotcol, name); err != nil {
			return err
		}
	}
	if *db != "" {
		store, err := report.OpenStore(*db)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.Save(filepath.Base(*pdbname), result)
		if err != nil {
			return err
		}
		logger.Printf("stored run %s in %s", id, *db)
	}
	return nil
}

func writeColored(name string, res dfi.Residues, coords *v3.Matrix, result *dfi.Result, column string) error {
	values, err := result.Column(column)
	if err != nil {
		return err
	}
	return pdb.WriteColoredFile(name, res, coords, values)
}
