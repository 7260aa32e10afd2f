/*
 * pdb.go, part of godfi.
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

// Package pdb reads the alpha carbons of a protein from PDB files and
// writes them back with a per-residue score in the B-factor column.
package pdb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	dfi "github.com/rmera/godfi"
	v3 "github.com/rmera/godfi/v3"
)

// Options control which alpha carbons are read.
type Options struct {
	Chains   []string //Only read these chains. All chains if empty.
	Hetatm   bool     //Also read CA atoms from HETATM records (i.e. modified residues)
	AtomName string   //The atom representing each residue, "CA" if empty
}

// DefaultOptions returns options to read the CA atoms of all chains.
func DefaultOptions() *Options {
	return &Options{AtomName: "CA"}
}

func (O *Options) wanted(chain string) bool {
	if len(O.Chains) == 0 {
		return true
	}
	for _, v := range O.Chains {
		if strings.TrimSpace(v) == chain {
			return true
		}
	}
	return false
}

// ReadCA reads the PDB-formatted data from r, and returns one residue
// and one coordinate row per alpha carbon. Only the first model is read.
// When an atom has alternative locations, only the first one (blank or 'A')
// is kept.
func ReadCA(r io.Reader, o *Options) (dfi.Residues, *v3.Matrix, error) {
	if o == nil {
		o = DefaultOptions()
	}
	name := o.AtomName
	if name == "" {
		name = "CA"
	}
	res := make(dfi.Residues, 0, 300)
	coords := make([]float64, 0, 900)
	seen := make(map[string]bool)
	pdb := bufio.NewReader(r)
	contlines := 0 //count the lines read to better report errors
	for {
		line, err := pdb.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, nil, fmt.Errorf("line %d: %w", contlines+1, err)
		}
		contlines++
		if strings.HasPrefix(line, "ENDMDL") && len(res) > 0 {
			break
		}
		het := strings.HasPrefix(line, "HETATM")
		if strings.HasPrefix(line, "ATOM") || (het && o.Hetatm) {
			re, c, ok, perr := readCALine(line, name, contlines)
			if perr != nil {
				return nil, nil, perr
			}
			if ok && o.wanted(re.Chain) && !seen[re.Key()] {
				seen[re.Key()] = true
				res = append(res, re)
				coords = append(coords, c[0], c[1], c[2])
			}
		}
		if err == io.EOF {
			break
		}
	}
	if len(res) == 0 {
		return nil, nil, fmt.Errorf("no %s atoms found", name)
	}
	m, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, nil, err
	}
	return res, m, nil
}

// readCALine parses an ATOM/HETATM line. ok is false if the atom is not
// named name, or is not the first alternative location.
func readCALine(line, name string, contlines int) (res dfi.Residue, c [3]float64, ok bool, err error) {
	line = strings.TrimRight(line, "\r\n")
	if len(line) < 54 {
		return res, c, false, fmt.Errorf("line %d: ATOM record too short (%d characters)", contlines, len(line))
	}
	if strings.TrimSpace(line[12:16]) != name {
		return res, c, false, nil
	}
	if alt := line[16]; alt != ' ' && alt != 'A' {
		return res, c, false, nil
	}
	res.Name = strings.TrimSpace(line[17:20])
	res.Name1 = dfi.OneLetter(res.Name)
	res.Chain = strings.TrimSpace(line[21:22])
	res.ICode = strings.TrimSpace(line[26:27])
	var errs [4]error
	res.ResID, errs[0] = strconv.Atoi(strings.TrimSpace(line[22:26]))
	//Here we shouldn't need TrimSpace, but I keep it just in case someone
	//doesn't use all the fields when writing a PDB
	c[0], errs[1] = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	c[1], errs[2] = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	c[2], errs[3] = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	for _, e := range errs {
		if e != nil {
			return res, c, false, fmt.Errorf("line %d: %w", contlines, e)
		}
	}
	return res, c, true, nil
}

// ReadCAFile reads the alpha carbons from the PDB file name, which can be
// compressed with gzip (.gz) or zstd (.zst).
func ReadCAFile(name string, o *Options) (dfi.Residues, *v3.Matrix, error) {
	f, err := dfi.Open(name)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	res, coords, err := ReadCA(f, o)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	return res, coords, nil
}

// WriteColored writes res and coords as CA-only PDB records, with the
// elements of values in the B-factor column.
func WriteColored(w io.Writer, res dfi.Residues, coords *v3.Matrix, values []float64) error {
	if len(res) != coords.NVecs() || len(res) != len(values) {
		return fmt.Errorf("%d residues, %d coordinates and %d values", len(res), coords.NVecs(), len(values))
	}
	out := bufio.NewWriter(w)
	fmt.Fprint(out, "REMARK     WRITTEN WITH GODFI\n")
	chainprev := ""
	if len(res) > 0 {
		chainprev = res[0].Chain
	}
	for i, r := range res {
		if r.Chain != chainprev {
			fmt.Fprintln(out, "TER")
			chainprev = r.Chain
		}
		chain := r.Chain
		if chain == "" {
			chain = " "
		}
		icode := r.ICode
		if icode == "" {
			icode = " "
		}
		c := coords.Vec(i)
		_, err := fmt.Fprintf(out, "%-6s%5d  %-3s %3s %1s%4d%1s   %8.3f%8.3f%8.3f%6.2f%6.2f          %2s  \n", "ATOM", i+1, "CA", r.Name, chain,
			r.ResID, icode, c[0], c[1], c[2], 1.0, values[i], "C")
		if err != nil {
			return err
		}
	}
	fmt.Fprint(out, "END\n")
	return out.Flush()
}

// WriteColoredFile writes the colored PDB to the file name.
func WriteColoredFile(name string, res dfi.Residues, coords *v3.Matrix, values []float64) error {
	f, err := dfi.Create(name)
	if err != nil {
		return err
	}
	if err = WriteColored(f, res, coords, values); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	return f.Close()
}
