/*
 * csv.go, part of godfi.
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

// Package report exports the results of a DFI calculation, to CSV
// tables and to a SQLite database.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	dfi "github.com/rmera/godfi"
)

var (
	baseColumns  = []string{"dfi", "rdfi", "pctdfi", "zdfi", "mdfi", "rmdfi", "pctmdfi", "zmdfi"}
	hingeColumns = []string{"hmdfi", "rhmdfi", "pcthmdfi", "zhmdfi"}
	fdfiColumns  = []string{"fdfi", "rfdfi", "pctfdfi", "zfdfi", "ravg", "rmin"}
)

// Header returns the CSV header for r. Hinge and functional
// columns are only included if they were computed.
func Header(r *dfi.Result) []string {
	h := []string{"ResI", "ChainID", "Res", "R"}
	h = append(h, baseColumns...)
	if r.HasHinges() {
		h = append(h, hingeColumns...)
	}
	if r.HasFunctional() {
		h = append(h, fdfiColumns...)
		h = append(h, "A")
	}
	return h
}

// WriteCSV writes one row per residue of r to w. Scores are
// written with 6 decimals.
func WriteCSV(w io.Writer, r *dfi.Result) error {
	header := Header(r)
	cols := make(map[string][]float64)
	for _, name := range header[4:] {
		if name == "A" {
			continue
		}
		c, err := r.Column(name)
		if err != nil {
			return err
		}
		cols[name] = c
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for i, rec := range r.Records {
		row[0] = strconv.Itoa(rec.ResID) + rec.ICode
		row[1] = rec.Chain
		row[2] = rec.Name
		row[3] = string(rec.Name1)
		for k, name := range header[4:] {
			if name == "A" {
				row[4+k] = allosteric(rec.Allosteric)
				continue
			}
			row[4+k] = fmt.Sprintf("%f", cols[name][i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func allosteric(a bool) string {
	if a {
		return "A"
	}
	return "NotA"
}

// WriteCSVFile writes r to the file name with WriteCSV.
func WriteCSVFile(name string, r *dfi.Result) error {
	f, err := dfi.Create(name)
	if err != nil {
		return err
	}
	if err = WriteCSV(f, r); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	return f.Close()
}
