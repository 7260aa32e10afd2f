/*
 * residue.go, part of godfi.
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
	"sort"
	"strconv"
	"strings"
)

// Residue identifies one node of the elastic network. Its position is the
// row with the same index in the accompanying coordinate matrix.
type Residue struct {
	Chain string
	ResID int
	ICode string
	Name  string //3-letter residue name
	Name1 byte   //1-letter residue name, 'X' if unknown
}

// Key returns the identifier used to select the residue as part of a
// functional site: the chain followed by the residue number and insertion
// code, as in "A15" or "B102A". Residues with a blank chain are identified
// by the number alone.
func (R Residue) Key() string {
	chain := strings.TrimSpace(R.Chain)
	return chain + strconv.Itoa(R.ResID) + strings.TrimSpace(R.ICode)
}

// Residues is an ordered list of residues. The order defines the
// index mapping used by every matrix in the package.
type Residues []Residue

// Len returns the number of residues.
func (R Residues) Len() int { return len(R) }

// Index maps each residue key to its index. If a key repeats, the
// first residue with that key is used, so a functional identifier always
// selects the earliest match. ReadCA in the pdb package never returns
// repeated keys; only hand-built lists can have them.
func (R Residues) Index() map[string]int {
	table := make(map[string]int, len(R))
	for i, v := range R {
		k := v.Key()
		if _, ok := table[k]; !ok {
			table[k] = i
		}
	}
	return table
}

// Resolve maps functional-site identifiers to residue indexes. Repeated
// identifiers are considered once. The indexes are returned in ascending
// order. Identifiers that match no residue are returned in unresolved,
// in sorted order.
func Resolve(res Residues, ids []string) (idx []int, unresolved []string) {
	set := make(map[string]bool, len(ids))
	uniq := make([]string, 0, len(ids))
	for _, v := range ids {
		v = strings.TrimSpace(v)
		if v == "" || set[v] {
			continue
		}
		set[v] = true
		uniq = append(uniq, v)
	}
	sort.Strings(uniq)
	table := res.Index()
	seen := make(map[int]bool, len(uniq))
	for _, v := range uniq {
		i, ok := table[v]
		if !ok {
			unresolved = append(unresolved, v)
			continue
		}
		if seen[i] {
			continue
		}
		seen[i] = true
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx, unresolved
}

// OneLetter returns the 1-letter code for a 3-letter residue name,
// or 'X' if the name is not a standard amino acid.
func OneLetter(name string) byte {
	if l, ok := three2OneLetter[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return l
	}
	return 'X'
}

var three2OneLetter = map[string]byte{
	"SER": 'S',
	"THR": 'T',
	"ASN": 'N',
	"GLN": 'Q',
	"SEC": 'U', //Selenocysteine!
	"CYS": 'C',
	"CYX": 'C',
	"GLY": 'G',
	"PRO": 'P',
	"ALA": 'A',
	"VAL": 'V',
	"ILE": 'I',
	"LEU": 'L',
	"MET": 'M',
	"MSE": 'M',
	"PHE": 'F',
	"TYR": 'Y',
	"TRP": 'W',
	"ARG": 'R',
	"HIS": 'H',
	"HID": 'H',
	"HIE": 'H',
	"HIP": 'H',
	"LYS": 'K',
	"ASP": 'D',
	"GLU": 'E',
}
