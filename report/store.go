/*
 * store.go, part of godfi.
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

package report

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	dfi "github.com/rmera/godfi"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	structure   TEXT NOT NULL,
	residues    INTEGER NOT NULL,
	functional  TEXT,
	warnings    TEXT,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scores (
	run_id      TEXT NOT NULL,
	idx         INTEGER NOT NULL,
	chain       TEXT NOT NULL,
	resid       INTEGER NOT NULL,
	icode       TEXT NOT NULL,
	resname     TEXT NOT NULL,
	dfi         REAL NOT NULL,
	pctdfi      REAL NOT NULL,
	zdfi        REAL NOT NULL,
	mdfi        REAL NOT NULL,
	pctmdfi     REAL NOT NULL,
	fdfi        REAL,
	pctfdfi     REAL,
	rmin        REAL,
	allosteric  INTEGER,
	PRIMARY KEY (run_id, idx),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// Store keeps the results of DFI calculations in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the SQLite database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Run describes a stored calculation.
type Run struct {
	ID         string
	Structure  string
	Residues   int
	Functional []string
	Warnings   []string
	CreatedAt  time.Time
}

// Score is the stored subset of a dfi.Record. The functional
// fields are nil for runs without a functional site.
type Score struct {
	dfi.Residue
	DFI, PctDFI, ZDFI float64
	MDFI, PctMDFI     float64
	FDFI, PctFDFI     *float64
	RMin              *float64
	Allosteric        *bool
}

// Save stores r under a new run ID, which is returned. structure
// is a free label, normally the PDB file or ID.
func (s *Store) Save(structure string, r *dfi.Result) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	functional := make([]string, 0, len(r.Functional))
	for _, v := range r.Functional {
		functional = append(functional, r.Records[v].Key())
	}
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	_, err = tx.Exec(
		`INSERT INTO runs (run_id, structure, residues, functional, warnings, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, structure, len(r.Records), strings.Join(functional, ","), strings.Join(r.Warnings, "\n"), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO scores (run_id, idx, chain, resid, icode, resname, dfi, pctdfi, zdfi, mdfi, pctmdfi, fdfi, pctfdfi, rmin, allosteric)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare scores: %w", err)
	}
	defer stmt.Close()
	for i, rec := range r.Records {
		var fdfi, pctfdfi, rmin, allo interface{}
		if r.HasFunctional() {
			fdfi, pctfdfi, rmin = rec.FDFI, rec.PctFDFI, rec.RMin
			allo = 0
			if rec.Allosteric {
				allo = 1
			}
		}
		_, err = stmt.Exec(id, i, rec.Chain, rec.ResID, rec.ICode, rec.Name,
			rec.DFI, rec.PctDFI, rec.ZDFI, rec.MDFI, rec.PctMDFI, fdfi, pctfdfi, rmin, allo)
		if err != nil {
			return "", fmt.Errorf("insert score %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Runs returns all the stored runs, oldest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`SELECT run_id, structure, residues, functional, warnings, created_at FROM runs ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()
	var ret []Run
	for rows.Next() {
		var r Run
		var functional, warnings sql.NullString
		var created string
		if err := rows.Scan(&r.ID, &r.Structure, &r.Residues, &functional, &warnings, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Functional = splitNonEmpty(functional.String, ",")
		r.Warnings = splitNonEmpty(warnings.String, "\n")
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse time: %w", err)
		}
		ret = append(ret, r)
	}
	return ret, rows.Err()
}

// Scores returns the stored scores of run id, in residue order.
func (s *Store) Scores(id string) ([]Score, error) {
	rows, err := s.db.Query(
		`SELECT chain, resid, icode, resname, dfi, pctdfi, zdfi, mdfi, pctmdfi, fdfi, pctfdfi, rmin, allosteric
		 FROM scores WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()
	var ret []Score
	for rows.Next() {
		var sc Score
		var fdfi, pctfdfi, rmin sql.NullFloat64
		var allo sql.NullInt64
		err := rows.Scan(&sc.Chain, &sc.ResID, &sc.ICode, &sc.Name, &sc.DFI, &sc.PctDFI, &sc.ZDFI, &sc.MDFI, &sc.PctMDFI,
			&fdfi, &pctfdfi, &rmin, &allo)
		if err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		sc.Name1 = dfi.OneLetter(sc.Name)
		if fdfi.Valid {
			sc.FDFI, sc.PctFDFI, sc.RMin = &fdfi.Float64, &pctfdfi.Float64, &rmin.Float64
			a := allo.Int64 == 1
			sc.Allosteric = &a
		}
		ret = append(ret, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("no scores for run %s", id)
	}
	return ret, nil
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, sep)
}
