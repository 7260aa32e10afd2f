/*
 * errors.go, part of godfi.
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
	"fmt"
	"strings"
)

// ErrorKind identifies the class of a failure. Errors returned by this package
// unwrap to one of the ErrorKind constants, so they can be tested with errors.Is.
type ErrorKind string

func (e ErrorKind) Error() string { return string(e) }

const (
	ErrCoincident     = ErrorKind("godfi: coincident residue coordinates")
	ErrNullSpace      = ErrorKind("godfi: unexpected number of near-zero singular values")
	ErrReconstruction = ErrorKind("godfi: SVD does not reconstruct the Hessian")
	ErrShape          = ErrorKind("godfi: dimension mismatch")
	ErrNoFunctional   = ErrorKind("godfi: no functional residue could be resolved")
	ErrConfig         = ErrorKind("godfi: invalid options")
	ErrNonFinite      = ErrorKind("godfi: non-finite matrix element")
)

// Error is the error type returned by the numeric functions of this package.
// All errors of this type are critical: the computation is aborted and
// no partial results are returned.
type Error struct {
	message  string
	kind     ErrorKind
	deco     []string
	critical bool
}

func newError(kind ErrorKind, caller string, format string, v ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, v...), kind: kind, deco: []string{caller}, critical: true}
}

// Error returns a string with an error message.
func (err *Error) Error() string {
	if len(err.deco) == 0 {
		return fmt.Sprintf("%s: %s", err.kind, err.message)
	}
	return fmt.Sprintf("%s: %s (in %s)", err.kind, err.message, strings.Join(err.deco, " < "))
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice. If dec is empty, the current slice is returned
// unchanged.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical or it can be ignored.
func (err *Error) Critical() bool { return err.critical }

// Unwrap returns the kind of the error.
func (err *Error) Unwrap() error { return err.kind }

// errDecorate adds caller to the decoration of err, if err is an *Error.
// Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		e.Decorate(caller)
	}
	return err
}
