// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import (
	"gonum.org/v1/gonum/blas"

	"github.com/blisgo/core"
)

// Matrix is the engine's matrix descriptor: dimensions, strides, the
// logical structure/triangle/diagonal/conjugation/transposition bits, the
// pack schema, and the buffer that backs it. T is the element datatype;
// mixed-precision staging is expressed by pairing two different Matrix[T]
// instantiations at the packing boundary rather than by a runtime
// computation-datatype field, per the Open Question resolved in
// SPEC_FULL.md.
type Matrix[T core.Numeric] struct {
	Rows, Cols int // logical, pre-transposition extent as stored
	RS, CS     int // row/column stride, any integer including negative

	DiagOff int // signed distance of the diagonal from the top-left

	Struc Struc
	Uplo  blas.Uplo
	Diag  blas.Diag

	Conj  bool // logical conjugation; rewrites reads, never the data
	Trans bool // logical transposition; rewrites index order, never the data

	Schema Schema
	Scalar T // carried scalar (alpha folded into A, beta folded into C)

	Data  []T
	Owned bool // true for arena-owned packed scratch, false for caller data
}

// General builds a Matrix over data with the conventional dense storage
// scheme used throughout the teacher's blas64/cblas128 types: rows*cols
// elements at stride rs between rows and cs between columns.
func General[T core.Numeric](rows, cols int, data []T, rs, cs int) Matrix[T] {
	return Matrix[T]{
		Rows: rows, Cols: cols,
		RS: rs, CS: cs,
		Struc:  StrucGeneral,
		Uplo:   blas.All,
		Schema: NotPacked,
		Scalar: core.One[T](),
		Data:   data,
	}
}

// Triangle builds a Matrix over a triangular, symmetric or Hermitian
// sub-matrix stored in the conventional scheme, referencing only the
// named triangle.
func Triangle[T core.Numeric](n int, data []T, rs, cs int, struc Struc, uplo blas.Uplo, diag blas.Diag) Matrix[T] {
	return Matrix[T]{
		Rows: n, Cols: n,
		RS: rs, CS: cs,
		Struc:  struc,
		Uplo:   uplo,
		Diag:   diag,
		Schema: NotPacked,
		Scalar: core.One[T](),
		Data:   data,
	}
}

// Dims returns the logical (m, n) extent after the Trans bit is applied.
func (m Matrix[T]) Dims() (rows, cols int) {
	if m.Trans {
		return m.Cols, m.Rows
	}
	return m.Rows, m.Cols
}

// Alias returns a value copy of m: a new descriptor sharing m's
// underlying Data slice. Dispatch front-ends modify the alias (fold
// alpha or beta into Scalar) so the
// caller's own Matrix value is never mutated — the same discipline
// blas64's value-typed General/Triangular/Symmetric gives callers for
// free, made explicit here because Matrix additionally carries mutable
// scheduling state (Schema, Scalar).
func (m Matrix[T]) Alias() Matrix[T] {
	return m
}

// rawIndex returns the data offset of logical element (i, j), i.e. after
// the Trans bit has been applied to (i, j) but before Conj (which affects
// only the value, not its location).
func (m Matrix[T]) rawIndex(i, j int) int {
	if m.Trans {
		i, j = j, i
	}
	return i*m.RS + j*m.CS
}

// At returns the logical element (i, j), applying conjugation if Conj is
// set. i and j are indices into the post-transposition (m, n) shape
// returned by Dims.
func (m Matrix[T]) At(i, j int) T {
	v := m.Data[m.rawIndex(i, j)]
	if m.Conj {
		return core.Conj(v)
	}
	return v
}

// Set stores v at logical element (i, j), without applying Conj — packing
// and macro-kernel code that writes through a Matrix is expected to have
// already resolved conjugation on the value being stored.
func (m Matrix[T]) Set(i, j int, v T) {
	m.Data[m.rawIndex(i, j)] = v
}

// IsPacked reports whether m has already been laid out into micro-panel
// form (Schema != NotPacked).
func (m Matrix[T]) IsPacked() bool {
	return m.Schema != NotPacked
}

// DiagOffsetAt returns the signed diagonal offset of the sub-block whose
// top-left corner sits at (rowOff, colOff) within m, i.e. the panel-local
// diagoffc the packing pipeline needs: positive values push the diagonal
// toward the upper-right of the sub-block.
func (m Matrix[T]) DiagOffsetAt(rowOff, colOff int) int {
	return m.DiagOff + rowOff - colOff
}

// TransposeView returns a zero-copy Matrix describing the transpose of
// m: Rows/Cols and RS/CS are swapped, so Dims() reports the swapped
// extent and element (i, j) of the view is element (j, i) of m. DiagOff
// is negated to match. Trans, Conj, Struc, Uplo and Diag are carried
// over unchanged, so a caller transposing a structured matrix flips
// Uplo itself. The packing pipeline uses this to present a B operand to
// Block along its N extent (Block always treats a source's Rows field
// as the axis to be split into micro-panels).
func (m Matrix[T]) TransposeView() Matrix[T] {
	t := m
	t.Rows, t.Cols = m.Cols, m.Rows
	t.RS, t.CS = m.CS, m.RS
	t.DiagOff = -m.DiagOff
	return t
}

// Sub returns a Matrix describing the rows×cols block of m starting at
// logical (rowOff, colOff), preserving every flag except the dimensions,
// the data offset and the diagonal offset (recomputed for the new
// origin).
func (m Matrix[T]) Sub(rowOff, colOff, rows, cols int) Matrix[T] {
	s := m
	off := m.rawIndex(rowOff, colOff)
	s.Data = m.Data[off:]
	s.Rows, s.Cols = rows, cols
	if m.Trans {
		s.Rows, s.Cols = cols, rows
	}
	s.DiagOff = m.DiagOffsetAt(rowOff, colOff)
	return s
}
