// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/blas/cblas128"
)

// FromGeneral builds a Matrix[float64] aliasing a's Data slice, so a
// caller already holding a gonum blas64.General can hand it to an
// operation entry point without copying.
func FromGeneral(a blas64.General) Matrix[float64] {
	return General[float64](a.Rows, a.Cols, a.Data, a.Stride, 1)
}

// ToGeneral returns a blas64.General view of m. Panics if m carries a
// non-unit column stride, matching blas64.General's row-major-only
// storage scheme.
func ToGeneral(m Matrix[float64]) blas64.General {
	if m.CS != 1 {
		panic("obj: Matrix has non-unit column stride, cannot view as blas64.General")
	}
	return blas64.General{Rows: m.Rows, Cols: m.Cols, Stride: m.RS, Data: m.Data}
}

// FromTriangular builds a Matrix[float64] aliasing a's Data slice.
func FromTriangular(a blas64.Triangular) Matrix[float64] {
	return Triangle[float64](a.N, a.Data, a.Stride, 1, StrucTriangular, a.Uplo, a.Diag)
}

// FromSymmetric builds a Matrix[float64] aliasing a's Data slice.
func FromSymmetric(a blas64.Symmetric) Matrix[float64] {
	return Triangle[float64](a.N, a.Data, a.Stride, 1, StrucSymmetric, a.Uplo, blas.NonUnit)
}

// FromGeneralC builds a Matrix[complex128] aliasing a's Data slice.
func FromGeneralC(a cblas128.General) Matrix[complex128] {
	return General[complex128](a.Rows, a.Cols, a.Data, a.Stride, 1)
}

// ToGeneralC returns a cblas128.General view of m.
func ToGeneralC(m Matrix[complex128]) cblas128.General {
	if m.CS != 1 {
		panic("obj: Matrix has non-unit column stride, cannot view as cblas128.General")
	}
	return cblas128.General{Rows: m.Rows, Cols: m.Cols, Stride: m.RS, Data: m.Data}
}

// FromTriangularC builds a Matrix[complex128] aliasing a's Data slice.
func FromTriangularC(a cblas128.Triangular) Matrix[complex128] {
	return Triangle[complex128](a.N, a.Data, a.Stride, 1, StrucTriangular, a.Uplo, a.Diag)
}

// FromHermitianC builds a Matrix[complex128] aliasing a's Data slice,
// tagged Hermitian so the dispatch front-ends zero the stored diagonal's
// imaginary part on output per the Hermitian-result invariant.
func FromHermitianC(a cblas128.Hermitian) Matrix[complex128] {
	return Triangle[complex128](a.N, a.Data, a.Stride, 1, StrucHermitian, a.Uplo, blas.NonUnit)
}

// FromSymmetricC builds a Matrix[complex128] aliasing a's Data slice.
func FromSymmetricC(a cblas128.Symmetric) Matrix[complex128] {
	return Triangle[complex128](a.N, a.Data, a.Stride, 1, StrucSymmetric, a.Uplo, blas.NonUnit)
}
