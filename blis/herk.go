// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blis

import (
	"github.com/blisgo/core"
	"github.com/blisgo/obj"
)

// Herk computes C ← alpha*A*Aᴴ + beta*C on C's declared triangle,
// zeroing the diagonal's imaginary part exactly afterward. alpha/beta
// are carried as T like every other scalar in this engine (Matrix's
// own Scalar field is T-typed throughout) rather than a narrower real
// type; callers pass a zero imaginary part, matching the mathematical
// requirement that a Hermitian update's scale factors be real.
// Implemented as the single gemmt call §4.1 describes: the
// conjugate-transpose second operand is obtained from a zero-copy
// TransposeView of A with its Conj bit flipped, so packing never needs
// a dedicated "transpose and conjugate into a temporary" step — the
// same A/Aᴴ pairing the general packing kernel already handles for any
// general operand via its conj flag.
func Herk[T core.Complex](alpha T, a obj.Matrix[T], beta T, c obj.Matrix[T], cntx *obj.Context[T], rt obj.Runtime) {
	herkLike("herk", alpha, a, beta, c, cntx, rt, true)
}

// Syrk computes C ← alpha*A*Aᵀ + beta*C on C's declared triangle, the
// non-conjugated rank-k update available for every datatype.
func Syrk[T core.Numeric](alpha T, a obj.Matrix[T], beta T, c obj.Matrix[T], cntx *obj.Context[T], rt obj.Runtime) {
	herkLike("syrk", alpha, a, beta, c, cntx, rt, false)
}

func herkLike[T core.Numeric](op string, alpha T, a obj.Matrix[T], beta T, c obj.Matrix[T], cntx *obj.Context[T], rt obj.Runtime, conj bool) {
	n, _ := c.Dims()
	bOperand := a.TransposeView()
	if conj {
		bOperand.Conj = !a.Conj
	}
	Gemmt(alpha, a, bOperand, beta, c, cntx, rt)
	if conj {
		zeroHermitianDiagonal(c, n)
	}
}
