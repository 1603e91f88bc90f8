// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blis

import (
	"gonum.org/v1/gonum/blas"

	"github.com/blisgo/core"
	"github.com/blisgo/obj"
)

// Trsm solves tri(A)*X = alpha*B (side == blas.Left) or
// X*tri(A) = alpha*B (side == blas.Right) into B in place.
//
// The right-side case is cast to the left-side solver by transposing
// both operands rather than by a dedicated right-side macro-kernel
// walk: X*tri(A) = alpha*B holds iff tri(A)ᵀ*Xᵀ = alpha*Bᵀ, and
// obj.Matrix.TransposeView gives a zero-copy view of both A and B in
// the transposed frame (with A's declared triangle flipped to match,
// since transposing a lower-triangular matrix yields an
// upper-triangular one). Writing through the transposed view of B
// lands each element back at its correct physical position in the
// caller's original B, so the solve still completes in place.
//
// Per §4.2, the IC sweep direction follows the triangle actually being
// solved: forward for lower, backward for upper. For the right-side
// case this is read off aT's (post-flip) triangle, i.e. the same
// triangle the left-side solver below actually walks.
func Trsm[T core.Numeric](side blas.Side, alpha T, a, b obj.Matrix[T], cntx *obj.Context[T], rt obj.Runtime) {
	checkSquare("trsm", a)
	m, n := b.Dims()
	if core.GetConfig().CheckArgs {
		ar, _ := a.Dims()
		want := m
		if !isLeft(side) {
			want = n
		}
		if ar != want {
			core.NewError(core.Invalid, "trsm", "A and B dimensions do not conform")
			return
		}
	}
	if m == 0 || n == 0 {
		return
	}
	cntx = resolveContext(cntx)
	rt = resolveRuntime(rt)
	invertDiag := core.GetConfig().TrsmPreinvertDiag

	if isLeft(side) {
		dir := obj.Forward
		if a.Uplo == blas.Upper {
			dir = obj.Backward
		}
		runTrsmLike(cntx, rt, alpha, a, b, invertDiag, dir)
		return
	}

	aT := a.TransposeView()
	aT.Uplo = flipUplo(a.Uplo)
	bT := b.TransposeView()
	dir := obj.Forward
	if aT.Uplo == blas.Upper {
		dir = obj.Backward
	}
	runTrsmLike(cntx, rt, alpha, aT, bT, invertDiag, dir)
}

func flipUplo(u blas.Uplo) blas.Uplo {
	if u == blas.Upper {
		return blas.Lower
	}
	return blas.Upper
}
