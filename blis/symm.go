// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blis

import (
	"gonum.org/v1/gonum/blas"

	"github.com/blisgo/core"
	"github.com/blisgo/obj"
)

// Symm computes C ← alpha*sym(A)*B + beta*C (side == blas.Left) or
// C ← alpha*B*sym(A) + beta*C (side == blas.Right), where sym(A) reads
// only the triangle a.Uplo declares. a must be square.
func Symm[T core.Numeric](side blas.Side, alpha T, a, b obj.Matrix[T], beta T, c obj.Matrix[T], cntx *obj.Context[T], rt obj.Runtime) {
	symmLike("symm", obj.StrucSymmetric, side, alpha, a, b, beta, c, cntx, rt)
}

// Hemm computes C ← alpha*herm(A)*B + beta*C (side == blas.Left) or
// C ← alpha*B*herm(A) + beta*C (side == blas.Right), where herm(A)
// reads only the triangle a.Uplo declares and takes its diagonal as
// real. Only meaningful for the two complex domains.
func Hemm[T core.Complex](side blas.Side, alpha T, a, b obj.Matrix[T], beta T, c obj.Matrix[T], cntx *obj.Context[T], rt obj.Runtime) {
	symmLike("hemm", obj.StrucHermitian, side, alpha, a, b, beta, c, cntx, rt)
}

// symmLike is the shared body for Symm and Hemm: step 8's right-side
// cast is a plain argument swap (see the doc of isLeft in
// dispatch.go), so both are one runGemmLike call each, left or right.
func symmLike[T core.Numeric](op string, struc obj.Struc, side blas.Side, alpha T, a, b obj.Matrix[T], beta T, c obj.Matrix[T], cntx *obj.Context[T], rt obj.Runtime) {
	if core.GetConfig().CheckArgs {
		checkSquare(op, a)
		if a.Struc != struc {
			core.NewError(core.Invalid, op, "A does not carry the expected structure")
			return
		}
	}
	var m1, n1 obj.Matrix[T]
	if isLeft(side) {
		m1, n1 = a, b
	} else {
		m1, n1 = b, a
	}
	checkGemm(op, m1, n1, c)
	if shortCircuitGemm(alpha, m1, n1, beta, c) {
		return
	}
	cntx = resolveContext(cntx)
	rt = resolveRuntime(rt)
	m1, n1, c = orient(m1, n1, c)
	runGemmLike(cntx, rt, alpha, m1, n1, beta, c)
}
