// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blis

import (
	"github.com/blisgo/core"
	"github.com/blisgo/obj"
)

// Her2k computes the Hermitian rank-2k update
// C ← alpha*A*Bᴴ + conj(alpha)*B*Aᴴ + beta*C on C's declared triangle,
// composed from two Gemmt calls as §4.1 prescribes (the second with
// beta folded to one so it accumulates onto the first's result), with
// the diagonal's imaginary part zeroed exactly afterward.
func Her2k[T core.Complex](alpha T, a, b obj.Matrix[T], beta T, c obj.Matrix[T], cntx *obj.Context[T], rt obj.Runtime) {
	n, _ := c.Dims()
	bH := b.TransposeView()
	bH.Conj = !b.Conj
	Gemmt(alpha, a, bH, beta, c, cntx, rt)

	aH := a.TransposeView()
	aH.Conj = !a.Conj
	Gemmt(core.Conj(alpha), b, aH, core.One[T](), c, cntx, rt)

	zeroHermitianDiagonal(c, n)
}

// Syr2k computes the symmetric rank-2k update
// C ← alpha*A*Bᵀ + alpha*B*Aᵀ + beta*C on C's declared triangle.
func Syr2k[T core.Numeric](alpha T, a, b obj.Matrix[T], beta T, c obj.Matrix[T], cntx *obj.Context[T], rt obj.Runtime) {
	bT := b.TransposeView()
	Gemmt(alpha, a, bT, beta, c, cntx, rt)

	aT := a.TransposeView()
	Gemmt(alpha, b, aT, core.One[T](), c, cntx, rt)
}
