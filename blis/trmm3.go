// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blis

import (
	"gonum.org/v1/gonum/blas"

	"github.com/blisgo/core"
	"github.com/blisgo/obj"
)

// Trmm3 computes C ← alpha*tri(A)*B + beta*C (side == blas.Left) or
// C ← alpha*B*tri(A) + beta*C (side == blas.Right). Unlike Trmm, the
// product writes to a caller-distinct C, so there is no B/output
// aliasing hazard and no temporary is needed: a triangular operand
// packs with its unstored triangle zero-filled (pack.Block's
// structured path), so running it through the same gemm harness as a
// dense operand already computes the correct masked product.
func Trmm3[T core.Numeric](side blas.Side, alpha T, a, b obj.Matrix[T], beta T, c obj.Matrix[T], cntx *obj.Context[T], rt obj.Runtime) {
	checkSquare("trmm3", a)
	var m1, n1 obj.Matrix[T]
	if isLeft(side) {
		m1, n1 = a, b
	} else {
		m1, n1 = b, a
	}
	checkGemm("trmm3", m1, n1, c)
	if shortCircuitGemm(alpha, m1, n1, beta, c) {
		return
	}
	cntx = resolveContext(cntx)
	rt = resolveRuntime(rt)
	m1, n1, c = orient(m1, n1, c)
	runGemmLike(cntx, rt, alpha, m1, n1, beta, c)
}
