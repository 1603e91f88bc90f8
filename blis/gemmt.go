// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blis

import (
	"github.com/blisgo/core"
	"github.com/blisgo/obj"
)

// Gemmt computes C ← alpha*A*B + beta*C, writing only the triangle c
// declares via its Struc/Uplo/Diag fields; the opposite triangle is
// left bit-identical to its input. A plain Gemm call is the special
// case c.Struc == obj.StrucGeneral, handled by the very same
// macro-kernel harness (macro.Gemm) since it already branches on
// c.Struc internally — Gemmt exists as a distinct entry point only to
// name the operation and assert that c does carry a triangle.
func Gemmt[T core.Numeric](alpha T, a, b obj.Matrix[T], beta T, c obj.Matrix[T], cntx *obj.Context[T], rt obj.Runtime) {
	if core.GetConfig().CheckArgs && c.Struc == obj.StrucGeneral {
		core.NewError(core.Invalid, "gemmt", "C must carry a triangular, symmetric or Hermitian structure")
		return
	}
	checkGemm("gemmt", a, b, c)
	if shortCircuitGemm(alpha, a, b, beta, c) {
		return
	}
	cntx = resolveContext(cntx)
	rt = resolveRuntime(rt)
	a, b, c = orient(a, b, c)
	runGemmLike(cntx, rt, alpha, a, b, beta, c)
}
