// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blis

import (
	"github.com/blisgo/core"
	"github.com/blisgo/obj"
)

// Gemm computes C ← alpha*A*B + beta*C. cntx and rt are optional: a
// nil cntx resolves to the process-wide default for T (step 6); a
// zero-value rt runs single-threaded.
func Gemm[T core.Numeric](alpha T, a, b obj.Matrix[T], beta T, c obj.Matrix[T], cntx *obj.Context[T], rt obj.Runtime) {
	checkGemm("gemm", a, b, c)
	if shortCircuitGemm(alpha, a, b, beta, c) {
		return
	}
	cntx = resolveContext(cntx)
	rt = resolveRuntime(rt)
	a, b, c = orient(a, b, c)
	runGemmLike(cntx, rt, alpha, a, b, beta, c)
}
