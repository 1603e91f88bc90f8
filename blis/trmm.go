// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blis

import (
	"gonum.org/v1/gonum/blas"

	"github.com/blisgo/core"
	"github.com/blisgo/obj"
)

// Trmm computes B ← alpha*tri(A)*B (side == blas.Left) or
// B ← alpha*B*tri(A) (side == blas.Right) in place over B.
//
// The product is staged through a row-major temporary rather than
// computed directly into B: the control tree's KC loop can split a
// single call into several accumulating passes, and a later pass may
// pack a row range of B that a concurrent JC-way sibling has already
// overwritten with output if B doubled as both input and output. A
// dedicated temporary sidesteps that hazard entirely instead of
// constraining the partition order to avoid it.
func Trmm[T core.Numeric](side blas.Side, alpha T, a, b obj.Matrix[T], cntx *obj.Context[T], rt obj.Runtime) {
	checkSquare("trmm", a)
	m, n := b.Dims()
	if core.GetConfig().CheckArgs {
		if isLeft(side) {
			ar, _ := a.Dims()
			if ar != m {
				core.NewError(core.Invalid, "trmm", "A and B dimensions do not conform")
				return
			}
		} else {
			ar, _ := a.Dims()
			if ar != n {
				core.NewError(core.Invalid, "trmm", "A and B dimensions do not conform")
				return
			}
		}
	}
	if m == 0 || n == 0 {
		return
	}
	if core.IsZero(alpha) {
		scaleBy(b, core.Zero[T]())
		return
	}
	cntx = resolveContext(cntx)
	rt = resolveRuntime(rt)

	tmp := obj.General(m, n, make([]T, m*n), n, 1)
	var m1, n1 obj.Matrix[T]
	if isLeft(side) {
		m1, n1 = a, b
	} else {
		m1, n1 = b, a
	}
	m1, n1, tmp = orient(m1, n1, tmp)
	runGemmLike(cntx, rt, alpha, m1, n1, core.Zero[T](), tmp)

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			b.Set(i, j, tmp.At(i, j))
		}
	}
}
