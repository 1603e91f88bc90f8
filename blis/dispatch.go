// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blis

import (
	"gonum.org/v1/gonum/blas"

	"github.com/blisgo/cntl"
	"github.com/blisgo/core"
	"github.com/blisgo/obj"
	"github.com/blisgo/thread"
)

// dims returns A's (rows, cols) and B's (rows, cols) after each
// matrix's own Trans bit is applied, the conformability check every
// product operation's step 2 needs.
func dims[T core.Numeric](a, b obj.Matrix[T]) (ar, ac, br, bc int) {
	ar, ac = a.Dims()
	br, bc = b.Dims()
	return
}

// checkGemm validates step 2 of the dispatch contract for a general
// product: A is m×k, B is k×n, C is m×n.
func checkGemm[T core.Numeric](op string, a, b, c obj.Matrix[T]) {
	if !core.GetConfig().CheckArgs {
		return
	}
	ar, ac, br, bc := dims(a, b)
	cr, cc := c.Dims()
	if ac != br {
		core.NewError(core.Invalid, op, "A and B inner dimensions do not conform")
		return
	}
	if ar != cr || bc != cc {
		core.NewError(core.Invalid, op, "A/B and C outer dimensions do not conform")
	}
}

// checkSquare validates that a structured operand's logical extent is
// square, the "a trmm triangular operand must be square" example from
// step 2.
func checkSquare[T core.Numeric](op string, a obj.Matrix[T]) {
	if !core.GetConfig().CheckArgs {
		return
	}
	r, c := a.Dims()
	if r != c {
		core.NewError(core.Invalid, op, "structured operand is not square")
	}
}

// shortCircuitGemm implements step 3 for a gemm-family call: a zero
// extent on C leaves it untouched; a zero extent on A/B or alpha==0
// scales C by beta (exactly, no spurious rounding) and reports true so
// the caller returns immediately.
func shortCircuitGemm[T core.Numeric](alpha T, a, b obj.Matrix[T], beta T, c obj.Matrix[T]) bool {
	cr, cc := c.Dims()
	if cr == 0 || cc == 0 {
		return true
	}
	ar, ac, br, _ := dims(a, b)
	if ac == 0 || ar == 0 || br == 0 || core.IsZero(alpha) {
		scaleBy(c, beta)
		return true
	}
	return false
}

// scaleBy multiplies every logical element of m by s in place; s == 1
// is a no-op, matching the "C equals β·C_input exactly" testable
// property (no multiply is issued when it would be the identity).
func scaleBy[T core.Numeric](m obj.Matrix[T], s T) {
	if s == core.One[T]() {
		return
	}
	r, c := m.Dims()
	zero := core.IsZero(s)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if zero {
				m.Set(i, j, core.Zero[T]())
			} else {
				m.Set(i, j, m.At(i, j)*s)
			}
		}
	}
}

// orient applies step 8's orientation optimization for the general
// product: the reference micro-kernel here always prefers a
// row-contiguous C micro-tile (macro.Gemm loads/stores through
// obj.Matrix.At/Set, so there is no hard row/column preference to
// exploit at this layer), so orient is a pass-through placeholder that
// documents where a tuned micro-kernel's preference would be consulted
// were one installed. It is still the named extension point a caller
// swapping in a tuned Context.Gemm would hook to add the A/B/C swap
// step 8 describes.
func orient[T core.Numeric](a, b, c obj.Matrix[T]) (obj.Matrix[T], obj.Matrix[T], obj.Matrix[T]) {
	return a, b, c
}

// runGemmLike drives the shared tail of the general-product family
// (gemm, gemmt, symm/hemm once cast to a gemm-shaped call, herk/syrk,
// her2k/syr2k's two gemmt calls): steps 7, 9, 10, 12-15 of the
// contract. a/b/c are already validated, short-circuit-checked and
// oriented by the caller; alpha/beta are folded into a.Scalar/c.Scalar
// here (step 10) before the control tree runs.
func runGemmLike[T core.Numeric](cntx *obj.Context[T], rt obj.Runtime, alpha T, a, b obj.Matrix[T], beta T, c obj.Matrix[T]) {
	a = a.Alias()
	b = b.Alias()
	c = c.Alias()
	a.Scalar = alpha
	c.Scalar = beta

	tree := cntl.BuildGemm()
	wayJC, _, _, _, _ := rt.Ways()
	if wayJC < 1 {
		wayJC = 1
	}
	_ = thread.Decorate(wayJC, 1, 1, 1, 1, func(id thread.Ids) error {
		st := &cntl.State[T]{
			Cntx: cntx, Rt: rt,
			A: a, B: b, C: c,
			GroupID: id.GroupJC,
			JCWay:   wayJC, JCId: id.JC,
		}
		cntl.Execute(tree, st)
		return nil
	})
}

// runTrsmLike drives the shared tail of the left-side triangular
// solve: b's elements are multiplied by alpha up front with scaleBy
// (there being no separate "pre-scale B then solve" primitive at the
// macro level), the trsm
// control tree is built once and handed to the decorator exactly like
// runGemmLike, striped the same way across the NC loop. dir fixes the
// IC sweep direction (§4.2: forward for a lower triangle, backward for
// upper), computed by the caller from the operand's declared triangle.
func runTrsmLike[T core.Numeric](cntx *obj.Context[T], rt obj.Runtime, alpha T, a, b obj.Matrix[T], invertDiag bool, dir obj.Direction) {
	a = a.Alias()
	b = b.Alias()
	scaleBy(b, alpha)

	tree := cntl.BuildTrsm(dir)
	wayJC, _, _, _, _ := rt.Ways()
	if wayJC < 1 {
		wayJC = 1
	}
	_ = thread.Decorate(wayJC, 1, 1, 1, 1, func(id thread.Ids) error {
		st := &cntl.State[T]{
			Cntx: cntx, Rt: rt,
			A: a, B: b,
			InvertDiag: invertDiag,
			GroupID:    id.GroupJC,
			JCWay:      wayJC, JCId: id.JC,
		}
		cntl.Execute(tree, st)
		return nil
	})
}

// zeroHermitianDiagonal clears the imaginary part of every diagonal
// entry of c that lies within dim rows/cols, the explicit post-call
// step herk/her2k's contract requires ("Im(diag(C)) == 0 exactly").
// It is a no-op for real datatypes.
func zeroHermitianDiagonal[T core.Numeric](c obj.Matrix[T], dim int) {
	if !core.IsComplex[T]() {
		return
	}
	for i := 0; i < dim; i++ {
		c.Set(i, i, core.RealPart(c.At(i, i)))
	}
}

// isLeft reports whether side is blas.Left. Step 8's right-side casting
// for the symmetric/Hermitian/triangular family is done by its callers:
// rather than transposing the whole operation (the compile-time-flag
// alternative §9 calls out), the structured operand simply swaps roles
// with the dense operand. This works because the B-operand convention
// (cntl's packB presents the source via TransposeView, with Uplo
// flipped for a structured operand, so its Rows axis is always the one
// split into register panels) packs a structured operand identically
// regardless of which role — MR-packed "A" or NR-packed "B" — it
// plays: runGemmLike(alpha, structured, dense, beta, c) computes
// sym(A)·B while runGemmLike(alpha, dense, structured, beta, c)
// computes B·sym(A), with no conjugate-transpose algebra needed in
// between.
func isLeft(side blas.Side) bool { return side == blas.Left }
