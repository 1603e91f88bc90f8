// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package macro

import (
	"gonum.org/v1/gonum/blas"

	"github.com/blisgo/core"
	"github.com/blisgo/obj"
)

// Trsm solves tri(A)*X = B in place over B (left side, A m x m
// triangular), walking MR-row blocks of B in the direction the
// triangle's Uplo dictates — forward for lower, backward for upper —
// the gemm-then-trsm sibling branches of §4.2: at each step, first
// subtract A's already-solved contribution from the current block of B
// (the "gemm" sibling), then solve the block's own diagonal tile (the
// "trsm" sibling). a and b are already-aliased views; the dispatcher
// has already multiplied b's elements by alpha.
// invertDiag mirrors the trsm pre-inversion policy from obj.Config.
func Trsm[T core.Numeric](cntx *obj.Context[T], a, b obj.Matrix[T], invertDiag bool) {
	mr := cntx.Blocks.Def(obj.MR)
	m, n := b.Rows, b.Cols
	lower := a.Uplo == blas.Lower
	numBlocks := blocks(m, mr)

	for step := 0; step < numBlocks; step++ {
		bi := step
		if !lower {
			bi = numBlocks - 1 - step
		}
		rowOff := bi * mr
		dim := mr
		if rowOff+dim > m {
			dim = m - rowOff
		}

		bBlock := b.Sub(rowOff, 0, dim, n)

		if lower && rowOff > 0 {
			aOff := a.Sub(rowOff, 0, dim, rowOff)
			xSolved := b.Sub(0, 0, rowOff, n)
			GemmSub(aOff, xSolved, bBlock)
		} else if !lower && rowOff+dim < m {
			aOff := a.Sub(rowOff, rowOff+dim, dim, m-rowOff-dim)
			xSolved := b.Sub(rowOff+dim, 0, m-rowOff-dim, n)
			GemmSub(aOff, xSolved, bBlock)
		}

		diag := a.Sub(rowOff, rowOff, dim, dim)
		solveDiagBlock(cntx, diag, bBlock, invertDiag)
	}
}

// GemmSub computes bBlock -= aOff*xSolved, the contribution of the
// portion of X already solved in a previous step. This is the "gemm"
// sibling branch of the trsm control tree, exported so cntl's
// GemmSubLeaf node can drive it at IC granularity as well as this
// package's own finer MR-granularity walk; it is implemented as a
// direct reference triple loop rather than routed through the packed
// micro-kernel pipeline since its K extent (the count of rows already
// solved) grows incrementally and so rarely matches a full packed
// panel.
func GemmSub[T core.Numeric](aOff, xSolved, bBlock obj.Matrix[T]) {
	dim, k := aOff.Rows, aOff.Cols
	n := bBlock.Cols
	for i := 0; i < dim; i++ {
		for j := 0; j < n; j++ {
			sum := core.Zero[T]()
			for p := 0; p < k; p++ {
				sum += aOff.At(i, p) * xSolved.At(p, j)
			}
			bBlock.Set(i, j, bBlock.At(i, j)-sum)
		}
	}
}

// solveDiagBlock solves diag*X = bBlock over bBlock's NR-wide column
// strips. When diag is a full MR x MR tile it packs the diagonal block
// through cntx.PackCxc (applying invertDiag) and drives cntx.Trsm
// directly against bBlock's own strides, exactly as
// obj.TrsmMicroKernel's doc describes; a partial (final) diagonal block
// falls back to direct substitution since the tuned micro-kernel's
// contract assumes a full register tile.
func solveDiagBlock[T core.Numeric](cntx *obj.Context[T], diag, bBlock obj.Matrix[T], invertDiag bool) {
	mr := cntx.Blocks.Def(obj.MR)
	nr := cntx.Blocks.Def(obj.NR)
	dim, n := diag.Rows, bBlock.Cols

	if dim == mr && cntx.Trsm != nil && cntx.PackCxc != nil {
		packed := make([]T, mr*mr)
		cntx.PackCxc(diag.Struc, diag.Uplo, diag.Diag, diag.Conj, invertDiag, mr, diag.Scalar, diag.Data, diag.RS, diag.CS, packed, mr)
		for colOff := 0; colOff < n; colOff += nr {
			nDim := nr
			if colOff+nDim > n {
				nDim = n - colOff
			}
			if nDim == nr {
				sub := bBlock.Sub(0, colOff, mr, nr)
				cntx.Trsm(diag.Uplo == blas.Lower, invertDiag, packed, sub.Data, sub.RS, sub.CS)
				continue
			}
			naiveSolve(diag, bBlock.Sub(0, colOff, dim, nDim))
		}
		return
	}
	naiveSolve(diag, bBlock)
}

// naiveSolve solves diag*X = block by forward or backward substitution
// directly against the Matrix descriptors, used for any diagonal block
// whose size does not match the register blocksize (always the final
// block of a dimension not evenly divisible by MR).
func naiveSolve[T core.Numeric](diag, block obj.Matrix[T]) {
	dim, n := diag.Rows, block.Cols
	lower := diag.Uplo == blas.Lower

	solveCol := func(j int) {
		if lower {
			for i := 0; i < dim; i++ {
				sum := block.At(i, j)
				for p := 0; p < i; p++ {
					sum -= diag.At(i, p) * block.At(p, j)
				}
				block.Set(i, j, divideByDiag(sum, diag.At(i, i), diag.Diag))
			}
		} else {
			for i := dim - 1; i >= 0; i-- {
				sum := block.At(i, j)
				for p := i + 1; p < dim; p++ {
					sum -= diag.At(i, p) * block.At(p, j)
				}
				block.Set(i, j, divideByDiag(sum, diag.At(i, i), diag.Diag))
			}
		}
	}
	for j := 0; j < n; j++ {
		solveCol(j)
	}
}

// divideByDiag applies the non-unit diagonal division naiveSolve needs;
// invertDiag is not consulted here because naiveSolve always reads the
// original (non pre-inverted) diagonal value directly — the policy only
// changes how the packed cxc path precomputes its diagonal, not how a
// plain division is carried out.
func divideByDiag[T core.Numeric](sum, d T, unitDiag blas.Diag) T {
	if unitDiag == blas.Unit {
		return sum
	}
	return sum / d
}
