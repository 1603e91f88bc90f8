// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import (
	"gonum.org/v1/gonum/blas"

	"github.com/blisgo/core"
)

// Blocks is the per-datatype blocksize table: a 2D lookup
// (datatype, kind) -> (def, max), keyed here by kind since Context is
// already parameterized over datatype by T.
type Blocks struct {
	def, max [numBlockKinds]int
}

// Def returns the algorithmic (non-maximum) blocksize for kind.
func (b Blocks) Def(kind BlockKind) int { return b.def[kind] }

// Max returns the maximum blocksize for kind, used when an accumulated
// remainder warrants a larger final block.
func (b Blocks) Max(kind BlockKind) int { return b.max[kind] }

// Set installs def/max for kind.
func (b *Blocks) Set(kind BlockKind, def, max int) {
	b.def[kind], b.max[kind] = def, max
}

// CheckMultiples validates that MC is a whole multiple of MR and NC a
// whole multiple of NR, the invariant that keeps a structured operand's
// diagonal from ever intersecting the short edge of a micro-panel.
func (b Blocks) CheckMultiples() error {
	if b.def[MC]%b.def[MR] != 0 || b.max[MC]%b.def[MR] != 0 {
		return &core.Error{Kind: core.Invalid, Op: "blocks", Msg: "MC is not a whole multiple of MR"}
	}
	if b.def[NC]%b.def[NR] != 0 || b.max[NC]%b.def[NR] != 0 {
		return &core.Error{Kind: core.Invalid, Op: "blocks", Msg: "NC is not a whole multiple of NR"}
	}
	return nil
}

// DefaultBlocks returns conservative, portable default blocksizes for T.
// MC is a whole multiple of MR and NC of NR, satisfying the invariant
// that every cache blocksize is a whole multiple of its register
// blocksize. Real callers of the engine are expected to override these
// via Context.SetBlocks with machine-tuned numbers; the defaults here
// exist so the reference micro-kernel in internal/kernel has something
// to block against out of the box.
func DefaultBlocks[T core.Numeric]() Blocks {
	var mr, nr int
	switch any(*new(T)).(type) {
	case complex64, complex128:
		mr, nr = 4, 4
	default:
		mr, nr = 8, 4
	}
	b := Blocks{}
	b.Set(MR, mr, mr)
	b.Set(NR, nr, nr)
	b.Set(MC, mr*64, mr*80)
	b.Set(KC, 256, 320)
	b.Set(NC, nr*1024, nr*1200)
	return b
}

// MicroKernel is the typed function pointer for the tuned MR×NR
// general-matrix micro-kernel, an external collaborator the engine only
// ever invokes through this signature. rsC/csC name the strides of
// the C micro-tile in elements; packed A and B panels are always unit
// row/col-contiguous micro-panels.
type MicroKernel[T core.Numeric] func(k int, alpha T, a, b []T, beta T, c []T, rsC, csC int)

// TrsmMicroKernel is the typed function pointer for the tuned MR×NR
// triangular-solve micro-kernel used by the p11 (diagonal) block of a
// trsm macro-kernel. a is the packed MR×MR diagonal block (zero-filled
// on the unstored triangle, diagonal pre-inverted iff preinverted); c
// holds, on entry, the MR×NR tile already reduced by the gemm
// sub-branch and is overwritten with the solution. lower and
// preinverted are runtime policy, not baked into the kernel value
// itself, since both may change from one call to the next against the
// same Context.
type TrsmMicroKernel[T core.Numeric] func(lower, preinverted bool, a, c []T, rsC, csC int)

// PackKernel is the general (unstructured) packing micro-kernel,
// packm_cxk in the design: copies/converts/scales a source sub-block
// into a packed micro-panel. Package pack passes panelDimMax/ldP as its
// Plan gives them and never reads a Matrix's Schema: no 1m
// column-doubling is applied, and this function pointer does not see
// the Schema either.
type PackKernel[T, S core.Numeric] func(conj bool, panelDim, panelDimMax, panelBcast, panelLen, panelLenMax int, kappa S, c []T, incC, ldC int, p []S, ldP int)

// DiagPackKernel is the cxc diagonal-block packing micro-kernel: applies
// the triangular/symmetric/Hermitian reflection element-wise and
// optionally inverts the diagonal.
type DiagPackKernel[T, S core.Numeric] func(struc Struc, uplo blas.Uplo, diag blas.Diag, conj bool, invertDiag bool, panelDim int, kappa S, c []T, incC, ldC int, p []S, ldP int)

// Context is the read-only table of per-datatype blocksizes and
// per-kernel-id function pointers consulted by the control-tree
// constructors and the packing/macro-kernel stages. A Context is built
// once (typically at process init) and never mutated after being handed
// to a dispatch front-end.
type Context[T core.Numeric] struct {
	Blocks Blocks

	Gemm     MicroKernel[T]
	Trsm     TrsmMicroKernel[T]
	PackCxk  PackKernel[T, T]
	PackCxc  DiagPackKernel[T, T]
}

// SetBlocks overrides the blocksize table carried by the Context.
func (c *Context[T]) SetBlocks(b Blocks) { c.Blocks = b }
