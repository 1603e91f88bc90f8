// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pack implements the packing pipeline: it reshapes a cache
// block of an operand (general, triangular, symmetric or Hermitian) into
// the micro-panel layout the macro-kernel's tuned micro-kernel expects,
// following the p10/p11/p12 split of
// original_source/frame/1m/packm/bli_packm_struc_cxk.c for structured
// operands.
package pack

import (
	"gonum.org/v1/gonum/blas"

	"github.com/blisgo/core"
	"github.com/blisgo/obj"
)

// Kernels bundles the two packing micro-kernels a Block call needs: the
// general (unstructured) packm_cxk and the diagonal packm_cxc, typed for
// a source datatype S packed into a computation/target datatype T.
type Kernels[S, T core.Numeric] struct {
	Cxk obj.PackKernel[S, T]
	Cxc obj.DiagPackKernel[S, T]
}

// Plan carries the parameters shared by every micro-panel packed out of
// one cache block: the register (short-axis) blocksize and its max, the
// long-axis extent and its max, the carried scalar kappa, conjugation,
// the broadcast factor and whether this is a trsm pack that should
// pre-invert the diagonal.
type Plan[T core.Numeric] struct {
	PanelDim, PanelDimMax int
	PanelLen, PanelLenMax int
	Kappa                 T
	Conj                  bool
	Bcast                 int
	InvertDiag            bool
}

// Block packs an entire cache block (MC×KC for an A operand, KC×NC for a
// B operand) of src into dst, which must be sized for
// numMicropanels*plan.PanelDimMax*plan.Bcast*plan.PanelLenMax elements,
// with a Bcast below 1 counting as 1 (the packed
// buffer's "ldP" is therefore plan.PanelDimMax*plan.Bcast, i.e. the
// buffer is one micro-panel wide with no extra per-panel stride). src's
// short axis (the one that gets split into plan.PanelDim-sized
// micro-panels) is its Rows; callers packing a B operand pass src
// already viewed with Rows as the N extent (i.e. pre-transposed) so this
// function never needs to special-case A versus B.
func Block[S, T core.Numeric](src obj.Matrix[S], plan Plan[T], ker Kernels[S, T], dst []T) {
	bcast := plan.Bcast
	if bcast < 1 {
		bcast = 1
	}
	ldP := plan.PanelDimMax * bcast
	micropanelStride := ldP * plan.PanelLenMax

	rows := src.Rows
	nPanels := (rows + plan.PanelDim - 1) / plan.PanelDim
	if rows == 0 {
		nPanels = 0
	}
	for mp := 0; mp < nPanels; mp++ {
		rowOff := mp * plan.PanelDim
		panelDim := plan.PanelDim
		if rowOff+panelDim > rows {
			panelDim = rows - rowOff
		}
		dstPanel := dst[mp*micropanelStride : (mp+1)*micropanelStride]

		if src.Struc == obj.StrucGeneral {
			sub := src.Sub(rowOff, 0, panelDim, src.Cols)
			ker.Cxk(sub.Conj != plan.Conj, panelDim, plan.PanelDimMax, bcast, plan.PanelLen, plan.PanelLenMax, plan.Kappa, sub.Data, sub.RS, sub.CS, dstPanel, ldP)
			continue
		}
		structuredMicropanel(src, rowOff, panelDim, plan, ker, dstPanel, ldP)
	}
}

// structuredMicropanel packs one MR- (or NR-) row micro-panel of a
// triangular, symmetric or Hermitian operand, splitting the long axis
// into the p10 (before the diagonal), p11 (diagonal-intersecting) and
// p12 (after the diagonal) regions exactly as bli_packm_struc_cxk.c
// does. full is the whole cache block (not yet sliced to this
// micro-panel's rows); rowOff is this micro-panel's row offset within
// it, needed to locate the mirror image of an unstored-triangle region
// when the operand's stored triangle lies on the opposite side.
func structuredMicropanel[S, T core.Numeric](full obj.Matrix[S], rowOff, panelDim int, plan Plan[T], ker Kernels[S, T], dst []T, ldP int) {
	diagOff := full.DiagOffsetAt(rowOff, 0)
	panelLen, panelLenMax := plan.PanelLen, plan.PanelLenMax
	panelLenPad := panelLenMax - panelLen

	// Sanity check: the diagonal must not intersect the short edge.
	if (-panelDim < diagOff && diagOff < 0) || (panelLen-panelDim < diagOff && diagOff < panelLen) {
		core.NewError(core.NotYetImplemented, "packm", "diagonal intersects the short edge of a micro-panel")
		return
	}

	rowView := full.Sub(rowOff, 0, panelDim, full.Cols)
	conj := rowView.Conj != plan.Conj

	// p10: strictly before the diagonal block.
	if diagOff > 0 {
		p10Len := diagOff
		if p10Len > panelLen {
			p10Len = panelLen
		}
		p10LenMax := p10Len
		if p10Len == panelLen {
			p10LenMax = panelLenMax
		}
		conj10 := conj
		var data []S
		var incC, ldC int
		if full.Uplo == blas.Upper {
			// The (panelDim × p10Len) region is unstored; its mirror is
			// the (p10Len × panelDim) block at (row 0, col rowOff).
			mirror := full.Sub(0, rowOff, p10Len, panelDim)
			data, incC, ldC = mirror.Data, mirror.CS, mirror.RS
			if full.Struc == obj.StrucHermitian {
				conj10 = !conj10
			}
		} else {
			region := rowView.Sub(0, 0, panelDim, p10Len)
			data, incC, ldC = region.Data, region.RS, region.CS
		}
		if full.Uplo == blas.Upper && full.Struc == obj.StrucTriangular {
			zeroMicropanel(dst, 0, plan.PanelDimMax, p10Len, p10LenMax, ldP, plan.Bcast)
		} else {
			ker.Cxk(conj10, panelDim, plan.PanelDimMax, plan.Bcast, p10Len, p10LenMax, plan.Kappa, data, incC, ldC, dst, ldP)
		}
	}

	// p11: the diagonal-intersecting block, always panelDim×panelDim.
	if 0 <= diagOff && diagOff+panelDim <= panelLen {
		p11LenMax := panelDim
		if diagOff+panelDim == panelLen {
			p11LenMax += panelLenPad
		}
		region := rowView.Sub(0, diagOff, panelDim, panelDim)
		p11 := dst[diagOff*ldP:]
		ker.Cxc(full.Struc, full.Uplo, full.Diag, conj, plan.InvertDiag, panelDim, plan.Kappa, region.Data, region.RS, region.CS, p11, ldP)
		if p11LenMax > panelDim {
			zeroMicropanel(dst, diagOff+panelDim, plan.PanelDimMax, 0, p11LenMax-panelDim, ldP, plan.Bcast)
		}
	}

	// p12: strictly after the diagonal block, always the final region.
	if diagOff+panelDim < panelLen {
		i := diagOff + panelDim
		if i < 0 {
			i = 0
		}
		p12Len := panelLen - i
		p12LenMax := p12Len + panelLenPad
		conj12 := conj
		var data []S
		var incC, ldC int
		if full.Uplo == blas.Lower {
			// The (panelDim × p12Len) region is unstored; its mirror is
			// the (p12Len × panelDim) block at (row i, col rowOff).
			mirror := full.Sub(i, rowOff, p12Len, panelDim)
			data, incC, ldC = mirror.Data, mirror.CS, mirror.RS
			if full.Struc == obj.StrucHermitian {
				conj12 = !conj12
			}
		} else {
			region := rowView.Sub(0, i, panelDim, p12Len)
			data, incC, ldC = region.Data, region.RS, region.CS
		}
		dstRegion := dst[i*ldP:]
		if full.Uplo == blas.Lower && full.Struc == obj.StrucTriangular {
			zeroMicropanel(dstRegion, 0, plan.PanelDimMax, p12Len, p12LenMax, ldP, plan.Bcast)
		} else {
			ker.Cxk(conj12, panelDim, plan.PanelDimMax, plan.Bcast, p12Len, p12LenMax, plan.Kappa, data, incC, ldC, dstRegion, ldP)
		}
	}
}

// zeroMicropanel writes exact zeros over [0,panelDimMax) x [colOff,
// colOff+colLenMax) of a packed buffer, used for the unstored-triangle
// region of a triangular operand's micro-panel. colLen is accepted for
// symmetry with the kernel call sites but the whole [0,colLenMax) range
// is zeroed since both the referenced and padding columns are zero here.
func zeroMicropanel[T core.Numeric](dst []T, colOff, panelDimMax, colLen, colLenMax, ldP, bcast int) {
	if bcast < 1 {
		bcast = 1
	}
	zero := core.Zero[T]()
	_ = colLen
	for col := 0; col < colLenMax; col++ {
		base := (colOff+col)*ldP
		for i := 0; i < panelDimMax*bcast; i++ {
			dst[base+i] = zero
		}
	}
}
