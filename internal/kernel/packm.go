// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"gonum.org/v1/gonum/blas"

	"github.com/blisgo/core"
	"github.com/blisgo/obj"
)

// ReferencePackCxk builds the general (unstructured) packing micro-kernel
// packm_cxk: it copies panelDim×panelLen source elements from c into the
// packed buffer p, converting T to S, scaling by kappa, optionally
// conjugating, padding the short axis to panelDimMax and the long axis
// to panelLenMax with exact zeros, and replicating each element
// panelBcast times along the short axis.
func ReferencePackCxk[T, S core.Numeric](conj bool, panelDim, panelDimMax, panelBcast, panelLen, panelLenMax int, kappa S, c []T, incC, ldC int, p []S, ldP int) {
	if panelBcast < 1 {
		panelBcast = 1
	}
	zero := core.Zero[S]()
	for col := 0; col < panelLen; col++ {
		for i := 0; i < panelDim; i++ {
			v := core.Convert[T, S](c[i*incC+col*ldC])
			if conj {
				v = core.Conj(v)
			}
			v = kappa * v
			base := col*ldP + i*panelBcast
			for r := 0; r < panelBcast; r++ {
				p[base+r] = v
			}
		}
		for i := panelDim; i < panelDimMax; i++ {
			base := col*ldP + i*panelBcast
			for r := 0; r < panelBcast; r++ {
				p[base+r] = zero
			}
		}
	}
	for col := panelLen; col < panelLenMax; col++ {
		for i := 0; i < panelDimMax; i++ {
			base := col*ldP + i*panelBcast
			for r := 0; r < panelBcast; r++ {
				p[base+r] = zero
			}
		}
	}
}

// ReferencePackCxc builds the diagonal (cxc) packing micro-kernel: packs
// a panelDim×panelDim diagonal-intersecting block, applying the
// triangular/symmetric/Hermitian reflection element-wise, the explicit
// zero-fill for a triangular operand's unstored half, optional diagonal
// inversion (trsm pre-inversion), kappa scaling and conjugation.
func ReferencePackCxc[T, S core.Numeric](struc obj.Struc, uplo blas.Uplo, diag blas.Diag, conj, invertDiag bool, panelDim int, kappa S, c []T, incC, ldC int, p []S, ldP int) {
	one := core.One[S]()
	for col := 0; col < panelDim; col++ {
		for row := 0; row < panelDim; row++ {
			var v S
			switch {
			case row == col:
				if diag == blas.Unit {
					v = kappa
					break
				}
				v = core.Convert[T, S](c[row*incC+col*ldC])
				if conj {
					v = core.Conj(v)
				}
				if struc == obj.StrucHermitian {
					v = core.RealPart(v)
				}
				v = kappa * v
				if invertDiag {
					v = one / v
				}
			case (uplo == blas.Upper) == (col > row):
				// (row, col) lies in the stored triangle.
				v = core.Convert[T, S](c[row*incC+col*ldC])
				if conj {
					v = core.Conj(v)
				}
				v = kappa * v
			default:
				// (row, col) lies in the unstored triangle: reflect from
				// its stored counterpart, or zero it for a triangular
				// operand referencing the unstored part.
				if struc == obj.StrucTriangular {
					v = core.Zero[S]()
				} else {
					v = core.Convert[T, S](c[col*incC+row*ldC])
					if struc == obj.StrucHermitian {
						v = core.Conj(v)
					}
					if conj {
						v = core.Conj(v)
					}
					v = kappa * v
				}
			}
			p[col*ldP+row] = v
		}
	}
}
