// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package macro implements the macro-kernel harnesses of §4.4: the
// JR/IR loop around the tuned micro-kernel, and the gemmt
// triangular-output discrimination (store in place, masked-store, or
// skip) layered on top of it. A plain gemm leaf is simply a gemmt leaf
// whose C carries obj.StrucGeneral, so one harness serves both.
package macro

import (
	"gonum.org/v1/gonum/blas"

	"github.com/blisgo/core"
	"github.com/blisgo/obj"
)

// Gemm drives the JR/IR loops over a packed A block of mFull rows and a
// packed B block of nFull columns, sharing the k-long contraction
// dimension, accumulating into c (whose Scalar carries the retained
// beta and whose Struc/Uplo/DiagOff, if structured, restrict which
// elements of a straddling micro-tile are actually written — the
// gemmt behavior of §4.4 applied uniformly). packedA and packedB are
// laid out as internal/kernel's doc describes: contiguous MR- (resp.
// NR-) row micro-panels, each k elements long along the register
// dimension's complement. jrWay/jrId and irWay/irId restrict the JR
// and IR loops to the micro-tiles belonging to this worker, the same
// round-robin striping the cntl partitions use above this harness; way
// < 1 (the default) processes every tile.
func Gemm[T core.Numeric](cntx *obj.Context[T], packedA, packedB []T, mFull, nFull, k int, c obj.Matrix[T], jrWay, jrId, irWay, irId int) {
	mr := cntx.Blocks.Def(obj.MR)
	nr := cntx.Blocks.Def(obj.NR)
	numIR := blocks(mFull, mr)
	numJR := blocks(nFull, nr)
	strideA := mr * k
	strideB := nr * k
	beta := c.Scalar
	one := core.One[T]()
	zero := core.Zero[T]()
	if jrWay < 1 {
		jrWay = 1
	}
	if irWay < 1 {
		irWay = 1
	}

	tile := make([]T, mr*nr)
	structured := c.Struc != obj.StrucGeneral

	for jp := 0; jp < numJR; jp++ {
		if jrWay > 1 && jp%jrWay != jrId {
			continue
		}
		colOff := jp * nr
		nDim := nr
		if colOff+nDim > nFull {
			nDim = nFull - colOff
		}
		bPanel := packedB[jp*strideB : jp*strideB+strideB]

		for ip := 0; ip < numIR; ip++ {
			if irWay > 1 && ip%irWay != irId {
				continue
			}
			rowOff := ip * mr
			mDim := mr
			if rowOff+mDim > mFull {
				mDim = mFull - rowOff
			}
			aPanel := packedA[ip*strideA : ip*strideA+strideA]

			sub := c.Sub(rowOff, colOff, mDim, nDim)

			var localDiag int
			if structured {
				localDiag = c.DiagOffsetAt(rowOff, colOff)
			}

			// Load the current mDim x nDim contents of C into the
			// dense mr x nr scratch tile the micro-kernel expects,
			// padding any edge remainder with zero (harmless: padding
			// cells are never written back).
			for i := 0; i < mr; i++ {
				for j := 0; j < nr; j++ {
					tile[i*nr+j] = zero
				}
			}
			for i := 0; i < mDim; i++ {
				for j := 0; j < nDim; j++ {
					tile[i*nr+j] = sub.At(i, j)
				}
			}

			cntx.Gemm(k, one, aPanel, bPanel, beta, tile, nr, 1)

			for i := 0; i < mDim; i++ {
				for j := 0; j < nDim; j++ {
					if structured && !isStored(c.Uplo, localDiag, i, j) {
						continue
					}
					sub.Set(i, j, tile[i*nr+j])
				}
			}
		}
	}
}

// isStored reports whether local tile position (i, j) — whose diagonal
// satisfies j-i == localDiag — lies in the declared stored triangle.
func isStored(uplo blas.Uplo, localDiag, i, j int) bool {
	d := j - i
	if uplo == blas.Upper {
		return d >= localDiag
	}
	return d <= localDiag
}

func blocks(n, size int) int {
	if n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
