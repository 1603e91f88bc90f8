// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernel is the one external collaborator the CORE is allowed to
// assume: the tuned MR×NR micro-kernel. Production users install a
// machine-tuned kernel on a Context; this package supplies a portable,
// correctness-reference implementation modeled on the loop shapes in
// blas/gonum/level3cmplx128.go, used as the default and exercised by
// the kernel, pack, macro, cntl and blis tests.
//
// Packed-panel layout convention (owned jointly by this package and
// package pack): an A-panel of register blocksize MR and long extent L is
// stored as L columns of MR contiguous elements, element (row i, column p)
// at offset p*MR+i; a B-panel of register blocksize NR is stored
// symmetrically, element (row p, column j) at offset p*NR+j. A triangular
// diagonal (p11) block reuses the A-panel convention at L == MR.
package kernel

import "github.com/blisgo/core"

// Reference builds a portable MR×NR general-matrix micro-kernel: the
// innermost rank-k update C[MR×NR] = alpha*A_panel*B_panel + beta*C,
// computed with a dense MR×NR accumulator the way the unrolled
// GemmKernel4x4 fallback in internal/asm/f64 accumulates into a small
// fixed tile, generalized here to arbitrary MR/NR via a generic slice
// accumulator since Go has no fixed-size array types parameterized by a
// runtime value.
func Reference[T core.Numeric](mr, nr int) func(k int, alpha T, a, b []T, beta T, c []T, rsC, csC int) {
	return func(k int, alpha T, a, b []T, beta T, c []T, rsC, csC int) {
		ab := make([]T, mr*nr)
		for p := 0; p < k; p++ {
			aCol := a[p*mr : p*mr+mr]
			bRow := b[p*nr : p*nr+nr]
			for i := 0; i < mr; i++ {
				aip := aCol[i]
				if core.IsZero(aip) {
					continue
				}
				row := ab[i*nr : i*nr+nr]
				for j := 0; j < nr; j++ {
					row[j] += aip * bRow[j]
				}
			}
		}
		zeroBeta := core.IsZero(beta)
		for i := 0; i < mr; i++ {
			for j := 0; j < nr; j++ {
				idx := i*rsC + j*csC
				v := alpha * ab[i*nr+j]
				if zeroBeta {
					c[idx] = v
				} else {
					c[idx] = v + beta*c[idx]
				}
			}
		}
	}
}

// ReferenceTrsm builds a portable MR×NR triangular-solve micro-kernel.
// a is the packed MR×MR diagonal block (pre-inverted on its diagonal iff
// preinverted is true); c holds, on entry, B's MR×NR tile already reduced
// by the gemm sub-branch's contribution, and is overwritten with X on
// return. lower and preinverted are call-time arguments rather than
// baked into the closure: both are runtime policy that can change from
// one call to the next against the same Context (a left-lower solve and
// a left-upper solve share the same installed kernel value).
func ReferenceTrsm[T core.Numeric](mr, nr int) func(lower, preinverted bool, a, c []T, rsC, csC int) {
	return func(lower, preinverted bool, a, c []T, rsC, csC int) {
		solveCol := func(j int) {
			if lower {
				for i := 0; i < mr; i++ {
					idx := i*rsC + j*csC
					sum := c[idx]
					for p := 0; p < i; p++ {
						sum -= a[p*mr+i] * c[p*rsC+j*csC]
					}
					if preinverted {
						c[idx] = sum * a[i*mr+i]
					} else {
						c[idx] = sum / a[i*mr+i]
					}
				}
			} else {
				for i := mr - 1; i >= 0; i-- {
					idx := i*rsC + j*csC
					sum := c[idx]
					for p := i + 1; p < mr; p++ {
						sum -= a[p*mr+i] * c[p*rsC+j*csC]
					}
					if preinverted {
						c[idx] = sum * a[i*mr+i]
					} else {
						c[idx] = sum / a[i*mr+i]
					}
				}
			}
		}
		for j := 0; j < nr; j++ {
			solveCol(j)
		}
	}
}
