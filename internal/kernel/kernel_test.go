// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/blas"
	"github.com/blisgo/obj"
)

// naiveGemm computes C = alpha*A*B + beta*C over dense mr x nr tiles,
// the oracle spec.md §8 calls for ("compare against a naive triple-loop
// oracle"). a is packed mr-contiguous-per-column (mr x k), b is packed
// nr-contiguous-per-row (k x nr), matching the packed-panel convention
// internal/kernel documents.
func naiveGemm(mr, nr, k int, alpha float64, a, b []float64, beta float64, c []float64, rsC, csC int) {
	for i := 0; i < mr; i++ {
		for j := 0; j < nr; j++ {
			var sum float64
			for p := 0; p < k; p++ {
				sum += a[p*mr+i] * b[p*nr+j]
			}
			idx := i*rsC + j*csC
			c[idx] = alpha*sum + beta*c[idx]
		}
	}
}

func TestReferenceMatchesNaiveGemm(t *testing.T) {
	const mr, nr, k = 4, 3, 5
	a := make([]float64, mr*k)
	b := make([]float64, k*nr)
	for i := range a {
		a[i] = float64(i%7) - 3
	}
	for i := range b {
		b[i] = float64(i%5) - 2
	}
	cGot := make([]float64, mr*nr)
	cWant := make([]float64, mr*nr)
	for i := range cGot {
		cGot[i] = float64(i)
		cWant[i] = float64(i)
	}

	ukr := Reference[float64](mr, nr)
	ukr(k, 2.0, a, b, 0.5, cGot, nr, 1)
	naiveGemm(mr, nr, k, 2.0, a, b, 0.5, cWant, nr, 1)

	for i := range cGot {
		if math.Abs(cGot[i]-cWant[i]) > 1e-9 {
			t.Errorf("element %d: got %v, want %v", i, cGot[i], cWant[i])
		}
	}
}

func TestReferenceZeroBetaNoSpuriousRead(t *testing.T) {
	const mr, nr, k = 2, 2, 1
	a := []float64{1, 1}
	b := []float64{1, 1}
	c := []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()}
	ukr := Reference[float64](mr, nr)
	ukr(k, 1, a, b, 0, c, nr, 1)
	for i, v := range c {
		if math.IsNaN(v) {
			t.Errorf("element %d is NaN: beta=0 must not read the prior C value", i)
		}
	}
}

func TestReferenceTrsmLowerSolvesExactly(t *testing.T) {
	const mr, nr = 2, 1
	// Lower 2x2 packed diagonal, column-major-in-panel (element (i,j) at
	// j*mr+i): A = [[2,0],[1,3]].
	a := []float64{2, 1, 0, 3}
	// Solve A*x = [2, 5]: x0 = 1, x1 = (5-1)/3 = 4/3.
	c := []float64{2, 5}
	trsm := ReferenceTrsm[float64](mr, nr)
	trsm(true, false, a, c, nr, 1)
	if math.Abs(c[0]-1) > 1e-9 {
		t.Errorf("c[0] = %v, want 1", c[0])
	}
	if math.Abs(c[1]-4.0/3.0) > 1e-9 {
		t.Errorf("c[1] = %v, want 4/3", c[1])
	}
}

func TestReferenceTrsmPreinvertedMatchesDivision(t *testing.T) {
	const mr, nr = 2, 1
	a := []float64{2, 1, 0, 3}
	aInv := []float64{0.5, 1, 0, 1.0 / 3.0}
	c1 := []float64{2, 5}
	c2 := []float64{2, 5}
	trsm := ReferenceTrsm[float64](mr, nr)
	trsm(true, false, a, c1, nr, 1)
	trsm(true, true, aInv, c2, nr, 1)
	for i := range c1 {
		if math.Abs(c1[i]-c2[i]) > 1e-9 {
			t.Errorf("element %d: division path %v != pre-inverted path %v", i, c1[i], c2[i])
		}
	}
}

func TestReferencePackCxkRoundTrip(t *testing.T) {
	// kappa=1, no conjugation, no structural zeroing: the packed panel
	// must reproduce the source sub-matrix exactly (spec.md §8 "Packing
	// round-trip").
	const panelDim, panelLen = 3, 4
	src := []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	}
	// src is panelDim x panelLen, row-major (incC=panelLen, ldC=1).
	p := make([]float64, panelDim*panelLen)
	ReferencePackCxk[float64, float64](false, panelDim, panelDim, 1, panelLen, panelLen, 1, src, panelLen, 1, p, panelDim)
	for i := 0; i < panelDim; i++ {
		for col := 0; col < panelLen; col++ {
			got := p[col*panelDim+i]
			want := src[i*panelLen+col]
			if got != want {
				t.Errorf("p[%d,%d] = %v, want %v", i, col, got, want)
			}
		}
	}
}

func TestReferencePackCxkPadsShortAndLongAxes(t *testing.T) {
	const panelDim, panelDimMax = 2, 4
	const panelLen, panelLenMax = 2, 3
	src := []float64{1, 2, 3, 4}
	p := make([]float64, panelDimMax*panelLenMax)
	for i := range p {
		p[i] = -1 // sentinel, overwritten unless correctly zero-padded
	}
	ReferencePackCxk[float64, float64](false, panelDim, panelDimMax, 1, panelLen, panelLenMax, 1, src, panelLen, 1, p, panelDimMax)
	// Rows [panelDim, panelDimMax) of the referenced columns must be zero.
	for col := 0; col < panelLen; col++ {
		for i := panelDim; i < panelDimMax; i++ {
			if got := p[col*panelDimMax+i]; got != 0 {
				t.Errorf("short-axis pad at (row=%d,col=%d) = %v, want 0", i, col, got)
			}
		}
	}
	// The trailing padding column must be entirely zero.
	for i := 0; i < panelDimMax; i++ {
		if got := p[panelLen*panelDimMax+i]; got != 0 {
			t.Errorf("long-axis pad at (row=%d,col=%d) = %v, want 0", i, panelLen, got)
		}
	}
}

func TestReferencePackCxcHermitianDiagonalIsReal(t *testing.T) {
	const n = 2
	// Hermitian lower 2x2: diagonal real, (1,0) entry arbitrary complex.
	src := []complex128{
		3 + 7i, 0, // (0,0)=3 (imag dropped), (0,1) unused (upper, unstored)
		1 - 2i, 4 + 9i, // (1,0)=1-2i stored, (1,1)=4 (imag dropped)
	}
	p := make([]complex128, n*n)
	ReferencePackCxc[complex128, complex128](obj.StrucHermitian, blas.Lower, blas.NonUnit, false, false, n, 1, src, n, 1, p, n)
	if real(p[0]) != 3 || imag(p[0]) != 0 {
		t.Errorf("p[0,0] = %v, want 3+0i (Hermitian diagonal must be real)", p[0])
	}
	if real(p[3]) != 4 || imag(p[3]) != 0 {
		t.Errorf("p[1,1] = %v, want 4+0i (Hermitian diagonal must be real)", p[3])
	}
	// The stored (1,0) entry is carried through unconjugated...
	if got, want := p[0*n+1], complex(1, -2); got != want {
		t.Errorf("p[1,0] stored slot = %v, want %v", got, want)
	}
	// ...and its mirror at unstored (0,1) is the conjugate reflection.
	if got, want := p[1*n+0], complex(1, 2); got != want {
		t.Errorf("p[0,1] mirrored slot = %v, want %v", got, want)
	}
}

func TestReferencePackCxcTriangularZerosUnstoredSide(t *testing.T) {
	const n = 3
	src := []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}
	p := make([]float64, n*n)
	ReferencePackCxc[float64, float64](obj.StrucTriangular, blas.Lower, blas.NonUnit, false, false, n, 1, src, n, 1, p, n)
	for row := 0; row < n; row++ {
		for col := row + 1; col < n; col++ {
			if got := p[col*n+row]; got != 0 {
				t.Errorf("strict-upper (unstored) p[%d,%d] = %v, want exact 0", row, col, got)
			}
		}
	}
}

func TestReferencePackCxcInvertsDiagonal(t *testing.T) {
	const n = 2
	src := []float64{2, 0, 1, 3}
	p := make([]float64, n*n)
	ReferencePackCxc[float64, float64](obj.StrucTriangular, blas.Lower, blas.NonUnit, false, true, n, 1, src, n, 1, p, n)
	if math.Abs(p[0]-0.5) > 1e-12 {
		t.Errorf("p[0,0] = %v, want 1/2 = 0.5", p[0])
	}
	if math.Abs(p[3]-1.0/3.0) > 1e-12 {
		t.Errorf("p[1,1] = %v, want 1/3", p[3])
	}
}
