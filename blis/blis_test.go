// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blis

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/blas"

	"github.com/blisgo/obj"
)

func approxEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

// Scenario 1: gemm, real64, A = I3, B = given matrix, alpha=1, beta=0 ->
// C = B.
func TestGemmIdentityTimesB(t *testing.T) {
	aData := []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
	bData := []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}
	cData := make([]float64, 9)
	for i := range cData {
		cData[i] = -99 // arbitrary prior content, must be fully overwritten
	}
	a := obj.General(3, 3, aData, 3, 1)
	b := obj.General(3, 3, bData, 3, 1)
	c := obj.General(3, 3, cData, 3, 1)

	Gemm(1.0, a, b, 0.0, c, nil, obj.Runtime{})

	for i := 0; i < 9; i++ {
		if cData[i] != bData[i] {
			t.Errorf("C[%d] = %v, want %v", i, cData[i], bData[i])
		}
	}
}

// Scenario 2: gemm, complex64, A = [[i]], B = [[1+i]], alpha=1, beta=0
// -> C = [[-1+i]].
func TestGemmComplex64SingleElement(t *testing.T) {
	a := obj.General(1, 1, []complex64{1i}, 1, 1)
	b := obj.General(1, 1, []complex64{1 + 1i}, 1, 1)
	cData := []complex64{0}
	c := obj.General(1, 1, cData, 1, 1)

	Gemm(complex64(1), a, b, complex64(0), c, nil, obj.Runtime{})

	want := complex64(-1 + 1i)
	if cData[0] != want {
		t.Errorf("C[0,0] = %v, want %v", cData[0], want)
	}
}

// Scenario 3: trsm, real32, side=left, A lower non-unit 2x2, B = [[2],[5]]
// -> B = [[1],[4/3]].
func TestTrsmLeftLowerTwoByTwo(t *testing.T) {
	aData := []float32{
		2, 0,
		1, 3,
	}
	bData := []float32{2, 5}
	a := obj.Triangle[float32](2, aData, 2, 1, obj.StrucTriangular, blas.Lower, blas.NonUnit)
	b := obj.General(2, 1, bData, 1, 1)

	Trsm(blas.Left, float32(1), a, b, nil, obj.Runtime{})

	if !approxEqual(float64(bData[0]), 1, 1e-5) {
		t.Errorf("B[0] = %v, want 1", bData[0])
	}
	if !approxEqual(float64(bData[1]), 4.0/3.0, 1e-5) {
		t.Errorf("B[1] = %v, want 4/3", bData[1])
	}
}

// Scenario 4: herk, complex64, A = [[1+i],[1-i]], alpha=1, beta=0, upper
// -> C[0,0]=2, diagonal imaginary part exactly zero.
func TestHerkDiagonalRealAndUpperResult(t *testing.T) {
	aData := []complex64{1 + 1i, 1 - 1i}
	a := obj.General(2, 1, aData, 1, 1)
	cData := make([]complex64, 4)
	c := obj.Triangle[complex64](2, cData, 2, 1, obj.StrucHermitian, blas.Upper, blas.NonUnit)

	Herk[complex64](1, a, 0, c, nil, obj.Runtime{})

	if !approxEqual(float64(real(cData[0])), 2, 1e-5) || imag(cData[0]) != 0 {
		t.Errorf("C[0,0] = %v, want 2+0i", cData[0])
	}
	if imag(cData[3]) != 0 {
		t.Errorf("C[1,1] imaginary part = %v, want exactly 0", imag(cData[3]))
	}
}

// Scenario 5: gemmt, real64, 4x4 lower triangle: the strict upper of C
// must be byte-for-byte unchanged after the call.
func TestGemmtLowerLeavesStrictUpperUntouched(t *testing.T) {
	const n, k = 4, 3
	aData := make([]float64, n*k)
	for i := range aData {
		aData[i] = float64(i%4) + 1
	}
	bData := make([]float64, k*n)
	for i := range bData {
		bData[i] = float64(i%3) + 1
	}
	cData := make([]float64, n*n)
	for i := range cData {
		cData[i] = float64(50 + i)
	}
	cBefore := append([]float64(nil), cData...)

	a := obj.General(n, k, aData, k, 1)
	b := obj.General(k, n, bData, n, 1)
	c := obj.Triangle[float64](n, cData, n, 1, obj.StrucTriangular, blas.Lower, blas.NonUnit)

	Gemmt(1, a, b, 1, c, nil, obj.Runtime{})

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			idx := i*n + j
			if cData[idx] != cBefore[idx] {
				t.Errorf("strict-upper C[%d,%d] changed: %v -> %v", i, j, cBefore[idx], cData[idx])
			}
		}
	}
}

// Scenario (short-circuit): m*n == 0 leaves C untouched.
func TestGemmZeroExtentLeavesCUntouched(t *testing.T) {
	a := obj.General(0, 2, nil, 2, 1)
	b := obj.General(2, 3, make([]float64, 6), 3, 1)
	cData := []float64{7, 8, 9}
	c := obj.General(0, 3, cData, 3, 1)
	Gemm(1, a, b, 2, c, nil, obj.Runtime{})
	want := []float64{7, 8, 9}
	for i := range cData {
		if cData[i] != want[i] {
			t.Error("zero-extent C was modified")
		}
	}
}

// Scenario (short-circuit): k == 0 scales C by beta exactly, with no
// spurious rounding from unused multiplies.
func TestGemmZeroKScalesCByBetaExactly(t *testing.T) {
	a := obj.General(2, 0, nil, 1, 1)
	b := obj.General(0, 2, nil, 1, 1)
	cData := []float64{1, 2, 3, 4}
	c := obj.General(2, 2, cData, 2, 1)
	Gemm(1, a, b, 3, c, nil, obj.Runtime{})
	want := []float64{3, 6, 9, 12}
	for i := range cData {
		if cData[i] != want[i] {
			t.Errorf("C[%d] = %v, want %v", i, cData[i], want[i])
		}
	}
}

func TestSyr2kMatchesTwoGemmtComposition(t *testing.T) {
	const n, k = 3, 2
	aData := []float64{1, 2, 3, 4, 5, 6}
	bData := []float64{6, 5, 4, 3, 2, 1}
	a := obj.General(n, k, aData, k, 1)
	b := obj.General(n, k, bData, k, 1)

	cData := make([]float64, n*n)
	c := obj.Triangle[float64](n, cData, n, 1, obj.StrucSymmetric, blas.Lower, blas.NonUnit)
	Syr2k(1, a, b, 0, c, nil, obj.Runtime{})

	// Oracle: C = A*Bt + B*At over the stored (lower) triangle.
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			var sum float64
			for p := 0; p < k; p++ {
				sum += aData[i*k+p]*bData[j*k+p] + bData[i*k+p]*aData[j*k+p]
			}
			got := cData[i*n+j]
			if !approxEqual(got, sum, 1e-9) {
				t.Errorf("C[%d,%d] = %v, want %v", i, j, got, sum)
			}
		}
	}
}

func TestTrmm3LeftMatchesTriangularTimesB(t *testing.T) {
	const n, cols = 3, 2
	aData := []float64{
		2, 0, 0,
		1, 3, 0,
		4, 5, 6,
	}
	bData := []float64{
		1, 2,
		3, 4,
		5, 6,
	}
	a := obj.Triangle[float64](n, aData, n, 1, obj.StrucTriangular, blas.Lower, blas.NonUnit)
	b := obj.General(n, cols, bData, cols, 1)
	cData := make([]float64, n*cols)
	c := obj.General(n, cols, cData, cols, 1)

	Trmm3(blas.Left, 1, a, b, 0, c, nil, obj.Runtime{})

	for i := 0; i < n; i++ {
		for j := 0; j < cols; j++ {
			var sum float64
			for p := 0; p <= i; p++ {
				sum += aData[i*n+p] * bData[p*cols+j]
			}
			got := cData[i*cols+j]
			if !approxEqual(got, sum, 1e-9) {
				t.Errorf("C[%d,%d] = %v, want %v", i, j, got, sum)
			}
		}
	}
}
