// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package macro

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/blas"

	"github.com/blisgo/internal/kernel"
	"github.com/blisgo/obj"
)

func buildCtx(mr, nr int) *obj.Context[float64] {
	blocks := obj.Blocks{}
	blocks.Set(obj.MR, mr, mr)
	blocks.Set(obj.NR, nr, nr)
	return &obj.Context[float64]{
		Blocks:  blocks,
		Gemm:    kernel.Reference[float64](mr, nr),
		Trsm:    kernel.ReferenceTrsm[float64](mr, nr),
		PackCxk: kernel.ReferencePackCxk[float64, float64],
		PackCxc: kernel.ReferencePackCxc[float64, float64],
	}
}

// packPanels packs src (rows x k) into contiguous mr-row micro-panels
// using the reference packing kernel, mirroring cntl.execPackM's A-side
// layout.
func packPanels(src obj.Matrix[float64], dim, k int) []float64 {
	n := (src.Rows + dim - 1) / dim
	buf := make([]float64, n*dim*k)
	for p := 0; p < n; p++ {
		rowOff := p * dim
		panelDim := dim
		if rowOff+panelDim > src.Rows {
			panelDim = src.Rows - rowOff
		}
		sub := src.Sub(rowOff, 0, panelDim, k)
		kernel.ReferencePackCxk[float64, float64](false, panelDim, dim, 1, k, k, 1, sub.Data, sub.RS, sub.CS, buf[p*dim*k:(p+1)*dim*k], dim)
	}
	return buf
}

func TestGemmMatchesNaiveProduct(t *testing.T) {
	const mr, nr = 2, 2
	const m, k, n = 5, 3, 4
	cntx := buildCtx(mr, nr)

	aData := make([]float64, m*k)
	for i := range aData {
		aData[i] = float64(i%5) - 2
	}
	bData := make([]float64, k*n)
	for i := range bData {
		bData[i] = float64(i%4) - 1
	}
	cData := make([]float64, m*n)
	for i := range cData {
		cData[i] = float64(i)
	}
	cWant := append([]float64(nil), cData...)

	a := obj.General(m, k, aData, k, 1)
	b := obj.General(k, n, bData, n, 1)
	c := obj.General(m, n, cData, n, 1)
	c.Scalar = 0.5

	packedA := packPanels(a, mr, k)
	packedB := packPanels(b.TransposeView(), nr, k)

	Gemm(cntx, packedA, packedB, m, n, k, c, 1, 0, 1, 0)

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float64
			for p := 0; p < k; p++ {
				sum += aData[i*k+p] * bData[p*n+j]
			}
			want := sum + 0.5*cWant[i*n+j]
			got := c.At(i, j)
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("C[%d,%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestGemmGemmtOffTriangleUntouched(t *testing.T) {
	const mr, nr = 2, 2
	const n, k = 4, 3
	cntx := buildCtx(mr, nr)

	aData := make([]float64, n*k)
	for i := range aData {
		aData[i] = float64(i%3) + 1
	}
	bData := make([]float64, k*n)
	for i := range bData {
		bData[i] = float64(i%4) + 1
	}
	cData := make([]float64, n*n)
	for i := range cData {
		cData[i] = float64(100 + i)
	}
	cBefore := append([]float64(nil), cData...)

	a := obj.General(n, k, aData, k, 1)
	b := obj.General(k, n, bData, n, 1)
	c := obj.Triangle(n, cData, n, 1, obj.StrucTriangular, blas.Lower, blas.NonUnit)
	c.Scalar = 1

	packedA := packPanels(a, mr, k)
	packedB := packPanels(b.TransposeView(), nr, k)
	Gemm(cntx, packedA, packedB, n, n, k, c, 1, 0, 1, 0)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ { // strict upper: off the declared triangle
			idx := i*n + j
			if cData[idx] != cBefore[idx] {
				t.Errorf("off-triangle C[%d,%d] changed: got %v, want unchanged %v", i, j, cData[idx], cBefore[idx])
			}
		}
	}
}

func TestTrsmLowerMatchesForwardSubstitution(t *testing.T) {
	const mr = 2
	cntx := buildCtx(mr, 1)
	cntx.Trsm = nil // force naiveSolve for every block, exercising the fallback path

	aData := []float64{
		2, 0, 0,
		1, 3, 0,
		4, 5, 6,
	}
	bData := []float64{2, 5, 20}
	a := obj.Triangle(3, aData, 3, 1, obj.StrucTriangular, blas.Lower, blas.NonUnit)
	b := obj.General(3, 1, bData, 1, 1)

	Trsm(cntx, a, b, false)

	want := []float64{1, 4.0 / 3.0, (20.0 - 4*1 - 5*(4.0/3.0)) / 6.0}
	for i, w := range want {
		if math.Abs(bData[i]-w) > 1e-9 {
			t.Errorf("x[%d] = %v, want %v", i, bData[i], w)
		}
	}
}
