// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blis is the caller-facing surface of the engine: one entry
// point per external operation (§6), each following the fifteen-step
// dispatch contract of §4.1. The heavy lifting lives in the leaf
// packages (obj, pack, macro, cntl, thread); this package only wires
// them together and resolves the defaults a caller is allowed to omit.
package blis

import (
	"sync"

	"github.com/blisgo/core"
	"github.com/blisgo/internal/kernel"
	"github.com/blisgo/obj"
)

// Engine bundles a ready-to-use Context and a default Runtime. It
// replaces the teacher's one-shot process-wide init guarded by a flag
// (§9 "Global init") with an explicit handle a caller can construct,
// configure and discard; the unexported defaultEngine* accessors
// still keep a lazy-initialized global of each supported datatype
// around for the operation entry points that receive no explicit
// context, the way blas64.Use keeps one swappable Float64
// implementation live for callers who never build their own.
type Engine[T core.Numeric] struct {
	Cntx *obj.Context[T]
	Rt   obj.Runtime
}

// NewEngine builds an Engine around the portable reference kernels in
// internal/kernel and the conservative blocksize defaults from
// obj.DefaultBlocks, single-threaded. Production callers install their
// own machine-tuned Gemm/Trsm/PackCxk/PackCxc on Cntx, or build a
// multi-way Rt via obj.NewRuntime, after construction.
func NewEngine[T core.Numeric]() *Engine[T] {
	blocks := obj.DefaultBlocks[T]()
	mr, nr := blocks.Def(obj.MR), blocks.Def(obj.NR)
	cntx := &obj.Context[T]{
		Blocks:  blocks,
		Gemm:    kernel.Reference[T](mr, nr),
		Trsm:    kernel.ReferenceTrsm[T](mr, nr),
		PackCxk: kernel.ReferencePackCxk[T, T],
		PackCxc: kernel.ReferencePackCxc[T, T],
	}
	return &Engine[T]{Cntx: cntx, Rt: obj.SingleThreaded()}
}

var (
	defaultF32  *Engine[float32]
	defaultF64  *Engine[float64]
	defaultC64  *Engine[complex64]
	defaultC128 *Engine[complex128]

	onceF32, onceF64, onceC64, onceC128 sync.Once
)

// defaultEngineFloat32 returns the process-wide lazily-built float32
// engine, constructed exactly once no matter how many goroutines race
// to resolve it first.
func defaultEngineFloat32() *Engine[float32] {
	onceF32.Do(func() { defaultF32 = NewEngine[float32]() })
	return defaultF32
}

func defaultEngineFloat64() *Engine[float64] {
	onceF64.Do(func() { defaultF64 = NewEngine[float64]() })
	return defaultF64
}

func defaultEngineComplex64() *Engine[complex64] {
	onceC64.Do(func() { defaultC64 = NewEngine[complex64]() })
	return defaultC64
}

func defaultEngineComplex128() *Engine[complex128] {
	onceC128.Do(func() { defaultC128 = NewEngine[complex128]() })
	return defaultC128
}

// resolveContext returns cntx if non-nil, otherwise the lazily-built
// global Context for T — step 6 of the dispatch contract, "context
// resolution". The four concrete instantiations are resolved through
// dedicated accessors rather than a single generic cache keyed by
// reflect.Type, since Go forbids a package-level variable parameterized
// directly over a function type parameter.
func resolveContext[T core.Numeric](cntx *obj.Context[T]) *obj.Context[T] {
	if cntx != nil {
		return cntx
	}
	var z T
	switch any(z).(type) {
	case float32:
		return any(defaultEngineFloat32().Cntx).(*obj.Context[T])
	case float64:
		return any(defaultEngineFloat64().Cntx).(*obj.Context[T])
	case complex64:
		return any(defaultEngineComplex64().Cntx).(*obj.Context[T])
	default:
		return any(defaultEngineComplex128().Cntx).(*obj.Context[T])
	}
}

// resolveRuntime is the identity function: a caller-supplied zero-value
// Runtime already behaves as single-threaded (every Ways() entry reads
// as "no split" and TotalWays reports 1), so there is no separate
// "unset" sentinel to detect. Kept as a named step so dispatch.go reads
// as the fifteen-step contract it implements.
func resolveRuntime(rt obj.Runtime) obj.Runtime {
	return rt
}
