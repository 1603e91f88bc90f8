// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

// Runtime carries mutable per-call settings: how many ways each of the
// five nested loops (JC, PC, IC, JR, IR) is split across threads, and a
// handle to the memory pool the packing stage draws scratch buffers
// from. Runtime values are cheap and are typically built fresh per call
// (or reused across calls sharing a threading shape).
type Runtime struct {
	wayJC, wayPC, wayIC, wayJR, wayIR int

	// Pool is an opaque handle to the memory broker (thread.Broker);
	// typed as an interface here so package obj, a leaf package, does
	// not need to import package thread.
	Pool MemoryPool
}

// MemoryPool is the minimal interface the packing pipeline needs from the
// thread decorator's memory broker: acquire a scratch block of a given
// byte size for a buffer class, and release it.
type MemoryPool interface {
	Acquire(class BufferClass, groupID int, size int) []byte
	Release(class BufferClass, groupID int, buf []byte)
}

// SingleThreaded returns a Runtime configured for sequential execution:
// every loop has way 1 and no memory pool is installed (the driver falls
// back to heap allocation for packed scratch).
func SingleThreaded() Runtime {
	return Runtime{wayJC: 1, wayPC: 1, wayIC: 1, wayJR: 1, wayIR: 1}
}

// NewRuntime builds a Runtime with the given per-loop way counts.
func NewRuntime(jc, pc, ic, jr, ir int, pool MemoryPool) Runtime {
	return Runtime{wayJC: jc, wayPC: pc, wayIC: ic, wayJR: jr, wayIR: ir, Pool: pool}
}

// Ways returns the per-loop way counts in JC, PC, IC, JR, IR order.
func (r Runtime) Ways() (jc, pc, ic, jr, ir int) {
	return r.wayJC, r.wayPC, r.wayIC, r.wayJR, r.wayIR
}

// TotalWays returns the product of the five per-loop way counts (1 when
// that product is 0). The blis dispatch front-ends fork only the JC way
// count of workers; they do not read the PC, IC, JR or IR counts.
func (r Runtime) TotalWays() int {
	n := r.wayJC * r.wayPC * r.wayIC * r.wayJR * r.wayIR
	if n == 0 {
		return 1
	}
	return n
}
