// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package thread implements the concurrency/resource layer: the worker
// decorator that forks the control-tree walk across threads, the
// barrier used to synchronize a thread group around a shared packed
// buffer, and the memory broker that hands out packed-buffer arenas.
package thread

import (
	"math/bits"
	"sync"

	"github.com/blisgo/obj"
)

// poolFor returns the index into a size-stratified sync.Pool array able
// to serve a buffer of at least size bytes, the same log2 bucketing
// mat/pool.go uses for its Dense/Sym/Tri/Vec pools.
func poolFor(size int) int {
	if size <= 0 {
		return 0
	}
	return bits.Len(uint(size - 1))
}

const numPoolBuckets = 63

// brokerKey identifies one size-stratified pool array: a buffer class
// (A-block or B-panel) crossed with a thread-group id, so siblings in
// the same group share a pack but distinct groups never alias memory.
type brokerKey struct {
	class   obj.BufferClass
	groupID int
}

// Broker is the memory broker of §4.5/§5: a size-stratified sync.Pool
// per (buffer-class, thread-group) pair, handing out []byte arenas for
// packed A/B scratch. Unlike mat/pool.go, which keys pools by fixed
// Go types, Broker is keyed by an arbitrary class id plus the group the
// pack is shared within, since a packed-A arena must be visible to
// every IR/JR worker in its IC/JC group but not to a sibling group
// running concurrently on a different NC slab.
type Broker struct {
	mu     sync.Mutex
	pools  map[brokerKey]*[numPoolBuckets]sync.Pool
}

// NewBroker returns an empty Broker; pools are created lazily per key
// on first Acquire.
func NewBroker() *Broker {
	return &Broker{pools: make(map[brokerKey]*[numPoolBuckets]sync.Pool)}
}

func (b *Broker) poolArray(class obj.BufferClass, groupID int) *[numPoolBuckets]sync.Pool {
	key := brokerKey{class, groupID}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pools[key]
	if !ok {
		p = new([numPoolBuckets]sync.Pool)
		b.pools[key] = p
	}
	return p
}

// Acquire returns a []byte of length size from the pool keyed by
// (class, groupID), reusing a previously Released buffer of sufficient
// capacity when one is available.
func (b *Broker) Acquire(class obj.BufferClass, groupID int, size int) []byte {
	idx := poolFor(size)
	arr := b.poolArray(class, groupID)
	v := arr[idx].Get()
	var buf []byte
	if v == nil {
		buf = make([]byte, 1<<uint(idx))
	} else {
		buf = *v.(*[]byte)
	}
	return buf[:size]
}

// Release returns buf to the pool it was Acquired from.
func (b *Broker) Release(class obj.BufferClass, groupID int, buf []byte) {
	idx := poolFor(cap(buf))
	arr := b.poolArray(class, groupID)
	full := buf[:cap(buf)]
	arr[idx].Put(&full)
}
