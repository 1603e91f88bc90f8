// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thread

import "sync"

// Barrier synchronizes the N members of one thread group: Wait returns
// only once all N have arrived. Its one user in this module is cntl's
// PC-way reduction, where the owning worker sums the other workers'
// partial tiles after the rendezvous; packed buffers are private to
// each worker and are not shared through a Barrier. Barrier is reusable across an arbitrary number of rendezvous, unlike
// sync.WaitGroup which is one-shot per Add/Wait cycle.
type Barrier struct {
	n int

	mu      sync.Mutex
	cond    *sync.Cond
	count   int
	phase   int
}

// NewBarrier returns a Barrier for a group of n members. n == 1 is
// valid and makes every Wait a no-op, the single-threaded case.
func NewBarrier(n int) *Barrier {
	b := &Barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until all n members of the group have called Wait for
// the current phase, then releases everyone and advances to the next
// phase.
func (b *Barrier) Wait() {
	if b.n <= 1 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	phase := b.phase
	b.count++
	if b.count == b.n {
		b.count = 0
		b.phase++
		b.cond.Broadcast()
		return
	}
	for b.phase == phase {
		b.cond.Wait()
	}
}
