// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thread

import (
	"golang.org/x/sync/errgroup"
)

// Ids is the set of thread ids a single worker holds at every parallel
// level it participates in, assigned by Decorate from its flat thread
// index and the per-loop way counts, in JC, PC, IC, JR, IR order
// (matching obj.Runtime.Ways).
type Ids struct {
	JC, PC, IC, JR, IR int
	GroupJC, GroupPC, GroupIC int
}

// idsFor derives one worker's Ids from its flat index tid and the
// per-loop way counts, the same row-major unravelling
// blockWorkQueue.Next performs for a 2D index.
func idsFor(tid int, wayJC, wayPC, wayIC, wayJR, wayIR int) Ids {
	ir := tid % wayIR
	tid /= wayIR
	jr := tid % wayJR
	tid /= wayJR
	ic := tid % wayIC
	tid /= wayIC
	pc := tid % wayPC
	tid /= wayPC
	jc := tid % wayJC

	return Ids{
		JC: jc, PC: pc, IC: ic, JR: jr, IR: ir,
		GroupJC: 0,
		GroupPC: jc,
		GroupIC: jc*wayPC + pc,
	}
}

// Decorate is the thread decorator of §4.5: it forks n = total workers,
// derives each worker's Ids, and runs work for every one of them,
// joining all workers before returning (or returning the first non-nil
// error any worker produced). Work is expected to drive the internal
// driver's tree walk with its Ids; Decorate itself knows nothing about
// control trees, the same separation the teacher keeps between
// blas/gonum's workqueue and the lapack drivers that consume it.
func Decorate(wayJC, wayPC, wayIC, wayJR, wayIR int, work func(id Ids) error) error {
	n := wayJC * wayPC * wayIC * wayJR * wayIR
	if n <= 0 {
		n = 1
	}
	if n == 1 {
		return work(idsFor(0, 1, 1, 1, 1, 1))
	}

	var g errgroup.Group
	for tid := 0; tid < n; tid++ {
		id := idsFor(tid, wayJC, wayPC, wayIC, wayJR, wayIR)
		g.Go(func() error {
			return work(id)
		})
	}
	return g.Wait()
}
