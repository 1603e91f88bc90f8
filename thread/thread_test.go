// Copyright ©2024 The blisgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thread

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/blisgo/obj"
)

func TestDecorateForksAndJoinsAllWorkers(t *testing.T) {
	const jc, pc, ic, jr, ir = 2, 1, 3, 1, 1
	want := jc * pc * ic * jr * ir
	var n int64
	var mu sync.Mutex
	seen := map[Ids]bool{}
	err := Decorate(jc, pc, ic, jr, ir, func(id Ids) error {
		atomic.AddInt64(&n, 1)
		mu.Lock()
		seen[id] = true
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("Decorate returned %v, want nil", err)
	}
	if int(n) != want {
		t.Errorf("Decorate ran work %d times, want %d", n, want)
	}
	if len(seen) != want {
		t.Errorf("Decorate produced %d distinct Ids, want %d (every worker must get a unique id assignment)", len(seen), want)
	}
}

func TestDecorateSingleWorkerNoGoroutine(t *testing.T) {
	called := false
	err := Decorate(1, 1, 1, 1, 1, func(id Ids) error {
		called = true
		if id.JC != 0 || id.IR != 0 {
			t.Errorf("single-worker Ids = %+v, want all zero", id)
		}
		return nil
	})
	if err != nil || !called {
		t.Fatalf("Decorate(1,1,1,1,1,...) err=%v called=%v", err, called)
	}
}

func TestDecoratePropagatesFirstError(t *testing.T) {
	sentinel := errfmtSentinel{}
	err := Decorate(4, 1, 1, 1, 1, func(id Ids) error {
		if id.JC == 2 {
			return sentinel
		}
		return nil
	})
	if err != sentinel {
		t.Errorf("Decorate returned %v, want the worker's error", err)
	}
}

type errfmtSentinel struct{}

func (errfmtSentinel) Error() string { return "sentinel" }

func TestBarrierReleasesAllMembersTogether(t *testing.T) {
	const n = 8
	b := NewBarrier(n)
	var before, after int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			atomic.AddInt64(&before, 1)
			b.Wait()
			// Every member must observe the others having arrived.
			if atomic.LoadInt64(&before) != n {
				t.Errorf("member proceeded past Wait before all %d arrived", n)
			}
			atomic.AddInt64(&after, 1)
		}()
	}
	wg.Wait()
	if after != n {
		t.Errorf("after = %d, want %d", after, n)
	}
}

func TestBarrierSingleMemberNoOp(t *testing.T) {
	b := NewBarrier(1)
	// A 1-member Barrier must never block its only caller: Wait should
	// return synchronously on the calling goroutine.
	b.Wait()
	b.Wait()
}

func TestBrokerAcquireReleaseRoundTrip(t *testing.T) {
	b := NewBroker()
	buf := b.Acquire(obj.ABlock, 0, 128)
	if len(buf) != 128 {
		t.Fatalf("Acquire returned len %d, want 128", len(buf))
	}
	for i := range buf {
		buf[i] = byte(i)
	}
	b.Release(obj.ABlock, 0, buf)

	buf2 := b.Acquire(obj.ABlock, 0, 128)
	if len(buf2) != 128 {
		t.Fatalf("second Acquire returned len %d, want 128", len(buf2))
	}
}

func TestBrokerKeysAreIndependent(t *testing.T) {
	b := NewBroker()
	a1 := b.Acquire(obj.ABlock, 0, 64)
	a2 := b.Acquire(obj.BPanel, 0, 64)
	a1[0] = 1
	a2[0] = 2
	if a1[0] == a2[0] {
		t.Error("A-block and B-panel arenas for the same group must not alias")
	}
}
