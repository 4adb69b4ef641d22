// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtcore_test

import (
	"errors"
	"sync"
	"testing"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/rtcore"
)

// =============================================================================
// CountingHeap
// =============================================================================

func TestCountingHeapLifecycle(t *testing.T) {
	h := rtcore.NewCountingHeap(4)

	a := h.Alloc()
	if a == rtcore.Sentinel || a.IsInt() {
		t.Fatalf("Alloc: got %#x, want an aligned non-zero handle", a)
	}
	if got := h.RefCount(a); got != 1 {
		t.Fatalf("RefCount after Alloc: got %d, want 1", got)
	}

	if got := h.Dup(a); got != a {
		t.Fatalf("Dup: got %#x, want %#x", got, a)
	}
	if got := h.RefCount(a); got != 2 {
		t.Fatalf("RefCount after Dup: got %d, want 2", got)
	}

	h.Drop(a)
	h.Drop(a)
	if got := h.RefCount(a); got != 0 {
		t.Fatalf("RefCount after Drop: got %d, want 0", got)
	}
	if h.Live() != 0 || h.Allocs() != 1 || h.Frees() != 1 {
		t.Fatalf("Live/Allocs/Frees: got %d/%d/%d, want 0/1/1", h.Live(), h.Allocs(), h.Frees())
	}

	mustPanic(t, "double Drop", func() { h.Drop(a) })
}

func TestCountingHeapDupOfFreed(t *testing.T) {
	h := rtcore.NewCountingHeap(2)
	a := h.Alloc()
	h.Drop(a)
	mustPanic(t, "Dup of freed", func() { h.Dup(a) })
}

func TestCountingHeapIgnoresInts(t *testing.T) {
	h := rtcore.NewCountingHeap(1)
	n := rtcore.BoxInt(7)
	h.Dup(n)
	h.Drop(n)
	h.Drop(n)
	if h.Live() != 0 {
		t.Fatalf("Live: got %d, want 0", h.Live())
	}
}

func TestCountingHeapReuse(t *testing.T) {
	h := rtcore.NewCountingHeap(2)
	a := h.Alloc()
	b := h.Alloc()
	mustPanic(t, "Alloc beyond capacity", func() { h.Alloc() })

	h.Drop(a)
	c := h.Alloc()
	if c != a {
		t.Fatalf("Alloc after free: got %#x, want recycled %#x", c, a)
	}
	h.Drop(b)
	h.Drop(c)
	if h.Live() != 0 {
		t.Fatalf("Live: got %d, want 0", h.Live())
	}
}

func TestCountingHeapForeignHandle(t *testing.T) {
	h := rtcore.NewCountingHeap(2)
	mustPanic(t, "Sentinel", func() { h.Drop(rtcore.Sentinel) })
	mustPanic(t, "misaligned", func() { h.Drop(rtcore.Box(0x12)) })
	mustPanic(t, "out of range", func() { h.Drop(rtcore.Box(1 << 20)) })
	mustPanic(t, "capacity 0", func() { rtcore.NewCountingHeap(0) })
}

func TestCountingHeapConcurrent(t *testing.T) {
	const workers = 8
	rounds := 20000
	if rtcore.RaceEnabled {
		rounds = 2000
	}

	h := rtcore.NewCountingHeap(workers * 4)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				a := h.Alloc()
				h.Dup(a)
				h.Drop(a)
				h.Drop(a)
			}
		}()
	}
	wg.Wait()

	if h.Live() != 0 {
		t.Fatalf("Live: got %d, want 0", h.Live())
	}
	if got, want := h.Allocs(), int64(workers*rounds); got != want {
		t.Fatalf("Allocs: got %d, want %d", got, want)
	}
}

// =============================================================================
// Free List
// =============================================================================

func TestFreeListFIFO(t *testing.T) {
	l := rtcore.NewFreeList(3)
	if l.Cap() != 4 {
		t.Fatalf("Cap: got %d, want 4", l.Cap())
	}

	for i := range 4 {
		if err := l.Push(uintptr(i)); err != nil {
			t.Fatalf("Push(%d): %v", i, err)
		}
	}
	if err := l.Push(99); !errors.Is(err, rtcore.ErrWouldBlock) {
		t.Fatalf("Push on full: got %v, want ErrWouldBlock", err)
	}

	for i := range 4 {
		idx, err := l.Pop()
		if err != nil {
			t.Fatalf("Pop(%d): %v", i, err)
		}
		if idx != uintptr(i) {
			t.Fatalf("Pop(%d): got %d, want %d", i, idx, i)
		}
	}
	if _, err := l.Pop(); !rtcore.IsWouldBlock(err) {
		t.Fatalf("Pop on empty: got %v, want ErrWouldBlock", err)
	}
}

func TestFreeListWraparound(t *testing.T) {
	l := rtcore.NewFreeList(2)
	for round := range 100 {
		for i := range 2 {
			if err := l.Push(uintptr(round*10 + i)); err != nil {
				t.Fatalf("round %d: Push: %v", round, err)
			}
		}
		for i := range 2 {
			idx, err := l.Pop()
			if err != nil {
				t.Fatalf("round %d: Pop: %v", round, err)
			}
			if want := uintptr(round*10 + i); idx != want {
				t.Fatalf("round %d: got %d, want %d", round, idx, want)
			}
		}
	}
}

func TestFreeListConcurrent(t *testing.T) {
	const workers = 4
	perWorker := 5000
	if rtcore.RaceEnabled {
		perWorker = 500
	}

	l := rtcore.NewFreeList(workers * perWorker)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range perWorker {
				if err := l.Push(uintptr(id*perWorker + i)); err != nil {
					t.Errorf("Push: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	seen := make([]bool, workers*perWorker)
	var mu sync.Mutex
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			backoff := iox.Backoff{}
			for range perWorker {
				idx, err := l.Pop()
				for err != nil {
					backoff.Wait()
					idx, err = l.Pop()
				}
				backoff.Reset()
				mu.Lock()
				if seen[idx] {
					t.Errorf("index %d popped twice", idx)
				}
				seen[idx] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	for i, ok := range seen {
		if !ok {
			t.Fatalf("index %d never popped", i)
		}
	}
}
