// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtcore

import "code.hybscloud.com/atomix"

// handleShift keeps heap handles 8-byte aligned like real object pointers:
// the low bit is clear (never a small int) and slot 0 maps to 8, never to
// the Sentinel.
const handleShift = 3

// CountingHeap is an instrumented fixed-capacity [Heap].
//
// Every handle carries a reference count. Alloc returns a handle with
// count 1, Dup increments, Drop decrements and frees the slot at zero.
// Freed slots are recycled through a lock-free free list. Dropping or
// duplicating a freed handle panics, which makes leaks and double frees
// visible in tests.
//
// Small integer boxes are immediates: Dup and Drop ignore them.
//
// All methods are safe for concurrent use.
type CountingHeap struct {
	refs   []atomix.Int64
	free   *freeList
	next   atomix.Uint64 // first never-allocated slot
	allocs atomix.Int64
	frees  atomix.Int64
}

// NewCountingHeap creates a heap with room for capacity live values.
// Panics if capacity < 1.
func NewCountingHeap(capacity int) *CountingHeap {
	if capacity < 1 {
		panic("rtcore: heap capacity must be >= 1")
	}
	return &CountingHeap{
		refs: make([]atomix.Int64, capacity),
		free: newFreeList(capacity),
	}
}

// Alloc returns a fresh handle with reference count 1.
// Panics if capacity live values already exist.
func (h *CountingHeap) Alloc() Box {
	idx, err := h.free.pop()
	if err != nil {
		n := h.next.AddAcqRel(1) - 1
		if n >= uint64(len(h.refs)) {
			panic("rtcore: counting heap exhausted")
		}
		idx = uintptr(n)
	}
	h.refs[idx].StoreRelaxed(1)
	h.allocs.Add(1)
	return Box(uint64(idx)+1) << handleShift
}

// Dup increments the reference count of b and returns b.
func (h *CountingHeap) Dup(b Box) Box {
	if b.IsInt() {
		return b
	}
	if h.refs[h.slot(b)].AddAcqRel(1) <= 1 {
		panic("rtcore: dup of freed value")
	}
	return b
}

// Drop decrements the reference count of b, freeing it at zero.
func (h *CountingHeap) Drop(b Box) {
	if b.IsInt() {
		return
	}
	idx := h.slot(b)
	n := h.refs[idx].AddAcqRel(-1)
	switch {
	case n < 0:
		panic("rtcore: drop of freed value")
	case n == 0:
		h.frees.Add(1)
		if h.free.push(uintptr(idx)) != nil {
			panic("rtcore: heap free list overflow")
		}
	}
}

// RefCount returns the current reference count of b, or 0 if b is freed.
func (h *CountingHeap) RefCount(b Box) int64 {
	return h.refs[h.slot(b)].Load()
}

// Live returns the number of allocated values not yet freed.
func (h *CountingHeap) Live() int64 {
	return h.allocs.Load() - h.frees.Load()
}

// Allocs returns the total number of allocations.
func (h *CountingHeap) Allocs() int64 { return h.allocs.Load() }

// Frees returns the total number of values freed.
func (h *CountingHeap) Frees() int64 { return h.frees.Load() }

func (h *CountingHeap) slot(b Box) int {
	i := int(b>>handleShift) - 1
	if b == Sentinel || b&(1<<handleShift-1) != 0 || i >= len(h.refs) {
		panic("rtcore: not a handle of this heap")
	}
	return i
}
