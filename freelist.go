// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtcore

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// vacantFlag marks a free-list slot as vacant. The remaining 63 bits store
// the round number the slot was vacated in.
const vacantFlag = 1 << 63

// freeList is a bounded lock-free MPMC FIFO of released heap slot indices.
//
// Vacant slots store (vacantFlag | round); occupied slots store the index
// directly, so index 0 is representable. Any goroutine may push or pop.
type freeList struct {
	_        pad
	tail     atomix.Uint64
	_        pad
	head     atomix.Uint64
	_        pad
	slots    []atomix.Uintptr
	mask     uint64
	capacity uint64
	order    uint64 // log2(capacity)
}

func newFreeList(capacity int) *freeList {
	n := uint64(roundToPow2(capacity))
	order := uint64(0)
	for (1 << order) < n {
		order++
	}

	l := &freeList{
		slots:    make([]atomix.Uintptr, n),
		mask:     n - 1,
		capacity: n,
		order:    order,
	}
	for i := range l.slots {
		l.slots[i].StoreRelaxed(vacantFlag | 0)
	}
	return l
}

// push returns idx to the list. Returns ErrWouldBlock if the list is full.
func (l *freeList) push(idx uintptr) error {
	if idx&vacantFlag != 0 {
		panic("rtcore: slot index exceeds 63 bits")
	}

	sw := spin.Wait{}
	for {
		tail := l.tail.LoadAcquire()
		head := l.head.LoadAcquire()
		if tail != l.tail.LoadAcquire() {
			continue
		}
		if tail >= head+l.capacity {
			return ErrWouldBlock
		}

		pos := tail & l.mask
		round := (tail >> l.order) & (vacantFlag - 1)
		if l.slots[pos].CompareAndSwapAcqRel(vacantFlag|uintptr(round), idx) {
			l.tail.CompareAndSwapAcqRel(tail, tail+1)
			return nil
		}
		l.tail.CompareAndSwapAcqRel(tail, tail+1)
		sw.Once()
	}
}

// pop takes a released index. Returns (0, ErrWouldBlock) if none is
// available.
func (l *freeList) pop() (uintptr, error) {
	sw := spin.Wait{}
	for {
		head := l.head.LoadAcquire()
		tail := l.tail.LoadAcquire()

		pos := head & l.mask
		idx := l.slots[pos].LoadAcquire()
		if head != l.head.LoadAcquire() {
			continue
		}
		if head >= tail {
			return 0, ErrWouldBlock
		}
		nextVacant := vacantFlag | uintptr(((head>>l.order)+1)&(vacantFlag-1))
		if idx == nextVacant {
			l.head.CompareAndSwapAcqRel(head, head+1)
			continue
		}
		if idx&vacantFlag != 0 {
			sw.Once()
			continue
		}
		if l.slots[pos].CompareAndSwapAcqRel(idx, nextVacant) {
			l.head.CompareAndSwapAcqRel(head, head+1)
			return idx, nil
		}

		l.head.CompareAndSwapAcqRel(head, head+1)
		sw.Once()
	}
}
