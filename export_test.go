// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtcore

// SetFatalf replaces the process-terminating hook and returns a function
// restoring it.
func SetFatalf(fn func(format string, args ...any)) (restore func()) {
	old := fatalf
	fatalf = fn
	return func() { fatalf = old }
}

// Raw returns the slot bits without any protocol.
func (r *Ref) Raw() Box { return Box(r.value.LoadRelaxed()) }

// StoreRaw overwrites the slot bits without any protocol, simulating a
// corrupted cell.
func (r *Ref) StoreRaw(v Box) { r.value.StoreRelaxed(uint64(v)) }

// FreeList exposes the heap free list to tests.
type FreeList = freeList

func NewFreeList(capacity int) *FreeList { return newFreeList(capacity) }

func (l *freeList) Push(idx uintptr) error { return l.push(idx) }

func (l *freeList) Pop() (uintptr, error) { return l.pop() }

func (l *freeList) Cap() int { return int(l.capacity) }
