// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtcore

// Box is the machine-word encoding of a runtime value.
//
// A Box is either a tagged small integer (low bit set, see [BoxInt]) or a
// handle owned by a [Heap]. Boxes compare by bit pattern.
type Box uint64

// Sentinel is the reserved bit pattern that marks a shared [Ref] as locked
// while an update is in flight. It is never a legitimate value of a shared
// cell. Unshared cells may hold it as an ordinary value.
const Sentinel Box = 0

// Small integers are boxed as 4n+1, so the representable range is that of
// a 62-bit two's complement integer.
const (
	MaxSmallInt = 1<<61 - 1
	MinSmallInt = -1 << 61
)

// BoxInt boxes a small integer. Panics if n is outside
// [MinSmallInt, MaxSmallInt].
func BoxInt(n int64) Box {
	if n < MinSmallInt || n > MaxSmallInt {
		panic("rtcore: integer out of small-int range")
	}
	return Box(uint64(n)<<2 | 1)
}

// IsInt reports whether b is a tagged small integer.
func (b Box) IsInt() bool {
	return b&1 == 1
}

// Int unboxes a small integer. Panics if b is not one.
func (b Box) Int() int64 {
	if !b.IsInt() {
		panic("rtcore: box is not a small integer")
	}
	return int64(b) >> 2
}

// Heap is the boxed-value service the core calls into.
//
// Dup increments the reference count of b and returns an equal handle.
// Drop decrements it and frees the value at zero. Implementations must be
// safe for concurrent use when values are shared across goroutines.
type Heap interface {
	Dup(b Box) Box
	Drop(b Box)
}

// NopHeap is a Heap for immediate values that carry no reference count.
type NopHeap struct{}

// Dup returns b.
func (NopHeap) Dup(b Box) Box { return b }

// Drop does nothing.
func (NopHeap) Drop(Box) {}
