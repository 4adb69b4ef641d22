// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtcore

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Ref is a mutable cell holding one owned [Box].
//
// A Ref starts unshared: only the goroutine that created it can observe it,
// and every operation is a plain load and store. Once [Ref.MarkShared] has
// been called, operations follow a lock-free protocol in which the slot
// temporarily holds [Sentinel] while an update is in flight:
//
//	UNLOCKED(v) --claim CAS--> LOCKED(Sentinel) --restore CAS--> UNLOCKED(v')
//
// Only the goroutine that claimed the sentinel may restore the slot. Any
// other writer observing the sentinel spins until it is gone. Operations on
// one Ref are linearizable; there is no ordering across Refs.
//
// All atomics use relaxed ordering. The boxed value itself is the only
// datum published through the slot, and the heap's Dup and Drop provide
// whatever synchronization reaching the value's contents requires.
type Ref struct {
	value    atomix.Uint64
	shared   atomix.Bool
	released atomix.Bool
}

// NewRef creates an unshared Ref owning v.
func NewRef(ctx *Context, v Box) *Ref {
	mustContext(ctx)
	r := &Ref{}
	r.value.StoreRelaxed(uint64(v))
	return r
}

// MarkShared declares that more than one goroutine may now observe r.
// It is called by whatever promotes r into shared memory, before r is
// published. Sharing is permanent.
//
// Panics if r currently holds [Sentinel], which a shared cell cannot
// distinguish from the locked state.
func (r *Ref) MarkShared() {
	r.mustLive()
	if r.shared.LoadAcquire() {
		return
	}
	if Box(r.value.LoadRelaxed()) == Sentinel {
		panic("rtcore: cannot share a ref holding the sentinel")
	}
	r.shared.StoreRelease(true)
}

// IsShared reports whether r has been marked shared.
func (r *Ref) IsShared() bool {
	return r.shared.LoadAcquire()
}

// Get returns a duplicate of the current value.
func (r *Ref) Get(ctx *Context) Box {
	mustContext(ctx)
	r.mustLive()
	if !r.shared.LoadAcquire() {
		return ctx.dup(Box(r.value.LoadRelaxed()))
	}
	// The value must not be dropped by a concurrent Set between the
	// load and the Dup, so Get claims the cell like an update does.
	borrowed := r.lock()
	v := ctx.dup(borrowed)
	r.unlock(borrowed)
	return v
}

// GetAndUpdate replaces the value with update(ctx, dup(previous)) and
// returns ownership of the previous value.
//
// On a shared cell, update runs while the cell is locked: it must not
// block for long and must not access r itself. If update panics the
// previous value is restored before the panic propagates.
func (r *Ref) GetAndUpdate(ctx *Context, update func(ctx *Context, v Box) Box) Box {
	mustContext(ctx)
	if update == nil {
		panic("rtcore: nil update function")
	}
	r.mustLive()

	if !r.shared.LoadAcquire() {
		borrowed := Box(r.value.LoadRelaxed())
		replacement := update(ctx, ctx.dup(borrowed))
		r.value.StoreRelaxed(uint64(replacement))
		// The cell's reference to borrowed now belongs to the caller.
		return borrowed
	}

	borrowed := r.lock()
	r.unlock(r.updateLocked(ctx, borrowed, update))
	return borrowed
}

// TryGetAndUpdate is GetAndUpdate that returns ([Sentinel], [ErrWouldBlock])
// instead of waiting when a shared cell is locked. update is not called in
// that case.
func (r *Ref) TryGetAndUpdate(ctx *Context, update func(ctx *Context, v Box) Box) (Box, error) {
	mustContext(ctx)
	if update == nil {
		panic("rtcore: nil update function")
	}
	r.mustLive()

	if !r.shared.LoadAcquire() {
		return r.GetAndUpdate(ctx, update), nil
	}

	borrowed, ok := r.tryLock()
	if !ok {
		return Sentinel, ErrWouldBlock
	}
	r.unlock(r.updateLocked(ctx, borrowed, update))
	return borrowed, nil
}

// Modify replaces the value with update(ctx, dup(previous)) and drops the
// previous value.
func (r *Ref) Modify(ctx *Context, update func(ctx *Context, v Box) Box) {
	ctx.drop(r.GetAndUpdate(ctx, update))
}

// Swap installs v, taking ownership of it, and returns ownership of the
// previous value.
func (r *Ref) Swap(ctx *Context, v Box) Box {
	mustContext(ctx)
	r.mustLive()
	if !r.shared.LoadAcquire() {
		old := Box(r.value.LoadRelaxed())
		r.value.StoreRelaxed(uint64(v))
		return old
	}
	if v == Sentinel {
		panic("rtcore: sentinel stored into a shared ref")
	}
	// A plain atomic swap could overwrite the sentinel of an update in
	// flight, so the swap is a claim followed by a restore.
	old := r.lock()
	r.unlock(v)
	return old
}

// Set installs v, taking ownership of it, and drops the previous value.
func (r *Ref) Set(ctx *Context, v Box) {
	ctx.drop(r.Swap(ctx, v))
}

// CompareAndSet installs replacement if the current value has the same bit
// pattern as expected, and reports whether it did.
//
// The caller transfers one reference to expected and one to replacement
// into the call. On success the cell's old reference and the caller's
// expected reference are dropped; on failure replacement and the caller's
// expected reference are dropped.
//
// On a shared cell, panics if expected or replacement is [Sentinel].
func (r *Ref) CompareAndSet(ctx *Context, expected, replacement Box) bool {
	mustContext(ctx)
	r.mustLive()

	var ok bool
	if r.shared.LoadAcquire() {
		mustNotSentinel(expected, replacement)
		sw := spin.Wait{}
		for {
			if r.value.CompareAndSwapRelaxed(uint64(expected), uint64(replacement)) {
				ok = true
				break
			}
			// Retry while the cell is locked by an update, or when the
			// value still matches and the failure was spurious.
			cur := Box(r.value.LoadRelaxed())
			if cur != Sentinel && cur != expected {
				break
			}
			sw.Once()
		}
	} else {
		ok = Box(r.value.LoadRelaxed()) == expected
		if ok {
			r.value.StoreRelaxed(uint64(replacement))
		}
	}

	r.settle(ctx, ok, expected, replacement)
	return ok
}

// TryCompareAndSet is CompareAndSet that returns (false, [ErrWouldBlock])
// instead of waiting when a shared cell is locked. On ErrWouldBlock
// nothing is dropped and ownership of both arguments stays with the
// caller.
func (r *Ref) TryCompareAndSet(ctx *Context, expected, replacement Box) (bool, error) {
	mustContext(ctx)
	r.mustLive()
	if !r.shared.LoadAcquire() {
		return r.CompareAndSet(ctx, expected, replacement), nil
	}

	mustNotSentinel(expected, replacement)
	var ok bool
	for {
		if r.value.CompareAndSwapRelaxed(uint64(expected), uint64(replacement)) {
			ok = true
			break
		}
		cur := Box(r.value.LoadRelaxed())
		if cur == Sentinel {
			return false, ErrWouldBlock
		}
		if cur != expected {
			break
		}
	}

	r.settle(ctx, ok, expected, replacement)
	return ok, nil
}

// Release drops the held value. r must not be used afterwards.
func (r *Ref) Release(ctx *Context) {
	mustContext(ctx)
	r.mustLive()
	r.released.StoreRelease(true)
	if r.shared.LoadAcquire() {
		// Wait out any update in flight and leave the cell locked.
		ctx.drop(r.lock())
		return
	}
	ctx.drop(Box(r.value.LoadRelaxed()))
	r.value.StoreRelaxed(uint64(Sentinel))
}

// lock claims a shared cell by swapping its value for the sentinel, and
// returns the value it held. The sentinel is never used as a CAS
// comparand: a cell observed locked is simply re-read.
func (r *Ref) lock() Box {
	sw := spin.Wait{}
	for {
		cur := Box(r.value.LoadRelaxed())
		if cur != Sentinel && r.value.CompareAndSwapRelaxed(uint64(cur), uint64(Sentinel)) {
			return cur
		}
		sw.Once()
	}
}

// tryLock is lock that gives up as soon as the cell is observed locked.
func (r *Ref) tryLock() (Box, bool) {
	sw := spin.Wait{}
	for {
		cur := Box(r.value.LoadRelaxed())
		if cur == Sentinel {
			return Sentinel, false
		}
		if r.value.CompareAndSwapRelaxed(uint64(cur), uint64(Sentinel)) {
			return cur, true
		}
		sw.Once()
	}
}

// unlock restores a cell claimed by lock. Nobody else may have written
// the slot while it held the sentinel; if someone did, the runtime is
// corrupt and the process is terminated.
func (r *Ref) unlock(v Box) {
	if !r.value.CompareAndSwapRelaxed(uint64(Sentinel), uint64(v)) {
		fatalf("%v (found %#x while restoring %#x)", ErrNotRecoverable, r.value.LoadRelaxed(), uint64(v))
	}
}

// updateLocked computes the replacement for a claimed cell. If update
// panics, or returns the sentinel, the cell is restored to borrowed.
func (r *Ref) updateLocked(ctx *Context, borrowed Box, update func(*Context, Box) Box) Box {
	done := false
	defer func() {
		if !done {
			r.unlock(borrowed)
		}
	}()
	replacement := update(ctx, ctx.dup(borrowed))
	if replacement == Sentinel {
		panic("rtcore: sentinel stored into a shared ref")
	}
	done = true
	return replacement
}

// settle releases whichever reference the compare-and-set did not install,
// and the caller's reference to expected.
func (r *Ref) settle(ctx *Context, ok bool, expected, replacement Box) {
	if ok {
		ctx.drop(expected)
	} else {
		ctx.drop(replacement)
	}
	ctx.drop(expected)
}

func (r *Ref) mustLive() {
	if r.released.LoadAcquire() {
		panic("rtcore: use of released ref")
	}
}

func mustNotSentinel(expected, replacement Box) {
	if expected == Sentinel || replacement == Sentinel {
		panic("rtcore: sentinel used as a value of a shared ref")
	}
}
