// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package rtcore provides runtime-support primitives for a reference
// counted managed language: an atomic mutable reference cell and typed
// xxh64 hash front-ends.
//
// # Boxed Values
//
// Values are machine words ([Box]). A box is either a tagged small integer
// or a handle whose reference count is managed by a [Heap]:
//
//	heap := rtcore.NewCountingHeap(1024)
//	ctx := rtcore.New(heap).Build()
//
//	v := heap.Alloc()        // refcount 1, owned by the caller
//	n := rtcore.BoxInt(42)   // immediate, never counted
//
// Every operation takes the [Context] explicitly. A context carries the
// heap, the thread identity used for hash seeds, and the warning sink.
// Build one context per goroutine.
//
// # Reference Cells
//
// A [Ref] holds one owned value:
//
//	r := rtcore.NewRef(ctx, rtcore.BoxInt(0))
//
//	prev := r.GetAndUpdate(ctx, func(ctx *rtcore.Context, v rtcore.Box) rtcore.Box {
//	    return rtcore.BoxInt(v.Int() + 1)
//	})
//	// prev is owned by the caller
//
//	ok := r.CompareAndSet(ctx, ctx.Heap().Dup(cur), next)
//
// Cells start unshared and use plain loads and stores. [Ref.MarkShared]
// switches a cell to the shared protocol, in which an update claims the
// cell by swapping its value for [Sentinel], computes the replacement, and
// restores the slot with a second CAS. At most one goroutine holds a cell
// locked; others spin with [code.hybscloud.com/spin] until it is restored.
// Failure of the restoring CAS means memory corruption and terminates the
// process.
//
// Try variants return [ErrWouldBlock] instead of spinning:
//
//	backoff := iox.Backoff{}
//	for {
//	    prev, err := r.TryGetAndUpdate(ctx, inc)
//	    if err == nil {
//	        ctx.Heap().Drop(prev)
//	        break
//	    }
//	    backoff.Wait()
//	}
//
// # Ownership
//
// Every operation accounts for exactly one Dup and one Drop per logical
// reference:
//
//	Get              returns a new reference
//	GetAndUpdate     update receives a new reference; the cell's old
//	                 reference is returned to the caller
//	Swap             consumes v; returns the old reference
//	Set, Modify      as Swap and GetAndUpdate, dropping the old reference
//	CompareAndSet    consumes expected and replacement; drops the one not
//	                 installed, and the cell's old reference on success
//	Release          drops the held reference
//
// [CountingHeap] verifies this balance in tests.
//
// # Hashing
//
// [HashInt], [HashString], [HashBytes], [HashVector] and [HashBoxVector]
// are stable across processes for a given seed. [HashBigInt] hashes the
// in-memory representation of a big integer, warns, and is not stable
// across platforms. The engine itself lives in package xxh64.
//
// Seeds default to the context's thread ID ([Context.ThreadSeed]), so hash
// tables built in different contexts disagree. Fix the seed with
// [Builder.Seed] when a global hash is needed.
//
// # Race Detection
//
// The cell protocol uses only atomics on the slot, so the race detector
// observes it correctly. Stress tests shrink their iteration counts when
// [RaceEnabled] is set.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomics with explicit
// memory ordering, [code.hybscloud.com/spin] for CPU pause in CAS loops,
// [code.hybscloud.com/iox] for semantic errors, and
// [github.com/golang/glog] for warnings and fatal diagnostics.
package rtcore
