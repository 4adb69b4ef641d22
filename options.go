// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtcore

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"github.com/golang/glog"
)

// Options configures a [Context].
type Options struct {
	heap Heap

	threadID    int64
	hasThreadID bool

	// Fixed hash seed; overrides the thread-derived seed
	seed    int64
	hasSeed bool

	warnf func(format string, args ...any)
}

// Builder creates contexts with fluent configuration.
//
// Example:
//
//	// Per-goroutine context with a thread-derived seed
//	ctx := rtcore.New(heap).Build()
//
//	// Context whose hashes are stable across goroutines and processes
//	ctx := rtcore.New(heap).Seed(0).Build()
type Builder struct {
	opts Options
}

// nextThreadID hands out thread IDs to contexts built without one.
var nextThreadID atomix.Int64

// New creates a context builder over heap.
// Panics if heap is nil.
func New(heap Heap) *Builder {
	if heap == nil {
		panic("rtcore: nil heap")
	}
	return &Builder{opts: Options{heap: heap, warnf: glog.Warningf}}
}

// ThreadID sets the context's thread identifier.
// By default each built context receives a fresh process-unique ID.
func (b *Builder) ThreadID(id int64) *Builder {
	b.opts.threadID = id
	b.opts.hasThreadID = true
	return b
}

// Seed fixes the seed returned by [Context.ThreadSeed].
// Use it when hashes must agree across goroutines or processes.
func (b *Builder) Seed(seed int64) *Builder {
	b.opts.seed = seed
	b.opts.hasSeed = true
	return b
}

// Warnf replaces the sink for non-fatal runtime warnings.
// The default is [glog.Warningf]. A nil fn discards warnings.
func (b *Builder) Warnf(fn func(format string, args ...any)) *Builder {
	if fn == nil {
		fn = func(string, ...any) {}
	}
	b.opts.warnf = fn
	return b
}

// Build creates the Context.
func (b *Builder) Build() *Context {
	opts := b.opts
	if !opts.hasThreadID {
		opts.threadID = nextThreadID.AddAcqRel(1)
	}
	return &Context{opts: opts}
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// wordSize is the size of an encoded integer in bytes.
const wordSize = int(unsafe.Sizeof(uint64(0)))
