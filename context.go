// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtcore

// Context is the explicit runtime context threaded through every
// operation: the heap that owns boxed values, the identity of the calling
// thread, and the warning sink.
//
// A Context is meant to be owned by one goroutine. Create one per worker
// with [New]; contexts are cheap.
type Context struct {
	opts Options
}

// Heap returns the heap that duplicates and drops boxed values.
func (c *Context) Heap() Heap { return c.opts.heap }

// ThreadID returns the context's thread identifier.
func (c *Context) ThreadID() int64 { return c.opts.threadID }

// ThreadSeed returns the default hash seed for this context: the fixed
// seed if one was configured, otherwise the thread ID. Hash tables built
// with thread seeds in different contexts do not agree on hashes.
func (c *Context) ThreadSeed() int64 {
	if c.opts.hasSeed {
		return c.opts.seed
	}
	return c.opts.threadID
}

func (c *Context) dup(b Box) Box { return c.opts.heap.Dup(b) }

func (c *Context) drop(b Box) { c.opts.heap.Drop(b) }

func (c *Context) warnf(format string, args ...any) {
	c.opts.warnf(format, args...)
}

func mustContext(ctx *Context) {
	if ctx == nil {
		panic("rtcore: nil context")
	}
}
