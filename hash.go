// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rtcore

import (
	"encoding/binary"
	"math/big"

	"code.hybscloud.com/rtcore/xxh64"
)

// Typed hash front-ends over [xxh64]. Seeds are usually
// [Context.ThreadSeed]; pass a fixed seed when hashes must be stable across
// goroutines or processes.

// vectorBatch is the number of elements encoded per Digest write.
const vectorBatch = 32

// HashInt hashes a small integer as its 8-byte little-endian encoding.
func HashInt(n int64, seed int64) uint64 {
	var buf [wordSize]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	return xxh64.Sum64(buf[:], uint64(seed))
}

// HashBytes hashes b.
func HashBytes(b []byte, seed int64) uint64 {
	return xxh64.Sum64(b, uint64(seed))
}

// HashString hashes the bytes of s, whatever their encoding.
func HashString(s string, seed int64) uint64 {
	return xxh64.Sum64String(s, uint64(seed))
}

// HashVector hashes the elements of v as one contiguous buffer of 8-byte
// little-endian words, in order. The result equals HashBytes over that
// buffer; exactly 8*len(v) bytes are hashed.
func HashVector(v []int64, seed int64) uint64 {
	var d xxh64.Digest
	d.ResetWithSeed(uint64(seed))
	var buf [vectorBatch * wordSize]byte
	for len(v) > 0 {
		n := min(len(v), vectorBatch)
		for i, x := range v[:n] {
			binary.LittleEndian.PutUint64(buf[i*wordSize:], uint64(x))
		}
		d.Write(buf[:n*wordSize])
		v = v[n:]
	}
	return d.Sum64()
}

// HashBoxVector is HashVector over a vector of boxed small integers.
// Panics if an element is not a small integer.
func HashBoxVector(v []Box, seed int64) uint64 {
	var d xxh64.Digest
	d.ResetWithSeed(uint64(seed))
	var buf [vectorBatch * wordSize]byte
	for len(v) > 0 {
		n := min(len(v), vectorBatch)
		for i, b := range v[:n] {
			binary.LittleEndian.PutUint64(buf[i*wordSize:], uint64(b.Int()))
		}
		d.Write(buf[:n*wordSize])
		v = v[n:]
	}
	return d.Sum64()
}

// HashInteger hashes an arbitrary-precision integer. Values in the small
// integer range hash exactly like [HashInt]; larger values go through
// [HashBigInt].
func HashInteger(ctx *Context, x *big.Int, seed int64) uint64 {
	if x.IsInt64() {
		if n := x.Int64(); n >= MinSmallInt && n <= MaxSmallInt {
			return HashInt(n, seed)
		}
	}
	return HashBigInt(ctx, x, seed)
}

// HashBigInt hashes the in-memory limb representation of x and emits a
// warning through the context.
//
// The result depends on the platform word size and on math/big internals.
// It is deterministic within one build but is not a portable or stable
// hash; do not persist it.
func HashBigInt(ctx *Context, x *big.Int, seed int64) uint64 {
	mustContext(ctx)
	ctx.warnf("rtcore: hashing big integers may be incorrect")

	var d xxh64.Digest
	d.ResetWithSeed(uint64(seed))
	var buf [wordSize]byte
	if x.Sign() < 0 {
		d.Write([]byte{1})
	} else {
		d.Write([]byte{0})
	}
	for _, w := range x.Bits() {
		binary.LittleEndian.PutUint64(buf[:], uint64(w))
		d.Write(buf[:])
	}
	return d.Sum64()
}
