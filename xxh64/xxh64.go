// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package xxh64 implements the 64-bit xxHash algorithm.
//
// The output matches the reference XXH64 bit for bit for every input and
// seed. The hash is not cryptographic; it is meant for hash tables and
// checksums of in-memory data.
//
// One-shot hashing:
//
//	h := xxh64.Sum64(data, 0)
//	h := xxh64.Sum64String("abc", seed)
//
// Streaming hashing ([Digest] implements [hash.Hash64]):
//
//	d := xxh64.NewWithSeed(seed)
//	io.Copy(d, r)
//	h := d.Sum64()
//
// Streaming and one-shot results are identical regardless of how the
// input is split across Write calls.
package xxh64

import (
	"encoding/binary"
	"math/bits"
	"unsafe"
)

const (
	prime1 uint64 = 0x9E3779B185EBCA87
	prime2 uint64 = 0xC2B2AE3D27D4EB4F
	prime3 uint64 = 0x165667B19E3779F9
	prime4 uint64 = 0x85EBCA77C2B2AE63
	prime5 uint64 = 0x27D4EB2F165667C5
)

// stripeSize is the number of bytes consumed by one pass over the four lanes.
const stripeSize = 32

// Sum64 returns the xxh64 digest of b with the given seed.
func Sum64(b []byte, seed uint64) uint64 {
	n := len(b)
	var h uint64

	if n >= stripeSize {
		v1 := seed + prime1 + prime2
		v2 := seed + prime2
		v3 := seed
		v4 := seed - prime1
		for len(b) >= stripeSize {
			v1 = round(v1, u64(b[0:8]))
			v2 = round(v2, u64(b[8:16]))
			v3 = round(v3, u64(b[16:24]))
			v4 = round(v4, u64(b[24:32]))
			b = b[stripeSize:]
		}
		h = mergeLanes(v1, v2, v3, v4)
	} else {
		h = seed + prime5
	}

	h += uint64(n)
	return avalanche(finalize(h, b))
}

// Sum64String returns the xxh64 digest of the bytes of s with the given seed.
// It does not copy s.
func Sum64String(s string, seed uint64) uint64 {
	if len(s) == 0 {
		return Sum64(nil, seed)
	}
	return Sum64(unsafe.Slice(unsafe.StringData(s), len(s)), seed)
}

func round(acc, input uint64) uint64 {
	acc += input * prime2
	acc = bits.RotateLeft64(acc, 31)
	return acc * prime1
}

func mergeRound(acc, val uint64) uint64 {
	acc ^= round(0, val)
	return acc*prime1 + prime4
}

// mergeLanes folds the four lanes into a single accumulator.
func mergeLanes(v1, v2, v3, v4 uint64) uint64 {
	h := bits.RotateLeft64(v1, 1) + bits.RotateLeft64(v2, 7) +
		bits.RotateLeft64(v3, 12) + bits.RotateLeft64(v4, 18)
	h = mergeRound(h, v1)
	h = mergeRound(h, v2)
	h = mergeRound(h, v3)
	h = mergeRound(h, v4)
	return h
}

// finalize consumes the tail (len(b) < 32) in 8, 4 and 1 byte steps.
func finalize(h uint64, b []byte) uint64 {
	for len(b) >= 8 {
		h ^= round(0, u64(b))
		h = bits.RotateLeft64(h, 27)*prime1 + prime4
		b = b[8:]
	}
	if len(b) >= 4 {
		h ^= uint64(u32(b)) * prime1
		h = bits.RotateLeft64(h, 23)*prime2 + prime3
		b = b[4:]
	}
	for _, c := range b {
		h ^= uint64(c) * prime5
		h = bits.RotateLeft64(h, 11) * prime1
	}
	return h
}

func avalanche(h uint64) uint64 {
	h ^= h >> 33
	h *= prime2
	h ^= h >> 29
	h *= prime3
	h ^= h >> 32
	return h
}

func u64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }
func u32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
