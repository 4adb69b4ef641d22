// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xxh64

import (
	"hash"
	"unsafe"
)

var _ hash.Hash64 = (*Digest)(nil)

// Digest is a streaming xxh64 state.
//
// Input is buffered until a full 32-byte stripe is available; the lanes
// are only folded when Sum64 is called, so Sum64 may be called at any
// point without disturbing the running state.
//
// A Digest is not safe for concurrent use.
type Digest struct {
	seed  uint64
	v1    uint64
	v2    uint64
	v3    uint64
	v4    uint64
	total uint64
	mem   [stripeSize]byte
	n     int // bytes buffered in mem
}

// New creates a Digest with seed 0.
func New() *Digest {
	return NewWithSeed(0)
}

// NewWithSeed creates a Digest with the given seed.
func NewWithSeed(seed uint64) *Digest {
	d := &Digest{}
	d.ResetWithSeed(seed)
	return d
}

// Reset clears the Digest, keeping its seed.
func (d *Digest) Reset() {
	d.ResetWithSeed(d.seed)
}

// ResetWithSeed clears the Digest and replaces its seed.
func (d *Digest) ResetWithSeed(seed uint64) {
	d.seed = seed
	d.v1 = seed + prime1 + prime2
	d.v2 = seed + prime2
	d.v3 = seed
	d.v4 = seed - prime1
	d.total = 0
	d.n = 0
}

// Size always returns 8 bytes.
func (d *Digest) Size() int { return 8 }

// BlockSize always returns 32 bytes.
func (d *Digest) BlockSize() int { return stripeSize }

// Write adds b to the digest. It always returns len(b), nil.
func (d *Digest) Write(b []byte) (int, error) {
	n := len(b)
	d.total += uint64(n)

	if d.n+n < stripeSize {
		copy(d.mem[d.n:], b)
		d.n += n
		return n, nil
	}

	if d.n > 0 {
		c := copy(d.mem[d.n:], b)
		d.v1 = round(d.v1, u64(d.mem[0:8]))
		d.v2 = round(d.v2, u64(d.mem[8:16]))
		d.v3 = round(d.v3, u64(d.mem[16:24]))
		d.v4 = round(d.v4, u64(d.mem[24:32]))
		b = b[c:]
		d.n = 0
	}

	for len(b) >= stripeSize {
		d.v1 = round(d.v1, u64(b[0:8]))
		d.v2 = round(d.v2, u64(b[8:16]))
		d.v3 = round(d.v3, u64(b[16:24]))
		d.v4 = round(d.v4, u64(b[24:32]))
		b = b[stripeSize:]
	}

	d.n = copy(d.mem[:], b)
	return n, nil
}

// WriteString adds the bytes of s to the digest without copying s.
// It always returns len(s), nil.
func (d *Digest) WriteString(s string) (int, error) {
	if len(s) == 0 {
		return 0, nil
	}
	return d.Write(unsafe.Slice(unsafe.StringData(s), len(s)))
}

// Sum appends the current hash to b in big-endian order and returns the
// resulting slice.
func (d *Digest) Sum(b []byte) []byte {
	s := d.Sum64()
	return append(b,
		byte(s>>56), byte(s>>48), byte(s>>40), byte(s>>32),
		byte(s>>24), byte(s>>16), byte(s>>8), byte(s),
	)
}

// Sum64 returns the current hash.
func (d *Digest) Sum64() uint64 {
	var h uint64
	if d.total >= stripeSize {
		h = mergeLanes(d.v1, d.v2, d.v3, d.v4)
	} else {
		h = d.seed + prime5
	}
	h += d.total
	return avalanche(finalize(h, d.mem[:d.n]))
}
