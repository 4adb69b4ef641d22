// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xxh64_test

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"

	"code.hybscloud.com/rtcore/xxh64"
)

// Exactly 63 bytes: one stripe, then 8-, 4- and 1-byte tail steps.
const s63 = "Call me Ishmael. Some years ago--never mind how long precisely-"

// =============================================================================
// Published Vectors
// =============================================================================

func TestKnownVectors(t *testing.T) {
	for _, tt := range []struct {
		input string
		seed  uint64
		want  uint64
	}{
		{"", 0, 0xEF46DB3751D8E999},
		{"a", 0, 0xD24EC4F1A98C6E5B},
		{"as", 0, 0x1C330FB2D66BE179},
		{"asd", 0, 0x631C37CE72A97393},
		{"abc", 0, 0x44BC2CF5AD770999},
		{"asdf", 0, 0x415872F599CEA71E},
		{s63, 0, 0x02A2E85470D6FD96},
		{"", 123, 0xE0DB84DE91F3E198},
		{"asdf", math.MaxUint64, 0x9A2FD8473BE539B6},
		{s63, 54321, 0x1736D186DAF5D1CD},
	} {
		name := fmt.Sprintf("len=%d,seed=%d", len(tt.input), tt.seed)
		t.Run(name, func(t *testing.T) {
			if got := xxh64.Sum64([]byte(tt.input), tt.seed); got != tt.want {
				t.Fatalf("Sum64: got %#016x, want %#016x", got, tt.want)
			}
			if got := xxh64.Sum64String(tt.input, tt.seed); got != tt.want {
				t.Fatalf("Sum64String: got %#016x, want %#016x", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Reference Equivalence
// =============================================================================

// TestMatchesReference compares against cespare/xxhash for every length up
// to several stripes, covering each 8/4/1 tail combination on both the
// short and the striped path.
func TestMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	buf := make([]byte, 300)
	for i := range buf {
		buf[i] = byte(rng.Uint32())
	}

	seeds := []uint64{0, 1, 0x9E3779B185EBCA87, math.MaxUint64, rng.Uint64(), rng.Uint64()}
	for _, seed := range seeds {
		for n := 0; n <= len(buf); n++ {
			in := buf[:n]
			ref := xxhash.NewWithSeed(seed)
			ref.Write(in)
			want := ref.Sum64()
			if got := xxh64.Sum64(in, seed); got != want {
				t.Fatalf("Sum64(len=%d, seed=%#x): got %#016x, want %#016x", n, seed, got, want)
			}
		}
	}
}

func TestStripeBoundaries(t *testing.T) {
	for _, n := range []int{0, 1, 3, 4, 5, 7, 8, 9, 12, 31, 32, 33, 36, 39, 40, 63, 64, 65, 95, 96, 127, 128} {
		in := []byte(strings.Repeat("x", n))
		ref := xxhash.NewWithSeed(7)
		ref.Write(in)
		if got, want := xxh64.Sum64(in, 7), ref.Sum64(); got != want {
			t.Fatalf("len %d: got %#016x, want %#016x", n, got, want)
		}
	}
}

// TestUsesEveryByte guards against tail reads that ignore their cursor:
// flipping any single byte must change the digest.
func TestUsesEveryByte(t *testing.T) {
	for _, n := range []int{1, 4, 7, 8, 12, 15, 31, 32, 44, 63, 64} {
		base := make([]byte, n)
		for i := range base {
			base[i] = byte(i * 31)
		}
		h := xxh64.Sum64(base, 0)
		for i := range n {
			mod := append([]byte(nil), base...)
			mod[i] ^= 0x80
			if xxh64.Sum64(mod, 0) == h {
				t.Fatalf("len %d: flipping byte %d did not change the digest", n, i)
			}
		}
	}
}

func TestDeterministic(t *testing.T) {
	in := []byte(s63 + s63)
	first := xxh64.Sum64(in, 42)
	for range 100 {
		if got := xxh64.Sum64(in, 42); got != first {
			t.Fatalf("Sum64: got %#016x, want %#016x", got, first)
		}
	}
	if xxh64.Sum64(in, 43) == first {
		t.Fatalf("Sum64: seed 42 and 43 collide")
	}
}

func TestSum64StringNoAlloc(t *testing.T) {
	s := strings.Repeat("koka", 40)
	allocs := testing.AllocsPerRun(100, func() {
		xxh64.Sum64String(s, 1)
	})
	if allocs != 0 {
		t.Fatalf("Sum64String allocs: got %v, want 0", allocs)
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkSum64(b *testing.B) {
	for _, n := range []int{8, 31, 32, 64, 1024, 64 << 10} {
		buf := make([]byte, n)
		b.Run(fmt.Sprintf("%dB", n), func(b *testing.B) {
			b.SetBytes(int64(n))
			for range b.N {
				xxh64.Sum64(buf, 0)
			}
		})
	}
}

func BenchmarkReferenceSum64(b *testing.B) {
	for _, n := range []int{8, 31, 32, 64, 1024, 64 << 10} {
		buf := make([]byte, n)
		b.Run(fmt.Sprintf("%dB", n), func(b *testing.B) {
			b.SetBytes(int64(n))
			for range b.N {
				xxhash.Sum64(buf)
			}
		})
	}
}
