// Package rng provides the seeded pseudo-random source used for floor and shop
// generation. The generator is Xoshiro256++ and the range sampling reproduces the
// widening-multiply scheme of the reference implementation, so a given 32-byte
// seed always yields the same sequence of rooms and offers as existing saves.
package rng

import (
	"encoding/binary"
	"math/bits"
)

// SeedSize is the number of seed bytes consumed by New.
const SeedSize = 32

// Xoshiro256pp is a Xoshiro256++ generator. It satisfies math/rand/v2.Source.
type Xoshiro256pp struct {
	s [4]uint64
}

// New creates a generator from a 32-byte seed read as four little-endian words.
// An all-zero seed is expanded with SplitMix64, since Xoshiro cannot leave the
// zero state.
func New(seed [SeedSize]byte) *Xoshiro256pp {
	x := &Xoshiro256pp{}
	for i := range x.s {
		x.s[i] = binary.LittleEndian.Uint64(seed[i*8:])
	}
	if x.s == [4]uint64{} {
		return NewFromUint64(0)
	}
	return x
}

// NewFromUint64 seeds a generator by expanding state with SplitMix64.
func NewFromUint64(state uint64) *Xoshiro256pp {
	const phi = 0x9e3779b97f4a7c15

	var seed [SeedSize]byte
	for i := 0; i < 4; i++ {
		state += phi
		z := state
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z ^= z >> 31
		binary.LittleEndian.PutUint64(seed[i*8:], z)
	}
	return New(seed)
}

// Uint64 returns the next 64 bits of output
func (x *Xoshiro256pp) Uint64() uint64 {
	s := &x.s
	result := bits.RotateLeft64(s[0]+s[3], 23) + s[0]
	t := s[1] << 17

	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]

	s[2] ^= t
	s[3] = bits.RotateLeft64(s[3], 45)

	return result
}

// Uint32 returns the upper 32 bits of the next output. The low bits of
// Xoshiro have weak linear dependencies, so they are dropped.
func (x *Xoshiro256pp) Uint32() uint32 {
	return uint32(x.Uint64() >> 32)
}
