package rng

import (
	"math"
	"math/bits"
)

// Source is the subset of a generator the samplers need.
type Source interface {
	Uint64() uint64
	Uint32() uint32
}

// Int64Inclusive returns a uniform value in [lo, hi] drawn with 64-bit words.
// The sample is the high word of a widening multiply; when the low word lands in
// the biased zone a single extra draw decides whether to carry into the result.
// Panics if lo > hi.
func Int64Inclusive(src Source, lo, hi int64) int64 {
	if lo > hi {
		panic("rng: empty range")
	}
	span := uint64(hi-lo) + 1
	if span == 0 {
		return int64(src.Uint64())
	}

	result, loOrder := bits.Mul64(src.Uint64(), span)
	if loOrder > -span {
		newHi, _ := bits.Mul64(src.Uint64(), span)
		if _, carry := bits.Add64(loOrder, newHi, 0); carry != 0 {
			result++
		}
	}
	return lo + int64(result)
}

// Int32Inclusive returns a uniform value in [lo, hi] drawn with 32-bit words.
// It consumes generator output differently from Int64Inclusive and the two are
// not interchangeable when reproducing a recorded sequence.
func Int32Inclusive(src Source, lo, hi int32) int32 {
	if lo > hi {
		panic("rng: empty range")
	}
	span := uint32(hi-lo) + 1
	if span == 0 {
		return int32(src.Uint32())
	}

	result, loOrder := mul32(src.Uint32(), span)
	if loOrder > -span {
		newHi, _ := mul32(src.Uint32(), span)
		if uint64(loOrder)+uint64(newHi) > uint64(^uint32(0)) {
			result++
		}
	}
	return lo + int32(result)
}

func mul32(a, b uint32) (hi, lo uint32) {
	p := uint64(a) * uint64(b)
	return uint32(p >> 32), uint32(p)
}

// Bool returns true with probability p. p <= 0 is never true and p >= 1 is
// always true without consuming output.
func Bool(src Source, p float64) bool {
	if p >= 1 {
		return true
	}
	if p <= 0 {
		return false
	}
	threshold := uint64(p * (1 << 63) * 2)
	return src.Uint64() < threshold
}

// Float64Inclusive returns a value in [lo, hi]. The top 52 bits of one draw
// fill the mantissa of a number in [1, 2), which is shifted to [0, 1) and
// scaled so that the largest draw lands exactly on hi.
func Float64Inclusive(src Source, lo, hi float64) float64 {
	if lo >= hi {
		return lo
	}
	const maxRand = 1 - 0x1p-52
	scale := (hi - lo) / maxRand
	for float64(scale*maxRand)+lo > hi {
		scale = math.Float64frombits(math.Float64bits(scale) - 1)
	}

	value12 := math.Float64frombits(src.Uint64()>>12 | 0x3ff0000000000000)
	return float64((value12-1)*scale) + lo
}
