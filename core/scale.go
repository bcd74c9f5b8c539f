package core

import (
	"math"
	"math/bits"
)

// Common time constants in nanoseconds
const (
	NSecPerUSec = 1000
	NSecPerMSec = 1000 * NSecPerUSec
	NSecPerSec  = 1000 * NSecPerMSec
)

// ClocksourceMask returns the wrap mask of a counter that is bits wide.
func ClocksourceMask(bits uint) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}

// CalcMultShift calculates a mult/shift pair for converting a value counted
// at from Hz into to Hz units as (value * mult) >> shift.
//
// For clocksources to is NSecPerSec and from is the counter frequency.
//
// maxSec is the conversion range in seconds the pair must cover: any
// cycle count accumulated over maxSec seconds at from Hz multiplied by mult
// still fits in 64 bits. Larger ranges lower the chosen shift and with it
// the conversion accuracy. The largest shift satisfying the range wins.
func CalcMultShift(from, to, maxSec uint32) (mult, shift uint32, err error) {
	if from == 0 || to == 0 || maxSec == 0 {
		return 0, 0, ErrConfiguration
	}

	// Bits of mult available once the range itself is accounted for.
	sftacc := uint32(32 - bits.Len64((uint64(maxSec)*uint64(from))>>32))

	var tmp uint64
	for sft := int32(32); sft >= 0; sft-- {
		tmp = uint64(to) << uint32(sft)
		tmp += uint64(from) / 2
		tmp /= uint64(from)
		if tmp>>sftacc == 0 {
			if tmp == 0 {
				// to is too small against from to be represented
				return 0, 0, ErrConfiguration
			}
			return uint32(tmp), uint32(sft), nil
		}
	}

	// Nothing fits the range. Shift 0 is the least precise candidate and
	// tmp <= to, so it still fits in 32 bits.
	return uint32(tmp), 0, nil
}

// HzToMult calculates the mult of a clocksource counting at hz for the given
// shift, so that (cycles * mult) >> shift yields nanoseconds.
//
//	mult = (NSecPerSec << shift) / hz, rounded to nearest
func HzToMult(hz, shift uint32) (uint32, error) {
	if hz == 0 || shift > 32 {
		return 0, ErrConfiguration
	}
	tmp := uint64(NSecPerSec) << shift
	tmp += uint64(hz) / 2
	tmp /= uint64(hz)
	if tmp > math.MaxUint32 {
		return 0, ErrConfiguration
	}
	return uint32(tmp), nil
}

// CyclesToNs converts a cycle delta to nanoseconds. The product is formed
// in 128 bits, so only the shifted result has to fit in 64 bits.
func CyclesToNs(cycles uint64, mult, shift uint32) uint64 {
	hi, lo := bits.Mul64(cycles, uint64(mult))
	if shift == 0 {
		return lo
	}
	return hi<<(64-shift) | lo>>shift
}
