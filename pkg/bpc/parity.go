package bpc

import "math/bits"

// popcount sums the population count (number of set bits) across all
// given fields. The BPC even-parity schemes are defined as the combined
// bit population of several small fields taken together, not as a
// single wide XOR, so this mirrors the original bit-by-bit accumulation
// using a hardware popcount intrinsic instead (spec §9 design note).
func popcount(fields ...uint16) int {
	c := 0
	for _, f := range fields {
		c += bits.OnesCount16(f)
	}
	return c
}

// checkParity reports whether the population count over fields matches
// the parity declared by code (P3 or P4's low bit: 0=even, 1=odd).
func checkParity(code uint8, fields ...uint16) bool {
	return popcount(fields...)%2 == int(code&1)
}
