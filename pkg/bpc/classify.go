package bpc

// Tolerance-bounded interval classification (spec §4.C). All three
// primitives compare microsecond durations against nominal symbol
// widths within a fixed percentage band.
const (
	// maxRange is the tolerance band for a single data symbol interval.
	maxRange = 0.20
	// maxStartRange widens the nominal start-pulse window by this
	// fraction on both ends.
	maxStartRange = 0.20

	startFrameMinUS = 1_600_000
	startFrameMaxUS = 1_900_000
	frameTimeUS     = 1_000_000
)

// dataNominals holds the nominal pulse-low width, in microseconds, for
// each of the four 2-bit symbol values.
var dataNominals = [4]uint32{100_000, 200_000, 300_000, 400_000}

// checkFrame is the single-edge tolerance primitive: d is within 20% of
// the nominal width t.
func checkFrame(d uint32, t uint32) bool {
	delta := int64(d) - int64(t)
	if delta < 0 {
		delta = -delta
	}
	return delta <= int64(float64(t)*maxRange)
}

// checkFrame2 is the paired-edge tolerance primitive: the pulse-low
// width dLow must be within 20% of t, and the full low+high period must
// land within 20% of the nominal 1s frame cadence.
func checkFrame2(dLow, dHigh uint32, t uint32) bool {
	total := int64(dLow) + int64(dHigh)
	lo := int64(float64(frameTimeUS) * (1 - maxRange))
	hi := int64(float64(frameTimeUS) * (1 + maxRange))
	if total < lo || total > hi {
		return false
	}
	return checkFrame(dLow, t)
}

// checkStartFrame reports whether d falls in the widened start-pulse
// window [1,600,000*0.8, 1,900,000*1.2] µs, endpoints inclusive.
func checkStartFrame(d uint32) bool {
	lo := float64(startFrameMinUS) * (1 - maxStartRange)
	hi := float64(startFrameMaxUS) * (1 + maxStartRange)
	f := float64(d)
	return f >= lo && f <= hi
}

// classifyPaired maps a low/high edge pair to one of the four 2-bit
// symbol values using the paired-edge tolerance.
func classifyPaired(low, high uint32) (uint8, bool) {
	for v, nominal := range dataNominals {
		if checkFrame2(low, high, nominal) {
			return uint8(v), true
		}
	}
	return 0, false
}

// classifySingle maps a lone low-edge width to one of the four 2-bit
// symbol values using the single-edge tolerance. Used only for the
// final symbol of a frame, which has no following edge to pair with.
func classifySingle(low uint32) (uint8, bool) {
	for v, nominal := range dataNominals {
		if checkFrame(low, nominal) {
			return uint8(v), true
		}
	}
	return 0, false
}

// classifySymbols reads the symbolCount data symbols starting at the
// edge index offset, consuming two edges per symbol except the last,
// which consumes one. It returns the 19 classified 2-bit values, or
// ok=false the moment any symbol fails classification.
func classifySymbols(buf []edge, offset int) (vals [symbolCount]uint8, ok bool) {
	ind := offset
	for i := 0; i < symbolCount; i++ {
		var v uint8
		var good bool
		if i == symbolCount-1 {
			// The final symbol has no following edge to pair with.
			v, good = classifySingle(buf[ind].diffUS)
		} else {
			v, good = classifyPaired(buf[ind].diffUS, buf[ind+1].diffUS)
			ind += 2
		}
		if !good {
			return vals, false
		}
		vals[i] = v
	}
	return vals, true
}
