package bpc

import (
	"errors"
	"time"
)

// microTime converts a cumulative microsecond offset into a Time value.
func microTime(us int64) Time {
	return Time{Sec: uint64(us / 1_000_000), Micro: uint32(us % 1_000_000)}
}

// buildTimes turns a list of inter-edge gaps (microseconds) into a list
// of cumulative Time values, with the first edge at t=0 as spec §8's
// end-to-end scenarios describe.
func buildTimes(gapsUS []int64) []Time {
	times := make([]Time, 0, len(gapsUS)+1)
	var cum int64
	times = append(times, microTime(cum))
	for _, g := range gapsUS {
		cum += g
		times = append(times, microTime(cum))
	}
	return times
}

// buildFrameDeltas lays out the inter-edge gaps for one complete minute
// frame: a start pulse of startPulseUS, followed by the 19 data symbols
// (each symbol's nominal low width paired with a high width that
// completes a 1s period), the last symbol contributing only its low
// width since no edge follows it.
func buildFrameDeltas(startPulseUS uint32, symbols [symbolCount]uint8) []int64 {
	deltas := []int64{int64(startPulseUS)}
	for i, v := range symbols {
		low := int64(dataNominals[v])
		if i == len(symbols)-1 {
			deltas = append(deltas, low)
			continue
		}
		high := int64(frameTimeUS) - low
		deltas = append(deltas, low, high)
	}
	return deltas
}

// fakePorts is a scripted Ports implementation for tests: ReadTime
// replays a fixed list of timestamps in order and OnFrame records every
// emitted frame.
type fakePorts struct {
	times  []Time
	idx    int
	frames []Frame
}

func (p *fakePorts) ReadTime() (Time, error) {
	if p.idx >= len(p.times) {
		return Time{}, errors.New("fakePorts: out of scripted timestamps")
	}
	t := p.times[p.idx]
	p.idx++
	return t, nil
}

func (p *fakePorts) Delay(time.Duration) {}

func (p *fakePorts) Debugf(string, ...interface{}) {}

func (p *fakePorts) OnFrame(f Frame) {
	p.frames = append(p.frames, f)
}

// newDecoderWithGaps builds an initialized Decoder whose ReadTime
// sequence starts at t=0 and then steps through gapsUS, one edge per
// IRQHandler call. It returns the decoder and its port double; the
// number of edges available to feed is len(gapsUS)+1.
func newDecoderWithGaps(gapsUS []int64) (*Decoder, *fakePorts) {
	edgeTimes := buildTimes(gapsUS)
	ports := &fakePorts{times: append([]Time{edgeTimes[0]}, edgeTimes...)}

	d := New()
	if err := d.Init(ports); err != nil {
		panic(err)
	}
	return d, ports
}

// feedEdges drives count IRQHandler calls (one per remaining scripted
// timestamp) and returns the first error encountered, if any.
func feedEdges(d *Decoder, count int) error {
	for i := 0; i < count; i++ {
		if err := d.IRQHandler(); err != nil {
			return err
		}
	}
	return nil
}
