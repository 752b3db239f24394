// Package bpc decodes the pulse-width time code broadcast by the BPC
// long-wave time service from a stream of timestamped edge events.
//
// The decoder is a stateless-between-frames transducer: edges in, one
// decoded Frame out per successful minute, delivered through the OnFrame
// port. It never allocates, blocks, or retries on its own — every edge is
// handled to completion by IRQHandler, matching the contract of the
// interrupt context it is meant to run in.
package bpc

import "time"

// Time is a monotonic timestamp, seconds plus a microsecond remainder,
// as supplied by the ReadTime port on every edge.
type Time struct {
	Sec   uint64
	Micro uint32
}

// sub returns t-other in microseconds as a signed 64-bit value.
func (t Time) sub(other Time) int64 {
	return (int64(t.Sec)-int64(other.Sec))*1_000_000 + (int64(t.Micro) - int64(other.Micro))
}

// Frame is a decoded BPC minute frame, or the zero-valued calendar
// fields accompanying a non-OK Status.
type Frame struct {
	Status  Status
	Year    uint16
	Month   uint8
	Day     uint8
	Weekday uint8
	Hour    uint8
	Minute  uint8
	Second  uint8
}

// Ports is the capability set a caller injects into a Decoder: a
// monotonic clock, a blocking delay (used only by test/demo harnesses,
// never by the decoder itself), a debug sink, and the frame sink.
//
// ReadTime and OnFrame must be safe to call from interrupt/edge-handler
// context: no blocking, no allocation on the happy path.
type Ports interface {
	// ReadTime returns the current monotonic timestamp. It must be
	// callable from interrupt context and must not suspend.
	ReadTime() (Time, error)
	// Delay blocks the calling goroutine for d. Never called by the
	// decoder itself; exists so test harnesses can share the port set.
	Delay(d time.Duration)
	// Debugf logs a printf-style diagnostic message. May be a no-op.
	Debugf(format string, args ...interface{})
	// OnFrame is invoked exactly once per decode attempt that reaches a
	// terminal Status. It must not block.
	OnFrame(f Frame)
}

const (
	// bufCapacity is the edge buffer capacity; overflow forces a reset.
	bufCapacity = 76
	// minFrameEdges is the buffer length at which synchronisation or
	// decode is attempted.
	minFrameEdges = 38
	// watchdogSilenceUS is the inter-edge silence that forces a hard
	// reset of the current frame attempt.
	watchdogSilenceUS = 3_000_000
	// symbolCount is the number of data symbols following the start pulse.
	symbolCount = 19
)

// edge is one recorded rising/falling edge, with the microsecond gap to
// the following edge filled in retrospectively by the decoder.
type edge struct {
	t      Time
	diffUS uint32
}

// Decoder holds all decoder state: the edge buffer, the synchroniser
// state, and the bound Ports. The zero value is not usable; construct
// with New and bind with Init.
//
// A Decoder is owned exclusively by its IRQHandler caller: the contract
// forbids concurrent calls to IRQHandler, and Init/Deinit must be
// serialised against it by the caller (e.g. by disabling the edge
// interrupt around the call), exactly as the injected OnFrame callback
// must never block.
type Decoder struct {
	ports  Ports
	inited bool

	buf    [bufCapacity]edge
	bufLen int

	lastTime Time

	decodeOffset uint8
	decodeValid  bool
	traceValid   bool
}

// New returns an unbound Decoder. Call Init before the first IRQHandler.
func New() *Decoder {
	return &Decoder{}
}

// Init binds ports, seeds the last-edge timestamp from the current
// reading, and clears all decode state.
func (d *Decoder) Init(ports Ports) error {
	if d == nil {
		return ErrNilDecoder
	}
	if ports == nil {
		return ErrPortNil
	}

	t, err := ports.ReadTime()
	if err != nil {
		return ErrReadFailed
	}

	d.ports = ports
	d.lastTime = t
	d.bufLen = 0
	d.decodeOffset = 0
	d.decodeValid = false
	d.traceValid = false
	d.inited = true

	return nil
}

// Deinit clears the inited flag. Idempotent is not implied: calling
// Deinit on an already-deinited (or never-inited) decoder returns
// ErrNotInited, matching the handle-level contract.
func (d *Decoder) Deinit() error {
	if d == nil {
		return ErrNilDecoder
	}
	if !d.inited {
		return ErrNotInited
	}

	d.inited = false

	return nil
}

// IRQHandler is the decoder entry point, called from the rising- and
// falling-edge interrupt alike (every transition is handled identically).
// It must run to completion without suspending.
func (d *Decoder) IRQHandler() error {
	if d == nil {
		return ErrNilDecoder
	}
	if !d.inited {
		return ErrNotInited
	}

	t, err := d.ports.ReadTime()
	if err != nil {
		d.ports.Debugf("bpc: timestamp read failed")
		return ErrReadFailed
	}

	diff := t.sub(d.lastTime)
	if diff >= watchdogSilenceUS || d.bufLen >= bufCapacity {
		d.resetAttempt()
	}

	d.buf[d.bufLen] = edge{t: t}
	d.bufLen++

	if d.traceValid {
		d.traceDecode()
	}

	if d.bufLen >= minFrameEdges {
		if d.decodeValid {
			// Wait for enough edges past the locked offset before the
			// reassembler runs; a short offset tail means the frame
			// isn't fully buffered yet.
			if d.bufLen-int(d.decodeOffset) >= minFrameEdges {
				d.decodeFrame()
			}
		} else {
			d.scanForStart()
		}
	}

	d.lastTime = t

	return nil
}

// resetAttempt clears the current frame attempt: the edge buffer and
// both synchroniser flags. It never touches lastTime.
func (d *Decoder) resetAttempt() {
	d.bufLen = 0
	d.decodeOffset = 0
	d.decodeValid = false
	d.traceValid = false
}

// emit hands a terminal frame to the OnFrame port and resets the
// decoder for the next attempt. trace mode is armed only after an OK
// frame, per the synchroniser's trace-continuation rationale.
func (d *Decoder) emit(f Frame) {
	d.ports.OnFrame(f)

	d.bufLen = 0
	d.decodeOffset = 0
	d.decodeValid = false
	d.traceValid = f.Status == StatusOK
}
