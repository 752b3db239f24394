// Package bpcport is a reference implementation of bpc.Ports backed by
// the host clock. pkg/bpc stays port-polymorphic and never imports this
// package; it exists for cmd/bpcd and cmd/bpcreplay to bind against.
package bpcport

import (
	"time"

	"github.com/womat/bpc/pkg/bpc"
)

// System implements bpc.Ports against time.Now() and a pluggable debug
// sink. The zero value is usable: Zone defaults to time.Local and
// OnFrameFunc/DebugFunc default to no-ops.
type System struct {
	// Zone is used by LocalTime to convert a decoded Frame. Defaults to
	// time.Local when nil.
	Zone *time.Location

	// OnFrameFunc receives every decoded Frame. May be nil.
	OnFrameFunc func(bpc.Frame)
	// DebugFunc receives every diagnostic message. May be nil.
	DebugFunc func(format string, args ...interface{})
}

// ReadTime returns the current monotonic-ish host time as a bpc.Time.
func (s *System) ReadTime() (bpc.Time, error) {
	now := time.Now()
	return bpc.Time{Sec: uint64(now.Unix()), Micro: uint32(now.Nanosecond() / 1000)}, nil
}

// Delay blocks the calling goroutine for d. Never called by bpc.Decoder
// itself; exists so replay/test harnesses sharing this port set can pace
// themselves.
func (s *System) Delay(d time.Duration) {
	time.Sleep(d)
}

// Debugf forwards to DebugFunc, if set.
func (s *System) Debugf(format string, args ...interface{}) {
	if s.DebugFunc != nil {
		s.DebugFunc(format, args...)
	}
}

// OnFrame forwards to OnFrameFunc, if set.
func (s *System) OnFrame(f bpc.Frame) {
	if s.OnFrameFunc != nil {
		s.OnFrameFunc(f)
	}
}

// LocalTime converts a decoded Frame's calendar fields into a time.Time
// in the configured zone (time.Local if Zone is nil). Frames with a
// non-OK Status carry meaningless calendar fields; callers should check
// f.Status before calling this.
func (s *System) LocalTime(f bpc.Frame) time.Time {
	zone := s.Zone
	if zone == nil {
		zone = time.Local
	}
	return time.Date(int(f.Year), time.Month(f.Month), int(f.Day), int(f.Hour), int(f.Minute), int(f.Second), 0, zone)
}
