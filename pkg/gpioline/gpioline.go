// Package gpioline requests a single GPIO line carrying the BPC
// receiver's demodulated output and turns its edge notifications into a
// channel of timestamped Edge values, the real-world analogue of the
// "external edge interrupt source" bpc.Decoder.IRQHandler is meant to be
// driven by.
//
// Two backends are available, selected at build time exactly as the
// teacher splits pkg/raspberry into a Linux and a Windows variant:
// chardev.go (the default) uses the modern GPIO character-device API via
// gpiod; legacy.go (build tag "legacy") falls back to the older
// /dev/gpiomem polling API via gpio, for boards without chardev support.
package gpioline

// EdgeType identifies which transition a Edge reports.
type EdgeType int

const (
	// RisingEdge is a low-to-high transition.
	RisingEdge EdgeType = iota
	// FallingEdge is a high-to-low transition.
	FallingEdge
)

func (t EdgeType) String() string {
	if t == RisingEdge {
		return "rising"
	}
	return "falling"
}

// Edge is one notified line transition, timestamped in microseconds
// since an arbitrary monotonic epoch (matching bpc.Time's Sec/Micro
// split is the caller's job; gpioline only hands back raw microseconds).
type Edge struct {
	TimestampUS uint64
	Type        EdgeType
}

// PullMode selects the line's internal bias.
type PullMode int

const (
	PullNone PullMode = iota
	PullUp
	PullDown
)

// Line is a requested GPIO line delivering edge notifications on C until
// Close is called.
type Line interface {
	C() <-chan Edge
	Close() error
}
