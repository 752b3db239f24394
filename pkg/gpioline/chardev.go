//go:build !legacy

package gpioline

import (
	"fmt"

	"github.com/warthog618/gpiod"
)

// chardevLine is the default Line backend: a single requested line on a
// GPIO character-device chip, both edges, delivered through an internal
// channel fed by gpiod's own event handler callback.
//
// Grounded on pkg/raspberry/raspberry.go's Chip/Line split, trimmed of
// the debounce goroutine (the BPC protocol's own tolerance bands in
// pkg/bpc already absorb sub-millisecond jitter; a software debounce
// timer would only delay edges the decoder needs timestamped precisely).
type chardevLine struct {
	chip *gpiod.Chip
	line *gpiod.Line
	c    chan Edge
}

// Open requests control of gpio on chipName (e.g. "gpiochip0") with the
// given pull bias and both-edges notification.
func Open(chipName string, gpio int, pull PullMode) (Line, error) {
	chip, err := gpiod.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("gpioline: open chip %s: %w", chipName, err)
	}

	l := &chardevLine{chip: chip, c: make(chan Edge, 256)}

	opts := []gpiod.LineReqOption{gpiod.WithBothEdges, gpiod.AsInput, gpiod.WithEventHandler(l.handle)}
	switch pull {
	case PullUp:
		opts = append(opts, gpiod.WithPullUp)
	case PullDown:
		opts = append(opts, gpiod.WithPullDown)
	}

	line, err := chip.RequestLine(gpio, opts...)
	if err != nil {
		_ = chip.Close()
		return nil, fmt.Errorf("gpioline: request line %d: %w", gpio, err)
	}
	l.line = line

	return l, nil
}

func (l *chardevLine) handle(evt gpiod.LineEvent) {
	e := Edge{TimestampUS: uint64(evt.Timestamp.Microseconds())}
	switch evt.Type {
	case gpiod.LineEventRisingEdge:
		e.Type = RisingEdge
	case gpiod.LineEventFallingEdge:
		e.Type = FallingEdge
	default:
		return
	}

	select {
	case l.c <- e:
	default:
		// A stalled consumer must not block the gpiod event goroutine;
		// dropping under backpressure is preferable to blocking it.
	}
}

func (l *chardevLine) C() <-chan Edge {
	return l.c
}

func (l *chardevLine) Close() error {
	if err := l.line.Close(); err != nil {
		return err
	}
	return l.chip.Close()
}
