//go:build legacy

package gpioline

import (
	"fmt"
	"time"

	"github.com/warthog618/gpio"
)

// legacyLine is the fallback Line backend for boards without GPIO
// character-device support, built only with `-tags legacy`. Grounded on
// pkg/raspberry/linux.go, which polls the same /dev/gpiomem-based API;
// unlike that file this has no debounce timer, for the same reason
// chardev.go drops one.
type legacyLine struct {
	pin *gpio.Pin
	c   chan Edge
}

var opened bool

// Open requests control of the BCM GPIO number gpio with the given pull
// bias and both-edges notification. chipName is accepted for interface
// symmetry with chardev.go's Open but unused: the legacy gpio package
// addresses pins directly, with no chip abstraction.
func Open(chipName string, gpio_ int, pull PullMode) (Line, error) {
	if !opened {
		if err := gpio.Open(); err != nil {
			return nil, fmt.Errorf("gpioline: open gpiomem: %w", err)
		}
		opened = true
	}

	pin := gpio.NewPin(gpio_)
	pin.Input()
	switch pull {
	case PullUp:
		pin.PullUp()
	case PullDown:
		pin.PullDown()
	}

	l := &legacyLine{pin: pin, c: make(chan Edge, 256)}
	if err := pin.Watch(gpio.EdgeBoth, l.handle); err != nil {
		return nil, fmt.Errorf("gpioline: watch pin %d: %w", gpio_, err)
	}

	return l, nil
}

func (l *legacyLine) handle(p *gpio.Pin) {
	e := Edge{TimestampUS: uint64(time.Now().UnixNano() / 1000)}
	if p.Read() {
		e.Type = RisingEdge
	} else {
		e.Type = FallingEdge
	}

	select {
	case l.c <- e:
	default:
	}
}

func (l *legacyLine) C() <-chan Edge {
	return l.c
}

func (l *legacyLine) Close() error {
	l.pin.Unwatch()
	return nil
}
