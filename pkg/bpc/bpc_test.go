package bpc

import (
	"errors"
	"testing"
)

func TestInitRejectsNilPorts(t *testing.T) {
	d := New()
	if err := d.Init(nil); !errors.Is(err, ErrPortNil) {
		t.Errorf("Init(nil) = %v, want %v", err, ErrPortNil)
	}
}

func TestInitPropagatesReadTimeFailure(t *testing.T) {
	d := New()
	ports := &fakePorts{} // empty times: first ReadTime fails
	if err := d.Init(ports); !errors.Is(err, ErrReadFailed) {
		t.Errorf("Init() = %v, want %v", err, ErrReadFailed)
	}
}

func TestNilDecoderMethodsReturnErrNilDecoder(t *testing.T) {
	var d *Decoder
	if err := d.Init(&fakePorts{times: []Time{{}}}); !errors.Is(err, ErrNilDecoder) {
		t.Errorf("Init on nil decoder = %v, want %v", err, ErrNilDecoder)
	}
	if err := d.Deinit(); !errors.Is(err, ErrNilDecoder) {
		t.Errorf("Deinit on nil decoder = %v, want %v", err, ErrNilDecoder)
	}
	if err := d.IRQHandler(); !errors.Is(err, ErrNilDecoder) {
		t.Errorf("IRQHandler on nil decoder = %v, want %v", err, ErrNilDecoder)
	}
}

func TestDeinitWithoutInitFails(t *testing.T) {
	d := New()
	if err := d.Deinit(); !errors.Is(err, ErrNotInited) {
		t.Errorf("Deinit() = %v, want %v", err, ErrNotInited)
	}
}

func TestIRQHandlerBeforeInitFails(t *testing.T) {
	d := New()
	if err := d.IRQHandler(); !errors.Is(err, ErrNotInited) {
		t.Errorf("IRQHandler() = %v, want %v", err, ErrNotInited)
	}
}

func TestDeinitThenIRQHandlerFails(t *testing.T) {
	d, ports := newDecoderWithGaps([]int64{50_000})
	_ = ports
	if err := d.Deinit(); err != nil {
		t.Fatalf("Deinit: %v", err)
	}
	if err := d.IRQHandler(); !errors.Is(err, ErrNotInited) {
		t.Errorf("IRQHandler() after Deinit = %v, want %v", err, ErrNotInited)
	}
}

// A silence gap at or past the watchdog threshold forces the current
// frame attempt to reset: the pending edges are dropped and the
// triggering edge starts a fresh attempt of length 1.
func TestWatchdogResetsPendingAttempt(t *testing.T) {
	gaps := []int64{100_000, 100_000, 100_000, 3_000_000}
	d, _ := newDecoderWithGaps(gaps)
	if err := feedEdges(d, len(gaps)+1); err != nil {
		t.Fatalf("feedEdges: %v", err)
	}
	if d.bufLen != 1 {
		t.Errorf("bufLen after watchdog reset = %d, want 1", d.bufLen)
	}
	if d.decodeValid {
		t.Error("decodeValid should be cleared by a watchdog reset")
	}
}

// The edge buffer never grows past its fixed capacity: reaching it
// forces a reset before the triggering edge is appended.
func TestBufferNeverExceedsCapacity(t *testing.T) {
	gaps := make([]int64, 200)
	for i := range gaps {
		gaps[i] = 40_000
	}
	d, _ := newDecoderWithGaps(gaps)
	for i := 0; i < len(gaps)+1; i++ {
		if err := d.IRQHandler(); err != nil {
			t.Fatalf("IRQHandler at step %d: %v", i, err)
		}
		if d.bufLen > bufCapacity {
			t.Fatalf("bufLen = %d exceeds capacity %d at step %d", d.bufLen, bufCapacity, i)
		}
	}
}

func TestPopcountAndParity(t *testing.T) {
	if got := popcount(0b101, 0b001); got != 3 {
		t.Errorf("popcount = %d, want 3", got)
	}
	if checkParity(0, 0b101, 0b001) {
		t.Error("popcount 3 is odd, code 0 (even) should fail")
	}
	if !checkParity(1, 0b101, 0b001) {
		t.Error("popcount 3 is odd, code 1 (odd) should pass")
	}
}

func TestInfoReturnsStaticChipMetadata(t *testing.T) {
	info := Info()
	if info.ChipName == "" || info.Interface == "" {
		t.Errorf("Info() returned incomplete metadata: %+v", info)
	}
	if info.SupplyVoltageMin >= info.SupplyVoltageMax {
		t.Errorf("Info() voltage range is inverted: %+v", info)
	}
}
