package main

import (
	"testing"

	"github.com/womat/bpc/pkg/bpc"
)

// readTrace itself has no Go-toolchain dependency beyond the standard
// library, so this test exercises it directly against the scenario
// fixtures pkg/bpc/scenarios_test.go's cases are mirrored into.
func TestReadTraceFixtures(t *testing.T) {
	cases := []struct {
		file      string
		wantRows  int
		wantFinal bpc.Status
	}{
		{"../../testdata/traces/clean_minute.json", 39, bpc.StatusOK},
		{"../../testdata/traces/corrupted_interval.json", 39, bpc.StatusFrameInvalid},
		{"../../testdata/traces/flipped_p3_parity.json", 39, bpc.StatusParityErr},
		{"../../testdata/traces/watchdog_recovery.json", 44, bpc.StatusOK},
		{"../../testdata/traces/buffer_overflow.json", 119, bpc.StatusOK},
		{"../../testdata/traces/legacy_weekday_seven.json", 39, bpc.StatusOK},
	}

	for _, c := range cases {
		rows, err := readTrace(c.file)
		if err != nil {
			t.Fatalf("%s: readTrace: %v", c.file, err)
		}
		if len(rows) != c.wantRows {
			t.Errorf("%s: got %d rows, want %d", c.file, len(rows), c.wantRows)
		}

		ports := &recordingReplayPorts{replayPorts: replayPorts{rows: seedTraceRows(rows)}}
		d := bpc.New()
		if err := d.Init(ports); err != nil {
			t.Fatalf("%s: init: %v", c.file, err)
		}
		for range rows {
			if err := d.IRQHandler(); err != nil {
				t.Fatalf("%s: irq handler: %v", c.file, err)
			}
		}
		if len(ports.frames) == 0 {
			t.Fatalf("%s: no frames emitted", c.file)
		}
		last := ports.frames[len(ports.frames)-1]
		if last.Status != c.wantFinal {
			t.Errorf("%s: final status = %v, want %v", c.file, last.Status, c.wantFinal)
		}
	}
}

// recordingReplayPorts wraps replayPorts to capture emitted frames for
// assertions, since replayPorts itself only prints to stdout.
type recordingReplayPorts struct {
	replayPorts
	frames []bpc.Frame
}

func (p *recordingReplayPorts) OnFrame(f bpc.Frame) {
	p.frames = append(p.frames, f)
}
