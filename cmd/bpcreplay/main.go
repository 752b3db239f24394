// Command bpcreplay drives bpc.Decoder from a recorded edge trace
// instead of live hardware, printing every emitted frame as JSON. It
// supplies the "read edges, print frames" value of the original
// firmware's interactive shell without reimplementing that shell, which
// is explicitly out of scope.
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/womat/bpc/pkg/bpc"
)

// traceRow is one row of a replay trace: a microsecond timestamp and an
// edge direction. The direction is not consumed by the decoder itself
// (bpc.Decoder only cares about inter-edge timing) but is kept for
// fixture readability and future diagnostics.
type traceRow struct {
	TimestampUS uint64 `json:"timestamp_us"`
	Rising      bool   `json:"rising"`
}

// replayPorts feeds a canned list of timestamps through bpc.Decoder, one
// per IRQHandler call, and prints every emitted frame as JSON.
type replayPorts struct {
	rows []traceRow
	idx  int
}

func (p *replayPorts) ReadTime() (bpc.Time, error) {
	if p.idx >= len(p.rows) {
		return bpc.Time{}, fmt.Errorf("bpcreplay: trace exhausted")
	}
	us := p.rows[p.idx].TimestampUS
	p.idx++
	return bpc.Time{Sec: us / 1_000_000, Micro: uint32(us % 1_000_000)}, nil
}

func (p *replayPorts) Delay(time.Duration) {}

func (p *replayPorts) Debugf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "debug: "+format+"\n", args...)
}

func (p *replayPorts) OnFrame(f bpc.Frame) {
	out, _ := json.Marshal(f)
	fmt.Println(string(out))
}

func main() {
	app := &cli.App{
		Name:  "bpcreplay",
		Usage: "replay a captured BPC edge trace through the decoder",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "decode a trace file and print every emitted frame as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "trace", Required: true, Usage: "path to a CSV or JSON trace file"},
				},
				Action: runReplay,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runReplay(c *cli.Context) error {
	rows, err := readTrace(c.String("trace"))
	if err != nil {
		return fmt.Errorf("bpcreplay: %w", err)
	}

	ports := &replayPorts{rows: seedTraceRows(rows)}
	d := bpc.New()
	if err := d.Init(ports); err != nil {
		return fmt.Errorf("bpcreplay: init decoder: %w", err)
	}

	for range rows {
		if err := d.IRQHandler(); err != nil {
			return fmt.Errorf("bpcreplay: irq handler: %w", err)
		}
	}
	return nil
}

// seedTraceRows prepends a duplicate of rows[0] so that Init's own
// ReadTime call (which seeds Decoder.lastTime) consumes that duplicate
// instead of the trace's real first edge. bpc.Decoder.Init consumes one
// reading to seed its last-edge timestamp (pkg/bpc/bpc.go's Init), and
// every subsequent IRQHandler call consumes one more (pkg/bpc/bpc.go's
// IRQHandler) — so Init plus len(rows) IRQHandler calls need len(rows)+1
// readings available. Without the duplicated seed, the final IRQHandler
// call would always find the trace exhausted. This mirrors
// pkg/bpc/helpers_test.go's newDecoderWithGaps, which does the same
// thing by duplicating its first scripted timestamp.
func seedTraceRows(rows []traceRow) []traceRow {
	if len(rows) == 0 {
		return rows
	}
	seeded := make([]traceRow, 0, len(rows)+1)
	seeded = append(seeded, rows[0])
	seeded = append(seeded, rows...)
	return seeded
}

// readTrace loads a trace file; JSON files decode directly into
// traceRow, CSV files are (timestamp_us,edge) rows where edge is
// "rising" or "falling".
func readTrace(path string) ([]traceRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if strings.HasSuffix(path, ".json") {
		var rows []traceRow
		if err := json.NewDecoder(f).Decode(&rows); err != nil {
			return nil, fmt.Errorf("decode json trace: %w", err)
		}
		return rows, nil
	}

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode csv trace: %w", err)
	}

	rows := make([]traceRow, 0, len(records))
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		us, err := strconv.ParseUint(strings.TrimSpace(rec[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", rec[0], err)
		}
		rows = append(rows, traceRow{TimestampUS: us, Rising: strings.TrimSpace(rec[1]) == "rising"})
	}
	return rows, nil
}
