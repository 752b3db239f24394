// Command bpcd is the long-running BPC receiver daemon: it opens the
// configured GPIO line, decodes the time-code signal, publishes decoded
// frames to MQTT and an embedded history store, and serves them over a
// read-only web API. Modelled on the teacher's cmd/tadl.go.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/womat/debug"

	"github.com/womat/bpc/internal/config"
	"github.com/womat/bpc/internal/history"
	"github.com/womat/bpc/internal/publish"
	"github.com/womat/bpc/internal/webapi"
	"github.com/womat/bpc/pkg/bpc"
	"github.com/womat/bpc/pkg/bpcport"
	"github.com/womat/bpc/pkg/gpioline"
)

const defaultConfigFile = "/opt/womat/config/bpcd.yaml"

func main() {
	exitCode := 1
	defer func() { os.Exit(exitCode) }()

	debug.SetDebug(os.Stderr, debug.Standard)
	cfg := config.New()

	flag.BoolVar(&cfg.Flag.Version, "version", false, "print version and exit")
	flag.StringVar(&cfg.Flag.LogLevel, "debug", "", "enable debug information (standard | trace | debug)")
	flag.StringVar(&cfg.Flag.ConfigFile, "config", defaultConfigFile, "config file")
	flag.Parse()

	if cfg.Flag.Version {
		fmt.Println(webapi.VERSION)
		exitCode = 0
		return
	}

	if err := cfg.Load(); err != nil {
		fmt.Println(err)
		return
	}

	debug.SetDebug(cfg.Log.File, cfg.Log.Flag)
	defer func() { _ = cfg.Log.File.Close() }()

	debug.InfoLog.Printf("starting bpcd %s", webapi.VERSION)

	if err := run(cfg); err != nil {
		debug.FatalLog.Print(err)
		return
	}

	exitCode = 0
}

func run(cfg *config.Config) error {
	hist, err := history.Open(cfg.History.File, cfg.History.Retention)
	if err != nil {
		return fmt.Errorf("bpcd: open history store: %w", err)
	}
	defer func() { _ = hist.Close() }()

	mqttHandler := publish.New(cfg.MQTT.Topic, cfg.MQTT.PublishAll)
	if err := mqttHandler.Connect(cfg.MQTT.Connection); err != nil {
		return fmt.Errorf("bpcd: connect mqtt broker: %w", err)
	}
	defer func() { _ = mqttHandler.Disconnect() }()
	go mqttHandler.Service()

	web := webapi.New(cfg.Webserver.Webservices, hist)
	go web.Listen(urlHost(cfg.Webserver.URL))
	defer func() { _ = web.Shutdown() }()

	pull := gpioline.PullNone
	switch {
	case cfg.GPIO.PullUp:
		pull = gpioline.PullUp
	case cfg.GPIO.PullDown:
		pull = gpioline.PullDown
	}

	line, err := gpioline.Open(cfg.GPIO.Chip, cfg.GPIO.Line, pull)
	if err != nil {
		return fmt.Errorf("bpcd: open gpio line: %w", err)
	}
	defer func() { _ = line.Close() }()

	ports := &bpcport.System{
		OnFrameFunc: func(f bpc.Frame) {
			web.RecordFrame(f)
			_ = hist.Append(time.Now(), f)
			mqttHandler.C <- f
		},
		DebugFunc: debug.TraceLog.Printf,
	}

	decoder := bpc.New()
	if err := decoder.Init(ports); err != nil {
		return fmt.Errorf("bpcd: init decoder: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	for {
		select {
		case <-line.C():
			if err := decoder.IRQHandler(); err != nil {
				debug.ErrorLog.Printf("bpcd: irq handler: %v", err)
			}
		case sig := <-quit:
			debug.InfoLog.Printf("got %s signal, shutting down", sig)
			return nil
		}
	}
}

// urlHost extracts the host:port fiber.Listen expects from a full
// webserver URL, matching the teacher's url.Parse(...).Host usage.
func urlHost(raw string) string {
	const prefix4 = "http://"
	const prefix5 = "https://"
	s := raw
	if len(s) >= len(prefix4) && s[:len(prefix4)] == prefix4 {
		s = s[len(prefix4):]
	} else if len(s) >= len(prefix5) && s[:len(prefix5)] == prefix5 {
		s = s[len(prefix5):]
	}
	return s
}
