// Package webapi is the read-only JSON/WebSocket front-end for the
// decoder daemon, modelled on the teacher's pkg/app web routes.
package webapi

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"

	"github.com/womat/bpc/internal/history"
	"github.com/womat/bpc/pkg/bpc"
)

// VERSION mirrors the teacher's pkg/app.VERSION convention: 1 fixed, the
// next two digits are year-2020 and month, the date after "+" is the
// first of that month.
const VERSION = "1.6.07+20260701"

// Stats counts every decode outcome the daemon has seen since start-up.
type Stats struct {
	sync.Mutex
	OK           uint64
	ParityErr    uint64
	FrameInvalid uint64
}

func (s *Stats) record(status bpc.Status) {
	s.Lock()
	defer s.Unlock()
	switch status {
	case bpc.StatusOK:
		s.OK++
	case bpc.StatusParityErr:
		s.ParityErr++
	case bpc.StatusFrameInvalid:
		s.FrameInvalid++
	}
}

func (s *Stats) snapshot() Stats {
	s.Lock()
	defer s.Unlock()
	return Stats{OK: s.OK, ParityErr: s.ParityErr, FrameInvalid: s.FrameInvalid}
}

// Server is the fiber-backed webserver exposing decoded-frame state.
type Server struct {
	web     *fiber.App
	history *history.Store

	stats Stats

	lastFrame struct {
		sync.Mutex
		frame bpc.Frame
		at    time.Time
	}

	hub *hub
}

// New builds a Server. webservices enables/disables individual routes
// exactly as the teacher's Webserver.Webservices map does; hist may be
// nil, in which case /history is not registered regardless of
// webservices["history"].
func New(webservices map[string]bool, hist *history.Store) *Server {
	s := &Server{
		web:     fiber.New(),
		history: hist,
		hub:     newHub(),
	}
	s.initRoutes(webservices)
	go s.hub.run()
	return s
}

// RecordFrame updates stats, the last-seen frame, and fans the frame out
// to connected /stream subscribers. Called once per bpc.Ports.OnFrame
// invocation.
func (s *Server) RecordFrame(f bpc.Frame) {
	s.stats.record(f.Status)

	s.lastFrame.Lock()
	s.lastFrame.frame = f
	s.lastFrame.at = time.Now()
	s.lastFrame.Unlock()

	s.hub.broadcast(f)
}

// Listen starts the webserver. Blocks until the listener stops; intended
// to run in its own goroutine.
func (s *Server) Listen(addr string) {
	if err := s.web.Listen(addr); err != nil {
		debug.ErrorLog.Printf("webapi: listener stopped: %v", err)
	}
}

// Shutdown gracefully stops the webserver and its hub.
func (s *Server) Shutdown() error {
	s.hub.close()
	return s.web.Shutdown()
}
