package webapi

import (
	"net/http"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// handleVersion returns the daemon version, matching the teacher's
// /version response shape.
func (s *Server) handleVersion() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request version")
		return ctx.JSON(fiber.Map{
			"version":     VERSION,
			"description": "bpcd",
		})
	}
}

// handleHealth returns runtime health metrics, matching the teacher's
// HandleHealth response shape and field names.
func (s *Server) handleHealth() fiber.Handler {
	bToMb := func(b uint64) uint64 { return b / 1024 / 1024 }
	host, _ := os.Hostname()

	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request health")

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		ctx.Status(http.StatusOK)
		return ctx.JSON(fiber.Map{
			"NumGoroutines":      runtime.NumGoroutine(),
			"NumCPU":             runtime.NumCPU(),
			"HeapAllocatedBytes": m.Alloc,
			"HeapAllocatedMB":    bToMb(m.Alloc),
			"SysMemoryBytes":     m.Sys,
			"SysMemoryMB":        bToMb(m.Sys),
			"Version":            VERSION,
			"ProgLang":           runtime.Version(),
			"HostName":           host,
			"Time":               time.Now().Format(time.RFC3339),
		})
	}
}

// handleFrame returns the last decoded frame.
func (s *Server) handleFrame() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		s.lastFrame.Lock()
		defer s.lastFrame.Unlock()

		return ctx.JSON(fiber.Map{
			"received_at": s.lastFrame.at,
			"frame":       s.lastFrame.frame,
		})
	}
}

// handleStats returns decode-outcome counters since start-up.
func (s *Server) handleStats() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(s.stats.snapshot())
	}
}

// handleHistory returns every stored frame received since the optional
// ?since=<unix-seconds> query parameter, defaulting to the last hour.
func (s *Server) handleHistory() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		from := time.Now().Add(-time.Hour)
		if raw := ctx.Query("since"); raw != "" {
			secs, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fiber.NewError(http.StatusBadRequest, "invalid since parameter")
			}
			from = time.Unix(secs, 0)
		}

		records, err := s.history.Since(from)
		if err != nil {
			debug.ErrorLog.Printf("webapi: history query: %v", err)
			return fiber.NewError(http.StatusInternalServerError, "history query failed")
		}
		return ctx.JSON(records)
	}
}
