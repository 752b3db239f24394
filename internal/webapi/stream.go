package webapi

import (
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"github.com/womat/debug"

	"github.com/womat/bpc/pkg/bpc"
)

// hub fans every decoded frame out to connected /stream subscribers,
// the same "decoded-frame fan-out" role gorilla/websocket plays in the
// serebryakov7-j1708-stats project this is grounded on.
type hub struct {
	upgrade websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan bpc.Frame

	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	frames     chan bpc.Frame
	done       chan struct{}
}

func newHub() *hub {
	return &hub{
		upgrade:    websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024, CheckOrigin: func(*http.Request) bool { return true }},
		clients:    make(map[*websocket.Conn]chan bpc.Frame),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		frames:     make(chan bpc.Frame, 16),
		done:       make(chan struct{}),
	}
}

func (h *hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = make(chan bpc.Frame, 8)
			ch := h.clients[conn]
			h.mu.Unlock()
			go h.writeLoop(conn, ch)

		case conn := <-h.unregister:
			h.mu.Lock()
			if ch, ok := h.clients[conn]; ok {
				close(ch)
				delete(h.clients, conn)
			}
			h.mu.Unlock()

		case f := <-h.frames:
			h.mu.Lock()
			for _, ch := range h.clients {
				select {
				case ch <- f:
				default:
					// A slow subscriber drops frames rather than stalling
					// the broadcast for everyone else.
				}
			}
			h.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

func (h *hub) writeLoop(conn *websocket.Conn, ch chan bpc.Frame) {
	for f := range ch {
		if err := conn.WriteJSON(f); err != nil {
			debug.ErrorLog.Printf("webapi: stream write: %v", err)
			h.unregister <- conn
			_ = conn.Close()
			return
		}
	}
}

func (h *hub) broadcast(f bpc.Frame) {
	select {
	case h.frames <- f:
	default:
	}
}

func (h *hub) close() {
	close(h.done)
}

// handleStream upgrades the request to a WebSocket and streams every
// decoded frame to it until the client disconnects. gorilla/websocket
// upgrades a *http.Request/http.ResponseWriter pair, not fiber's native
// fasthttp.RequestCtx, so the handler is bridged through
// fasthttpadaptor exactly as fasthttp's own docs recommend for wrapping
// net/http-only libraries.
func (s *Server) handleStream() fiber.Handler {
	upgrade := func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.hub.upgrade.Upgrade(w, r, nil)
		if err != nil {
			debug.ErrorLog.Printf("webapi: stream upgrade: %v", err)
			return
		}
		s.hub.register <- conn
	}
	handler := fasthttpadaptor.NewFastHTTPHandlerFunc(upgrade)

	return func(ctx *fiber.Ctx) error {
		handler(ctx.Context())
		return nil
	}
}
