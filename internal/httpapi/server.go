package httpapi

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/chess-live-server/internal/obslog"
)

// Stats is the source of the counters exposed on /stats. The hub implements
// it.
type Stats interface {
	ClientCount() int
	SessionCount() int
}

// Server exposes liveness and counters on a side listener, away from the
// websocket port.
type Server struct {
	stats Stats
	srv   *fasthttp.Server
}

// New builds the side listener around a stats source.
func New(stats Stats) *Server {
	s := &Server{stats: stats}
	s.srv = &fasthttp.Server{
		Handler:          s.route,
		Name:             "chess-live-server",
		DisableKeepalive: false,
	}
	return s
}

// ListenAndServe blocks serving addr until Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	obslog.L().Info("httpapi_listen", zap.String("addr", addr))
	return s.srv.ListenAndServe(addr)
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown() error {
	return s.srv.Shutdown()
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/healthz":
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	case "/stats":
		s.handleStats(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

func (s *Server) handleStats(ctx *fasthttp.RequestCtx) {
	body, err := json.Marshal(map[string]int{
		"connectedClients": s.stats.ClientCount(),
		"activeSessions":   s.stats.SessionCount(),
	})
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json; charset=utf-8")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(body)
}
