// Package web exposes the HTTP command and status API.
package web

import (
	"context"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sweeney/aircon-controller/internal/control"
	"github.com/sweeney/aircon-controller/internal/logger"
	"github.com/sweeney/aircon-controller/internal/shared"
	"github.com/sweeney/aircon-controller/internal/status"
)

// Server serves the status snapshot and accepts command codes. Its handlers
// are the network-facing writer of the shared command field.
type Server struct {
	httpServer *http.Server
	st         *shared.State
	collector  *status.Collector
	log        *logger.Logger
}

// New creates a Server. ratePerSec/burst bound requests per client IP.
func New(addr string, st *shared.State, collector *status.Collector, ratePerSec float64, burst int, log *logger.Logger) *Server {
	s := &Server{st: st, collector: collector, log: log}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RateLimiter(rate.Limit(ratePerSec), burst))

	r.GET("/status", s.handleStatus)
	// The original remote accepts the command as a query parameter on either
	// method, so both are registered.
	r.GET("/command", s.handleCommand)
	r.POST("/command", s.handleCommand)

	s.httpServer = &http.Server{Addr: addr, Handler: r}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleStatus(c *gin.Context) {
	snap := s.collector.Snapshot()
	c.Data(http.StatusOK, "application/json", status.FormatJSON(snap))
}

// handleCommand interprets the single-character command code from the "c"
// query parameter. Unrecognized codes are rejected with no side effect.
func (s *Server) handleCommand(c *gin.Context) {
	code := c.Query("c")
	if len(code) != 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "command must be a single character"})
		return
	}

	cmd, ok := control.ParseCommand(code[0])
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown command code"})
		return
	}

	s.st.SetCommand(cmd)
	if s.log != nil {
		s.log.Infow("command accepted", "code", code, "command", cmd.String())
	}
	c.JSON(http.StatusOK, gin.H{"command": cmd.String()})
}
