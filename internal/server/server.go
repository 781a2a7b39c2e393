// Package server exposes the action runner over MCP and a websocket
// invocation endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/desktop-invoke/internal/action"
	"github.com/mj1618/desktop-invoke/internal/config"
	"github.com/mj1618/desktop-invoke/internal/output"
	"github.com/mj1618/desktop-invoke/internal/version"
	"github.com/sirupsen/logrus"
)

// Config holds server settings.
type Config struct {
	Transport string
	Port      int
	Path      string
	// Timeout bounds one invocation; 0 means no limit.
	Timeout time.Duration
}

// Server runs command records one at a time.
type Server struct {
	cfg    Config
	runner *action.Runner
	log    logrus.FieldLogger

	runMu sync.Mutex
	mcp   *mcpserver.MCPServer
}

// New creates a server around runner. The runner's Fatal hook should
// return rather than exit; contract violations are then reported to the
// caller as failed invocations.
func New(runner *action.Runner, cfg Config, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{cfg: cfg, runner: runner, log: log}
	s.mcp = mcpserver.NewMCPServer("desktop-invoke", version.Version)
	s.registerTools()
	return s
}

// Perform decodes and runs record. The returned error is set for decode
// failures and contract violations; reported action failures only mark the
// result as not OK.
func (s *Server) Perform(ctx context.Context, record map[string]any) (output.ActionResult, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	a, res, err := s.runner.RunCommand(ctx, record)
	result := output.NewActionResult(record, a, res, err)
	if err != nil {
		s.log.WithError(err).WithField("kind", result.Action).Warn("invocation rejected")
	}
	return result, err
}

// Serve blocks serving the configured transport until ctx is done or the
// transport fails.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	switch s.cfg.Transport {
	case config.TransportStdio:
		return mcpserver.ServeStdio(s.mcp)
	case config.TransportHTTP:
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		go func() {
			<-ctx.Done()
			_ = httpServer.Shutdown(context.Background())
		}()
		s.log.WithField("addr", addr).Info("MCP server listening")
		return httpServer.Start(addr)
	case config.TransportWebsocket:
		srv := &http.Server{Addr: addr, Handler: s.Handler()}
		go func() {
			<-ctx.Done()
			_ = srv.Close()
		}()
		s.log.WithFields(logrus.Fields{"addr": addr, "path": s.path()}).Info("websocket server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported transport: %s (use %s, %s, or %s)",
			s.cfg.Transport, config.TransportStdio, config.TransportHTTP, config.TransportWebsocket)
	}
}

func (s *Server) path() string {
	if s.cfg.Path == "" {
		return "/invoke"
	}
	return s.cfg.Path
}

// Handler routes the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path(), s.handleWebsocket)
	return mux
}
