package rpc

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scrublab/scrub/pkg/catalog"
)

// shutdownGrace bounds how long in-flight calls may run after Start's
// context is cancelled.
const shutdownGrace = 10 * time.Second

// ToolExecutor runs a registered tool. The server only dispatches; it never
// inspects tool semantics beyond catalog membership.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, args map[string]any, provider string) (string, error)
}

// Server exposes the dispatch protocol over HTTP.
type Server struct {
	catalog  *catalog.Catalog
	executor ToolExecutor
	engine   *gin.Engine
	srv      *http.Server
}

// NewServer wires the catalog and executor into a gin engine. The engine is
// ready to serve; call Start to bind a listener or Handler to embed it.
func NewServer(cat *catalog.Catalog, exec ToolExecutor) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{catalog: cat, executor: exec, engine: engine}

	engine.POST("/rpc", s.handleRPC)
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return s
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start binds addr and serves until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.srv = &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleRPC(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, Response{Error: &RPCError{
			Code:    CodeMethodNotFound,
			Message: "malformed request body",
		}})
		return
	}

	switch req.Method {
	case MethodListTools:
		c.JSON(http.StatusOK, Response{Result: ListResult{Tools: s.catalog.Specs()}})
	case MethodCallTool:
		s.handleCall(c, req.Params)
	default:
		c.JSON(http.StatusOK, Response{Error: &RPCError{
			Code:    CodeMethodNotFound,
			Message: "unknown method: " + req.Method,
		}})
	}
}

// handleCall resolves the tool before touching the executor: an unknown
// name must never trigger a generation call. The executor gets the
// registered spec's name, not the caller's spelling, so a case-variant
// call still resolves the tool's fixed instruction.
func (s *Server) handleCall(c *gin.Context, params CallParams) {
	name := strings.TrimSpace(params.Name)
	spec, ok := s.catalog.Lookup(name)
	if !ok {
		c.JSON(http.StatusOK, Response{Error: &RPCError{
			Code:    CodeToolNotFound,
			Message: "tool not found: " + name,
		}})
		return
	}

	out, err := s.executor.Execute(c.Request.Context(), spec.Name, params.Arguments, params.Provider)
	if err != nil {
		c.JSON(http.StatusOK, Response{Error: &RPCError{
			Code:    CodeInternalError,
			Message: err.Error(),
		}})
		return
	}

	c.JSON(http.StatusOK, Response{Result: CallResult{SanitizedText: out}})
}
