// Package server exposes the seen gate and the link classifier over a local
// HTTP API for hosts that cannot link the library directly.
//
// The daemon never presents anything itself: /v1/messages/decide answers
// with the decision, and the caller reports the message shown through
// /v1/messages/:id/shown once its surface is visible. Taps inside that
// surface come back through /v1/messages/navigate.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/runnerr0/inkgate/internal/deeplink"
	"github.com/runnerr0/inkgate/internal/interceptor"
	"github.com/runnerr0/inkgate/internal/linkscan"
	"github.com/runnerr0/inkgate/internal/messaging"
	"github.com/runnerr0/inkgate/internal/seen"
)

// Options configures a Server.
type Options struct {
	MaxRequestSize int64
	Logger         *slog.Logger
	Adapter        []messaging.Option
}

// Server is the inkgate HTTP daemon.
type Server struct {
	gate    seen.Gate
	adapter *messaging.Adapter
	engine  *gin.Engine
	logger  *slog.Logger
	maxBody int64
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// New builds the daemon's routes around gate.
func New(gate seen.Gate, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	adapterOpts := append([]messaging.Option{messaging.WithLogger(logger)}, opts.Adapter...)

	s := &Server{
		gate:    gate,
		adapter: messaging.NewAdapter(gate, headless{}, adapterOpts...),
		engine:  gin.New(),
		logger:  logger.With("component", "server"),
		maxBody: opts.MaxRequestSize,
	}

	s.engine.Use(gin.Recovery(), s.requestLogger(), s.limitBody())

	s.engine.GET("/healthz", s.handleHealth)
	v1 := s.engine.Group("/v1")
	v1.GET("/messages/:id", s.handleCanShow)
	v1.POST("/messages/:id/shown", s.handleMarkShown)
	v1.POST("/messages/decide", s.handleDecide)
	v1.POST("/messages/navigate", s.handleNavigate)
	v1.POST("/links/classify", s.handleClassify)
	v1.POST("/deeplinks/route", s.handleRoute)

	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("daemon listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("daemon stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.maxBody > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBody)
		}
		c.Next()
	}
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCanShow(c *gin.Context) {
	id := c.Param("id")
	c.JSON(http.StatusOK, gin.H{
		"id":       id,
		"can_show": s.gate.CanShow(c.Request.Context(), id),
	})
}

func (s *Server) handleMarkShown(c *gin.Context) {
	id := c.Param("id")
	s.gate.MarkShown(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"id": id, "marked": true})
}

type decideResponse struct {
	Decision  messaging.ShowDecision `json:"decision"`
	MessageID string                 `json:"message_id,omitempty"`
	Link      string                 `json:"link,omitempty"`
}

func (s *Server) handleDecide(c *gin.Context) {
	var payload messaging.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, fmt.Errorf("decode payload: %w", err))
		return
	}

	d, surface := s.adapter.Decide(c.Request.Context(), payload)
	resp := decideResponse{Decision: d, MessageID: payload.MessageID()}
	if surface != nil {
		resp.Link = surface.Link().String()
	}
	c.JSON(http.StatusOK, resp)
}

type navigateRequest struct {
	URL          string `json:"url" binding:"required"`
	MILink       string `json:"mi_link"`
	MessageID    string `json:"message_id"`
	InAppBrowser bool   `json:"in_app_browser"`
}

func (s *Server) handleNavigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := url.Parse(req.URL)
	if err != nil {
		badRequest(c, fmt.Errorf("parse url: %w", err))
		return
	}
	s.adapter.ReportNavigation(c.Request.Context(), req.MILink, req.MessageID, u, req.InAppBrowser)
	c.JSON(http.StatusOK, linkscan.Describe(u, req.InAppBrowser))
}

type classifyRequest struct {
	URL          string `json:"url" binding:"required"`
	InAppBrowser bool   `json:"in_app_browser"`
}

func (s *Server) handleClassify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := url.Parse(req.URL)
	if err != nil {
		badRequest(c, fmt.Errorf("parse url: %w", err))
		return
	}
	c.JSON(http.StatusOK, linkscan.Describe(u, req.InAppBrowser))
}

type routeRequest struct {
	URL string `json:"url" binding:"required"`
}

type routeResponse struct {
	Matched  bool               `json:"matched"`
	Deeplink *deeplink.Deeplink `json:"deeplink,omitempty"`
}

func (s *Server) handleRoute(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := url.Parse(req.URL)
	if err != nil {
		badRequest(c, fmt.Errorf("parse url: %w", err))
		return
	}
	d, ok := deeplink.Route(u)
	if !ok {
		c.JSON(http.StatusOK, routeResponse{})
		return
	}
	c.JSON(http.StatusOK, routeResponse{Matched: true, Deeplink: &d})
}

// headless is the Platform for surfaces decided over HTTP; presentation
// happens in the calling process.
type headless struct{}

func (headless) Present(*interceptor.Surface)                     {}
func (headless) Teardown(*interceptor.Surface)                    {}
func (headless) Load(*interceptor.Surface, *url.URL)              {}
func (headless) Reveal(*interceptor.Surface)                      {}
func (headless) SetCloseButtonVisible(*interceptor.Surface, bool) {}
func (headless) OpenURL(*url.URL)                                 {}
