// Package api exposes the verification pipeline and trust aggregation over
// HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/pipeline"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/store"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/trust"
)

// Server routes HTTP requests to the verification pipeline and the domain
// trust aggregator.
type Server struct {
	verifier   *pipeline.Verifier
	store      store.Store
	registry   *trust.Registry
	aggregator *trust.Aggregator
	cfg        model.ServerConfig
	log        *zap.Logger

	httpSrv *http.Server
}

// NewServer builds the server; registry may be nil when no known-sources
// file is configured.
func NewServer(v *pipeline.Verifier, st store.Store, reg *trust.Registry, agg *trust.Aggregator, cfg model.ServerConfig, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		verifier:   v,
		store:      st,
		registry:   reg,
		aggregator: agg,
		cfg:        cfg,
		log:        log,
	}
}

// Router builds the gin engine with all routes attached
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/verify", s.handleVerify)
		v1.POST("/verify/batch", s.handleVerifyBatch)
		v1.POST("/verify/batch/stream", s.handleVerifyBatchStream)
		v1.GET("/verifications/:id", s.handleGetVerification)
		v1.DELETE("/verifications/:id", s.handleDeleteVerification)
		v1.GET("/trust-profiles", s.handleTrustProfiles)
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.cfg.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.log.Info("shutting down http server")
	return s.httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
