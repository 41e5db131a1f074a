// Package api exposes the pipeline over HTTP: health, ingest and query.
// It is a thin caller; validation beyond request shape and error-to-status
// mapping lives in the pipeline.
package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"advisor-rag/internal/embedder"
	"advisor-rag/internal/generator"
	"advisor-rag/internal/pipeline"
	"advisor-rag/internal/schema"
)

// Server routes HTTP requests to a pipeline.
type Server struct {
	pipeline *pipeline.Pipeline
	router   *gin.Engine
}

// New builds the router around a constructed pipeline.
func New(p *pipeline.Pipeline) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{pipeline: p, router: router}
	router.GET("/healthz", s.health)
	router.POST("/ingest", s.ingest)
	router.POST("/query", s.query)
	return s
}

// Handler exposes the router for serving and for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	log.Info().Str("addr", addr).Msg("Serving HTTP")
	return s.router.Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ingest(c *gin.Context) {
	var chunks []schema.Chunk
	if err := c.ShouldBindJSON(&chunks); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chunk list: " + err.Error()})
		return
	}
	count, err := s.pipeline.Ingest(c.Request.Context(), chunks)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingested": count})
}

func (s *Server) query(c *gin.Context) {
	var req schema.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query request: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}
	resp, err := s.pipeline.Query(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// statusFor maps provider outages to 502 and everything else to 500;
// the core never retries, so the caller decides what to do next.
func statusFor(err error) int {
	if errors.Is(err, embedder.ErrUnavailable) || errors.Is(err, generator.ErrUnavailable) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)
		c.Next()
		log.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}
