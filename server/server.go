// Package server exposes the summarization HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sheetwise/summarizer/storage"
	"github.com/sheetwise/summarizer/summarize"
)

// Summarizer is the service behind POST /summarize.
type Summarizer interface {
	Summarize(ctx context.Context, req summarize.Request) (string, error)
}

// Server hosts the HTTP API.
type Server struct {
	engine  *gin.Engine
	svc     Summarizer
	history *storage.HistoryStore // optional
	log     zerolog.Logger
}

// New creates the server with routes and middleware registered.
// history may be nil; the summaries listing then reports empty.
func New(svc Summarizer, history *storage.HistoryStore, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestLogger(logger), CORS())

	s := &Server{
		engine:  engine,
		svc:     svc,
		history: history,
		log:     logger,
	}
	s.registerRoutes()
	return s
}

// Run serves HTTP on addr, blocking until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Msg("summarization service listening")
	return s.engine.Run(addr)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "summarizer",
		})
	})

	s.engine.POST("/summarize", s.handleSummarize)
	s.engine.GET("/summaries", s.handleSummaries)
}

// summarizeRequest is the JSON body of POST /summarize.
type summarizeRequest struct {
	Text        string  `json:"text"`
	Format      string  `json:"format"`
	Temperature float32 `json:"temperature"`
	TopP        float32 `json:"topP"`
	TopK        int32   `json:"topK"`
	Model       string  `json:"model"`
}

func (s *Server) handleSummarize(c *gin.Context) {
	requestID := uuid.NewString()

	var body summarizeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	req := summarize.Request{
		Text:        body.Text,
		Format:      body.Format,
		Temperature: body.Temperature,
		TopP:        body.TopP,
		TopK:        body.TopK,
		Model:       body.Model,
	}

	result, err := s.svc.Summarize(c.Request.Context(), req)
	switch {
	case errors.Is(err, summarize.ErrNoText), errors.Is(err, summarize.ErrNoFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		// Provider errors were already logged per credential; clients only
		// ever see the generic failure message.
		s.log.Error().Err(err).Str("request_id", requestID).Msg("summarization failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Summarization failed"})
	default:
		c.JSON(http.StatusOK, gin.H{"summarized_text": result})
	}
}

func (s *Server) handleSummaries(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusOK, gin.H{"summaries": []storage.SummaryRecord{}})
		return
	}

	records, err := s.history.Recent(c.Request.Context(), 50)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load summary history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	if records == nil {
		records = []storage.SummaryRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"summaries": records})
}
