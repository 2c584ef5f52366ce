package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/pipeline"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/store"
)

type verifyRequest struct {
	URL   string `json:"url" binding:"required"`
	Claim string `json:"claim" binding:"required"`
}

type batchRequest struct {
	Items []pipeline.BatchItem `json:"items" binding:"required"`
}

func (s *Server) handleVerify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := s.verifier.Verify(c.Request.Context(), req.URL, req.Claim)
	if err != nil {
		if errors.Is(err, pipeline.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.log.Error("verify failed", zap.String("url", req.URL), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleVerifyBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty batch"})
		return
	}

	result, err := s.verifier.VerifyBatch(c.Request.Context(), req.Items, nil)
	if err != nil && result.CompletedCount == 0 {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleVerifyBatchStream runs the batch while emitting progress as
// server-sent events, finishing with the full result:
//
//	event: progress  data: {"percent": 33}
//	event: result    data: {...BatchResult...}
func (s *Server) handleVerifyBatchStream(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty batch"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	progress := make(chan int)
	type batchOutcome struct {
		result *pipeline.BatchResult
		err    error
	}
	done := make(chan batchOutcome, 1)
	go func() {
		result, err := s.verifier.VerifyBatch(c.Request.Context(), req.Items, progress)
		done <- batchOutcome{result, err}
	}()

	for p := range progress {
		c.SSEvent("progress", gin.H{"percent": p})
		c.Writer.Flush()
	}

	outcome := <-done
	if outcome.err != nil && outcome.result.CompletedCount == 0 {
		c.SSEvent("error", gin.H{"error": outcome.err.Error()})
		c.Writer.Flush()
		return
	}
	c.SSEvent("result", outcome.result)
	c.Writer.Flush()
}

func (s *Server) handleGetVerification(c *gin.Context) {
	rec, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		s.log.Error("get record failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleDeleteVerification(c *gin.Context) {
	if err := s.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		s.log.Error("delete record failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleTrustProfiles(c *gin.Context) {
	records, err := s.store.List(c.Request.Context())
	if err != nil {
		s.log.Error("list records failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing verifications failed"})
		return
	}

	var known []model.KnownSource
	if s.registry != nil {
		known, err = s.registry.Load()
		if err != nil {
			// Profiles from verification records alone are still useful.
			s.log.Warn("known-sources registry unreadable", zap.Error(err))
		}
	}

	profiles := s.aggregator.Aggregate(records, known)
	c.JSON(http.StatusOK, gin.H{"profiles": profiles, "count": len(profiles)})
}
