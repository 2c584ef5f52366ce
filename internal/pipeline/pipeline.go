// Package pipeline orchestrates single and batch claim verifications:
// fetch source content, embed claim and source, score, classify, persist.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/fetch"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/metrics"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/score"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/store"
)

// ErrInvalidInput marks malformed URLs or empty claims, rejected before any
// I/O happens
var ErrInvalidInput = errors.New("invalid input")

// Fetcher retrieves source content. Implemented by fetch.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Result, error)
}

// Embedder converts text to a normalized vector. Implemented by embed.Engine.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Verifier coordinates the verification stages. It is safe for concurrent
// use; the shared embedding engine serializes its own initialization.
type Verifier struct {
	fetcher Fetcher
	engine  Embedder
	scorer  *score.Scorer
	store   store.Store
	log     *zap.Logger
}

// NewVerifier wires the verification stages together
func NewVerifier(fetcher Fetcher, engine Embedder, scorer *score.Scorer, st store.Store, log *zap.Logger) *Verifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Verifier{
		fetcher: fetcher,
		engine:  engine,
		scorer:  scorer,
		store:   st,
		log:     log,
	}
}

// Verify runs one claim against its cited source and persists the outcome.
//
// Fetch and embedding failures degrade the record instead of failing the
// call: the only hard errors are invalid input and a failed persistence
// write.
func (v *Verifier) Verify(ctx context.Context, sourceURL, claimText string) (*model.VerificationRecord, error) {
	claimText = strings.TrimSpace(claimText)
	if err := validateInput(sourceURL, claimText); err != nil {
		return nil, err
	}

	rec := &model.VerificationRecord{
		ID:        uuid.NewString(),
		SourceURL: sourceURL,
		ClaimText: claimText,
	}

	res, fetchErr := v.fetcher.Fetch(ctx, sourceURL)
	if fetchErr != nil || res == nil || res.Content == "" {
		rec.Status = model.StatusPending
		rec.Risk = model.RiskNone
		if res != nil && res.FallbackStatus != "" {
			rec.Status = res.FallbackStatus
			rec.Risk = res.FallbackRisk
		}
		v.log.Warn("source fetch failed, persisting degraded record",
			zap.String("url", sourceURL),
			zap.String("status", string(rec.Status)),
			zap.Error(fetchErr))
		return v.persist(ctx, rec)
	}

	rec.SourceContent = res.Content

	claimVec, claimErr := v.engine.Embed(ctx, claimText)
	sourceVec, sourceErr := v.engine.Embed(ctx, res.Content)
	if claimErr != nil || sourceErr != nil {
		// Keep the fetch step's coarse status; never guess a risk from
		// partial data.
		rec.Status = res.FallbackStatus
		if rec.Status == "" {
			rec.Status = model.StatusPending
		}
		rec.Risk = model.RiskNone
		v.log.Warn("embeddings unavailable, persisting degraded record",
			zap.String("url", sourceURL),
			zap.NamedError("claim", claimErr),
			zap.NamedError("source", sourceErr))
		return v.persist(ctx, rec)
	}

	similarity, status, risk := v.scorer.Score(claimVec, sourceVec)
	rec.SimilarityScore = &similarity
	rec.Status = status
	rec.Risk = risk

	return v.persist(ctx, rec)
}

// persist stamps and writes the record. A started verification finishes even
// if the caller has gone away, so the write runs detached from cancellation.
func (v *Verifier) persist(ctx context.Context, rec *model.VerificationRecord) (*model.VerificationRecord, error) {
	rec.VerifiedAt = time.Now().UTC()

	if err := v.store.Put(context.WithoutCancel(ctx), rec); err != nil {
		return nil, fmt.Errorf("persist record: %w", err)
	}

	metrics.RecordVerification(string(rec.Status))
	return rec, nil
}

func validateInput(sourceURL, claimText string) error {
	if claimText == "" {
		return fmt.Errorf("%w: empty claim", ErrInvalidInput)
	}

	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: malformed source URL %q", ErrInvalidInput, sourceURL)
	}
	return nil
}
