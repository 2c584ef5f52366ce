package score

import (
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
)

// Scorer maps a claim/source embedding pair to a similarity score, a
// verification status, and a hallucination risk category
type Scorer struct {
	thresholds model.ThresholdConfig
}

// NewScorer creates a scorer with the given similarity thresholds
func NewScorer(thresholds model.ThresholdConfig) *Scorer {
	return &Scorer{thresholds: thresholds}
}

// Similarity computes the dot product of two L2-normalized vectors, clamped
// to [0,1]. For normalized vectors this equals cosine similarity.
func (s *Scorer) Similarity(claimVec, sourceVec []float32) float64 {
	n := len(claimVec)
	if len(sourceVec) < n {
		n = len(sourceVec)
	}

	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(claimVec[i]) * float64(sourceVec[i])
	}

	if dot < 0 {
		return 0
	}
	if dot > 1 {
		return 1
	}
	return dot
}

// Classify applies the thresholds in order, highest similarity first
func (s *Scorer) Classify(similarity float64) (model.VerificationStatus, model.HallucinationRisk) {
	switch {
	case similarity >= s.thresholds.Strong:
		return model.StatusVerified, model.RiskLow
	case similarity >= s.thresholds.Moderate:
		return model.StatusVerified, model.RiskMedium
	case similarity >= s.thresholds.Weak:
		return model.StatusUnverified, model.RiskHigh
	default:
		return model.StatusConflicting, model.RiskVeryHigh
	}
}

// Score computes similarity and classification in one step
func (s *Scorer) Score(claimVec, sourceVec []float32) (float64, model.VerificationStatus, model.HallucinationRisk) {
	similarity := s.Similarity(claimVec, sourceVec)
	status, risk := s.Classify(similarity)
	return similarity, status, risk
}
