package model

import "time"

// VerificationStatus is the discrete outcome of comparing a claim with its
// cited source content
type VerificationStatus string

const (
	StatusVerified    VerificationStatus = "verified"    // Source supports the claim
	StatusUnverified  VerificationStatus = "unverified"  // Source does not support the claim
	StatusConflicting VerificationStatus = "conflicting" // Source appears to contradict the claim
	StatusPending     VerificationStatus = "pending"     // No similarity computed yet (fetch or embedding unavailable)
)

// HallucinationRisk estimates how likely a claim is unsupported or
// contradicted by its cited source
type HallucinationRisk string

const (
	RiskLow      HallucinationRisk = "low"
	RiskMedium   HallucinationRisk = "medium"
	RiskHigh     HallucinationRisk = "high"
	RiskVeryHigh HallucinationRisk = "very_high"
	RiskUnknown  HallucinationRisk = "unknown"
	RiskNone     HallucinationRisk = "" // Absent: never guessed from partial data
)

// Severity orders risks from least to most severe. Unknown and absent risks
// sort below low so they never outrank a computed label.
func (r HallucinationRisk) Severity() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	case RiskVeryHigh:
		return 4
	default:
		return 0
	}
}

// VerificationRecord is the unit of persisted truth: one (source URL, claim)
// pair and the outcome of comparing them.
//
// Status and risk are always derived together from the same similarity
// computation. Once VerifiedAt is set the record is immutable except for
// deletion.
type VerificationRecord struct {
	ID              string             `json:"id"`
	SourceURL       string             `json:"source_url"`
	ClaimText       string             `json:"claim_text"`
	SourceContent   string             `json:"source_content,omitempty"`   // Absent when the fetch failed
	SimilarityScore *float64           `json:"similarity_score,omitempty"` // [0,1], absent when embeddings unavailable
	Status          VerificationStatus `json:"verification_status"`
	Risk            HallucinationRisk  `json:"hallucination_risk,omitempty"`
	VerifiedAt      time.Time          `json:"verified_at"`
}

// Degraded reports whether the record was persisted without a computed
// similarity (fetch failure or embedding engine unavailable)
func (r *VerificationRecord) Degraded() bool {
	return r.SimilarityScore == nil
}
