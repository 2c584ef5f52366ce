package model

// DomainTrustProfile is the aggregated reputation signal for all citations
// originating from one web domain. Profiles are derived on every read from
// the verification store plus the known-sources registry and are never
// persisted as source-of-truth.
type DomainTrustProfile struct {
	Domain        string            `json:"domain"`         // Normalized: lowercased, www. stripped
	CitationCount int               `json:"citation_count"` // Total contributing observations
	Verified      bool              `json:"verified"`       // True if any observation verified
	TrustScore    int               `json:"trust_score"`    // 0-100, mean of contributing scores
	Risk          HallucinationRisk `json:"hallucination_risk"`
}

// KnownSource is one entry of the manually maintained known-sources registry
type KnownSource struct {
	Domain       string            `json:"domain" yaml:"domain"`
	AvgCitations int               `json:"avg_citations,omitempty" yaml:"avg_citations,omitempty"`
	Verified     bool              `json:"verified" yaml:"verified"`
	TrustScore   *int              `json:"trust_score,omitempty" yaml:"trust_score,omitempty"`
	Risk         HallucinationRisk `json:"hallucination_risk,omitempty" yaml:"hallucination_risk,omitempty"`
}

// Contribution is the common shape both trust inputs (registry entries and
// verification records) are mapped into before reduction, keeping the
// aggregation itself source-agnostic.
type Contribution struct {
	Domain   string
	Weight   int               // Citation observations this contribution represents (>= 1)
	Score    *float64          // 0-100, nil when no computed score exists
	Risk     HallucinationRisk // RiskNone when no label exists
	Verified bool
}
