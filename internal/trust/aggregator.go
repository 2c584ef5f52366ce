package trust

import (
	"math"
	"sort"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/metrics"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
)

// Aggregator reduces the verification store plus the known-sources registry
// into ranked per-domain trust profiles. It is read-only and recomputes from
// scratch on every call.
type Aggregator struct {
	cfg model.TrustConfig
}

// NewAggregator creates an aggregator with the given trust policy
func NewAggregator(cfg model.TrustConfig) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Aggregate merges registry entries and verification records into trust
// profiles sorted by citation count descending (stable, so encounter order
// breaks ties deterministically).
func (a *Aggregator) Aggregate(records []*model.VerificationRecord, known []model.KnownSource) []model.DomainTrustProfile {
	contribs := make([]model.Contribution, 0, len(known)+len(records))
	contribs = append(contribs, a.registryContributions(known)...)
	contribs = append(contribs, recordContributions(records)...)

	profiles := a.reduce(contribs)
	metrics.TrustAggregationsTotal.Inc()
	return profiles
}

// registryContributions maps known-sources entries into the common
// contribution shape. Entries without an explicit trust score contribute the
// configured baseline.
func (a *Aggregator) registryContributions(known []model.KnownSource) []model.Contribution {
	out := make([]model.Contribution, 0, len(known))
	for _, src := range known {
		weight := src.AvgCitations
		if weight < 1 {
			weight = 1
		}

		score := float64(a.cfg.BaselineScore)
		if src.TrustScore != nil {
			score = float64(*src.TrustScore)
		}

		risk := src.Risk
		if risk == model.RiskNone {
			risk = model.RiskUnknown
		}

		out = append(out, model.Contribution{
			Domain:   src.Domain,
			Weight:   weight,
			Score:    &score,
			Risk:     risk,
			Verified: src.Verified,
		})
	}
	return out
}

// recordContributions maps verification records into contributions.
// Records whose source URL does not parse are skipped, not errored.
func recordContributions(records []*model.VerificationRecord) []model.Contribution {
	out := make([]model.Contribution, 0, len(records))
	for _, rec := range records {
		domain, err := DomainOf(rec.SourceURL)
		if err != nil {
			continue
		}

		c := model.Contribution{
			Domain:   domain,
			Weight:   1,
			Risk:     rec.Risk,
			Verified: rec.Status == model.StatusVerified,
		}
		if rec.SimilarityScore != nil {
			score := *rec.SimilarityScore * 100
			c.Score = &score
		}
		out = append(out, c)
	}
	return out
}

type bucket struct {
	domain    string
	citations int
	verified  bool
	scoreSum  float64
	scoreN    int
	highVotes int
	lowVotes  int
	order     int
}

// reduce folds contributions into one profile per domain
func (a *Aggregator) reduce(contribs []model.Contribution) []model.DomainTrustProfile {
	buckets := make(map[string]*bucket)
	var ordered []*bucket

	for _, c := range contribs {
		b, ok := buckets[c.Domain]
		if !ok {
			b = &bucket{domain: c.Domain, order: len(ordered)}
			buckets[c.Domain] = b
			ordered = append(ordered, b)
		}

		b.citations += c.Weight
		b.verified = b.verified || c.Verified
		if c.Score != nil {
			b.scoreSum += *c.Score
			b.scoreN++
		}
		switch c.Risk {
		case model.RiskHigh, model.RiskVeryHigh:
			b.highVotes++
		case model.RiskLow:
			b.lowVotes++
		}
		// medium, unknown, and absent labels vote for neither side
	}

	profiles := make([]model.DomainTrustProfile, len(ordered))
	for i, b := range ordered {
		score := a.cfg.NeutralScore
		if b.scoreN > 0 {
			score = int(math.Round(b.scoreSum / float64(b.scoreN)))
		}

		profiles[i] = model.DomainTrustProfile{
			Domain:        b.domain,
			CitationCount: b.citations,
			Verified:      b.verified,
			TrustScore:    score,
			Risk:          voteRisk(b.highVotes, b.lowVotes),
		}
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].CitationCount > profiles[j].CitationCount
	})
	return profiles
}

// voteRisk applies the majority vote. Ties, including both-zero, land on
// medium: ambiguous domains lean to the middle rather than either extreme.
func voteRisk(high, low int) model.HallucinationRisk {
	switch {
	case high > low:
		return model.RiskHigh
	case low > high:
		return model.RiskLow
	default:
		return model.RiskMedium
	}
}
