package fingerprint

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/songdna/songdna/pkg/logging"
)

// SimilarityWeights maps feature names (FeatureSet JSON tags) to
// non-negative weights. It defines which features participate in a
// comparison and how strongly; it is configuration, constant for the
// duration of one comparison call.
type SimilarityWeights map[string]float64

// DefaultWeights returns the standard weight table. The weights sum to 1.
func DefaultWeights() SimilarityWeights {
	return SimilarityWeights{
		"spectral_centroid": 0.15,
		"spectral_rolloff":  0.10,
		"spectral_flux":     0.10,
		"tempo":             0.20,
		"rhythm_strength":   0.15,
		"harmonicity":       0.10,
		"energy":            0.10,
		"dynamic_range":     0.10,
	}
}

// Validate rejects negative weights and weight tables with no mass
func (w SimilarityWeights) Validate() error {
	total := 0.0
	for name, weight := range w {
		if weight < 0 {
			return fmt.Errorf("weight for %q is negative: %f", name, weight)
		}
		total += weight
	}
	if total == 0 {
		return fmt.Errorf("similarity weights carry no mass")
	}
	return nil
}

// SimilarityResult is the detailed outcome of one fingerprint comparison
type SimilarityResult struct {
	OverallSimilarity   float64            `json:"overall_similarity"` // 0.0-1.0
	FeatureSimilarities map[string]float64 `json:"feature_similarities"`
	HashMatch           bool               `json:"hash_match"`
	WeightCoverage      float64            `json:"weight_coverage"` // applied / configured weight mass
	ProcessingTime      time.Duration      `json:"processing_time"`
}

// Match pairs a candidate fingerprint with its similarity to a query,
// for ranked search results.
type Match struct {
	ID          string       `json:"id"`
	Fingerprint *Fingerprint `json:"fingerprint"`
	Similarity  float64      `json:"similarity"`
	Rank        int          `json:"rank"`
}

// Comparator scores similarity between two fingerprints as a weighted
// normalized distance in [0, 1]. The metric is feature-relative: each
// feature difference is normalized by the larger magnitude of the pair
// (floored at 1), so tracks of wildly different scale are not penalized
// disproportionately for features near zero.
type Comparator struct {
	weights SimilarityWeights
	logger  logging.Logger
}

// NewComparator creates a comparator with the given weights. Nil weights
// select the default table.
func NewComparator(weights SimilarityWeights) (*Comparator, error) {
	if weights == nil {
		weights = DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid similarity weights: %w", err)
	}

	return &Comparator{
		weights: weights,
		logger: logging.WithFields(logging.Fields{
			"component": "fingerprint_comparator",
		}),
	}, nil
}

// Compare returns the overall similarity score in [0, 1]; higher is more
// similar. A nil fingerprint on either side, or a weight table that
// overlaps no features, yields 0.
func (c *Comparator) Compare(a, b *Fingerprint) float64 {
	similarity, totalWeight := c.accumulate(a, b, nil)
	if totalWeight == 0 {
		return 0
	}
	return similarity / totalWeight
}

// CompareDetailed returns the overall score plus the per-feature
// similarity breakdown.
func (c *Comparator) CompareDetailed(a, b *Fingerprint) *SimilarityResult {
	start := time.Now()

	perFeature := make(map[string]float64)
	similarity, totalWeight := c.accumulate(a, b, perFeature)

	result := &SimilarityResult{
		FeatureSimilarities: perFeature,
		ProcessingTime:      time.Since(start),
	}

	if a != nil && b != nil {
		result.HashMatch = a.Hash == b.Hash
	}

	mass := make([]float64, 0, len(c.weights))
	for _, w := range c.weights {
		mass = append(mass, w)
	}
	if configured := floats.Sum(mass); configured > 0 {
		result.WeightCoverage = totalWeight / configured
	}

	if totalWeight > 0 {
		result.OverallSimilarity = similarity / totalWeight
	}

	return result
}

// accumulate applies the weight table over the features both fingerprints
// carry. Each feature scores 1 - |a-b| / max(|a|, |b|, 1); the return is
// the weighted sum and the weight mass actually applied.
func (c *Comparator) accumulate(a, b *Fingerprint, perFeature map[string]float64) (float64, float64) {
	if a == nil || b == nil || a.Features == nil || b.Features == nil {
		return 0, 0
	}

	names := make([]string, 0, len(c.weights))
	for name := range c.weights {
		names = append(names, name)
	}
	sort.Strings(names)

	similarity := 0.0
	totalWeight := 0.0

	for _, name := range names {
		weight := c.weights[name]
		if weight == 0 {
			continue
		}

		av, okA := a.Features.Value(name)
		bv, okB := b.Features.Value(name)
		if !okA || !okB {
			continue
		}

		featureSim := 1 - math.Abs(av-bv)/math.Max(math.Max(math.Abs(av), math.Abs(bv)), 1)
		similarity += featureSim * weight
		totalWeight += weight

		if perFeature != nil {
			perFeature[name] = featureSim
		}
	}

	return similarity, totalWeight
}

// Rank scores every candidate against the query and returns matches in
// descending similarity order with 1-based ranks. Nil candidates score 0
// and sort last.
func (c *Comparator) Rank(query *Fingerprint, candidates map[string]*Fingerprint) []Match {
	matches := make([]Match, 0, len(candidates))

	for id, candidate := range candidates {
		matches = append(matches, Match{
			ID:          id,
			Fingerprint: candidate,
			Similarity:  c.Compare(query, candidate),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].ID < matches[j].ID
	})

	for i := range matches {
		matches[i].Rank = i + 1
	}

	return matches
}

// Weights returns a copy of the comparator's weight table
func (c *Comparator) Weights() SimilarityWeights {
	out := make(SimilarityWeights, len(c.weights))
	for name, weight := range c.weights {
		out[name] = weight
	}
	return out
}
