package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFingerprint(mutate func(*FeatureSet)) *Fingerprint {
	features := &FeatureSet{
		RMS:              0.3,
		ZeroCrossingRate: 0.05,
		SpectralCentroid: 1200,
		SpectralRolloff:  4500,
		SpectralFlux:     80,
		Tempo:            128,
		RhythmStrength:   0.6,
		Harmonicity:      0.7,
		Inharmonicity:    0.3,
		Energy:           -0.5,
		DynamicRange:     24,
	}
	if mutate != nil {
		mutate(features)
	}
	return &Fingerprint{Features: features, Hash: "abc123", SampleRate: 44100}
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	weights := DefaultWeights()

	total := 0.0
	for _, w := range weights {
		total += w
	}

	assert.InDelta(t, 1.0, total, 1e-9)
	assert.NoError(t, weights.Validate())
}

func TestNewComparatorRejectsBadWeights(t *testing.T) {
	_, err := NewComparator(SimilarityWeights{"tempo": -0.5})
	assert.Error(t, err)

	_, err = NewComparator(SimilarityWeights{"tempo": 0})
	assert.Error(t, err)

	c, err := NewComparator(nil)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestCompareSelfSimilarity(t *testing.T) {
	c, err := NewComparator(nil)
	require.NoError(t, err)

	fp := testFingerprint(nil)
	assert.InDelta(t, 1.0, c.Compare(fp, fp), 1e-9)
}

func TestCompareSymmetry(t *testing.T) {
	c, err := NewComparator(nil)
	require.NoError(t, err)

	a := testFingerprint(nil)
	b := testFingerprint(func(f *FeatureSet) {
		f.Tempo = 90
		f.SpectralCentroid = 2400
		f.Harmonicity = 0.2
	})

	assert.InDelta(t, c.Compare(a, b), c.Compare(b, a), 1e-12)
}

func TestCompareBounds(t *testing.T) {
	c, err := NewComparator(nil)
	require.NoError(t, err)

	pairs := []struct {
		name string
		a, b *Fingerprint
	}{
		{"identical", testFingerprint(nil), testFingerprint(nil)},
		{"different_tempo", testFingerprint(nil), testFingerprint(func(f *FeatureSet) { f.Tempo = 240 })},
		{"negative_energy", testFingerprint(nil), testFingerprint(func(f *FeatureSet) { f.Energy = -10 })},
		{"all_zero", testFingerprint(nil), &Fingerprint{Features: &FeatureSet{}}},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			score := c.Compare(tt.a, tt.b)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		})
	}
}

func TestCompareNilFingerprints(t *testing.T) {
	c, err := NewComparator(nil)
	require.NoError(t, err)

	fp := testFingerprint(nil)
	assert.Zero(t, c.Compare(nil, fp))
	assert.Zero(t, c.Compare(fp, nil))
	assert.Zero(t, c.Compare(nil, nil))
	assert.Zero(t, c.Compare(&Fingerprint{}, fp))
}

func TestCompareNoFeatureOverlap(t *testing.T) {
	c, err := NewComparator(SimilarityWeights{"no_such_feature": 1.0})
	require.NoError(t, err)

	a := testFingerprint(nil)
	b := testFingerprint(nil)
	assert.Zero(t, c.Compare(a, b))
}

func TestCompareSingleFeatureFormula(t *testing.T) {
	c, err := NewComparator(SimilarityWeights{"tempo": 1.0})
	require.NoError(t, err)

	a := testFingerprint(func(f *FeatureSet) { f.Tempo = 120 })
	b := testFingerprint(func(f *FeatureSet) { f.Tempo = 90 })

	// 1 - |120-90| / max(120, 90, 1)
	assert.InDelta(t, 1-30.0/120.0, c.Compare(a, b), 1e-12)
}

func TestCompareDetailed(t *testing.T) {
	c, err := NewComparator(nil)
	require.NoError(t, err)

	a := testFingerprint(nil)
	b := testFingerprint(func(f *FeatureSet) { f.Tempo = 90 })

	result := c.CompareDetailed(a, b)
	require.NotNil(t, result)

	assert.True(t, result.HashMatch)
	assert.InDelta(t, 1.0, result.WeightCoverage, 1e-9)
	assert.Len(t, result.FeatureSimilarities, len(DefaultWeights()))
	assert.InDelta(t, c.Compare(a, b), result.OverallSimilarity, 1e-12)

	for name, sim := range result.FeatureSimilarities {
		assert.GreaterOrEqual(t, sim, 0.0, name)
		assert.LessOrEqual(t, sim, 1.0, name)
	}

	b.Hash = "different"
	assert.False(t, c.CompareDetailed(a, b).HashMatch)
}

func TestCompareDetailedNilSides(t *testing.T) {
	c, err := NewComparator(nil)
	require.NoError(t, err)

	result := c.CompareDetailed(nil, testFingerprint(nil))
	require.NotNil(t, result)
	assert.Zero(t, result.OverallSimilarity)
	assert.False(t, result.HashMatch)
	assert.Zero(t, result.WeightCoverage)
	assert.Empty(t, result.FeatureSimilarities)
}

func TestRankOrdersByDescendingSimilarity(t *testing.T) {
	c, err := NewComparator(nil)
	require.NoError(t, err)

	query := testFingerprint(nil)
	candidates := map[string]*Fingerprint{
		"exact": testFingerprint(nil),
		"close": testFingerprint(func(f *FeatureSet) { f.Tempo = 126 }),
		"far": testFingerprint(func(f *FeatureSet) {
			f.Tempo = 40
			f.SpectralCentroid = 8000
			f.Harmonicity = 0
		}),
		"nil_candidate": nil,
	}

	matches := c.Rank(query, candidates)
	require.Len(t, matches, 4)

	assert.Equal(t, "exact", matches[0].ID)
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-9)
	assert.Equal(t, "close", matches[1].ID)
	assert.Equal(t, "nil_candidate", matches[3].ID)
	assert.Zero(t, matches[3].Similarity)

	for i, m := range matches {
		assert.Equal(t, i+1, m.Rank)
		if i > 0 {
			assert.LessOrEqual(t, m.Similarity, matches[i-1].Similarity)
		}
	}
}

func TestRankBreaksTiesByID(t *testing.T) {
	c, err := NewComparator(nil)
	require.NoError(t, err)

	query := testFingerprint(nil)
	candidates := map[string]*Fingerprint{
		"b": testFingerprint(nil),
		"a": testFingerprint(nil),
		"c": testFingerprint(nil),
	}

	matches := c.Rank(query, candidates)
	require.Len(t, matches, 3)
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "b", matches[1].ID)
	assert.Equal(t, "c", matches[2].ID)
}

func TestWeightsReturnsCopy(t *testing.T) {
	c, err := NewComparator(nil)
	require.NoError(t, err)

	weights := c.Weights()
	weights["tempo"] = 99

	assert.InDelta(t, DefaultWeights()["tempo"], c.Weights()["tempo"], 1e-12)
}
