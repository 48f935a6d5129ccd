package scan

import (
	"github.com/montanaflynn/stats"

	"github.com/songdna/songdna/pkg/audio/fingerprint"
)

// Report summarizes the similarity distribution of one scan
type Report struct {
	Candidates       int     `json:"candidates"`
	AboveThreshold   int     `json:"above_threshold"`
	MeanSimilarity   float64 `json:"mean_similarity"`
	MedianSimilarity float64 `json:"median_similarity"`
	StdDevSimilarity float64 `json:"stddev_similarity"`
	BestSimilarity   float64 `json:"best_similarity"`
	QueryTempo       float64 `json:"query_tempo"`
	MeanTempo        float64 `json:"mean_tempo"`
}

// buildReport aggregates match statistics. Statistics over an empty match
// set are reported as 0.
func buildReport(query *fingerprint.Fingerprint, matches []fingerprint.Match, threshold float64) *Report {
	report := &Report{Candidates: len(matches)}

	if query != nil && query.Features != nil {
		report.QueryTempo = query.Features.Tempo
	}

	if len(matches) == 0 {
		return report
	}

	similarities := make([]float64, 0, len(matches))
	tempos := make([]float64, 0, len(matches))

	for _, m := range matches {
		similarities = append(similarities, m.Similarity)
		if m.Similarity >= threshold {
			report.AboveThreshold++
		}
		if m.Fingerprint != nil && m.Fingerprint.Features != nil {
			tempos = append(tempos, m.Fingerprint.Features.Tempo)
		}
	}

	report.BestSimilarity = matches[0].Similarity
	report.MeanSimilarity, _ = stats.Mean(similarities)
	report.MedianSimilarity, _ = stats.Median(similarities)
	report.StdDevSimilarity, _ = stats.StandardDeviation(similarities)

	if len(tempos) > 0 {
		report.MeanTempo, _ = stats.Mean(tempos)
	}

	return report
}
