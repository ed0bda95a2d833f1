package service

import (
	"testing"

	"carbonlens/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeScoresMinMax(t *testing.T) {
	cands := []models.Candidate{
		{RawScore: 10},
		{RawScore: 55},
		{RawScore: 100},
	}

	NormalizeScores(cands)

	assert.Equal(t, 0.0, cands[0].Score)
	assert.Equal(t, 1.0, cands[2].Score)
	for _, c := range cands {
		assert.GreaterOrEqual(t, c.Score, 0.0)
		assert.LessOrEqual(t, c.Score, 1.0)
	}
	assert.InDelta(t, 0.5, cands[1].Score, 0.001)
}

func TestNormalizeScoresSingleCandidate(t *testing.T) {
	cands := []models.Candidate{{RawScore: 42}}
	NormalizeScores(cands)
	assert.Equal(t, 1.0, cands[0].Score)
}

func TestNormalizeScoresEmptyBatch(t *testing.T) {
	assert.NotPanics(t, func() {
		NormalizeScores(nil)
	})
}

func TestNormalizeScoresAllEqual(t *testing.T) {
	cands := []models.Candidate{{RawScore: 5}, {RawScore: 5}, {RawScore: 5}}
	NormalizeScores(cands)
	for _, c := range cands {
		assert.Equal(t, 1.0, c.Score)
	}
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float64{0, 0}, []float64{1, 1}))
	assert.Equal(t, 0.0, cosineSimilarity([]float64{1}, []float64{1, 2}))
}

func TestMMRRerankDropsNearDuplicates(t *testing.T) {
	cands := []models.Candidate{
		{Score: 1.0, FeatureVec: []float64{1, 0, 0}, Text: "a"},
		{Score: 0.9, FeatureVec: []float64{0.999, 0.01, 0}, Text: "a-dup"},
		{Score: 0.5, FeatureVec: []float64{0, 1, 0}, Text: "b"},
	}

	selected := MMRRerank(cands, 0.7, 0.93)

	require.Len(t, selected, 2)
	assert.Equal(t, "a", selected[0].Text)
	assert.Equal(t, "b", selected[1].Text)

	// No pair of selected candidates may sit at or above the duplicate
	// threshold.
	for i := range selected {
		for j := i + 1; j < len(selected); j++ {
			sim := cosineSimilarity(selected[i].FeatureVec, selected[j].FeatureVec)
			assert.Less(t, sim, 0.93)
		}
	}
}

func TestMMRRerankStartsWithHighestScore(t *testing.T) {
	cands := []models.Candidate{
		{Score: 0.2, FeatureVec: []float64{1, 0}, Text: "low"},
		{Score: 0.9, FeatureVec: []float64{0, 1}, Text: "high"},
	}

	selected := MMRRerank(cands, 0.7, 0.93)

	require.NotEmpty(t, selected)
	assert.Equal(t, "high", selected[0].Text)
}

func TestMMRRerankDeterministic(t *testing.T) {
	build := func() []models.Candidate {
		return []models.Candidate{
			{Score: 0.8, FeatureVec: []float64{1, 0, 0}, Text: "a"},
			{Score: 0.8, FeatureVec: []float64{0, 1, 0}, Text: "b"},
			{Score: 0.8, FeatureVec: []float64{0, 0, 1}, Text: "c"},
			{Score: 0.4, FeatureVec: []float64{1, 1, 0}, Text: "d"},
		}
	}

	first := MMRRerank(build(), 0.7, 0.93)
	for i := 0; i < 10; i++ {
		again := MMRRerank(build(), 0.7, 0.93)
		require.Equal(t, len(first), len(again))
		for j := range first {
			assert.Equal(t, first[j].Text, again[j].Text)
		}
	}
	// Ties resolve to the lowest index.
	assert.Equal(t, "a", first[0].Text)
}

func TestMMRRerankZeroVectorGuard(t *testing.T) {
	cands := []models.Candidate{
		{Score: 0.9, FeatureVec: []float64{0, 0, 0}, Text: "zero"},
		{Score: 0.5, FeatureVec: []float64{1, 0, 0}, Text: "unit"},
	}

	assert.NotPanics(t, func() {
		selected := MMRRerank(cands, 0.7, 0.93)
		assert.Len(t, selected, 2)
	})
}
