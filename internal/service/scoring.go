package service

import (
	"math"

	"carbonlens/internal/models"

	"gonum.org/v1/gonum/floats"
)

// cosineSimilarity between two dense vectors; 0 when either is a zero
// vector or lengths differ.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(a, b) / (normA * normB)
}

// NormalizeScores min-max rescales RawScore into Score on [0,1] across the
// whole batch, so scores stay comparable when criteria are merged for
// display. With fewer than two candidates (or an all-equal batch) min-max
// degenerates, and every candidate gets 1.0.
func NormalizeScores(cands []models.Candidate) {
	if len(cands) < 2 {
		for i := range cands {
			cands[i].Score = 1.0
		}
		return
	}

	raw := make([]float64, len(cands))
	for i, c := range cands {
		raw[i] = c.RawScore
	}
	lo, hi := floats.Min(raw), floats.Max(raw)
	if hi == lo {
		for i := range cands {
			cands[i].Score = 1.0
		}
		return
	}
	for i := range cands {
		cands[i].Score = round6((raw[i] - lo) / (hi - lo))
	}
}

// MMRRerank greedily selects candidates balancing normalized score against
// similarity to the already-selected set. Candidates whose similarity to
// the selection reaches the duplicate threshold are discarded outright.
// Strictly-greater comparisons make the lowest index win ties, so the
// selection is deterministic for identical inputs.
func MMRRerank(cands []models.Candidate, lambda, threshold float64) []models.Candidate {
	if len(cands) <= 1 {
		return append([]models.Candidate(nil), cands...)
	}

	// Unit-normalize feature vectors; zero vectors stay zero.
	vecs := make([][]float64, len(cands))
	for i, c := range cands {
		v := append([]float64(nil), c.FeatureVec...)
		if n := floats.Norm(v, 2); n > 0 {
			floats.Scale(1/n, v)
		}
		vecs[i] = v
	}

	sim := make([][]float64, len(cands))
	for i := range vecs {
		sim[i] = make([]float64, len(cands))
		for j := range vecs {
			sim[i][j] = cosineSimilarity(vecs[i], vecs[j])
		}
	}

	best := 0
	for i, c := range cands {
		if c.Score > cands[best].Score {
			best = i
		}
	}

	selected := []int{best}
	remaining := make([]bool, len(cands))
	for i := range remaining {
		remaining[i] = i != best
	}
	left := len(cands) - 1

	for left > 0 {
		bi, bm := -1, math.Inf(-1)
		for i, rem := range remaining {
			if !rem {
				continue
			}
			maxSim := math.Inf(-1)
			for _, j := range selected {
				if sim[i][j] > maxSim {
					maxSim = sim[i][j]
				}
			}
			marginal := lambda*cands[i].Score - (1-lambda)*maxSim
			if marginal > bm {
				bi, bm = i, marginal
			}
		}
		if bi < 0 {
			break
		}
		remaining[bi] = false
		left--

		maxSim := math.Inf(-1)
		for _, j := range selected {
			if sim[bi][j] > maxSim {
				maxSim = sim[bi][j]
			}
		}
		if maxSim >= threshold {
			continue // near-duplicate of something already selected
		}
		selected = append(selected, bi)
	}

	out := make([]models.Candidate, 0, len(selected))
	for _, i := range selected {
		out = append(out, cands[i])
	}
	return out
}

func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}

func round6(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}
