package segmentation

import (
	"fmt"
	"math"
	"sort"
)

// CosineSimilarity is dot(a,b)/(|a||b|), or 0 when either norm is zero or
// the lengths differ.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// ConsecutiveSimilarities returns sims[i] = cos(emb[i], emb[i+1]).
func ConsecutiveSimilarities(emb [][]float64) []float64 {
	if len(emb) < 2 {
		return nil
	}
	sims := make([]float64, len(emb)-1)
	for i := 1; i < len(emb); i++ {
		sims[i-1] = CosineSimilarity(emb[i-1], emb[i])
	}
	return sims
}

// MeanVector averages vectors element-wise.
func MeanVector(vecs [][]float64) []float64 {
	if len(vecs) == 0 {
		return nil
	}
	out := make([]float64, len(vecs[0]))
	for _, v := range vecs {
		for j := range out {
			if j < len(v) {
				out[j] += v[j]
			}
		}
	}
	n := float64(len(vecs))
	for j := range out {
		out[j] /= n
	}
	return out
}

// Threshold computes the adaptive split threshold over consecutive similarities.
func Threshold(sims []float64, method string, stdFactor, percentile float64) (float64, error) {
	switch method {
	case MethodStd:
		mean, std := meanStd(sims)
		return mean - stdFactor*std, nil
	case MethodPercentile:
		return Percentile(sims, percentile), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// meanStd returns the mean and population standard deviation.
func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(xs)))
}

// Percentile interpolates linearly between the closest ranks.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi >= len(sorted) {
		hi = len(sorted) - 1
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}
