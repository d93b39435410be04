package segmentation

import (
	"math"
	"math/rand"
)

const kmeansMaxIter = 300

// KMeans clusters points into k groups using k-means++ seeding and Lloyd
// iterations, keeping the lowest-inertia labelling over nInit restarts.
// The same seed always yields the same labels.
func KMeans(points [][]float64, k int, seed int64, nInit int) []int {
	n := len(points)
	k = min(k, n)
	if k <= 1 {
		return make([]int, n)
	}
	rng := rand.New(rand.NewSource(seed))

	var best []int
	bestInertia := math.Inf(1)
	for run := 0; run < max(nInit, 1); run++ {
		centers := seedCenters(points, k, rng)
		labels, inertia := lloyd(points, centers)
		if inertia < bestInertia {
			best, bestInertia = labels, inertia
		}
	}
	return best
}

func seedCenters(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(points[rng.Intn(len(points))]))

	dist := make([]float64, len(points))
	for len(centers) < k {
		var sum float64
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centers {
				d = math.Min(d, sqDist(p, c))
			}
			dist[i] = d
			sum += d
		}
		next := rng.Intn(len(points))
		if sum > 0 {
			r := rng.Float64() * sum
			for i, d := range dist {
				r -= d
				if r <= 0 {
					next = i
					break
				}
			}
		}
		centers = append(centers, clone(points[next]))
	}
	return centers
}

func lloyd(points [][]float64, centers [][]float64) ([]int, float64) {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}
	dim := len(points[0])
	var inertia float64
	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		inertia = 0
		for i, p := range points {
			bestC, bestD := 0, math.Inf(1)
			for c, center := range centers {
				if d := sqDist(p, center); d < bestD {
					bestC, bestD = c, d
				}
			}
			if labels[i] != bestC {
				labels[i] = bestC
				changed = true
			}
			inertia += bestD
		}
		if !changed {
			break
		}

		counts := make([]int, len(centers))
		sums := make([][]float64, len(centers))
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			c := labels[i]
			counts[c]++
			for d, x := range p {
				sums[c][d] += x
			}
		}
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			for d := range sums[c] {
				centers[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}
	return labels, inertia
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func clone(v []float64) []float64 { return append([]float64(nil), v...) }
