package segmentation

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CoclusterResult holds the cluster label of every row and column of the
// co-clustered matrix.
type CoclusterResult struct {
	RowLabels    []int
	ColumnLabels []int
}

// SpectralCocluster partitions the rows and columns of a non-negative
// matrix into the given number of bi-clusters (Dhillon, 2001).
//
// The matrix is scaled to D_r^-1/2 A D_c^-1/2, the leading singular vector
// is discarded, the following ceil(log2 k) singular vectors embed rows and
// columns, and k-means clusters the stacked embedding. A zero row or column
// gets a zero scale factor. Degenerate inputs (no columns, a single
// cluster, too few singular vectors) put everything in cluster 0.
func SpectralCocluster(matrix [][]float64, clusters int, seed int64) CoclusterResult {
	rows := len(matrix)
	cols := 0
	if rows > 0 {
		cols = len(matrix[0])
	}
	res := CoclusterResult{RowLabels: make([]int, rows), ColumnLabels: make([]int, cols)}
	if rows == 0 || cols == 0 || clusters <= 1 {
		return res
	}

	rowScale := make([]float64, rows)
	colScale := make([]float64, cols)
	for i, row := range matrix {
		for j, x := range row {
			rowScale[i] += x
			colScale[j] += x
		}
	}
	invSqrt(rowScale)
	invSqrt(colScale)

	a := mat.NewDense(rows, cols, nil)
	for i, row := range matrix {
		for j, x := range row {
			a.Set(i, j, x*rowScale[i]*colScale[j])
		}
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return res
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	nsv := min(1+int(math.Ceil(math.Log2(float64(clusters)))), rows, cols)
	dims := nsv - 1
	if dims < 1 {
		return res
	}

	points := make([][]float64, 0, rows+cols)
	for i := 0; i < rows; i++ {
		p := make([]float64, dims)
		for d := 0; d < dims; d++ {
			p[d] = rowScale[i] * u.At(i, d+1)
		}
		points = append(points, p)
	}
	for j := 0; j < cols; j++ {
		p := make([]float64, dims)
		for d := 0; d < dims; d++ {
			p[d] = colScale[j] * v.At(j, d+1)
		}
		points = append(points, p)
	}

	labels := KMeans(points, clusters, seed, 10)
	copy(res.RowLabels, labels[:rows])
	copy(res.ColumnLabels, labels[rows:])
	return res
}

func invSqrt(xs []float64) {
	for i, x := range xs {
		if x > 0 {
			xs[i] = 1 / math.Sqrt(x)
		} else {
			xs[i] = 0
		}
	}
}

// spectralSegmentIDs runs co-clustering over TF-IDF rows of texts and turns
// every adjacent label change into a boundary. Recurring clusters are not
// merged back together.
func spectralSegmentIDs(texts []string, cfg Config) ([]int, []int) {
	matrix, _ := NewVectorizer(1, 1, cfg.MaxFeatures).FitTransform(texts)
	labels := SpectralCocluster(matrix, cfg.Clusters, cfg.Seed).RowLabels
	boundaries := ChangeBoundaries(labels)
	return BoundariesToSegmentIDs(boundaries, len(texts), cfg.SpectralMinSize), boundaries
}
