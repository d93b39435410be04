package segmentation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorizer_Analyze(t *testing.T) {
	v := NewVectorizer(1, 2, 0)
	got := v.Analyze("The cat and I sat on a mat.")
	assert.Equal(t, []string{"cat", "sat", "mat", "cat sat", "sat mat"}, got)

	assert.Empty(t, v.Analyze("a I the ."))
}

func TestVectorizer_FitTransform(t *testing.T) {
	matrix, vocab := NewVectorizer(1, 1, 100).FitTransform([]string{
		"apple banana",
		"apple cherry",
	})
	require.Equal(t, []string{"apple", "banana", "cherry"}, vocab)
	require.Len(t, matrix, 2)

	for _, row := range matrix {
		var ss float64
		for _, x := range row {
			ss += x * x
		}
		assert.InDelta(t, 1.0, math.Sqrt(ss), 1e-12)
	}
	// shared term weighs less than the unique one
	assert.Less(t, matrix[0][0], matrix[0][1])
	assert.Equal(t, 0.0, matrix[0][2])
}

func TestVectorizer_MaxFeatures(t *testing.T) {
	_, vocab := NewVectorizer(1, 1, 1).FitTransform([]string{"apple apple banana"})
	assert.Equal(t, []string{"apple"}, vocab)
}

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"computing"}, Keywords("Quantum computing uses qubits.", 1))
	assert.Equal(t, []string{"qubits", "computing"}, Keywords("Qubits qubits computing.", 2))
	assert.Equal(t, []string{NoTopicLabel}, Keywords("and the of", 3))
	assert.Len(t, Keywords("alpha beta", 0), 1)
}
