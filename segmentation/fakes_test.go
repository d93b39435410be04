package segmentation

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
)

// fakeEmbedder returns fixed vectors for known texts and a hash-derived
// vector for anything else.
type fakeEmbedder struct {
	mu    sync.Mutex
	fixed map[string][]float64
	calls int
	err   error
	short bool
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, 0, len(texts))
	for _, t := range texts {
		if v, ok := f.fixed[t]; ok {
			out = append(out, v)
			continue
		}
		out = append(out, hashVector(t, 8))
	}
	if f.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func hashVector(s string, dim int) []float64 {
	v := make([]float64, dim)
	for i := range v {
		h := fnv.New64a()
		h.Write([]byte{byte(i)})
		h.Write([]byte(s))
		v[i] = float64(h.Sum64()%1000) / 1000
	}
	return v
}

// angleVector is a unit vector in the plane at angle a.
func angleVector(a float64) []float64 { return []float64{math.Cos(a), math.Sin(a)} }

type fakePhraser struct {
	byText map[string][]string
	all    []string
	err    error
}

func (f *fakePhraser) NounPhrases(_ context.Context, text string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.byText[text]; ok {
		return p, nil
	}
	return f.all, nil
}
