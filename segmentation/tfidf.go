package segmentation

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	bleveunicode "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
)

var englishStopWords = sync.OnceValue(func() analysis.TokenMap {
	tm := analysis.NewTokenMap()
	_ = tm.LoadBytes(en.EnglishStopWords)
	return tm
})

// Vectorizer builds TF-IDF document-term matrices.
type Vectorizer struct {
	MinN, MaxN  int
	MaxFeatures int
	StopWords   analysis.TokenMap
}

// NewVectorizer returns a vectorizer with English stopwords removed.
func NewVectorizer(minN, maxN, maxFeatures int) *Vectorizer {
	return &Vectorizer{
		MinN:        minN,
		MaxN:        maxN,
		MaxFeatures: maxFeatures,
		StopWords:   englishStopWords(),
	}
}

// Analyze tokenizes doc into lowercase terms of at least two characters,
// drops stopwords, and joins the survivors into n-grams.
func (v *Vectorizer) Analyze(doc string) []string {
	tokens := bleveunicode.NewUnicodeTokenizer().Tokenize([]byte(doc))
	tokens = lowercase.NewLowerCaseFilter().Filter(tokens)

	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		term := string(tok.Term)
		if utf8.RuneCountInString(term) < 2 || v.StopWords[term] {
			continue
		}
		words = append(words, term)
	}

	minN, maxN := max(v.MinN, 1), max(v.MaxN, 1)
	var grams []string
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(words); i++ {
			grams = append(grams, strings.Join(words[i:i+n], " "))
		}
	}
	return grams
}

// FitTransform learns the vocabulary over docs and returns one L2-normalised
// TF-IDF row per doc. Vocabulary is sorted alphabetically.
func (v *Vectorizer) FitTransform(docs []string) ([][]float64, []string) {
	analyzed := make([][]string, len(docs))
	total := map[string]int{}
	df := map[string]int{}
	for i, d := range docs {
		analyzed[i] = v.Analyze(d)
		seen := map[string]bool{}
		for _, g := range analyzed[i] {
			total[g]++
			if !seen[g] {
				seen[g] = true
				df[g]++
			}
		}
	}

	vocab := make([]string, 0, len(total))
	for g := range total {
		vocab = append(vocab, g)
	}
	sort.Strings(vocab)
	if v.MaxFeatures > 0 && len(vocab) > v.MaxFeatures {
		sort.SliceStable(vocab, func(i, j int) bool { return total[vocab[i]] > total[vocab[j]] })
		vocab = vocab[:v.MaxFeatures]
		sort.Strings(vocab)
	}

	index := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	n := float64(len(docs))
	for j, g := range vocab {
		index[g] = j
		idf[j] = math.Log((1+n)/(1+float64(df[g]))) + 1
	}

	matrix := make([][]float64, len(docs))
	for i, grams := range analyzed {
		row := make([]float64, len(vocab))
		for _, g := range grams {
			if j, ok := index[g]; ok {
				row[j]++
			}
		}
		var norm float64
		for j := range row {
			row[j] *= idf[j]
			norm += row[j] * row[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j] /= norm
			}
		}
		matrix[i] = row
	}
	return matrix, vocab
}

// Keywords returns the topN unigram/bigram terms of text by TF-IDF score,
// ties broken alphabetically. It never returns an empty slice.
func Keywords(text string, topN int) []string {
	topN = max(topN, 1)
	matrix, vocab := NewVectorizer(1, 2, 3000).FitTransform([]string{text})
	if len(vocab) == 0 {
		return []string{NoTopicLabel}
	}
	scores := matrix[0]
	idx := make([]int, len(vocab))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	out := make([]string, 0, topN)
	for _, i := range idx[:min(topN, len(idx))] {
		out = append(out, vocab[i])
	}
	return out
}
