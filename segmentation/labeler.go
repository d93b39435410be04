package segmentation

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	nonWordPhrase = regexp.MustCompile(`^[^\p{L}\p{N}_]*$`)
	spaceRun      = regexp.MustCompile(`\s+`)
)

// stoplike words never make a label on their own.
var stoplike = map[string]bool{
	"i": true, "you": true, "we": true, "they": true, "he": true, "she": true,
	"it": true, "me": true, "my": true, "your": true, "our": true,
	"this": true, "that": true, "these": true, "those": true,
	"something": true, "anything": true, "everything": true,
	"thing": true, "stuff": true, "people": true, "time": true,
	"day": true, "way": true, "lot": true,
}

// Labeler ranks topic candidates for each segment. Noun phrases are ranked
// by similarity to the segment's mean embedding; TF-IDF keywords are used
// when no noun phrase survives filtering.
type Labeler struct {
	embedder Embedder
	phraser  NounPhraser
	topN     int
}

func NewLabeler(embedder Embedder, phraser NounPhraser, topN int) *Labeler {
	return &Labeler{embedder: embedder, phraser: phraser, topN: max(topN, 1)}
}

// Topics returns up to topN ranked label candidates per segment id.
// Oracle errors abort the whole call.
func (l *Labeler) Topics(ctx context.Context, texts []string, segIDs []int, embeddings [][]float64) (map[int][]string, error) {
	out := make(map[int][]string)
	for _, id := range distinctIDs(segIDs) {
		idx := members(segIDs, id)
		parts := make([]string, len(idx))
		vecs := make([][]float64, 0, len(idx))
		for k, i := range idx {
			parts[k] = texts[i]
			if i < len(embeddings) {
				vecs = append(vecs, embeddings[i])
			}
		}
		segText := strings.TrimSpace(strings.Join(parts, " "))
		if segText == "" {
			out[id] = []string{NoTopicLabel}
			continue
		}

		ranked, err := l.rank(ctx, segText, MeanVector(vecs))
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", id, err)
		}
		out[id] = ranked
	}
	return out, nil
}

func (l *Labeler) rank(ctx context.Context, segText string, segEmb []float64) ([]string, error) {
	phrases, err := l.phraser.NounPhrases(ctx, segText)
	if err != nil {
		return nil, fmt.Errorf("extract noun phrases: %w", err)
	}
	candidates := Candidates(phrases)
	if len(candidates) == 0 {
		return Keywords(segText, l.topN), nil
	}

	candEmb, err := l.embedder.Embed(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("embed candidates: %w", err)
	}
	if len(candEmb) != len(candidates) {
		return nil, fmt.Errorf("%w: %d candidates, %d embeddings", ErrEmbeddingMismatch, len(candidates), len(candEmb))
	}

	type scored struct {
		phrase string
		sim    float64
	}
	ss := make([]scored, len(candidates))
	for i, c := range candidates {
		ss[i] = scored{phrase: c, sim: CosineSimilarity(candEmb[i], segEmb)}
	}
	sort.SliceStable(ss, func(i, j int) bool { return ss[i].sim > ss[j].sim })

	out := make([]string, 0, l.topN)
	for _, s := range ss[:min(l.topN, len(ss))] {
		out = append(out, s.phrase)
	}
	return out, nil
}

// Candidates cleans, filters and case-insensitively deduplicates raw noun
// phrases, keeping first-seen order.
func Candidates(phrases []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range phrases {
		p = CleanPhrase(p)
		if !PhraseOK(p) {
			continue
		}
		key := strings.ToLower(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// CleanPhrase trims and collapses internal whitespace.
func CleanPhrase(p string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(p), " ")
}

// PhraseOK rejects empty, punctuation-only, too long (>4 tokens), too short
// (<3 characters) and all-stoplike phrases.
func PhraseOK(p string) bool {
	if p == "" || nonWordPhrase.MatchString(p) {
		return false
	}
	toks := strings.Fields(strings.ToLower(p))
	if len(toks) == 0 || len(toks) > 4 {
		return false
	}
	if len([]rune(p)) < 3 {
		return false
	}
	for _, t := range toks {
		if !stoplike[t] {
			return true
		}
	}
	return false
}
