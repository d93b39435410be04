// Package segmentation partitions a transcript into contiguous, topically
// coherent segments and labels each one.
//
// Boundaries come from one of two strategies: an adaptive threshold over
// consecutive sentence-embedding similarities, or spectral co-clustering of
// a TF-IDF sentence-term matrix. Labels are noun phrases ranked by
// similarity to the segment's mean embedding, with TF-IDF keywords as the
// fallback.
//
// Embeddings and noun phrases come from injected oracles, so an Engine
// holds no state of its own and may be shared between goroutines as long
// as the oracles tolerate concurrent use.
package segmentation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

type Engine struct {
	cfg      Config
	embedder Embedder
	labeler  *Labeler
	log      *logrus.Entry
}

type Option func(*Engine)

// WithLogger sets the logger used for debug output.
func WithLogger(l *logrus.Entry) Option {
	return func(e *Engine) { e.log = l }
}

// New validates cfg and returns an engine bound to the given oracles.
func New(cfg Config, embedder Embedder, phraser NounPhraser, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if embedder == nil || phraser == nil {
		return nil, fmt.Errorf("%w: embedder and noun phraser are required", ErrInvalidConfig)
	}
	e := &Engine{
		cfg:      cfg,
		embedder: embedder,
		labeler:  NewLabeler(embedder, phraser, cfg.TopN),
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, o := range opts {
		o(e)
	}
	e.log = e.log.WithField("component", "segmentation")
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Segment partitions t into labeled segments. Transcripts with fewer than
// two sentences yield a single "short transcript" segment carrying the raw
// transcript text.
func (e *Engine) Segment(ctx context.Context, t Transcript) ([]Segment, error) {
	if len(t.Sentences) < 2 {
		return []Segment{shortSegment(t)}, nil
	}

	texts := make([]string, len(t.Sentences))
	for i, s := range t.Sentences {
		texts[i] = strings.TrimSpace(s.Text)
	}

	embeddings, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed sentences: %w", err)
	}
	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: %d sentences, %d embeddings", ErrEmbeddingMismatch, len(texts), len(embeddings))
	}

	segIDs, err := e.SegmentIDs(texts, embeddings)
	if err != nil {
		return nil, err
	}

	topics, err := e.labeler.Topics(ctx, texts, segIDs, embeddings)
	if err != nil {
		return nil, err
	}

	segments := Assemble(t.RecordingID, t.Sentences, segIDs, topics)
	e.log.WithFields(logrus.Fields{
		"recording_id": t.RecordingID,
		"sentences":    len(texts),
		"segments":     len(segments),
	}).Debug("segmented transcript")
	return segments, nil
}

// SegmentIDs assigns a non-decreasing segment id, starting at 0, to every
// sentence using the configured strategy.
func (e *Engine) SegmentIDs(texts []string, embeddings [][]float64) ([]int, error) {
	if len(texts) < 2 {
		return make([]int, len(texts)), nil
	}
	switch e.cfg.Strategy {
	case StrategySpectral:
		segIDs, boundaries := spectralSegmentIDs(texts, e.cfg)
		e.log.WithFields(logrus.Fields{
			"clusters":   e.cfg.Clusters,
			"boundaries": len(boundaries),
			"accepted":   countBoundaries(segIDs),
		}).Debug("spectral boundaries")
		return segIDs, nil
	case StrategyAdaptive:
		sims := ConsecutiveSimilarities(embeddings)
		threshold, err := Threshold(sims, e.cfg.SimilarityMethod, e.cfg.StdFactor, e.cfg.Percentile)
		if err != nil {
			return nil, err
		}
		segIDs := AdaptiveSegmentIDs(sims, threshold, e.cfg.MinSize)
		e.log.WithFields(logrus.Fields{
			"method":     e.cfg.SimilarityMethod,
			"threshold":  threshold,
			"boundaries": countBoundaries(segIDs),
		}).Debug("adaptive boundaries")
		return segIDs, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, e.cfg.Strategy)
	}
}

func shortSegment(t Transcript) Segment {
	return Segment{
		RecordingID: t.RecordingID,
		ID:          0,
		StartS:      Float(0),
		EndS:        Float(0),
		Label:       ShortTranscript,
		SentenceIDs: []int{},
		Text:        t.Text,
	}
}
