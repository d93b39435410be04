package segmentation

import (
	"context"
	"errors"
)

// Sentence is one transcribed sentence. Slice order is chronological order.
type Sentence struct {
	ID     int      `json:"id" yaml:"id"`
	StartS *float64 `json:"start_s" yaml:"start_s"`
	EndS   *float64 `json:"end_s" yaml:"end_s"`
	Text   string   `json:"text" yaml:"text"`
}

// Transcript is the engine input. Text is the raw full transcript and is
// only used when there are too few sentences to segment.
type Transcript struct {
	RecordingID string     `json:"recording_id" yaml:"recording_id"`
	Text        string     `json:"text" yaml:"text"`
	Sentences   []Sentence `json:"sentences" yaml:"sentences"`
}

// Segment is a contiguous run of sentences sharing one topic label.
type Segment struct {
	RecordingID string   `json:"recording_id" yaml:"recording_id"`
	ID          int      `json:"id" yaml:"id"`
	StartS      *float64 `json:"start_s" yaml:"start_s"`
	EndS        *float64 `json:"end_s" yaml:"end_s"`
	Label       string   `json:"label" yaml:"label"`
	SentenceIDs []int    `json:"sentence_ids" yaml:"sentence_ids"`
	Text        string   `json:"text" yaml:"text"`
}

// Embedder maps texts to fixed-dimension vectors, one per text, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// NounPhraser extracts candidate noun phrases from a text.
type NounPhraser interface {
	NounPhrases(ctx context.Context, text string) ([]string, error)
}

// Labels used when no topic can be derived.
const (
	NoTopicLabel    = "[no topic]"
	ShortTranscript = "short transcript"
)

var (
	ErrUnknownStrategy   = errors.New("segmentation: unknown strategy")
	ErrUnknownMethod     = errors.New("segmentation: unknown similarity method")
	ErrInvalidConfig     = errors.New("segmentation: invalid config")
	ErrEmbeddingMismatch = errors.New("segmentation: embedding count mismatch")
)

// Float returns a pointer to v, for building sentences with timestamps.
func Float(v float64) *float64 { return &v }
