package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/transcript-segmenter/clients"
	cfg "github.com/maastricht-university/transcript-segmenter/config"
	"github.com/maastricht-university/transcript-segmenter/segmentation"
)

var (
	ErrNoInput        = errors.New("no transcript or audio given")
	ErrBadRecordingID = errors.New("invalid recording id")
)

type Pipeline struct {
	cfg    *cfg.Root
	http   *clients.HTTP
	engine *segmentation.Engine
	log    *logrus.Entry

	embedder segmentation.Embedder
	phraser  segmentation.NounPhraser
}

type Option func(*Pipeline)

func WithLogger(l *logrus.Entry) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithOracles replaces the configured embedder and noun phraser.
func WithOracles(e segmentation.Embedder, n segmentation.NounPhraser) Option {
	return func(p *Pipeline) {
		p.embedder, p.phraser = e, n
	}
}

func NewPipeline(c *cfg.Root, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		cfg:  c,
		http: clients.NewHTTPWithTimeout(c.Services.ASR.Timeout()),
		log:  logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, o := range opts {
		o(p)
	}
	p.log = p.log.WithField("component", "orchestrator")

	if p.embedder == nil {
		e, err := newEmbedder(c.Services.Embedding)
		if err != nil {
			return nil, err
		}
		p.embedder = e
	}
	if p.phraser == nil {
		n, err := newPhraser(c.Services.NLP)
		if err != nil {
			return nil, err
		}
		p.phraser = n
	}

	eng, err := segmentation.New(c.Segmentation.Engine(), p.embedder, p.phraser,
		segmentation.WithLogger(p.log))
	if err != nil {
		return nil, err
	}
	p.engine = eng
	return p, nil
}

func newEmbedder(s cfg.Service) (segmentation.Embedder, error) {
	switch s.Provider {
	case cfg.ProviderHTTP:
		return clients.NewHTTPWithTimeout(s.Timeout()).Embedder(s.URL, s.Model), nil
	case cfg.ProviderOpenAI:
		return clients.NewOpenAIEmbedder(s.APIKey, openAIOptions(s)...), nil
	}
	return nil, fmt.Errorf("embedding: unknown provider %q", s.Provider)
}

func newPhraser(s cfg.Service) (segmentation.NounPhraser, error) {
	switch s.Provider {
	case cfg.ProviderHTTP:
		return clients.NewHTTPWithTimeout(s.Timeout()).NounPhraser(s.URL, s.Model), nil
	case cfg.ProviderOpenAI:
		return clients.NewOpenAIPhraser(s.APIKey, openAIOptions(s)...), nil
	}
	return nil, fmt.Errorf("nlp: unknown provider %q", s.Provider)
}

func openAIOptions(s cfg.Service) []clients.OpenAIOption {
	opts := []clients.OpenAIOption{clients.WithModel(s.Model), clients.WithDimension(s.Dimension)}
	if s.URL != "" {
		opts = append(opts, clients.WithBaseURL(s.URL))
	}
	return opts
}

// Engine returns the segmentation engine the pipeline runs.
func (p *Pipeline) Engine() *segmentation.Engine { return p.engine }

// Run loads or transcribes the input, segments it and, unless in.NoPersist
// is set, writes the segments under paths.outputs.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	t, language, err := p.transcript(ctx, in)
	if err != nil {
		return nil, err
	}

	id := in.RecordingID
	if id == "" {
		id = t.RecordingID
	}
	if id == "" {
		id = stem(in.TranscriptPath + in.AudioPath)
	}
	if err := checkRecordingID(id); err != nil {
		return nil, err
	}
	t.RecordingID = id

	log := p.log.WithField("recording_id", id)
	log.WithField("sentences", len(t.Sentences)).Info("segmenting transcript")

	segments, err := p.engine.Segment(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("segment %s: %w", id, err)
	}

	res := &Result{RecordingID: id, Language: language, Segments: segments}
	if !in.NoPersist {
		path, err := persist(p.cfg.Paths.Outputs, id, segments)
		if err != nil {
			return nil, fmt.Errorf("persist %s: %w", id, err)
		}
		res.SegmentsPath = path
	}

	log.WithFields(logrus.Fields{
		"segments": len(segments),
		"path":     res.SegmentsPath,
	}).Info("segmentation done")
	return res, nil
}

func (p *Pipeline) transcript(ctx context.Context, in Input) (segmentation.Transcript, string, error) {
	switch {
	case in.TranscriptPath != "":
		t, err := LoadTranscript(in.TranscriptPath)
		return t, "", err
	case in.AudioPath != "":
		url := p.cfg.Services.ASR.URL
		if url == "" {
			return segmentation.Transcript{}, "", errors.New("services.asr.url is required for audio input")
		}
		asr, err := p.http.ASR(ctx, url, p.cfg.Services.ASR.Model, in.AudioPath)
		if err != nil {
			return segmentation.Transcript{}, "", err
		}
		p.log.WithFields(logrus.Fields{
			"language": asr.Language,
			"segments": len(asr.Segments),
		}).Debug("asr done")
		return fromASR(asr), asr.Language, nil
	}
	return segmentation.Transcript{}, "", ErrNoInput
}
