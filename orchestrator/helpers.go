package orchestrator

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/maastricht-university/transcript-segmenter/clients"
	"github.com/maastricht-university/transcript-segmenter/segmentation"
)

var sentenceEnd = regexp.MustCompile(`[^.!?]+[.!?]*`)

// fromASR turns ASR segments into sentences numbered from 0. Empty
// segments are dropped.
func fromASR(asr *clients.ASRResp) segmentation.Transcript {
	var t segmentation.Transcript
	var texts []string
	for _, s := range asr.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		t.Sentences = append(t.Sentences, segmentation.Sentence{
			ID:     len(t.Sentences),
			StartS: segmentation.Float(s.Start),
			EndS:   segmentation.Float(s.End),
			Text:   text,
		})
		texts = append(texts, text)
	}
	t.Text = strings.Join(texts, " ")
	return t
}

// splitSentences cuts raw text after terminal punctuation.
func splitSentences(text string) []segmentation.Sentence {
	var out []segmentation.Sentence
	for _, m := range sentenceEnd.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if m == "" || strings.Trim(m, ".!?") == "" {
			continue
		}
		out = append(out, segmentation.Sentence{ID: len(out), Text: m})
	}
	return out
}

func joinTexts(sentences []segmentation.Sentence) string {
	parts := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// checkRecordingID accepts only ids that are a single path element.
func checkRecordingID(id string) error {
	if id == "" || id == "." || id == ".." || filepath.Base(id) != id || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrBadRecordingID, id)
	}
	return nil
}

func stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
