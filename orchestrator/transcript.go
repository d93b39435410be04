package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/maastricht-university/transcript-segmenter/segmentation"
)

// LoadTranscript reads a transcript from a .json file
// ({"recording_id","text","sentences":[...]}) or a plain .txt file, which is
// split into sentences without timestamps.
func LoadTranscript(path string) (segmentation.Transcript, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return segmentation.Transcript{}, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var t segmentation.Transcript
		if err := json.Unmarshal(b, &t); err != nil {
			return segmentation.Transcript{}, fmt.Errorf("transcript %s: %w", path, err)
		}
		if t.Text == "" {
			t.Text = joinTexts(t.Sentences)
		}
		return t, nil
	case ".txt", "":
		text := strings.TrimSpace(string(b))
		return segmentation.Transcript{Text: text, Sentences: splitSentences(text)}, nil
	default:
		return segmentation.Transcript{}, fmt.Errorf("transcript %s: unsupported extension", path)
	}
}
