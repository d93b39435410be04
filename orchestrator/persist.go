package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/maastricht-university/transcript-segmenter/segmentation"
)

type SegmentsBundle struct {
	Segments []segmentation.Segment `json:"segments"`
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// persist writes segments to <outputsRoot>/segments/<id>/<id>.json and
// returns the path.
func persist(outputsRoot, recordingID string, segments []segmentation.Segment) (string, error) {
	dir := filepath.Join(outputsRoot, "segments", recordingID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, recordingID+".json")
	if segments == nil {
		segments = []segmentation.Segment{}
	}
	if err := writeJSON(path, SegmentsBundle{Segments: segments}); err != nil {
		return "", err
	}
	return path, nil
}

// LoadSegments reads a bundle written by persist.
func LoadSegments(path string) ([]segmentation.Segment, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bundle SegmentsBundle
	if err := json.Unmarshal(b, &bundle); err != nil {
		return nil, err
	}
	return bundle.Segments, nil
}
