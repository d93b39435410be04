package orchestrator

import "github.com/maastricht-university/transcript-segmenter/segmentation"

// Input names what to segment. Exactly one of TranscriptPath and AudioPath
// is expected; RecordingID defaults to the file stem.
type Input struct {
	RecordingID    string
	TranscriptPath string
	AudioPath      string
	// NoPersist skips writing segments under the outputs directory.
	NoPersist bool
}

type Result struct {
	RecordingID  string                 `json:"recording_id"`
	Language     string                 `json:"language,omitempty"`
	Segments     []segmentation.Segment `json:"segments"`
	SegmentsPath string                 `json:"segments_path,omitempty"`
}
