package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/maastricht-university/transcript-segmenter/segmentation"
)

type Metadata struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	RecordingID string `json:"recording_id" yaml:"recording_id"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
	Strategy    string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`
	Generated   string `json:"generated,omitempty" yaml:"generated,omitempty"`
}

// RenderMarkdown renders one section per segment headed by its time span
// and label.
func RenderMarkdown(meta Metadata, segments []segmentation.Segment) string {
	var b strings.Builder
	if meta.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", meta.Title)
	} else {
		b.WriteString("# Transcript Segments\n\n")
	}
	if meta.RecordingID != "" {
		fmt.Fprintf(&b, "- Recording: `%s`\n", meta.RecordingID)
	}
	if meta.Source != "" {
		fmt.Fprintf(&b, "- Source: `%s`\n", meta.Source)
	}
	if meta.Strategy != "" {
		fmt.Fprintf(&b, "- Strategy: `%s`\n", meta.Strategy)
	}
	if meta.Language != "" {
		fmt.Fprintf(&b, "- Language: %s\n", meta.Language)
	}
	if meta.Generated != "" {
		fmt.Fprintf(&b, "- Generated: %s\n", meta.Generated)
	}
	fmt.Fprintf(&b, "- Segments: %d\n", len(segments))
	b.WriteString("\n---\n\n")

	for _, s := range segments {
		b.WriteString("## ")
		if s.StartS != nil && s.EndS != nil {
			fmt.Fprintf(&b, "[%s-%s] ", secToTS(*s.StartS), secToTS(*s.EndS))
		}
		fmt.Fprintf(&b, "%s\n\n", s.Label)
		if t := strings.TrimSpace(s.Text); t != "" {
			fmt.Fprintf(&b, "%s\n\n", t)
		}
	}
	return b.String()
}

func secToTS(sec float64) string {
	d := time.Duration(sec*1000) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
