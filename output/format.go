// Package output renders segments for humans and downstream tools.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/maastricht-university/transcript-segmenter/segmentation"
)

const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// Document is the json and yaml envelope.
type Document struct {
	Meta     Metadata               `json:"meta" yaml:"meta"`
	Segments []segmentation.Segment `json:"segments" yaml:"segments"`
}

// CheckFormat reports an error for formats Write does not know.
func CheckFormat(format string) error {
	switch format {
	case FormatJSON, "", FormatYAML, "yml", FormatMarkdown, "md":
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}

// Write renders segments to w in the given format.
func Write(w io.Writer, format string, meta Metadata, segments []segmentation.Segment) error {
	if segments == nil {
		segments = []segmentation.Segment{}
	}
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Document{Meta: meta, Segments: segments})
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Document{Meta: meta, Segments: segments}); err != nil {
			return err
		}
		return enc.Close()
	case FormatMarkdown, "md":
		_, err := io.WriteString(w, RenderMarkdown(meta, segments))
		return err
	}
	return fmt.Errorf("unknown output format %q", format)
}
