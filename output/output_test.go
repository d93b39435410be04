package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/maastricht-university/transcript-segmenter/segmentation"
)

func sampleSegments() []segmentation.Segment {
	return []segmentation.Segment{
		{
			RecordingID: "rec", ID: 0, Label: "budget plan",
			StartS: segmentation.Float(5), EndS: segmentation.Float(75.4),
			SentenceIDs: []int{0, 1}, Text: "The budget is tight. We revise it.",
		},
		{
			RecordingID: "rec", ID: 1, Label: "sunny weather",
			SentenceIDs: []int{2}, Text: "It is sunny.",
		},
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(Metadata{RecordingID: "rec", Strategy: "adaptive"}, sampleSegments())

	assert.Contains(t, md, "# Transcript Segments\n")
	assert.Contains(t, md, "- Recording: `rec`\n")
	assert.Contains(t, md, "- Segments: 2\n")
	assert.Contains(t, md, "## [00:05-01:15] budget plan\n\nThe budget is tight. We revise it.\n")
	assert.Contains(t, md, "## sunny weather\n\nIt is sunny.\n")
}

func TestSecToTS(t *testing.T) {
	assert.Equal(t, "00:00", secToTS(0))
	assert.Equal(t, "02:03", secToTS(123.9))
	assert.Equal(t, "01:01:01", secToTS(3661))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, Metadata{RecordingID: "rec"}, sampleSegments()))

	var doc struct {
		Segments []map[string]any `json:"segments"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Segments, 2)
	assert.Equal(t, "budget plan", doc.Segments[0]["label"])
	assert.Nil(t, doc.Segments[1]["start_s"])
	assert.Contains(t, buf.String(), `"end_s": null`)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, Metadata{RecordingID: "rec"}, sampleSegments()))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "rec", doc.Meta.RecordingID)
	require.Len(t, doc.Segments, 2)
	assert.Equal(t, []int{2}, doc.Segments[1].SentenceIDs)
	assert.Nil(t, doc.Segments[1].StartS)
}

func TestWriteEmptyAndUnknown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, Metadata{}, nil))
	assert.Contains(t, buf.String(), `"segments": []`)

	assert.ErrorContains(t, Write(&buf, "csv", Metadata{}, nil), `unknown output format "csv"`)
}
