package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maastricht-university/transcript-segmenter/clients"
	cfg "github.com/maastricht-university/transcript-segmenter/config"
)

const meetingJSON = `{
  "recording_id": "standup",
  "sentences": [
    {"id": 0, "start_s": 0, "end_s": 2, "text": "The budget is tight."},
    {"id": 1, "start_s": 2, "end_s": 4, "text": "We revise the budget."},
    {"id": 2, "start_s": 4, "end_s": 6, "text": "It is sunny today."},
    {"id": 3, "start_s": 6, "end_s": 9, "text": "Warm weather all week."}
  ]
}`

func topicVector(text string) []float64 {
	if strings.Contains(strings.ToLower(text), "budget") {
		return []float64{1, 0}
	}
	return []float64{0, 1}
}

// newServices fakes the NLP, embedding and ASR services in one server.
func newServices(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/embed":
			var req clients.EmbedReq
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			out := clients.EmbedResp{Model: req.Model}
			for _, text := range req.Texts {
				out.Embeddings = append(out.Embeddings, topicVector(text))
			}
			json.NewEncoder(w).Encode(out)
		case "/noun-chunks":
			var req clients.NounChunksReq
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			chunks := []string{"sunny weather"}
			if strings.Contains(req.Text, "budget") {
				chunks = []string{"budget plan"}
			}
			json.NewEncoder(w).Encode(clients.NounChunksResp{NounChunks: chunks})
		case "/transcribe":
			json.NewEncoder(w).Encode(clients.ASRResp{
				Language: "en",
				Segments: []clients.TransSeg{
					{Start: 0, End: 1, Text: "The budget is tight."},
					{Start: 1, End: 2, Text: "  "},
					{Start: 2, End: 3, Text: "We revise the budget."},
					{Start: 3, End: 4, Text: "It is sunny today."},
					{Start: 4, End: 5, Text: "Warm weather all week."},
				},
			})
		default:
			http.Error(w, "nope", http.StatusNotFound)
		}
	}))
}

func loadConfig(t *testing.T, url string) *cfg.Root {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf(`
services:
  asr:
    url: %[1]s
  nlp:
    url: %[1]s
  embedding:
    url: %[1]s
paths:
  outputs: %[2]s
`, url, filepath.Join(dir, "outputs"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := cfg.Load(path)
	require.NoError(t, err)
	return c
}

func TestRunTranscriptJSON(t *testing.T) {
	srv := newServices(t)
	defer srv.Close()
	c := loadConfig(t, srv.URL)

	in := filepath.Join(t.TempDir(), "meeting.json")
	require.NoError(t, os.WriteFile(in, []byte(meetingJSON), 0o644))

	p, err := NewPipeline(c)
	require.NoError(t, err)
	res, err := p.Run(context.Background(), Input{TranscriptPath: in})
	require.NoError(t, err)

	assert.Equal(t, "standup", res.RecordingID)
	require.Len(t, res.Segments, 2)
	assert.Equal(t, "budget plan", res.Segments[0].Label)
	assert.Equal(t, []int{0, 1}, res.Segments[0].SentenceIDs)
	assert.Equal(t, "sunny weather", res.Segments[1].Label)
	assert.Equal(t, []int{2, 3}, res.Segments[1].SentenceIDs)
	require.NotNil(t, res.Segments[1].StartS)
	assert.Equal(t, 4.0, *res.Segments[1].StartS)
	assert.Equal(t, 9.0, *res.Segments[1].EndS)

	want := filepath.Join(c.Paths.Outputs, "segments", "standup", "standup.json")
	assert.Equal(t, want, res.SegmentsPath)
	saved, err := LoadSegments(want)
	require.NoError(t, err)
	assert.Equal(t, res.Segments, saved)
}

func TestRunTextFile(t *testing.T) {
	srv := newServices(t)
	defer srv.Close()
	c := loadConfig(t, srv.URL)

	in := filepath.Join(t.TempDir(), "notes.txt")
	text := "The budget is tight. We revise the budget! It is sunny today. Warm weather all week"
	require.NoError(t, os.WriteFile(in, []byte(text), 0o644))

	p, err := NewPipeline(c)
	require.NoError(t, err)
	res, err := p.Run(context.Background(), Input{TranscriptPath: in, NoPersist: true})
	require.NoError(t, err)

	assert.Equal(t, "notes", res.RecordingID)
	assert.Empty(t, res.SegmentsPath)
	require.Len(t, res.Segments, 2)
	assert.Nil(t, res.Segments[0].StartS)
	assert.Nil(t, res.Segments[0].EndS)
	assert.Equal(t, "The budget is tight. We revise the budget!", res.Segments[0].Text)
	assert.NoFileExists(t, filepath.Join(c.Paths.Outputs, "segments", "notes", "notes.json"))
}

func TestRunAudio(t *testing.T) {
	srv := newServices(t)
	defer srv.Close()
	c := loadConfig(t, srv.URL)

	audio := filepath.Join(t.TempDir(), "call.wav")
	require.NoError(t, os.WriteFile(audio, []byte("RIFF"), 0o644))

	p, err := NewPipeline(c)
	require.NoError(t, err)
	res, err := p.Run(context.Background(), Input{AudioPath: audio, RecordingID: "call-7"})
	require.NoError(t, err)

	assert.Equal(t, "call-7", res.RecordingID)
	assert.Equal(t, "en", res.Language)
	require.Len(t, res.Segments, 2)
	assert.Equal(t, []int{0, 1}, res.Segments[0].SentenceIDs)
	assert.Equal(t, []int{2, 3}, res.Segments[1].SentenceIDs)
	assert.Equal(t, 5.0, *res.Segments[1].EndS)
	assert.FileExists(t, res.SegmentsPath)
}

func TestRunShortTranscript(t *testing.T) {
	srv := newServices(t)
	defer srv.Close()
	c := loadConfig(t, srv.URL)

	in := filepath.Join(t.TempDir(), "one.txt")
	require.NoError(t, os.WriteFile(in, []byte("Only one sentence here."), 0o644))

	p, err := NewPipeline(c)
	require.NoError(t, err)
	res, err := p.Run(context.Background(), Input{TranscriptPath: in})
	require.NoError(t, err)
	require.Len(t, res.Segments, 1)
	assert.Equal(t, "short transcript", res.Segments[0].Label)
	assert.Equal(t, "Only one sentence here.", res.Segments[0].Text)
}

func TestRunErrors(t *testing.T) {
	srv := newServices(t)
	defer srv.Close()
	c := loadConfig(t, srv.URL)

	p, err := NewPipeline(c)
	require.NoError(t, err)

	_, err = p.Run(context.Background(), Input{})
	assert.ErrorIs(t, err, ErrNoInput)

	_, err = p.Run(context.Background(), Input{TranscriptPath: filepath.Join(t.TempDir(), "x.pdf")})
	assert.Error(t, err)

	c.Services.ASR.URL = ""
	_, err = p.Run(context.Background(), Input{AudioPath: "call.wav"})
	assert.ErrorContains(t, err, "services.asr.url")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = p.Run(context.Background(), Input{TranscriptPath: bad})
	assert.ErrorContains(t, err, "transcript")
}

func TestRunEmbeddingFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()
	c := loadConfig(t, srv.URL)

	in := filepath.Join(t.TempDir(), "meeting.json")
	require.NoError(t, os.WriteFile(in, []byte(meetingJSON), 0o644))

	p, err := NewPipeline(c)
	require.NoError(t, err)
	_, err = p.Run(context.Background(), Input{TranscriptPath: in})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed sentences")
	assert.NoDirExists(t, filepath.Join(c.Paths.Outputs, "segments", "standup"))
}

func TestNewPipelineOpenAIProvider(t *testing.T) {
	c := loadConfig(t, "http://localhost:1")
	c.Services.Embedding.Provider = cfg.ProviderOpenAI
	c.Services.NLP.Provider = cfg.ProviderOpenAI

	p, err := NewPipeline(c)
	require.NoError(t, err)
	assert.IsType(t, &clients.OpenAIEmbedder{}, p.embedder)
	assert.IsType(t, &clients.OpenAIPhraser{}, p.phraser)

	c.Services.NLP.Provider = "grpc"
	_, err = NewPipeline(c)
	assert.ErrorContains(t, err, "unknown provider")
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("Hello there. How are you?? Fine... thanks ")
	require.Len(t, got, 4)
	assert.Equal(t, "Hello there.", got[0].Text)
	assert.Equal(t, "How are you??", got[1].Text)
	assert.Equal(t, "Fine...", got[2].Text)
	assert.Equal(t, "thanks", got[3].Text)
	assert.Equal(t, 3, got[3].ID)
	assert.Nil(t, got[0].StartS)

	assert.Empty(t, splitSentences(" ... "))
}

func TestRunRejectsRecordingIDOutsideOutputs(t *testing.T) {
	srv := newServices(t)
	defer srv.Close()
	c := loadConfig(t, srv.URL)
	root := filepath.Dir(c.Paths.Outputs)

	in := filepath.Join(t.TempDir(), "meeting.json")
	escaped := strings.Replace(meetingJSON, `"standup"`, `"../../escaped"`, 1)
	require.NoError(t, os.WriteFile(in, []byte(escaped), 0o644))

	p, err := NewPipeline(c)
	require.NoError(t, err)

	_, err = p.Run(context.Background(), Input{TranscriptPath: in})
	assert.ErrorIs(t, err, ErrBadRecordingID)

	for _, id := range []string{"../up", "a/b", `a\b`, ".."} {
		_, err = p.Run(context.Background(), Input{TranscriptPath: in, RecordingID: id})
		assert.ErrorIs(t, err, ErrBadRecordingID, id)
	}

	assert.NoDirExists(t, c.Paths.Outputs)
	assert.NoDirExists(t, filepath.Join(root, "escaped"))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(root), "escaped.json"))
}

func TestCheckRecordingID(t *testing.T) {
	for _, id := range []string{"standup", "call-7", "2024.05.01_weekly"} {
		assert.NoError(t, checkRecordingID(id), id)
	}
	for _, id := range []string{"", ".", "..", "../x", "x/..", "/abs", `win\path`} {
		assert.ErrorIs(t, checkRecordingID(id), ErrBadRecordingID, id)
	}
}
