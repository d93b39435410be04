package clients

import (
	"context"
	"fmt"
)

// --- Embedding (/embed) ---
type EmbedReq struct {
	Texts []string `json:"texts"`
	Model string   `json:"model,omitempty"`
}
type EmbedResp struct {
	Embeddings [][]float64 `json:"embeddings"`
	Model      string      `json:"model,omitempty"`
}

func (h *HTTP) Embed(ctx context.Context, url, model string, texts []string) (*EmbedResp, error) {
	var out EmbedResp
	if err := h.postJSON(ctx, "embed", url+"/embed", EmbedReq{Texts: texts, Model: model}, &out); err != nil {
		return nil, err
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed: got %d embeddings for %d texts", len(out.Embeddings), len(texts))
	}
	return &out, nil
}

// EmbeddingService binds the embedding endpoint to one model.
type EmbeddingService struct {
	h     *HTTP
	url   string
	model string
}

func (h *HTTP) Embedder(url, model string) *EmbeddingService {
	return &EmbeddingService{h: h, url: url, model: model}
}

func (s *EmbeddingService) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := s.h.Embed(ctx, s.url, s.model, texts)
	if err != nil {
		return nil, err
	}
	return resp.Embeddings, nil
}
