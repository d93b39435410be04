package clients

import (
	"context"
)

// --- NLP (/noun-chunks) ---
type NounChunksReq struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}
type NounChunksResp struct {
	NounChunks []string `json:"noun_chunks"`
}

func (h *HTTP) NounChunks(ctx context.Context, url, model, text string) (*NounChunksResp, error) {
	var out NounChunksResp
	if err := h.postJSON(ctx, "nlp", url+"/noun-chunks", NounChunksReq{Text: text, Model: model}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NounPhraseService binds the NLP service to one model and extracts noun
// phrases for the segmentation engine.
type NounPhraseService struct {
	h     *HTTP
	url   string
	model string
}

func (h *HTTP) NounPhraser(url, model string) *NounPhraseService {
	return &NounPhraseService{h: h, url: url, model: model}
}

func (s *NounPhraseService) NounPhrases(ctx context.Context, text string) ([]string, error) {
	resp, err := s.h.NounChunks(ctx, s.url, s.model, text)
	if err != nil {
		return nil, err
	}
	return resp.NounChunks, nil
}
