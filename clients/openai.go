package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	openAIMaxBatch          = 2048
	openAIDefaultEmbedModel = "text-embedding-3-small"
	openAIDefaultChatModel  = "gpt-4o-mini"
)

// openAIConfig is shared by the OpenAI-compatible oracles.
type openAIConfig struct {
	model      string
	dim        int
	baseURL    string
	httpClient *http.Client
}

// OpenAIOption configures an OpenAI-compatible oracle.
type OpenAIOption func(*openAIConfig)

// WithModel sets the model name.
func WithModel(model string) OpenAIOption {
	return func(c *openAIConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithDimension requests vectors of the given size. Zero leaves the model default.
func WithDimension(dim int) OpenAIOption {
	return func(c *openAIConfig) { c.dim = dim }
}

// WithBaseURL points the client at another OpenAI-compatible server, such as LocalAI.
func WithBaseURL(url string) OpenAIOption {
	return func(c *openAIConfig) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(c *openAIConfig) { c.httpClient = client }
}

func newOpenAIClient(apiKey string, cfg openAIConfig) *openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(cfg.httpClient),
	}
	if cfg.baseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.baseURL))
	}
	client := openai.NewClient(opts...)
	return &client
}

// OpenAIEmbedder embeds texts through the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
	dim    int
}

func NewOpenAIEmbedder(apiKey string, opts ...OpenAIOption) *OpenAIEmbedder {
	cfg := openAIConfig{model: openAIDefaultEmbedModel, httpClient: http.DefaultClient}
	for _, o := range opts {
		o(&cfg)
	}
	return &OpenAIEmbedder{client: newOpenAIClient(apiKey, cfg), model: cfg.model, dim: cfg.dim}
}

// Model returns the embedding model identifier.
func (o *OpenAIEmbedder) Model() string { return o.model }

// Embed returns one vector per text in input order. Inputs above 2048
// texts are split across requests.
func (o *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	result := make([][]float64, len(texts))
	for i := 0; i < len(texts); i += openAIMaxBatch {
		end := min(i+openAIMaxBatch, len(texts))
		vecs, err := o.callAPI(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("embed batch [%d:%d]: %w", i, end, err)
		}
		copy(result[i:], vecs)
	}
	return result, nil
}

func (o *OpenAIEmbedder) callAPI(ctx context.Context, texts []string) ([][]float64, error) {
	params := openai.EmbeddingNewParams{
		Model:          o.model,
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	}
	if o.dim > 0 {
		params.Dimensions = openai.Int(int64(o.dim))
	}

	resp, err := o.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, err
	}

	vecs := make([][]float64, len(texts))
	for _, item := range resp.Data {
		idx := item.Index
		if idx < 0 || idx >= int64(len(texts)) {
			return nil, fmt.Errorf("unexpected embedding index %d for batch size %d", idx, len(texts))
		}
		vecs[idx] = item.Embedding
	}
	for i, v := range vecs {
		if v == nil {
			return nil, fmt.Errorf("missing embedding for index %d", i)
		}
	}
	return vecs, nil
}

const phrasePrompt = `Extract the noun phrases (noun chunks) that appear verbatim in the user's text.
Answer with a JSON array of strings in order of appearance and nothing else.`

// OpenAIPhraser extracts noun phrases with a chat-completions model.
type OpenAIPhraser struct {
	client *openai.Client
	model  string
}

func NewOpenAIPhraser(apiKey string, opts ...OpenAIOption) *OpenAIPhraser {
	cfg := openAIConfig{model: openAIDefaultChatModel, httpClient: http.DefaultClient}
	for _, o := range opts {
		o(&cfg)
	}
	return &OpenAIPhraser{client: newOpenAIClient(apiKey, cfg), model: cfg.model}
}

func (p *OpenAIPhraser) NounPhrases(ctx context.Context, text string) ([]string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(phrasePrompt),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil
	}
	return parsePhrases(resp.Choices[0].Message.Content)
}

// parsePhrases decodes a JSON string array, tolerating markdown code fences.
func parsePhrases(content string) ([]string, error) {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("noun phrases decode: %w", err)
	}
	return out, nil
}
