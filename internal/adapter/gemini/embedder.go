package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// batchSize is the maximum number of texts per BatchEmbedContents call.
const batchSize = 100

type Embedder struct {
	client *genai.Client
	model  string
}

func NewEmbedder(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*Embedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Embedder{client: client, model: model}, nil
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	em := e.client.EmbeddingModel(e.model)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		slog.ErrorContext(ctx, "embedding failed", "error", err, "model", e.model)
		return nil, err
	}
	if res.Embedding == nil {
		return nil, fmt.Errorf("gemini: empty embedding response")
	}
	return res.Embedding.Values, nil
}

// EmbedBatch embeds texts in order, chunking requests to the API batch limit.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	em := e.client.EmbeddingModel(e.model)
	out := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch := em.NewBatch()
		for _, t := range texts[start:end] {
			batch.AddContent(genai.Text(t))
		}

		res, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			slog.ErrorContext(ctx, "batch embedding failed", "error", err, "model", e.model, "offset", start)
			return nil, err
		}
		if len(res.Embeddings) != end-start {
			return nil, fmt.Errorf("gemini: got %d embeddings for %d texts", len(res.Embeddings), end-start)
		}
		for _, emb := range res.Embeddings {
			out = append(out, emb.Values)
		}
	}

	return out, nil
}
