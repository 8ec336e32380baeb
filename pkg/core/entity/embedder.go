// Package entity resolves free-text phrases to stored company and line-item
// names. The resolver embeds every known name once at startup and answers
// lookups with cosine similarity, so misspellings and partial names still
// surface the right candidates for SQL generation.
package entity

import (
	"context"
	"fmt"

	gai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Embedder produces embedding vectors for entity names and query phrases.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

const embeddingModel = "text-embedding-004"

// The batch endpoint rejects more than 100 contents per request.
const maxBatchSize = 100

// GeminiEmbedder implements Embedder on the Gemini embedding API.
type GeminiEmbedder struct {
	client *gai.Client
	model  *gai.EmbeddingModel
}

func NewGeminiEmbedder(ctx context.Context, apiKey string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := gai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	return &GeminiEmbedder{
		client: client,
		model:  client.EmbeddingModel(embeddingModel),
	}, nil
}

func (e *GeminiEmbedder) Close() error {
	return e.client.Close()
}

func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.model.EmbedContent(ctx, gai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if res.Embedding == nil {
		return nil, fmt.Errorf("embedding response was empty")
	}
	return res.Embedding.Values, nil
}

func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch := e.model.NewBatch()
		for _, t := range texts[start:end] {
			batch.AddContent(gai.Text(t))
		}

		res, err := e.model.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("batch embedding failed: %w", err)
		}
		if len(res.Embeddings) != end-start {
			return nil, fmt.Errorf("batch embedding returned %d vectors for %d inputs", len(res.Embeddings), end-start)
		}
		for _, emb := range res.Embeddings {
			vectors = append(vectors, emb.Values)
		}
	}

	return vectors, nil
}
