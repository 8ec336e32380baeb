package entity

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// NoEntityHints is returned when the index is empty or unavailable so the
// SQL-generation prompt always receives a well-formed entity section.
const NoEntityHints = "No specific entities found"

type indexedEntity struct {
	Name   string
	Vector []float32
}

// Resolver holds an in-memory embedding index over known entity names.
type Resolver struct {
	embedder Embedder
	entries  []indexedEntity
}

// Build embeds every name and returns a ready resolver.
// Duplicate and empty names are dropped before embedding.
func Build(ctx context.Context, embedder Embedder, names []string) (*Resolver, error) {
	seen := make(map[string]bool, len(names))
	unique := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		unique = append(unique, n)
	}

	r := &Resolver{embedder: embedder}
	if len(unique) == 0 {
		return r, nil
	}

	vectors, err := embedder.EmbedBatch(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to build entity index: %w", err)
	}

	r.entries = make([]indexedEntity, len(unique))
	for i, name := range unique {
		r.entries[i] = indexedEntity{Name: name, Vector: vectors[i]}
	}

	fmt.Printf("[DEBUG] entity.Resolver: indexed %d names\n", len(r.entries))
	return r, nil
}

// Size returns the number of indexed names.
func (r *Resolver) Size() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// TopK returns the k most similar indexed names to the phrase.
func (r *Resolver) TopK(ctx context.Context, phrase string, k int) ([]string, error) {
	if r == nil || len(r.entries) == 0 || k <= 0 {
		return nil, nil
	}

	query, err := r.embedder.Embed(ctx, phrase)
	if err != nil {
		return nil, fmt.Errorf("failed to embed phrase: %w", err)
	}

	type scored struct {
		name  string
		score float64
	}
	results := make([]scored, 0, len(r.entries))
	for _, e := range r.entries {
		results = append(results, scored{name: e.Name, score: cosine(query, e.Vector)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k > len(results) {
		k = len(results)
	}
	names := make([]string, k)
	for i := 0; i < k; i++ {
		names[i] = results[i].name
	}
	return names, nil
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
