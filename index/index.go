package index

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/saideep872/aurora-qa/ai"
	"github.com/saideep872/aurora-qa/core"
)

// Index ranks corpus messages against a query by embedding similarity.
//
// Message vectors are computed at most once and cached by message id; the
// query's vector is always computed fresh. Ranking output is deterministic
// for a fixed corpus, query, and embeddings.
type Index struct {
	embedder ai.Embedder
	cache    *VectorCache
	logger   *slog.Logger
}

// Option configures an Index.
type Option func(*Index) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// WithCache sets a pre-populated vector cache, typically seeded by the
// ingestion pipeline so query-time ranking never embeds corpus messages.
func WithCache(cache *VectorCache) Option {
	return func(ix *Index) error {
		if cache == nil {
			cache = NewVectorCache()
		}
		ix.cache = cache
		return nil
	}
}

// New creates an embedding index.
func New(embedder ai.Embedder, opts ...Option) (*Index, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	ix := &Index{
		embedder: embedder,
		cache:    NewVectorCache(),
		logger:   slog.Default().With("component", "embedding-index"),
	}

	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}

	return ix, nil
}

// Cache returns the index's vector cache.
func (ix *Index) Cache() *VectorCache {
	return ix.cache
}

// Rank orders candidates by cosine similarity to the question, descending,
// and returns at most limit of them. Ties are broken by recency (newer
// timestamp first), then by ascending id, keeping the ordering deterministic.
//
// Scores are only comparable within the returned slice; they are relative to
// this one query.
func (ix *Index) Rank(ctx context.Context, question string, candidates []*core.Message, limit int) ([]core.Candidate, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if len(candidates) == 0 {
		return []core.Candidate{}, nil
	}

	queryVec, err := ix.embedder.EmbedText(ctx, question)
	if err != nil {
		ix.logger.Error("error embedding query", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}
	if len(queryVec) == 0 {
		return nil, fmt.Errorf("%w: backend returned empty query vector", ErrEmbeddingUnavailable)
	}

	ranked := make([]core.Candidate, 0, len(candidates))
	for _, msg := range candidates {
		vec, err := ix.vectorFor(ctx, msg)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, core.Candidate{
			Message: msg,
			Score:   CosineSimilarity(queryVec, vec),
		})
	}

	slices.SortFunc(ranked, func(a, b core.Candidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		// Tie-break: newer message first.
		if !a.Message.Timestamp.Equal(b.Message.Timestamp) {
			if a.Message.Timestamp.After(b.Message.Timestamp) {
				return -1
			}
			return 1
		}
		// Final tie-break for full determinism.
		switch {
		case a.Message.Id < b.Message.Id:
			return -1
		case a.Message.Id > b.Message.Id:
			return 1
		}
		return 0
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// vectorFor resolves the embedding for a message: the record's own vector if
// the ingestion pipeline already populated it, then the cache, then a fresh
// computation that is stored write-once.
func (ix *Index) vectorFor(ctx context.Context, msg *core.Message) ([]float32, error) {
	if len(msg.Vector) > 0 {
		return msg.Vector, nil
	}
	if vec, ok := ix.cache.Get(msg.Id); ok {
		return vec, nil
	}

	ix.logger.Debug("embedding uncached message", "id", msg.Id)
	vec, err := ix.embedder.EmbedText(ctx, msg.Text)
	if err != nil {
		ix.logger.Error("error embedding message", "id", msg.Id, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: backend returned empty vector for message %d", ErrEmbeddingUnavailable, msg.Id)
	}
	return ix.cache.Put(msg.Id, vec), nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 when either vector has zero magnitude.
func CosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, magA, magB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		magA += float64(v) * float64(v)
	}
	for _, v := range b {
		magB += float64(v) * float64(v)
	}
	if magA == 0 || magB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(magA) * math.Sqrt(magB)))
}
