package index

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/saideep872/aurora-qa/ai/mock"
	"github.com/saideep872/aurora-qa/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessages(n int, base time.Time) []*core.Message {
	msgs := make([]*core.Message, n)
	for i := 0; i < n; i++ {
		text := fmt.Sprintf("message number %d about various topics", i)
		msgs[i] = &core.Message{
			Id:        core.ID(i + 1),
			Person:    "Test Person",
			Text:      text,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return msgs
}

func TestNew(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		ix, err := New(mock.NewMockEmbedder())
		require.NoError(t, err)
		assert.NotNil(t, ix)
		assert.NotNil(t, ix.Cache())
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := New(nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("with seeded cache", func(t *testing.T) {
		cache := NewVectorCache()
		cache.Put(1, []float32{1, 0})
		ix, err := New(mock.NewMockEmbedder(), WithCache(cache))
		require.NoError(t, err)
		assert.Equal(t, 1, ix.Cache().Len())
	})
}

func TestRank_TopKBound(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	for _, size := range []int{10, 10000} {
		t.Run(fmt.Sprintf("corpus size %d", size), func(t *testing.T) {
			ix, err := New(mock.NewMockEmbedder())
			require.NoError(t, err)

			ranked, err := ix.Rank(ctx, "anything at all", testMessages(size, now), 15)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(ranked), 15)
			if size > 15 {
				assert.Len(t, ranked, 15)
			}
		})
	}
}

func TestRank_Deterministic(t *testing.T) {
	ctx := context.Background()
	msgs := testMessages(50, time.Now().UTC())

	ix, err := New(mock.NewMockEmbedder())
	require.NoError(t, err)

	first, err := ix.Rank(ctx, "what happened recently?", msgs, 10)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := ix.Rank(ctx, "what happened recently?", msgs, 10)
		require.NoError(t, err)
		require.Equal(t, len(first), len(again))
		for j := range first {
			assert.Equal(t, first[j].Message.Id, again[j].Message.Id)
			assert.Equal(t, first[j].Score, again[j].Score)
		}
	}
}

func TestRank_OrderedByScoreThenRecency(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	// Fixed three-dimensional embeddings make the expected order obvious.
	vectors := map[string][]float32{
		"query": {1, 0, 0},
		"close": {0.9, 0.1, 0},
		"far":   {0, 1, 0},
		"tied":  {0.9, 0.1, 0},
	}
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return vectors[text], nil
	}

	msgs := []*core.Message{
		{Id: 1, Person: "A", Text: "far", Timestamp: now},
		{Id: 2, Person: "A", Text: "close", Timestamp: now.Add(-2 * time.Hour)},
		{Id: 3, Person: "A", Text: "tied", Timestamp: now.Add(-1 * time.Hour)},
	}

	ix, err := New(embedder)
	require.NoError(t, err)

	ranked, err := ix.Rank(ctx, "query", msgs, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	// "close" and "tied" share a score; the newer message (id 3) wins the tie.
	assert.Equal(t, core.ID(3), ranked[0].Message.Id)
	assert.Equal(t, core.ID(2), ranked[1].Message.Id)
	assert.Equal(t, core.ID(1), ranked[2].Message.Id)
	assert.Greater(t, ranked[0].Score, ranked[2].Score)
}

func TestRank_CacheIdempotence(t *testing.T) {
	ctx := context.Background()
	msgs := testMessages(5, time.Now().UTC())

	ix, err := New(mock.NewMockEmbedder())
	require.NoError(t, err)

	_, err = ix.Rank(ctx, "first query", msgs, 10)
	require.NoError(t, err)

	cached := make(map[core.ID][]float32)
	for _, m := range msgs {
		vec, ok := ix.Cache().Get(m.Id)
		require.True(t, ok)
		cached[m.Id] = vec
	}

	// Re-ranking the unchanged corpus never alters a cached vector.
	_, err = ix.Rank(ctx, "second query", msgs, 10)
	require.NoError(t, err)
	for _, m := range msgs {
		vec, ok := ix.Cache().Get(m.Id)
		require.True(t, ok)
		assert.Equal(t, cached[m.Id], vec)
	}
}

func TestRank_PrefersRecordVector(t *testing.T) {
	ctx := context.Background()
	embedder := mock.NewMockEmbedder()

	msgs := []*core.Message{
		{Id: 1, Person: "A", Text: "pre-embedded", Timestamp: time.Now(), Vector: []float32{1, 0}},
	}

	ix, err := New(embedder)
	require.NoError(t, err)

	_, err = ix.Rank(ctx, "query", msgs, 10)
	require.NoError(t, err)

	// Only the query itself hit the embedder.
	assert.Equal(t, 1, embedder.CallCount())
}

func TestRank_EmbeddingUnavailable(t *testing.T) {
	ctx := context.Background()
	msgs := testMessages(3, time.Now().UTC())

	t.Run("backend error", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("connection refused")
		}

		ix, err := New(embedder)
		require.NoError(t, err)

		_, err = ix.Rank(ctx, "query", msgs, 10)
		assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
	})

	t.Run("malformed empty vector", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{}, nil
		}

		ix, err := New(embedder)
		require.NoError(t, err)

		_, err = ix.Rank(ctx, "query", msgs, 10)
		assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
	})
}

func TestRank_InvalidLimit(t *testing.T) {
	ix, err := New(mock.NewMockEmbedder())
	require.NoError(t, err)

	_, err = ix.Rank(context.Background(), "query", testMessages(3, time.Now()), 0)
	assert.Equal(t, ErrInvalidLimit, err)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-6)
		})
	}
}

func TestVectorCache_WriteOnce(t *testing.T) {
	cache := NewVectorCache()

	first := cache.Put(1, []float32{1, 2})
	second := cache.Put(1, []float32{3, 4})

	assert.Equal(t, []float32{1, 2}, first)
	assert.Equal(t, []float32{1, 2}, second)

	got, ok := cache.Get(1)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2}, got)
	assert.Equal(t, 1, cache.Len())
}
