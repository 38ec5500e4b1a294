package qa

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saideep872/aurora-qa/ai/mock"
	"github.com/saideep872/aurora-qa/core"
	"github.com/saideep872/aurora-qa/index"
	"github.com/saideep872/aurora-qa/storage"
	"github.com/saideep872/aurora-qa/storage/badger"
)

func fixedVector(seed float32) []float32 {
	return []float32{seed, 1 - seed, 0.5}
}

func restaurantCorpus(t *testing.T) storage.MessageRepository {
	t.Helper()

	repo, _, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	messages := []*core.Message{
		{
			SourceId:  "msg-001",
			Person:    "Sophia Al-Farsi",
			Timestamp: base,
			Text:      "Dinner at Lucia's was amazing, call me at 555-123-4567",
			Vector:    fixedVector(0.9),
		},
		{
			SourceId:  "msg-002",
			Person:    "Sophia Al-Farsi",
			Timestamp: base.Add(24 * time.Hour),
			Text:      "Nobu has the best sushi in town",
			Vector:    fixedVector(0.8),
		},
		{
			SourceId:  "msg-003",
			Person:    "Sophia Al-Farsi",
			Timestamp: base.Add(48 * time.Hour),
			Text:      "The Golden Fork is my new favorite spot",
			Vector:    fixedVector(0.7),
		},
		{
			SourceId:  "msg-004",
			Person:    "Marcus Chen",
			Timestamp: base.Add(72 * time.Hour),
			Text:      "Burger Barn is the only restaurant I need",
			Vector:    fixedVector(0.1),
		},
	}

	_, err = repo.AddMessages(context.Background(), messages...)
	require.NoError(t, err)
	return repo
}

func newPipeline(t *testing.T, repo storage.MessageRepository, reasoner *mock.MockReasoner, embedder *mock.MockEmbedder) *Orchestrator {
	t.Helper()

	ix, err := index.New(embedder)
	require.NoError(t, err)

	synth, err := NewSynthesizer(reasoner)
	require.NoError(t, err)

	o, err := NewOrchestrator(repo, ix, synth)
	require.NoError(t, err)
	return o
}

func TestAskFiltersToNamedPerson(t *testing.T) {
	repo := restaurantCorpus(t)
	reasoner := mock.NewMockReasoner()
	reasoner.CompleteFunc = func(_ context.Context, _, _ string) (string, error) {
		return "Sophia's favorites are Lucia's, Nobu, and The Golden Fork.", nil
	}
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return fixedVector(0.9), nil
	}

	o := newPipeline(t, repo, reasoner, embedder)
	answer, err := o.Ask(context.Background(),
		core.Query{Text: "What are Sophia's favorite restaurants?"})
	require.NoError(t, err)

	assert.Contains(t, answer.Text, "Lucia's")
	assert.Len(t, answer.Supporting, 3, "only Sophia's messages should survive the filter")

	prompt := reasoner.LastUserPrompt
	assert.Contains(t, prompt, "Lucia's")
	assert.Contains(t, prompt, "Nobu")
	assert.Contains(t, prompt, "Golden Fork")
	assert.NotContains(t, prompt, "Burger Barn", "other persons' messages must not reach the prompt")
}

func TestAskNeverLeaksPIIToReasoner(t *testing.T) {
	repo := restaurantCorpus(t)
	reasoner := mock.NewMockReasoner()
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return fixedVector(0.9), nil
	}

	o := newPipeline(t, repo, reasoner, embedder)
	_, err := o.Ask(context.Background(),
		core.Query{Text: "What are Sophia's favorite restaurants?"})
	require.NoError(t, err)

	boundary := reasoner.LastSystemPrompt + reasoner.LastUserPrompt
	assert.False(t, strings.Contains(boundary, "555-123-4567"),
		"raw phone number crossed the reasoning boundary")
	assert.Contains(t, reasoner.LastUserPrompt, "[PHONE_REDACTED]")
}

func TestAskWithoutTargetUsesFullCorpus(t *testing.T) {
	repo := restaurantCorpus(t)
	reasoner := mock.NewMockReasoner()
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return fixedVector(0.5), nil
	}

	o := newPipeline(t, repo, reasoner, embedder)
	answer, err := o.Ask(context.Background(),
		core.Query{Text: "How many restaurants are mentioned overall?"})
	require.NoError(t, err)

	assert.Len(t, answer.Supporting, 4)
	assert.Contains(t, reasoner.LastUserPrompt, "Burger Barn")
}

func TestAskAbsentPersonBroadensAndReportsNotFound(t *testing.T) {
	repo := restaurantCorpus(t)
	reasoner := mock.NewMockReasoner()
	reasoner.CompleteFunc = func(_ context.Context, _, _ string) (string, error) {
		// No message in the prompt mentions Elena, so a faithful backend
		// falls back to the instructed refusal.
		return NotFoundAnswer, nil
	}
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return fixedVector(0.5), nil
	}

	o := newPipeline(t, repo, reasoner, embedder)
	answer, err := o.Ask(context.Background(),
		core.Query{Text: "What restaurants does Elena like?"})
	require.NoError(t, err)

	// An unknown name degrades the filter to the full corpus rather than an
	// empty set; the refusal comes from the instructed backend, never from a
	// fabricated answer.
	assert.Len(t, answer.Supporting, 4)
	assert.Equal(t, 1, reasoner.CallCount())
	assert.Equal(t, NotFoundAnswer, answer.Text)
	assert.Contains(t, reasoner.LastSystemPrompt, NotFoundAnswer)
}

func TestAskPersonBoundHoldsWhenCorpusIsSinglePerson(t *testing.T) {
	repo, _, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	messages := make([]*core.Message, 0, 9)
	for i := 0; i < 9; i++ {
		n := strconv.Itoa(i + 1)
		messages = append(messages, &core.Message{
			SourceId:  "msg-00" + n,
			Person:    "Sophia Al-Farsi",
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Text:      "Restaurant visit number " + n,
			Vector:    fixedVector(float32(i) / 10),
		})
	}
	_, err = repo.AddMessages(context.Background(), messages...)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return fixedVector(0.5), nil
	}

	o := newPipeline(t, repo, mock.NewMockReasoner(), embedder)
	answer, err := o.Ask(context.Background(),
		core.Query{Text: "What are Sophia's favorite restaurants?"})
	require.NoError(t, err)

	// The tighter person bound applies whenever the name matched, even when
	// the match happens to cover every message in the corpus.
	assert.Len(t, answer.Supporting, DefaultPersonTopK)
}

func TestAskExplicitTargetOverridesExtraction(t *testing.T) {
	repo := restaurantCorpus(t)
	reasoner := mock.NewMockReasoner()
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return fixedVector(0.5), nil
	}

	o := newPipeline(t, repo, reasoner, embedder)
	answer, err := o.Ask(context.Background(), core.Query{
		Text:         "What restaurants come up?",
		TargetPerson: "Marcus Chen",
	})
	require.NoError(t, err)

	assert.Len(t, answer.Supporting, 1)
	assert.Contains(t, reasoner.LastUserPrompt, "Burger Barn")
	assert.NotContains(t, reasoner.LastUserPrompt, "Nobu")
}

func TestAskEmptyQuestion(t *testing.T) {
	repo := restaurantCorpus(t)
	o := newPipeline(t, repo, mock.NewMockReasoner(), mock.NewMockEmbedder())

	_, err := o.Ask(context.Background(), core.Query{Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestAskEmptyCorpus(t *testing.T) {
	repo, _, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	o := newPipeline(t, repo, mock.NewMockReasoner(), mock.NewMockEmbedder())
	_, err = o.Ask(context.Background(), core.Query{Text: "anything at all?"})

	assert.ErrorIs(t, err, ErrNoCandidates)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageRanking, stageErr.Stage)
}

func TestAskEmbeddingFailureSurfaces(t *testing.T) {
	repo := restaurantCorpus(t)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, errors.New("backend down")
	}

	o := newPipeline(t, repo, mock.NewMockReasoner(), embedder)
	_, err := o.Ask(context.Background(), core.Query{Text: "anything?"})

	assert.ErrorIs(t, err, index.ErrEmbeddingUnavailable)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageRanking, stageErr.Stage)
}

func TestAskReasoningFailureSurfaces(t *testing.T) {
	repo := restaurantCorpus(t)
	reasoner := mock.NewMockReasoner()
	reasoner.CompleteFunc = func(_ context.Context, _, _ string) (string, error) {
		return "", errors.New("rate limited")
	}
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return fixedVector(0.9), nil
	}

	o := newPipeline(t, repo, reasoner, embedder)
	_, err := o.Ask(context.Background(), core.Query{Text: "anything?"})

	assert.ErrorIs(t, err, ErrReasoningUnavailable)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageSynthesizing, stageErr.Stage)
}

type recordingMonitor struct {
	question  string
	target    string
	filtered  int
	ranked    int
	sanitized int
	finished  bool
}

func (r *recordingMonitor) Start(question string) { r.question = question }
func (r *recordingMonitor) AfterFiltering(target string, candidates []*core.Message) {
	r.target = target
	r.filtered = len(candidates)
}
func (r *recordingMonitor) AfterRanking(ranked []core.Candidate) { r.ranked = len(ranked) }
func (r *recordingMonitor) AfterSanitizing(sanitized []core.SanitizedCandidate) {
	r.sanitized = len(sanitized)
}
func (r *recordingMonitor) Finish(_ *core.Answer) { r.finished = true }

func TestAskWithMonitorObservesStages(t *testing.T) {
	repo := restaurantCorpus(t)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return fixedVector(0.9), nil
	}

	o := newPipeline(t, repo, mock.NewMockReasoner(), embedder)
	monitor := &recordingMonitor{}

	_, err := o.AskWithMonitor(context.Background(),
		core.Query{Text: "What are Sophia's favorite restaurants?"}, monitor)
	require.NoError(t, err)

	assert.Equal(t, "Sophia Al-Farsi", monitor.target)
	assert.Equal(t, 3, monitor.filtered)
	assert.Equal(t, 3, monitor.ranked)
	assert.Equal(t, 3, monitor.sanitized)
	assert.True(t, monitor.finished)
}
