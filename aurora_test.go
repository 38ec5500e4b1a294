package aurora

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saideep872/aurora-qa/ai/mock"
	"github.com/saideep872/aurora-qa/core"
)

const feedJSON = `{
	"items": [
		{"id": "msg-001", "user_name": "Sophia Al-Farsi", "message": "Dinner at Lucia's was amazing", "timestamp": "2025-03-14T09:00:00Z"},
		{"id": "msg-002", "user_name": "Sophia Al-Farsi", "message": "Nobu has the best sushi", "timestamp": "2025-03-15T09:00:00Z"},
		{"id": "msg-003", "user_name": "Sophia Al-Farsi", "message": "The Golden Fork is my favorite spot", "timestamp": "2025-03-16T09:00:00Z"},
		{"id": "msg-004", "user_name": "Marcus Chen", "message": "Bought a third car, call 555-123-4567", "timestamp": "2025-03-17T09:00:00Z"}
	]
}`

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(feedJSON))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestSystem(t *testing.T, reasoner *mock.MockReasoner) *System {
	t.Helper()

	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), reasoner)
	system, err := NewSystem(
		&Config{SourceURL: feedServer(t).URL},
		WithProvider(provider),
	)
	require.NoError(t, err)
	t.Cleanup(func() { system.Close() })

	stats, err := system.LoadCorpus(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, stats.Stored)
	return system
}

func TestSystemEndToEnd(t *testing.T) {
	reasoner := mock.NewMockReasoner()
	reasoner.CompleteFunc = func(_ context.Context, _, _ string) (string, error) {
		return "Sophia's favorites are Lucia's, Nobu, and The Golden Fork.", nil
	}

	system := newTestSystem(t, reasoner)
	answer, err := system.Ask(context.Background(),
		core.Query{Text: "What are Sophia's favorite restaurants?"})
	require.NoError(t, err)

	assert.Contains(t, answer.Text, "Lucia's")
	assert.Len(t, answer.Supporting, 3, "only Sophia's messages should back the answer")
	assert.NotContains(t, reasoner.LastUserPrompt, "555-123-4567")
}

func TestSystemReport(t *testing.T) {
	system := newTestSystem(t, mock.NewMockReasoner())

	r, err := system.Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, r.TotalMessages)
	assert.Equal(t, 2, r.Persons.TotalPersons)
	assert.Equal(t, 1, r.Content.PIIIncidence["phone"])
}

func TestSystemLoadCorpusRequiresSource(t *testing.T) {
	provider := mock.NewMockProvider()
	system, err := NewSystem(&Config{}, WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { system.Close() })

	_, err = system.LoadCorpus(context.Background())
	assert.ErrorIs(t, err, ErrSourceRequired)
}
