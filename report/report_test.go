package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saideep872/aurora-qa/core"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func msg(person, text string, ts time.Time) *core.Message {
	return &core.Message{Person: person, Text: text, Timestamp: ts}
}

func TestBuildTemporalFindings(t *testing.T) {
	messages := []*core.Message{
		msg("Sophia Al-Farsi", "dinner plans", now.Add(-24*time.Hour)),
		msg("Marcus Chen", "scheduled for next year", now.Add(300*24*time.Hour)),
		msg("Priya Nair", "ancient history", time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)),
		msg("Ghost", "no timestamp at all", time.Time{}),
	}

	r := Build(messages, WithNow(now))

	assert.Equal(t, 4, r.TotalMessages)
	assert.Equal(t, 3, r.Temporal.ValidTimestamps)
	assert.Equal(t, 1, r.Temporal.MissingTimestamps)
	assert.Equal(t, 1, r.Temporal.FutureDates)
	assert.Equal(t, 1, r.Temporal.VeryOldDates)
	assert.Equal(t, 2012, r.Temporal.Earliest.Year())
	assert.Equal(t, 2026, r.Temporal.Latest.Year())

	require.Len(t, r.Temporal.FutureExamples, 1)
	assert.Equal(t, "Marcus Chen", r.Temporal.FutureExamples[0].Person)
}

func TestBuildPersonFindings(t *testing.T) {
	messages := []*core.Message{
		msg("Sophia Al-Farsi", "one", now),
		msg("sophia al-farsi", "two", now),
		msg("SOPHIA AL-FARSI", "three", now),
		msg("Marcus Chen", "only one", now),
	}

	r := Build(messages, WithNow(now))

	assert.Equal(t, 2, r.Persons.TotalPersons)
	assert.Equal(t, 2.0, r.Persons.AvgMessagesPerPerson)
	assert.Equal(t, 1, r.Persons.SingleMessagePersons)

	require.NotEmpty(t, r.Persons.TopPersons)
	assert.Equal(t, "sophia al-farsi", r.Persons.TopPersons[0].Person)
	assert.Equal(t, 3, r.Persons.TopPersons[0].Count)

	variations, ok := r.Persons.NameVariations["sophia al-farsi"]
	require.True(t, ok, "three spellings of one name should be flagged")
	assert.Len(t, variations, 3)
}

func TestBuildContentFindings(t *testing.T) {
	messages := []*core.Message{
		msg("Sophia Al-Farsi", "call me at 555-123-4567", now),
		msg("Marcus Chen", "mail me at marcus@example.com", now),
		msg("Priya Nair", "   ", now),
		msg("Priya Nair", "hi", now),
		msg("Priya Nair", strings.Repeat("long ", 150), now),
		msg("Dana Cole", "same text", now),
		msg("Dana Cole", "Same Text", now),
	}

	r := Build(messages, WithNow(now))

	assert.Equal(t, 1, r.Content.EmptyMessages)
	assert.Equal(t, 1, r.Content.VeryShortMessages)
	assert.Equal(t, 1, r.Content.VeryLongMessages)
	assert.Equal(t, 1, r.Content.DuplicateTexts)

	assert.Equal(t, 1, r.Content.PIIIncidence["phone"])
	assert.Equal(t, 1, r.Content.PIIIncidence["email"])

	require.Len(t, r.Content.PIIExamples["phone"], 1)
	assert.Equal(t, "Sophia Al-Farsi", r.Content.PIIExamples["phone"][0].Person)
}

func TestBuildEmptyCorpus(t *testing.T) {
	r := Build(nil, WithNow(now))

	assert.Equal(t, 0, r.TotalMessages)
	assert.Equal(t, 0, r.Persons.TotalPersons)
	assert.Zero(t, r.Persons.AvgMessagesPerPerson)
	assert.Zero(t, r.Content.AvgMessageLength)
}

func TestSnippetTruncation(t *testing.T) {
	messages := []*core.Message{
		msg("Sophia Al-Farsi", strings.Repeat("x", 80)+" 555-123-4567", now),
	}

	r := Build(messages, WithNow(now))

	examples := r.Content.PIIExamples["phone"]
	require.Len(t, examples, 1)
	assert.LessOrEqual(t, len(examples[0].Snippet), 53)
	assert.True(t, strings.HasSuffix(examples[0].Snippet, "..."))
}
