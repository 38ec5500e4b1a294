// Copyright 2025 The Aurora Q&A Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package report builds an offline data-quality report over a loaded corpus:
// temporal anomalies, person distribution, content quality, and PII
// incidence. The report is a pure function of the corpus; it performs no
// I/O and never calls a backend.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/saideep872/aurora-qa/core"
	"github.com/saideep872/aurora-qa/sanitize"
)

const (
	shortMessageLength = 10
	longMessageLength  = 500
	veryOldCutoffYear  = 2020
	maxExamples        = 5
	topPersonCount     = 10
)

// Example points at a message illustrating a finding. Snippets are
// truncated; the report may be shared more widely than the corpus.
type Example struct {
	Person    string
	Timestamp time.Time
	Snippet   string
}

// PersonCount pairs a person with their message count.
type PersonCount struct {
	Person string
	Count  int
}

// Temporal summarizes timestamp quality.
type Temporal struct {
	ValidTimestamps   int
	MissingTimestamps int
	FutureDates       int
	VeryOldDates      int
	Earliest          time.Time
	Latest            time.Time
	FutureExamples    []Example
	OldExamples       []Example
}

// Persons summarizes the person distribution.
type Persons struct {
	TotalPersons         int
	AvgMessagesPerPerson float64
	TopPersons           []PersonCount
	SingleMessagePersons int
	NameVariations       map[string][]string // normalized name -> raw spellings seen
}

// Content summarizes message text quality.
type Content struct {
	EmptyMessages     int
	VeryShortMessages int
	VeryLongMessages  int
	AvgMessageLength  float64
	DuplicateTexts    int
	PIIIncidence      map[string]int // sanitize rule name -> messages containing a hit
	PIIExamples       map[string][]Example
}

// Report is the full corpus data-quality report.
type Report struct {
	GeneratedAt   time.Time
	TotalMessages int
	Temporal      Temporal
	Persons       Persons
	Content       Content
}

// Option configures report generation.
type Option func(*builder)

// WithPolicy sets the sanitization policy used for PII incidence.
// Default is sanitize.DefaultPolicy().
func WithPolicy(policy sanitize.Policy) Option {
	return func(b *builder) {
		b.policy = policy
	}
}

// WithNow fixes the reference time for future-date detection.
func WithNow(now time.Time) Option {
	return func(b *builder) {
		b.now = now
	}
}

type builder struct {
	policy sanitize.Policy
	now    time.Time
}

// Build generates the report for the given corpus.
func Build(messages []*core.Message, opts ...Option) *Report {
	b := &builder{
		policy: sanitize.DefaultPolicy(),
		now:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(b)
	}

	r := &Report{
		GeneratedAt:   b.now,
		TotalMessages: len(messages),
	}
	r.Temporal = b.temporal(messages)
	r.Persons = b.persons(messages)
	r.Content = b.content(messages)
	return r
}

func (b *builder) temporal(messages []*core.Message) Temporal {
	t := Temporal{}
	oldCutoff := time.Date(veryOldCutoffYear, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, msg := range messages {
		if msg.Timestamp.IsZero() {
			t.MissingTimestamps++
			continue
		}
		t.ValidTimestamps++

		if t.Earliest.IsZero() || msg.Timestamp.Before(t.Earliest) {
			t.Earliest = msg.Timestamp
		}
		if msg.Timestamp.After(t.Latest) {
			t.Latest = msg.Timestamp
		}

		if msg.Timestamp.After(b.now) {
			t.FutureDates++
			t.FutureExamples = appendExample(t.FutureExamples, msg)
		}
		if msg.Timestamp.Before(oldCutoff) {
			t.VeryOldDates++
			t.OldExamples = appendExample(t.OldExamples, msg)
		}
	}
	return t
}

func (b *builder) persons(messages []*core.Message) Persons {
	counts := make(map[string]int)
	variations := make(map[string]map[string]bool)

	for _, msg := range messages {
		key := core.NormalizePerson(msg.Person)
		counts[key]++
		if variations[key] == nil {
			variations[key] = make(map[string]bool)
		}
		variations[key][msg.Person] = true
	}

	p := Persons{
		TotalPersons:   len(counts),
		NameVariations: make(map[string][]string),
	}
	if p.TotalPersons > 0 {
		p.AvgMessagesPerPerson = float64(len(messages)) / float64(p.TotalPersons)
	}

	ranked := make([]PersonCount, 0, len(counts))
	for person, count := range counts {
		ranked = append(ranked, PersonCount{Person: person, Count: count})
		if count == 1 {
			p.SingleMessagePersons++
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Person < ranked[j].Person
	})
	if len(ranked) > topPersonCount {
		ranked = ranked[:topPersonCount]
	}
	p.TopPersons = ranked

	for key, raw := range variations {
		if len(raw) > 1 {
			spellings := make([]string, 0, len(raw))
			for s := range raw {
				spellings = append(spellings, s)
			}
			sort.Strings(spellings)
			p.NameVariations[key] = spellings
		}
	}
	return p
}

func (b *builder) content(messages []*core.Message) Content {
	c := Content{
		PIIIncidence: make(map[string]int),
		PIIExamples:  make(map[string][]Example),
	}

	textCounts := make(map[string]int)
	totalLength := 0

	for _, msg := range messages {
		text := msg.Text
		totalLength += len(text)
		trimmed := strings.TrimSpace(text)

		switch {
		case trimmed == "":
			c.EmptyMessages++
		case len(text) < shortMessageLength:
			c.VeryShortMessages++
		case len(text) > longMessageLength:
			c.VeryLongMessages++
		}
		textCounts[strings.ToLower(trimmed)]++

		for rule := range b.policy.Findings(text) {
			c.PIIIncidence[rule]++
			c.PIIExamples[rule] = appendExample(c.PIIExamples[rule], msg)
		}
	}

	if len(messages) > 0 {
		c.AvgMessageLength = float64(totalLength) / float64(len(messages))
	}
	for _, count := range textCounts {
		if count > 1 {
			c.DuplicateTexts++
		}
	}
	return c
}

func appendExample(examples []Example, msg *core.Message) []Example {
	if len(examples) >= maxExamples {
		return examples
	}
	return append(examples, Example{
		Person:    msg.Person,
		Timestamp: msg.Timestamp,
		Snippet:   snippet(msg.Text, 50),
	})
}

func snippet(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
