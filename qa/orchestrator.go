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

package qa

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/saideep872/aurora-qa/core"
	"github.com/saideep872/aurora-qa/index"
	"github.com/saideep872/aurora-qa/sanitize"
	"github.com/saideep872/aurora-qa/storage"
)

// Stage identifies one of the four sequential pipeline stages.
type Stage string

const (
	StageFiltering    Stage = "filtering"
	StageRanking      Stage = "ranking"
	StageSanitizing   Stage = "sanitizing"
	StageSynthesizing Stage = "synthesizing"
)

// StageError reports which pipeline stage a query failed in. The underlying
// condition is preserved for errors.Is matching.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

const (
	// DefaultTopK bounds the candidates reaching the reasoning backend when
	// the query names no particular person.
	DefaultTopK = 10

	// DefaultPersonTopK is the tighter bound used when filtering narrowed the
	// corpus to one person; fewer, more relevant candidates read better.
	DefaultPersonTopK = 7
)

// Orchestrator composes the pipeline: filter by person, rank by embedding
// similarity, sanitize, synthesize. Each stage is a pure transformation of
// the previous stage's output; failures surface to the caller unretried.
type Orchestrator struct {
	repository  storage.MessageRepository
	index       *index.Index
	synthesizer *Synthesizer
	policy      sanitize.Policy
	topK        int
	personTopK  int
	logger      *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithTopK sets the candidate bound for unfiltered queries.
func WithTopK(k int) Option {
	return func(o *Orchestrator) error {
		if k <= 0 {
			return index.ErrInvalidLimit
		}
		o.topK = k
		return nil
	}
}

// WithPersonTopK sets the candidate bound for person-filtered queries.
func WithPersonTopK(k int) Option {
	return func(o *Orchestrator) error {
		if k <= 0 {
			return index.ErrInvalidLimit
		}
		o.personTopK = k
		return nil
	}
}

// WithPolicy replaces the default sanitization policy.
func WithPolicy(policy sanitize.Policy) Option {
	return func(o *Orchestrator) error {
		o.policy = policy
		return nil
	}
}

// NewOrchestrator creates the query pipeline over the given repository,
// embedding index and synthesizer.
func NewOrchestrator(
	repository storage.MessageRepository,
	embeddingIndex *index.Index,
	synthesizer *Synthesizer,
	opts ...Option,
) (*Orchestrator, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embeddingIndex == nil {
		return nil, ErrIndexRequired
	}
	if synthesizer == nil {
		return nil, ErrSynthesizerRequired
	}

	o := &Orchestrator{
		repository:  repository,
		index:       embeddingIndex,
		synthesizer: synthesizer,
		policy:      sanitize.DefaultPolicy(),
		topK:        DefaultTopK,
		personTopK:  DefaultPersonTopK,
		logger:      slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Ask runs the full pipeline for a query. If the query carries no target
// person, one is extracted from the question against the corpus's known
// persons; failing that, filtering degrades to a no-op.
func (o *Orchestrator) Ask(ctx context.Context, query core.Query) (*core.Answer, error) {
	return o.AskWithMonitor(ctx, query, nil)
}

// AskWithMonitor runs the pipeline with per-stage observation callbacks.
func (o *Orchestrator) AskWithMonitor(ctx context.Context, query core.Query, monitor QueryMonitor) (*core.Answer, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	query.Text = strings.TrimSpace(query.Text)
	if query.Text == "" {
		return nil, ErrEmptyQuestion
	}

	monitor.Start(query.Text)

	corpus, err := o.repository.AllMessages(ctx)
	if err != nil {
		o.logger.Error("error loading corpus", "err", err)
		return nil, &StageError{Stage: StageFiltering, Err: err}
	}

	// 1. Narrow by person
	target := query.TargetPerson
	if target == "" {
		target = ExtractTarget(query.Text, distinctPersons(corpus))
	}
	candidates, personMatched := o.narrowByPerson(ctx, corpus, target)
	monitor.AfterFiltering(target, candidates)

	// 2. Rank by similarity
	limit := o.topK
	if personMatched {
		limit = o.personTopK
	}
	ranked, err := o.index.Rank(ctx, query.Text, candidates, limit)
	if err != nil {
		o.logger.Error("error ranking candidates", "question", query.Text, "err", err)
		return nil, &StageError{Stage: StageRanking, Err: err}
	}
	if len(ranked) == 0 {
		return nil, &StageError{Stage: StageRanking, Err: ErrNoCandidates}
	}
	monitor.AfterRanking(ranked)

	// 3. Sanitize
	sanitized := o.policy.Candidates(ranked)
	monitor.AfterSanitizing(sanitized)

	// 4. Synthesize
	answer, err := o.synthesizer.Synthesize(ctx, query, sanitized)
	if err != nil {
		o.logger.Error("error synthesizing answer", "question", query.Text, "err", err)
		return nil, &StageError{Stage: StageSynthesizing, Err: err}
	}

	answer.Supporting = make([]core.ID, len(ranked))
	for i, c := range ranked {
		answer.Supporting[i] = c.Message.Id
	}

	monitor.Finish(answer)
	o.logger.Debug("query answered",
		"question", query.Text,
		"target", target,
		"candidates", len(ranked))
	return answer, nil
}

// narrowByPerson resolves the target to candidate messages. An exact
// normalized name hits the storage person index; partial names fall back to
// the fuzzy corpus scan, which itself degrades to the full corpus when
// nothing matches. The bool reports whether the target actually matched, and
// holds even when the match covers the whole corpus.
func (o *Orchestrator) narrowByPerson(ctx context.Context, corpus []*core.Message, target string) ([]*core.Message, bool) {
	if target == "" {
		return corpus, false
	}

	ids, err := o.repository.GetMessagesByPerson(ctx, core.NormalizePerson(target))
	if err == nil && len(ids) > 0 {
		indexed := make(map[core.ID]bool, len(ids))
		for _, id := range ids {
			indexed[id] = true
		}
		matched := make([]*core.Message, 0, len(ids))
		for _, msg := range corpus {
			if indexed[msg.Id] {
				matched = append(matched, msg)
			}
		}
		if len(matched) > 0 {
			return matched, true
		}
	}
	return matchByPerson(corpus, target)
}

// distinctPersons lists each corpus person once, in first-seen order.
func distinctPersons(corpus []*core.Message) []string {
	seen := make(map[string]bool, len(corpus))
	persons := make([]string, 0, len(corpus))
	for _, msg := range corpus {
		key := core.NormalizePerson(msg.Person)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		persons = append(persons, msg.Person)
	}
	return persons
}
