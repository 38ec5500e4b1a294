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

// Package aurora wires the question-answering pipeline together: storage,
// embedding index, ingestion, and the query orchestrator, behind one System
// facade.
package aurora

import (
	"context"
	"log/slog"

	"github.com/saideep872/aurora-qa/ai"
	"github.com/saideep872/aurora-qa/ai/openai"
	"github.com/saideep872/aurora-qa/core"
	"github.com/saideep872/aurora-qa/index"
	"github.com/saideep872/aurora-qa/ingestion"
	"github.com/saideep872/aurora-qa/qa"
	"github.com/saideep872/aurora-qa/report"
	"github.com/saideep872/aurora-qa/storage"
	"github.com/saideep872/aurora-qa/storage/badger"
)

// System is the assembled question-answering service.
type System struct {
	config       *Config
	backend      *badger.Backend
	repository   storage.MessageRepository
	provider     ai.AIProvider
	index        *index.Index
	orchestrator *qa.Orchestrator
	logger       *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	provider ai.AIProvider
	logger   *slog.Logger
}

// WithProvider substitutes the AI provider, e.g. mocks in tests or an
// alternative OpenAI-compatible stack.
func WithProvider(provider ai.AIProvider) SystemOption {
	return func(o *systemOptions) {
		o.provider = provider
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) SystemOption {
	return func(o *systemOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewSystem assembles a System from configuration.
func NewSystem(config *Config, opts ...SystemOption) (*System, error) {
	if config == nil {
		config = &Config{}
	}
	config = config.withDefaults()

	options := &systemOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(config.DBPath, config.DBPath == "")
	if err != nil {
		return nil, err
	}

	repository, err := badger.NewMessageRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		var aiOpts []ai.ConfigOption
		if config.EmbeddingHost != "" {
			aiOpts = append(aiOpts, ai.WithEmbeddingHost(config.EmbeddingHost))
		}
		if config.ReasoningHost != "" {
			aiOpts = append(aiOpts, ai.WithReasoningHost(config.ReasoningHost))
		}
		if config.EmbeddingModel != "" {
			aiOpts = append(aiOpts, ai.WithEmbeddingModel(config.EmbeddingModel))
		}
		if config.ReasoningModel != "" {
			aiOpts = append(aiOpts, ai.WithReasoningModel(config.ReasoningModel))
		}
		if config.APIToken != "" {
			aiOpts = append(aiOpts, ai.WithAPIToken(config.APIToken))
		}
		provider, err = openai.NewProvider(ai.NewConfig(aiOpts...))
		if err != nil {
			repository.Close()
			backend.Close()
			return nil, err
		}
	}

	embeddingIndex, err := index.New(provider.Embedder(),
		index.WithLogger(options.logger))
	if err != nil {
		provider.Close()
		repository.Close()
		backend.Close()
		return nil, err
	}

	synthesizer, err := qa.NewSynthesizer(provider.Reasoner(),
		qa.WithSynthesizerLogger(options.logger))
	if err != nil {
		provider.Close()
		repository.Close()
		backend.Close()
		return nil, err
	}

	orchestrator, err := qa.NewOrchestrator(repository, embeddingIndex, synthesizer,
		qa.WithTopK(config.TopK),
		qa.WithPersonTopK(config.PersonTopK),
		qa.WithLogger(options.logger))
	if err != nil {
		provider.Close()
		repository.Close()
		backend.Close()
		return nil, err
	}

	return &System{
		config:       config,
		backend:      backend,
		repository:   repository,
		provider:     provider,
		index:        embeddingIndex,
		orchestrator: orchestrator,
		logger:       options.logger,
	}, nil
}

// LoadCorpus ingests the configured corpus source, embedding every stored
// message and seeding the index's vector cache.
func (s *System) LoadCorpus(ctx context.Context, opts ...ingestion.Option) (*ingestion.LoadStats, error) {
	var source ingestion.Source
	switch {
	case s.config.SourcePath != "":
		source = ingestion.NewFileSource(s.config.SourcePath)
	case s.config.SourceURL != "":
		source = ingestion.NewHTTPSource(s.config.SourceURL)
	default:
		return nil, ErrSourceRequired
	}

	opts = append([]ingestion.Option{
		ingestion.WithVectorCache(s.index.Cache()),
		ingestion.WithLogger(s.logger),
	}, opts...)

	pipeline, err := ingestion.NewPipeline(s.repository, s.provider, opts...)
	if err != nil {
		return nil, err
	}
	defer pipeline.Release()

	return pipeline.Load(ctx, source)
}

// Ask answers a question against the loaded corpus.
func (s *System) Ask(ctx context.Context, query core.Query) (*core.Answer, error) {
	return s.orchestrator.Ask(ctx, query)
}

// AskWithMonitor answers a question with per-stage observation.
func (s *System) AskWithMonitor(ctx context.Context, query core.Query, monitor qa.QueryMonitor) (*core.Answer, error) {
	return s.orchestrator.AskWithMonitor(ctx, query, monitor)
}

// Report builds the data-quality report over the loaded corpus.
func (s *System) Report(ctx context.Context) (*report.Report, error) {
	messages, err := s.repository.AllMessages(ctx)
	if err != nil {
		return nil, err
	}
	return report.Build(messages), nil
}

// Repository exposes the underlying message repository.
func (s *System) Repository() storage.MessageRepository {
	return s.repository
}

// Close releases the provider, repository and backend.
func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.repository.Close(); err != nil {
		s.logger.Error("error closing message repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
