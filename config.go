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

package aurora

import (
	"errors"
	"os"
	"strconv"

	"github.com/saideep872/aurora-qa/qa"
)

// Config is the environment-provided surface of the system: backend
// credentials, model identifiers, candidate bounds, and I/O endpoints.
type Config struct {
	// APIToken authenticates against the OpenAI-compatible backends.
	APIToken string

	// EmbeddingHost and ReasoningHost are the backend base URLs. Empty means
	// the public OpenAI endpoint.
	EmbeddingHost string
	ReasoningHost string

	// EmbeddingModel and ReasoningModel override the default model ids.
	EmbeddingModel string
	ReasoningModel string

	// TopK bounds candidates for unfiltered queries; PersonTopK for
	// person-filtered ones. Zero means the pipeline defaults.
	TopK       int
	PersonTopK int

	// ListenAddr is the HTTP listen address for the serve command.
	ListenAddr string

	// SourceURL and SourcePath locate the corpus feed; at most one is used,
	// with the file taking precedence when both are set.
	SourceURL  string
	SourcePath string

	// DBPath is an on-disk storage location. Empty keeps the corpus purely
	// in memory, which is the normal mode: the corpus reloads on start.
	DBPath string
}

// Environment variable names.
const (
	EnvAPIToken       = "OPENAI_API_KEY"
	EnvEmbeddingHost  = "AURORA_EMBEDDING_HOST"
	EnvReasoningHost  = "AURORA_REASONING_HOST"
	EnvEmbeddingModel = "AURORA_EMBEDDING_MODEL"
	EnvReasoningModel = "AURORA_REASONING_MODEL"
	EnvTopK           = "AURORA_TOP_K"
	EnvPersonTopK     = "AURORA_PERSON_TOP_K"
	EnvListenAddr     = "AURORA_LISTEN_ADDR"
	EnvSourceURL      = "AURORA_SOURCE_URL"
	EnvSourcePath     = "AURORA_SOURCE_PATH"
	EnvDBPath         = "AURORA_DB_PATH"
)

// DefaultListenAddr is used when no listen address is configured.
const DefaultListenAddr = ":8080"

var (
	// ErrSourceRequired is returned when neither a source URL nor a source
	// file is configured.
	ErrSourceRequired = errors.New("corpus source (url or file) required")

	// ErrInvalidTopK is returned for non-positive candidate bounds.
	ErrInvalidTopK = errors.New("candidate bounds must be positive")
)

// ConfigFromEnv builds a Config from the process environment. Unset numeric
// variables fall back to the pipeline defaults; malformed ones are ignored
// the same way.
func ConfigFromEnv() *Config {
	return &Config{
		APIToken:       os.Getenv(EnvAPIToken),
		EmbeddingHost:  os.Getenv(EnvEmbeddingHost),
		ReasoningHost:  os.Getenv(EnvReasoningHost),
		EmbeddingModel: os.Getenv(EnvEmbeddingModel),
		ReasoningModel: os.Getenv(EnvReasoningModel),
		TopK:           envInt(EnvTopK),
		PersonTopK:     envInt(EnvPersonTopK),
		ListenAddr:     os.Getenv(EnvListenAddr),
		SourceURL:      os.Getenv(EnvSourceURL),
		SourcePath:     os.Getenv(EnvSourcePath),
		DBPath:         os.Getenv(EnvDBPath),
	}
}

func envInt(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// withDefaults fills unset fields with working defaults.
func (c *Config) withDefaults() *Config {
	out := *c
	if out.ListenAddr == "" {
		out.ListenAddr = DefaultListenAddr
	}
	if out.TopK == 0 {
		out.TopK = qa.DefaultTopK
	}
	if out.PersonTopK == 0 {
		out.PersonTopK = qa.DefaultPersonTopK
	}
	return &out
}

// Validate checks the configuration for a runnable system.
func (c *Config) Validate() error {
	if c.SourceURL == "" && c.SourcePath == "" {
		return ErrSourceRequired
	}
	if c.TopK < 0 || c.PersonTopK < 0 {
		return ErrInvalidTopK
	}
	return nil
}
