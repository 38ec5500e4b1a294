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

import "errors"

var (
	// ErrRepositoryRequired is returned when a message repository is not provided.
	ErrRepositoryRequired = errors.New("message repository required")

	// ErrIndexRequired is returned when an embedding index is not provided.
	ErrIndexRequired = errors.New("embedding index required")

	// ErrSynthesizerRequired is returned when a synthesizer is not provided.
	ErrSynthesizerRequired = errors.New("synthesizer required")

	// ErrReasonerRequired is returned when a reasoner is not provided.
	ErrReasonerRequired = errors.New("reasoner required")

	// ErrEmptyQuestion is returned for a blank or whitespace-only question.
	// This is an input error, recoverable by the caller asking again.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrNoCandidates is returned when filtering and ranking produce an empty
	// candidate set. The reasoning backend is never invoked on empty context;
	// callers should surface an explicit "insufficient data" response.
	ErrNoCandidates = errors.New("no candidate messages found")

	// ErrReasoningUnavailable indicates the reasoning backend failed or
	// returned unusable output. The pipeline never substitutes a fabricated
	// answer; callers decide whether to retry.
	ErrReasoningUnavailable = errors.New("reasoning backend unavailable")
)
