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


package index

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidLimit is returned when the candidate limit is not positive.
	ErrInvalidLimit = errors.New("candidate limit must be positive")

	// ErrEmbeddingUnavailable indicates the embedding backend failed or
	// returned malformed output. Ranking is never silently degraded to an
	// unranked candidate set; callers see this error instead.
	ErrEmbeddingUnavailable = errors.New("embedding backend unavailable")
)
