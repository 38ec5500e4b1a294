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


// Package index provides embedding-based candidate ranking.
//
// The Index embeds the incoming question, resolves candidate message vectors
// through a write-once cache, scores by cosine similarity, and returns the
// deterministic top-K slice. The top-K bound is what keeps the per-query cost
// of the downstream reasoning step constant regardless of corpus size.
//
// If the embedding backend is unavailable or returns malformed output,
// ranking fails with ErrEmbeddingUnavailable; there is no fallback to an
// unranked candidate set, since ranking quality is the system's accuracy
// guarantee.
package index
