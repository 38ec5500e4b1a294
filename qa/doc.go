// Package qa implements the retrieval-and-reasoning pipeline that answers
// natural-language questions over a corpus of attributed messages.
//
// A query moves through four sequential stages. Filtering narrows the corpus
// to messages from the person the question names, degrading to a no-op when
// no person is extractable. Ranking orders the remaining candidates by
// embedding similarity to the question and truncates to a fixed top-K, which
// bounds reasoning cost regardless of corpus size. Sanitizing redacts PII
// from each candidate; only sanitized text ever reaches the reasoning
// backend. Synthesizing builds a bounded prompt and passes the backend's
// completion through as the answer, with a structured count parsed out for
// counting questions.
//
// Backend failures are surfaced as StageError values wrapping
// ErrReasoningUnavailable or the index package's ErrEmbeddingUnavailable;
// the pipeline never retries internally and never degrades to unranked or
// unsanitized candidates.
package qa
