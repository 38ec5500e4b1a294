// Package mock provides deterministic test doubles for the ai interfaces.
//
// The mock embedder derives vectors from a hash of the input text, so the
// same text always embeds to the same vector and ranking tests stay
// reproducible without a live backend. The mock reasoner records the prompts
// it receives, letting tests assert on exactly what crossed the reasoning
// boundary.
package mock
