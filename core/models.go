package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated by content-based hashing so that reloading the same corpus
// always produces the same IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// MessageID derives the content-addressed ID for a message.
// The upstream source id alone is not trusted to be unique, so the attributed
// person and text participate in the hash as well.
func MessageID(sourceId, person, text string) ID {
	return IDFromContent(sourceId + "\x00" + person + "\x00" + text)
}

// Message is a single attributed message in the corpus.
// Immutable once ingested, except for Vector and UpdatedAt, which the
// embedding pipeline populates once per message.
type Message struct {
	Id         ID
	SourceId   string    // Upstream identifier; never crosses the reasoning boundary
	Person     string    // Attributed person, as received
	Timestamp  time.Time // When the message was originally sent
	Text       string
	Topic      string    // Optional topic label
	Vector     []float32 // Embedding vector (populated by the ingestion pipeline)
	InsertedAt time.Time // When the record was inserted into storage
	UpdatedAt  time.Time // When the record was last updated
}

// Query is a single question posed against the corpus.
// Created per request and discarded after the answer is produced.
type Query struct {
	Text         string
	TargetPerson string // Person the question is about, if one could be determined
}

// Candidate pairs a message with its similarity to one query.
// Scores are only meaningful relative to the query that produced them.
type Candidate struct {
	Message *Message
	Score   float32
}

// SanitizedCandidate is the only message representation that ever crosses the
// boundary to the reasoning backend. It carries no ids and its text has been
// passed through the sanitizer.
type SanitizedCandidate struct {
	Person    string
	Timestamp time.Time
	Text      string
	Score     float32
}

// Answer is the terminal output of a query.
type Answer struct {
	Text       string
	Supporting []ID // Message ids of the candidates behind the answer, in rank order
	Count      *int // Set only for questions classified as pure counting/aggregation
}
