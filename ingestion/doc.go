// Package ingestion loads a message corpus into storage and computes
// embeddings for it.
//
// A Source (HTTP endpoint or local file) supplies the raw feed in the
// standard items payload. The Pipeline validates, stores, and then embeds
// messages in batches across a worker pool, writing vectors back to the
// repository and optionally seeding the query path's vector cache. Messages
// are content-addressed, so loading the same feed twice stores nothing new
// and re-embeds nothing.
package ingestion
