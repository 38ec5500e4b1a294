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

package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/saideep872/aurora-qa/core"
)

// Source supplies raw messages to the ingestion pipeline.
type Source interface {
	// Fetch retrieves all messages from the source. The returned messages
	// carry no vectors; embedding happens downstream.
	Fetch(ctx context.Context) ([]*core.Message, error)
}

// payload is the wire format of a corpus feed:
// {"items": [{"id": ..., "user_name": ..., "message": ..., "timestamp": ...}]}
type payload struct {
	Items []item `json:"items"`
}

type item struct {
	ID        string `json:"id"`
	UserName  string `json:"user_name"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// timestampLayouts are tried in order. Feeds are inconsistent about zone
// suffixes and sub-second precision.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// decodeMessages parses a corpus payload into messages. Items with an
// unparseable timestamp keep a zero Timestamp; validation downstream decides
// their fate.
func decodeMessages(r io.Reader) ([]*core.Message, error) {
	var p payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	messages := make([]*core.Message, 0, len(p.Items))
	for _, it := range p.Items {
		msg := &core.Message{
			Id:       core.MessageID(it.ID, it.UserName, it.Message),
			SourceId: it.ID,
			Person:   it.UserName,
			Text:     it.Message,
		}
		if ts, err := parseTimestamp(it.Timestamp); err == nil {
			msg.Timestamp = ts
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// HTTPSource fetches a corpus feed from an HTTP endpoint.
type HTTPSource struct {
	url    string
	client *http.Client
}

// HTTPSourceOption configures an HTTPSource.
type HTTPSourceOption func(*HTTPSource)

// WithHTTPClient replaces the default client, e.g. to set a timeout.
func WithHTTPClient(client *http.Client) HTTPSourceOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// NewHTTPSource creates a source reading from the given URL.
func NewHTTPSource(url string, opts ...HTTPSourceOption) *HTTPSource {
	s := &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch retrieves and decodes the feed.
func (s *HTTPSource) Fetch(ctx context.Context) ([]*core.Message, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching corpus: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching corpus: unexpected status %s", resp.Status)
	}
	return decodeMessages(resp.Body)
}

// FileSource reads a corpus feed from a local JSON file.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading from the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads and decodes the file.
func (s *FileSource) Fetch(ctx context.Context) ([]*core.Message, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus file: %w", err)
	}
	defer f.Close()
	return decodeMessages(f)
}
