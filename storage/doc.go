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


// Package storage provides the storage abstraction layer for the message corpus.
//
// This package defines the repository interface that decouples storage
// implementation from pipeline logic, plus the MUS serialization helpers the
// backends share. The only backend shipped is BadgerDB (storage/badger),
// which runs in-memory by default since the system carries no state across
// restarts; the interface keeps alternative backends possible.
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the storage.MessageRepository interface
// to prevent accidental coupling to BadgerDB specifics:
//
//	repo, err := badger.NewMessageRepository(backend)
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//	defer func() { repo.Close(); backend.Close() }()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation support.
package storage
