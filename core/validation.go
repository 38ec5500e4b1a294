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


package core

import (
	"fmt"
	"time"
)

// TimestampTolerance is how far into the future a message timestamp may lie
// before the record is rejected. Upstream feeds carry slightly skewed clocks,
// so a small allowance is kinder than dropping the record.
const TimestampTolerance = 24 * time.Hour

// ValidateMessage validates a Message according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Person must not be empty
//   - Timestamp must be set and not implausibly far in the future
//
// NOT validated (populated later):
//   - Vector (empty until the embedding pipeline runs)
//   - InsertedAt/UpdatedAt (set by storage)
func ValidateMessage(msg *Message) error {
	if msg == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidMessage)
	}

	if msg.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyText)
	}

	if msg.Person == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyPerson)
	}

	if !IsValidTimestamp(msg.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrInvalidTimestamp)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is set and within tolerance of now.
func IsValidTimestamp(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return !ts.After(time.Now().Add(TimestampTolerance))
}
