package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateMessage(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Hour)
	farFuture := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name    string
		msg     *Message
		wantErr error
	}{
		{
			name: "valid message",
			msg: &Message{
				Id:        1,
				Person:    "Sophia Al-Farsi",
				Text:      "I just booked a trip to Paris",
				Timestamp: validTime,
			},
			wantErr: nil,
		},
		{
			name: "valid message with empty vector",
			msg: &Message{
				Id:        2,
				Person:    "Vikram Desai",
				Text:      "Picked up my third car today",
				Timestamp: validTime,
				Vector:    nil,
			},
			wantErr: nil,
		},
		{
			name: "slightly skewed future timestamp is tolerated",
			msg: &Message{
				Person:    "Amira",
				Text:      "clock drift happens",
				Timestamp: time.Now().Add(5 * time.Minute),
			},
			wantErr: nil,
		},
		{
			name:    "nil message",
			msg:     nil,
			wantErr: ErrInvalidMessage,
		},
		{
			name: "empty text",
			msg: &Message{
				Person:    "Sophia Al-Farsi",
				Timestamp: validTime,
			},
			wantErr: ErrEmptyText,
		},
		{
			name: "empty person",
			msg: &Message{
				Text:      "who said this?",
				Timestamp: validTime,
			},
			wantErr: ErrEmptyPerson,
		},
		{
			name: "zero timestamp",
			msg: &Message{
				Person: "Sophia Al-Farsi",
				Text:   "no timestamp",
			},
			wantErr: ErrInvalidTimestamp,
		},
		{
			name: "far future timestamp",
			msg: &Message{
				Person:    "Sophia Al-Farsi",
				Text:      "from the future",
				Timestamp: farFuture,
			},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessage(tt.msg)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestIsValidTimestamp(t *testing.T) {
	if IsValidTimestamp(time.Time{}) {
		t.Error("zero timestamp should be invalid")
	}
	if !IsValidTimestamp(time.Now().Add(-time.Minute)) {
		t.Error("past timestamp should be valid")
	}
	if IsValidTimestamp(time.Now().Add(TimestampTolerance + time.Hour)) {
		t.Error("timestamp beyond tolerance should be invalid")
	}
}
