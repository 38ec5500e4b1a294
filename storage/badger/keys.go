package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/saideep872/aurora-qa/core"
)

// Key prefixes for different data types
const (
	messagePrefix       = "msgrec"
	messageDatePrefix   = "msgrecd"
	messagePersonPrefix = "msgrecp"
)

// makeMessageKey generates a key for a message by ID.
func makeMessageKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", messagePrefix, id))
}

// makeMessageDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeMessageDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := messageDatePrefix + ":"
	buf := make([]byte, len(prefix)+16) // 8 bytes timestamp + 8 bytes ID
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialMessageDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialMessageDateKey(timestamp time.Time) []byte {
	prefix := messageDatePrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeMessagePersonKey generates a composite key for the person index.
// Format: prefix:personKey\x00:id
// The person key is the normalized name (core.NormalizePerson); the NUL
// separator keeps "ann" from matching "anna" on prefix scans.
func makeMessagePersonKey(personKey string, id core.ID) []byte {
	prefix := messagePersonPrefix + ":" + personKey + "\x00"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialMessagePersonKey generates a partial key for person queries.
func makePartialMessagePersonKey(personKey string) []byte {
	return []byte(messagePersonPrefix + ":" + personKey + "\x00")
}
