package core

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the record types stored in BadgerDB.
// Timestamps are encoded as Unix microseconds, vectors as a varint length
// followed by varint-encoded float32 elements.

type idMUS struct{}

// IDMUS serializes IDs with varint encoding.
var IDMUS = idMUS{}

func (idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type timeMUS struct{}

func (timeMUS) Marshal(t time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeMUS) Unmarshal(bs []byte) (t time.Time, n int, err error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	t = time.UnixMicro(v).UTC()
	return
}

func (timeMUS) Size(t time.Time) (size int) {
	return varint.Int64.Size(t.UnixMicro())
}

func (timeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int64.Skip(bs)
}

type vectorMUS struct{}

func (vectorMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Float32.Marshal(f, bs[n:])
	}
	return
}

func (vectorMUS) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		err = fmt.Errorf("negative vector length %d", length)
		return
	}
	if length == 0 {
		return
	}
	v = make([]float32, length)
	var n1 int
	for i := 0; i < length; i++ {
		v[i], n1, err = varint.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (vectorMUS) Size(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += varint.Float32.Size(f)
	}
	return
}

type messageMUS struct{}

// MessageMUS serializes Message records.
var MessageMUS = messageMUS{}

var (
	timeSer   = timeMUS{}
	vectorSer = vectorMUS{}
)

func (messageMUS) Marshal(m Message, bs []byte) (n int) {
	n = IDMUS.Marshal(m.Id, bs)
	n += ord.String.Marshal(m.SourceId, bs[n:])
	n += ord.String.Marshal(m.Person, bs[n:])
	n += timeSer.Marshal(m.Timestamp, bs[n:])
	n += ord.String.Marshal(m.Text, bs[n:])
	n += ord.String.Marshal(m.Topic, bs[n:])
	n += vectorSer.Marshal(m.Vector, bs[n:])
	n += timeSer.Marshal(m.InsertedAt, bs[n:])
	n += timeSer.Marshal(m.UpdatedAt, bs[n:])
	return
}

func (messageMUS) Unmarshal(bs []byte) (m Message, n int, err error) {
	var n1 int
	m.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	m.SourceId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.Person, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.Timestamp, n1, err = timeSer.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.Topic, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.Vector, n1, err = vectorSer.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.InsertedAt, n1, err = timeSer.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.UpdatedAt, n1, err = timeSer.Unmarshal(bs[n:])
	n += n1
	return
}

func (messageMUS) Size(m Message) (size int) {
	size = IDMUS.Size(m.Id)
	size += ord.String.Size(m.SourceId)
	size += ord.String.Size(m.Person)
	size += timeSer.Size(m.Timestamp)
	size += ord.String.Size(m.Text)
	size += ord.String.Size(m.Topic)
	size += vectorSer.Size(m.Vector)
	size += timeSer.Size(m.InsertedAt)
	size += timeSer.Size(m.UpdatedAt)
	return
}
