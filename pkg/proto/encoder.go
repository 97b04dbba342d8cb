// Package proto holds the field numbers of the wire messages that are hashed
// for signing, and a small encoder that writes them in canonical form.
//
// Nothing here parses protobuf. Bodies are rebuilt from plans and written
// field by field in field-number order, exactly as the chain encodes them:
// a tag byte, then either a varint or a length-prefixed payload.
package proto

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Number is a protobuf field number.
type Number = protowire.Number

// Encoder appends canonical fields to a byte slice.
//
// The zero value is ready to use.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder with capacity for n bytes.
func NewEncoder(n int) *Encoder {
	return &Encoder{buf: make([]byte, 0, n)}
}

// Bytes returns the encoded message.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Varint writes a varint field, even when v is zero.
func (e *Encoder) Varint(num Number, v uint64) *Encoder {
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
	return e
}

// OptionalVarint writes a varint field unless v is zero.
func (e *Encoder) OptionalVarint(num Number, v uint64) *Encoder {
	if v == 0 {
		return e
	}
	return e.Varint(num, v)
}

// Bool writes a bool field unless it is false.
func (e *Encoder) Bool(num Number, v bool) *Encoder {
	if !v {
		return e
	}
	return e.Varint(num, 1)
}

// BytesField writes a length-delimited field, even when v is empty.
func (e *Encoder) BytesField(num Number, v []byte) *Encoder {
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, v)
	return e
}

// OptionalBytes writes a length-delimited field unless v is empty.
func (e *Encoder) OptionalBytes(num Number, v []byte) *Encoder {
	if len(v) == 0 {
		return e
	}
	return e.BytesField(num, v)
}

// String writes a string field unless it is empty.
func (e *Encoder) String(num Number, v string) *Encoder {
	if v == "" {
		return e
	}
	return e.BytesField(num, []byte(v))
}

// Message writes an embedded message.
func (e *Encoder) Message(num Number, m Marshaler) *Encoder {
	return e.BytesField(num, m.MarshalProto())
}

// Raw appends pre-encoded bytes.
func (e *Encoder) Raw(b []byte) *Encoder {
	e.buf = append(e.buf, b...)
	return e
}

// Marshaler is implemented by every type with a canonical wire form.
type Marshaler interface {
	MarshalProto() []byte
}

// Inner encodes the common single-field wrapper message { bytes inner = 1; }.
func Inner(b []byte) []byte {
	return NewEncoder(len(b) + 2).BytesField(InnerField, b).Bytes()
}
