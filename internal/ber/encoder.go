// Package ber implements ASN.1 BER (Basic Encoding Rules) encoding
// as specified in ITU-T X.690.
package ber

import (
	"errors"
)

// Errors returned by the encoder
var (
	ErrInvalidTagClass  = errors.New("ber: invalid tag class")
	ErrInvalidTagNumber = errors.New("ber: invalid tag number")
	ErrLengthOverflow   = errors.New("ber: length value overflow")
	ErrNegativeLength   = errors.New("ber: negative length not allowed")
	ErrInvalidPosition  = errors.New("ber: invalid constructed position")
)

// BEREncoder encodes ASN.1 values using BER (Basic Encoding Rules).
type BEREncoder struct {
	buf []byte
}

// NewBEREncoder creates a new BER encoder with an optional initial capacity.
func NewBEREncoder(capacity int) *BEREncoder {
	if capacity <= 0 {
		capacity = 64
	}
	return &BEREncoder{
		buf: make([]byte, 0, capacity),
	}
}

// newBEREncoderOver creates an encoder that appends to buf.
func newBEREncoderOver(buf []byte) *BEREncoder {
	return &BEREncoder{buf: buf}
}

// Bytes returns the encoded bytes.
func (e *BEREncoder) Bytes() []byte {
	return e.buf
}

// Reset clears the encoder buffer for reuse.
func (e *BEREncoder) Reset() {
	e.buf = e.buf[:0]
}

// Len returns the current length of encoded data.
func (e *BEREncoder) Len() int {
	return len(e.buf)
}

// WriteTag writes a BER tag byte(s) to the buffer.
// class: ClassUniversal, ClassApplication, ClassContextSpecific, or ClassPrivate
// constructed: TypePrimitive or TypeConstructed
// number: tag number (0-30 for short form, >30 for long form)
func (e *BEREncoder) WriteTag(class, constructed, number int) error {
	if class != ClassUniversal && class != ClassApplication &&
		class != ClassContextSpecific && class != ClassPrivate {
		return ErrInvalidTagClass
	}
	if number < 0 {
		return ErrInvalidTagNumber
	}

	// Short form: tag number fits in 5 bits (0-30)
	if number <= 30 {
		e.buf = append(e.buf, byte(class)|byte(constructed)|byte(number))
		return nil
	}

	// Long form: low 5 bits all set, number follows in base-128
	e.buf = append(e.buf, byte(class)|byte(constructed)|0x1F)
	e.writeBase128(number)
	return nil
}

// writeBase128 encodes an integer in base-128 format (high bit indicates continuation)
func (e *BEREncoder) writeBase128(value int) {
	if value == 0 {
		e.buf = append(e.buf, 0)
		return
	}

	var groups []byte
	for value > 0 {
		groups = append(groups, byte(value&0x7F))
		value >>= 7
	}

	for i := len(groups) - 1; i >= 0; i-- {
		b := groups[i]
		if i > 0 {
			b |= 0x80
		}
		e.buf = append(e.buf, b)
	}
}

// WriteLength writes a BER length value to the buffer.
// Uses short form for lengths 0-127, long form for larger values.
func (e *BEREncoder) WriteLength(length int) error {
	encoded, err := encodeLength(length)
	if err != nil {
		return err
	}
	e.buf = append(e.buf, encoded...)
	return nil
}

// encodeLength returns the definite-form encoding of length.
func encodeLength(length int) ([]byte, error) {
	if length < 0 {
		return nil, ErrNegativeLength
	}
	if length <= MaxShortFormLength {
		return []byte{byte(length)}, nil
	}

	numBytes := 0
	for temp := length; temp > 0; temp >>= 8 {
		numBytes++
	}
	// The first length byte can only announce up to 127 subsequent bytes
	if numBytes > 127 {
		return nil, ErrLengthOverflow
	}

	out := make([]byte, 0, numBytes+1)
	out = append(out, byte(LengthLongFormBit|numBytes))
	for i := numBytes - 1; i >= 0; i-- {
		out = append(out, byte(length>>(i*8)))
	}
	return out, nil
}

// WriteRaw appends data to the buffer unchanged, for content bytes or an
// already encoded element.
func (e *BEREncoder) WriteRaw(data []byte) {
	e.buf = append(e.buf, data...)
}

// WritePrimitive writes a complete primitive TLV.
func (e *BEREncoder) WritePrimitive(class, number int, content []byte) error {
	if err := e.WriteTag(class, TypePrimitive, number); err != nil {
		return err
	}
	if err := e.WriteLength(len(content)); err != nil {
		return err
	}
	e.WriteRaw(content)
	return nil
}

// BeginConstructed writes a constructed tag and reserves one byte for its
// length. The returned position must be passed to EndConstructed once the
// content has been written.
func (e *BEREncoder) BeginConstructed(class, number int) (int, error) {
	if err := e.WriteTag(class, TypeConstructed, number); err != nil {
		return -1, err
	}
	pos := len(e.buf)
	e.buf = append(e.buf, 0)
	return pos, nil
}

// EndConstructed patches the length reserved by BeginConstructed, shifting
// the content right when the long form is needed.
func (e *BEREncoder) EndConstructed(pos int) error {
	if pos < 0 || pos >= len(e.buf) {
		return ErrInvalidPosition
	}

	contentLen := len(e.buf) - pos - 1
	if contentLen <= MaxShortFormLength {
		e.buf[pos] = byte(contentLen)
		return nil
	}

	lengthBytes, err := encodeLength(contentLen)
	if err != nil {
		return err
	}
	extra := len(lengthBytes) - 1
	e.buf = append(e.buf, make([]byte, extra)...)
	copy(e.buf[pos+len(lengthBytes):], e.buf[pos+1:pos+1+contentLen])
	copy(e.buf[pos:], lengthBytes)
	return nil
}

// BeginSequence starts a universal SEQUENCE.
func (e *BEREncoder) BeginSequence() int {
	// Universal class and tag 0x10 are always valid.
	pos, _ := e.BeginConstructed(ClassUniversal, TagSequence)
	return pos
}

// EndSequence finishes a SEQUENCE started with BeginSequence.
func (e *BEREncoder) EndSequence(pos int) error {
	return e.EndConstructed(pos)
}

// writePacket serializes a tag tree depth-first.
func (e *BEREncoder) writePacket(p *Packet) error {
	if p == nil {
		return ErrNilPacket
	}
	if !p.Constructed {
		return e.WritePrimitive(p.Class, p.Tag, p.Content)
	}

	pos, err := e.BeginConstructed(p.Class, p.Tag)
	if err != nil {
		return err
	}
	for _, child := range p.Children {
		if err := e.writePacket(child); err != nil {
			return err
		}
	}
	return e.EndConstructed(pos)
}

// encodeInteger encodes an int64 as a minimal two's complement byte slice.
func encodeInteger(v int64) []byte {
	if v == 0 {
		return []byte{0x00}
	}

	var out []byte
	uv := uint64(v)

	if v < 0 {
		// Drop leading 0xFF bytes while the next byte still carries the sign bit
		for i := 7; i >= 0; i-- {
			b := byte(uv >> (i * 8))
			if len(out) > 0 || b != 0xFF || (i > 0 && (uv>>((i-1)*8))&0x80 == 0) {
				out = append(out, b)
			}
		}
		if len(out) == 0 {
			out = []byte{0xFF}
		}
		if out[0]&0x80 == 0 {
			out = append([]byte{0xFF}, out...)
		}
	} else {
		for i := 7; i >= 0; i-- {
			b := byte(uv >> (i * 8))
			if len(out) > 0 || b != 0 {
				out = append(out, b)
			}
		}
		// Keep the sign bit clear for positive numbers
		if out[0]&0x80 != 0 {
			out = append([]byte{0x00}, out...)
		}
	}

	return out
}
