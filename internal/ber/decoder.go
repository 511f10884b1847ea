// Package ber implements ASN.1 BER (Basic Encoding Rules) encoding
// as specified in ITU-T X.690.
package ber

// BERDecoder decodes ASN.1 values using BER (Basic Encoding Rules).
type BERDecoder struct {
	data   []byte
	offset int
}

// NewBERDecoder creates a new BER decoder for the given data.
func NewBERDecoder(data []byte) *BERDecoder {
	return &BERDecoder{
		data:   data,
		offset: 0,
	}
}

// Offset returns the current read position in the data.
func (d *BERDecoder) Offset() int {
	return d.offset
}

// Remaining returns the number of bytes remaining to be read.
func (d *BERDecoder) Remaining() int {
	return len(d.data) - d.offset
}

// ReadTag reads a BER tag from the current position.
// Returns the tag class, constructed flag, and tag number.
func (d *BERDecoder) ReadTag() (class, constructed, number int, err error) {
	startOffset := d.offset

	if d.offset >= len(d.data) {
		return 0, 0, 0, NewDecodeError(startOffset, "cannot read tag", ErrUnexpectedEOF)
	}

	firstByte := d.data[d.offset]
	d.offset++

	class = int(firstByte & 0xC0)
	constructed = int(firstByte & 0x20)
	number = int(firstByte & 0x1F)

	// Long form: all 5 low bits set, tag number follows in base-128
	if number == 0x1F {
		number, err = d.readBase128()
		if err != nil {
			return 0, 0, 0, NewDecodeError(startOffset, "cannot read long form tag number", err)
		}
	}

	return class, constructed, number, nil
}

// readBase128 reads a base-128 encoded integer (used for long form tags).
func (d *BERDecoder) readBase128() (int, error) {
	result := 0
	for {
		if d.offset >= len(d.data) {
			return 0, ErrUnexpectedEOF
		}

		b := d.data[d.offset]
		d.offset++

		if result > (1 << 24) {
			return 0, NewDecodeError(d.offset-1, "tag number overflow", nil)
		}

		result = (result << 7) | int(b&0x7F)

		if b&0x80 == 0 {
			break
		}
	}
	return result, nil
}

// maxLength is the largest definite length accepted.
const maxLength = 1<<31 - 1

// ReadLength reads a BER length value from the current position.
func (d *BERDecoder) ReadLength() (int, error) {
	startOffset := d.offset

	if d.offset >= len(d.data) {
		return 0, NewDecodeError(startOffset, "cannot read length", ErrUnexpectedEOF)
	}

	firstByte := d.data[d.offset]
	d.offset++

	// Short form: bit 8 is 0, bits 1-7 contain the length
	if firstByte&LengthLongFormBit == 0 {
		return int(firstByte), nil
	}

	numBytes := int(firstByte & 0x7F)

	// 0x80 alone announces an indefinite length
	if numBytes == 0 {
		return 0, NewDecodeError(startOffset, "indefinite length encoding", ErrIndefiniteLength)
	}

	if d.offset+numBytes > len(d.data) {
		return 0, NewDecodeError(startOffset, "truncated length encoding", ErrUnexpectedEOF)
	}

	length := 0
	for i := 0; i < numBytes; i++ {
		// Cap at maxLength, which fits an int on 32-bit platforms
		if length > maxLength>>8 {
			return 0, NewDecodeError(startOffset, "length value overflow", ErrInvalidLength)
		}
		length = (length << 8) | int(d.data[d.offset])
		d.offset++
	}

	return length, nil
}

// PeekTag reads a tag without advancing the offset.
func (d *BERDecoder) PeekTag() (class, constructed, number int, err error) {
	savedOffset := d.offset
	class, constructed, number, err = d.ReadTag()
	d.offset = savedOffset
	return
}

// ReadPacket reads one complete TLV element, including all nested elements
// of a constructed tag, into a Packet tree.
func (d *BERDecoder) ReadPacket(maxDepth int) (*Packet, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return d.readPacket(0, maxDepth)
}

func (d *BERDecoder) readPacket(depth, maxDepth int) (*Packet, error) {
	startOffset := d.offset

	class, constructed, number, err := d.ReadTag()
	if err != nil {
		return nil, err
	}

	length, err := d.ReadLength()
	if err != nil {
		return nil, err
	}

	if length > d.Remaining() {
		return nil, NewDecodeError(startOffset, "truncated value", ErrUnexpectedEOF)
	}

	p := &Packet{
		Class:       class,
		Constructed: constructed == TypeConstructed,
		Tag:         number,
		Offset:      startOffset,
	}

	end := d.offset + length
	if !p.Constructed {
		p.Content = make([]byte, length)
		copy(p.Content, d.data[d.offset:end])
		d.offset = end
		return p, nil
	}

	if depth+1 > maxDepth {
		return nil, NewDecodeError(startOffset, "constructed tag nested too deeply", ErrDepthExceeded)
	}

	// Children are bounded by the parent's length, offsets stay absolute
	sub := &BERDecoder{data: d.data[:end], offset: d.offset}
	for sub.Remaining() > 0 {
		child, err := sub.readPacket(depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		p.Children = append(p.Children, child)
	}
	d.offset = end

	return p, nil
}
