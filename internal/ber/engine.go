package ber

// Engine turns tag trees into bytes and back. Control codecs depend on this
// interface only, so the BER implementation can be swapped.
type Engine interface {
	// EncodeInto appends the encoding of p to buf and returns the extended buffer.
	EncodeInto(buf []byte, p *Packet) ([]byte, error)
	// ParsePacket parses one tag from the front of data and reports how many
	// bytes it consumed. Bytes after the tag are left to the caller.
	ParsePacket(data []byte) (*Packet, int, error)
}

// Native is the in-tree Engine built on BEREncoder and BERDecoder.
type Native struct {
	// MaxDepth bounds constructed nesting; zero means DefaultMaxDepth.
	MaxDepth int
}

// EncodeInto implements Engine.
func (n Native) EncodeInto(buf []byte, p *Packet) ([]byte, error) {
	enc := newBEREncoderOver(buf)
	if err := enc.writePacket(p); err != nil {
		return buf, err
	}
	return enc.Bytes(), nil
}

// ParsePacket implements Engine.
func (n Native) ParsePacket(data []byte) (*Packet, int, error) {
	dec := NewBERDecoder(data)
	p, err := dec.ReadPacket(n.MaxDepth)
	if err != nil {
		return nil, 0, err
	}
	return p, dec.Offset(), nil
}

// Encode serializes p with the native engine.
func Encode(p *Packet) ([]byte, error) {
	return Native{}.EncodeInto(nil, p)
}

// Parse parses one tag with the native engine.
func Parse(data []byte) (*Packet, error) {
	p, _, err := Native{}.ParsePacket(data)
	return p, err
}
