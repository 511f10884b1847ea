// Package asn1ber provides a ber.Engine backed by github.com/go-asn1-ber/asn1-ber,
// the BER library used by most Go LDAP clients.
package asn1ber

import (
	"bytes"

	asn1 "github.com/go-asn1-ber/asn1-ber"
	"github.com/pkg/errors"

	"github.com/KilimcininKorOglu/ldapctrl/internal/ber"
)

// Engine implements ber.Engine with go-asn1-ber packets.
//
// go-asn1-ber interprets universal primitive content while parsing, so it
// rejects some inputs the native engine accepts (for example a UTF8String
// that is not valid UTF-8) and accepts indefinite lengths on constructed tags.
type Engine struct{}

// EncodeInto implements ber.Engine.
func (Engine) EncodeInto(buf []byte, p *ber.Packet) ([]byte, error) {
	pkt, err := toLibrary(p)
	if err != nil {
		return buf, err
	}
	return append(buf, pkt.Bytes()...), nil
}

// ParsePacket implements ber.Engine.
func (Engine) ParsePacket(data []byte) (*ber.Packet, int, error) {
	r := bytes.NewReader(data)
	pkt, err := asn1.ReadPacket(r)
	if err != nil {
		return nil, 0, ber.NewDecodeError(0, "asn1-ber", errors.Wrap(err, "read packet"))
	}
	return fromLibrary(pkt), len(data) - r.Len(), nil
}

// toLibrary converts a tag tree into go-asn1-ber packets. Children are
// converted first because AppendChild serializes them into the parent.
func toLibrary(p *ber.Packet) (*asn1.Packet, error) {
	if p == nil {
		return nil, ber.ErrNilPacket
	}
	if p.Class&^0xC0 != 0 {
		return nil, ber.ErrInvalidTagClass
	}
	if p.Tag < 0 {
		return nil, ber.ErrInvalidTagNumber
	}

	class := asn1.Class(p.Class)
	tag := asn1.Tag(p.Tag)

	if !p.Constructed {
		pkt := asn1.Encode(class, asn1.TypePrimitive, tag, nil, "")
		pkt.Data.Write(p.Content)
		return pkt, nil
	}

	pkt := asn1.Encode(class, asn1.TypeConstructed, tag, nil, "")
	for _, child := range p.Children {
		c, err := toLibrary(child)
		if err != nil {
			return nil, err
		}
		pkt.AppendChild(c)
	}
	return pkt, nil
}

// fromLibrary converts a parsed go-asn1-ber packet into a tag tree.
func fromLibrary(pkt *asn1.Packet) *ber.Packet {
	p := &ber.Packet{
		Class:       int(pkt.ClassType),
		Constructed: pkt.TagType == asn1.TypeConstructed,
		Tag:         int(pkt.Tag),
	}
	if !p.Constructed {
		p.Content = []byte{}
		if pkt.Data != nil {
			p.Content = append(p.Content, pkt.Data.Bytes()...)
		}
		return p
	}
	for _, child := range pkt.Children {
		p.Children = append(p.Children, fromLibrary(child))
	}
	return p
}
