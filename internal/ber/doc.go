// Package ber implements ASN.1 BER (Basic Encoding Rules) encoding and decoding
// as specified in ITU-T X.690.
//
// BER is the wire format used by LDAP for all protocol messages, including
// the values carried inside LDAP controls. This package provides a small tag
// tree (Packet), the low-level encoder and decoder that serialize it, and the
// Engine interface that control codecs program against.
//
// # Tag Classes
//
// BER uses four tag classes to identify data types:
//
//   - Universal (0x00): Standard ASN.1 types like INTEGER, BOOLEAN, SEQUENCE
//   - Application (0x40): Protocol-specific types (LDAP operations)
//   - Context-specific (0x80): Context-dependent types within a structure
//   - Private (0xC0): Organization-specific types
//
// # Building and encoding
//
// Build a tree with the constructors and serialize it:
//
//	seq := ber.NewSequence(
//	    ber.NewInteger(10),
//	    ber.NewOctetString([]byte("cookie")),
//	)
//	data, err := ber.Encode(seq)
//
// For hand-written encodings, use BEREncoder directly:
//
//	encoder := ber.NewBEREncoder(64)
//	pos := encoder.BeginSequence()
//	encoder.WritePrimitive(ber.ClassUniversal, ber.TagInteger, []byte{0x0A})
//	encoder.EndSequence(pos)
//
// # Parsing
//
// Parse one tag into a tree and inspect it:
//
//	p, err := ber.Parse(data)
//	if err != nil {
//	    // handle error
//	}
//	children, err := p.ExpectConstructed()
//	size, err := ber.ParseUint(children[0].Content)
//
// Structural checks (ExpectConstructed, ExpectPrimitive, MatchClass,
// MatchTag, Child) return errors instead of panicking, since parsed input
// usually comes from a peer.
//
// # Engines
//
// Native is the in-tree Engine. The asn1ber subpackage provides an Engine
// backed by github.com/go-asn1-ber/asn1-ber.
//
// # References
//
//   - ITU-T X.690: ASN.1 encoding rules
//   - RFC 4511: LDAP Protocol (uses BER encoding)
package ber
