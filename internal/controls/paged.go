package controls

import (
	"github.com/KilimcininKorOglu/ldapctrl/internal/ber"
	"github.com/KilimcininKorOglu/ldapctrl/internal/ldap"
)

// PagedResultsOID is the OID for Simple Paged Results Control (RFC 2696).
const PagedResultsOID = "1.2.840.113556.1.4.319"

// pagedResultsOverhead covers the SEQUENCE, INTEGER and OCTET STRING headers
// plus the largest 32-bit INTEGER content, so typical values encode without
// growing the buffer.
const pagedResultsOverhead = 16

// PagedResults is the value of the Simple Paged Results Control (RFC 2696).
//
// realSearchControlValue ::= SEQUENCE {
//
//	size            INTEGER (0..maxInt),
//	                        -- requested page size from client
//	                        -- result set size estimate from server
//	cookie          OCTET STRING
//
// }
type PagedResults struct {
	// Size is the requested page size (from client) or estimated total count (from server).
	Size int32
	// Cookie is an opaque cursor chosen by the server.
	// Empty cookie indicates the first page request or end of results.
	Cookie []byte
}

// OID returns PagedResultsOID.
func (p PagedResults) OID() string {
	return PagedResultsOID
}

// Packet returns the value as a tag tree: SEQUENCE { INTEGER size, OCTET STRING cookie }.
func (p PagedResults) Packet() *ber.Packet {
	return ber.NewSequence(
		ber.NewInteger(int64(p.Size)),
		ber.NewOctetString(p.Cookie),
	)
}

// EncodeValue implements Encodable.
func (p PagedResults) EncodeValue(engine ber.Engine) ([]byte, error) {
	return NewCodec(engine).Encode(p)
}

// Control wraps the value in a non-critical control envelope.
func (p PagedResults) Control(engine ber.Engine) (ldap.Control, error) {
	return NewCodec(engine).Control(p, false)
}

// Codec encodes and decodes PagedResults values with a BER engine.
// A Codec holds no mutable state and is safe for concurrent use.
type Codec struct {
	Engine ber.Engine
	// StrictCookieTag rejects a cookie element that is not a universal
	// OCTET STRING. By default any primitive element is accepted.
	StrictCookieTag bool
}

// NewCodec returns a Codec using engine, or the native engine when nil.
func NewCodec(engine ber.Engine) Codec {
	return Codec{Engine: engine}
}

func (c Codec) engine() ber.Engine {
	if c.Engine == nil {
		return ber.Native{}
	}
	return c.Engine
}

// Encode serializes the control value. The result is not wrapped in a
// control envelope.
func (c Codec) Encode(p PagedResults) ([]byte, error) {
	buf := make([]byte, 0, len(p.Cookie)+pagedResultsOverhead)
	out, err := c.engine().EncodeInto(buf, p.Packet())
	if err != nil {
		return nil, &EncodeError{OID: PagedResultsOID, Err: err}
	}
	return out, nil
}

// Control encodes p and wraps it with the OID and the given criticality.
func (c Codec) Control(p PagedResults, critical bool) (ldap.Control, error) {
	value, err := c.Encode(p)
	if err != nil {
		return ldap.Control{}, err
	}
	return ldap.NewControl(PagedResultsOID, critical, value), nil
}

// Decode parses a control value.
//
// The outer element must be constructed. Its first child must be a
// universal primitive INTEGER, read as an unsigned number and truncated to
// 32 bits, so a negative size on the wire does not decode to the same
// negative number. Its second child must be primitive and becomes the
// cookie. Further children and bytes after the outer element are ignored.
func (c Codec) Decode(data []byte) (PagedResults, error) {
	tag, _, err := c.engine().ParsePacket(data)
	if err != nil {
		return PagedResults{}, malformed(PagedResultsOID, "failed to parse value", err)
	}

	if _, err := tag.ExpectConstructed(); err != nil {
		return PagedResults{}, malformed(PagedResultsOID, "value components", err)
	}

	sizeTag, err := tag.Child(0)
	if err != nil {
		return PagedResults{}, malformed(PagedResultsOID, "size element", err)
	}
	sizeContent, err := expectUniversalPrimitive(sizeTag, ber.TagInteger)
	if err != nil {
		return PagedResults{}, malformed(PagedResultsOID, "size element", err)
	}
	size, err := ber.ParseUint(sizeContent)
	if err != nil {
		return PagedResults{}, malformed(PagedResultsOID, "size value", err)
	}

	cookieTag, err := tag.Child(1)
	if err != nil {
		return PagedResults{}, malformed(PagedResultsOID, "cookie element", err)
	}
	var cookie []byte
	if c.StrictCookieTag {
		cookie, err = expectUniversalPrimitive(cookieTag, ber.TagOctetString)
	} else {
		cookie, err = cookieTag.ExpectPrimitive()
	}
	if err != nil {
		return PagedResults{}, malformed(PagedResultsOID, "cookie element", err)
	}

	return PagedResults{
		Size:   int32(size),
		Cookie: cookie,
	}, nil
}

// FindPagedResults decodes the first paged results control in controls.
// The boolean reports whether one was present.
func (c Codec) FindPagedResults(controls []ldap.Control) (*PagedResults, bool, error) {
	ctrl, ok := ldap.FindControl(controls, PagedResultsOID)
	if !ok {
		return nil, false, nil
	}
	pr, err := c.Decode(ctrl.Value)
	if err != nil {
		return nil, true, err
	}
	return &pr, true, nil
}

func expectUniversalPrimitive(p *ber.Packet, tag int) ([]byte, error) {
	p, err := p.MatchClass(ber.ClassUniversal)
	if err != nil {
		return nil, err
	}
	p, err = p.MatchTag(tag)
	if err != nil {
		return nil, err
	}
	return p.ExpectPrimitive()
}

// Encode serializes a PagedResults value with the native engine.
func Encode(p PagedResults) ([]byte, error) {
	return Codec{}.Encode(p)
}

// Decode parses a PagedResults value with the native engine.
func Decode(data []byte) (PagedResults, error) {
	return Codec{}.Decode(data)
}

// NewPagedResultsControl returns a non-critical control requesting pages of
// size entries, continuing from cookie.
func NewPagedResultsControl(size int32, cookie []byte) (ldap.Control, error) {
	return PagedResults{Size: size, Cookie: cookie}.Control(nil)
}
