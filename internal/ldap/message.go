package ldap

import (
	"github.com/KilimcininKorOglu/ldapctrl/internal/ber"
)

// Message ID range per RFC 4511.
const (
	MinMessageID = 0
	MaxMessageID = 2147483647
)

// protocolOp application tags that carry paged results controls.
const (
	ApplicationSearchRequest    = 3
	ApplicationSearchResultDone = 5
)

// Message is an LDAPMessage envelope. The protocolOp is kept as a tag tree;
// only the envelope and its controls are interpreted.
//
// LDAPMessage ::= SEQUENCE {
//
//	messageID       MessageID,
//	protocolOp      CHOICE { ... },
//	controls        [0] Controls OPTIONAL
//
// }
type Message struct {
	MessageID int
	Operation *ber.Packet
	Controls  []Control
}

// Packet returns the message as a tag tree.
func (m *Message) Packet() (*ber.Packet, error) {
	if m.MessageID < MinMessageID || m.MessageID > MaxMessageID {
		return nil, ErrInvalidMessageID
	}
	if m.Operation == nil {
		return nil, ErrMissingOperation
	}
	if m.Operation.Class != ber.ClassApplication {
		return nil, ErrInvalidOperation
	}

	seq := ber.NewSequence(ber.NewInteger(int64(m.MessageID)), m.Operation)
	if len(m.Controls) > 0 {
		for _, ctrl := range m.Controls {
			if ctrl.OID == "" {
				return nil, ErrInvalidControlOID
			}
		}
		seq.AppendChild(ControlsPacket(m.Controls))
	}
	return seq, nil
}

// EncodeMessage serializes m.
func EncodeMessage(engine ber.Engine, m *Message) ([]byte, error) {
	p, err := m.Packet()
	if err != nil {
		return nil, err
	}
	return engine.EncodeInto(nil, p)
}

// ParseMessage parses a BER-encoded LDAPMessage envelope.
func ParseMessage(engine ber.Engine, data []byte) (*Message, error) {
	if len(data) == 0 {
		return nil, ErrEmptyMessage
	}

	p, _, err := engine.ParsePacket(data)
	if err != nil {
		return nil, NewParseError(0, "failed to parse message", err)
	}
	return MessageFromPacket(p)
}

// MessageFromPacket interprets a parsed LDAPMessage SEQUENCE. Elements after
// the controls are ignored.
func MessageFromPacket(p *ber.Packet) (*Message, error) {
	if !p.Constructed || !p.Is(ber.ClassUniversal, ber.TagSequence) {
		return nil, NewParseError(p.Offset, "expected SEQUENCE for LDAPMessage", ErrInvalidMessage)
	}

	idTag, err := p.Child(0)
	if err != nil {
		return nil, NewParseError(p.Offset, "missing messageID", err)
	}
	if idTag.Constructed || !idTag.Is(ber.ClassUniversal, ber.TagInteger) {
		return nil, NewParseError(idTag.Offset, "messageID must be an INTEGER", ErrInvalidMessage)
	}
	// A set high bit is a negative INTEGER.
	if len(idTag.Content) > 0 && idTag.Content[0]&0x80 != 0 {
		return nil, NewParseError(idTag.Offset, "negative messageID", ErrInvalidMessageID)
	}
	id, err := ber.ParseUint(idTag.Content)
	if err != nil {
		return nil, NewParseError(idTag.Offset, "failed to read messageID", err)
	}
	if id > MaxMessageID {
		return nil, NewParseError(idTag.Offset, "messageID out of range", ErrInvalidMessageID)
	}

	op, err := p.Child(1)
	if err != nil {
		return nil, NewParseError(p.Offset, "missing protocolOp", ErrMissingOperation)
	}
	if op.Class != ber.ClassApplication {
		return nil, NewParseError(op.Offset, "protocolOp must have APPLICATION tag class", ErrInvalidOperation)
	}

	msg := &Message{
		MessageID: int(id),
		Operation: op,
	}

	if len(p.Children) > 2 {
		ctrls := p.Children[2]
		if ctrls.Constructed && ctrls.Is(ber.ClassContextSpecific, ContextTagControls) {
			msg.Controls, err = ControlsFromPacket(ctrls)
			if err != nil {
				return nil, NewParseError(ctrls.Offset, "failed to parse controls", err)
			}
		}
	}

	return msg, nil
}
