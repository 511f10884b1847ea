package ldap

import (
	"github.com/KilimcininKorOglu/ldapctrl/internal/ber"
)

// NewControl builds a control envelope. A nil value means the control has no
// controlValue; an empty non-nil value is encoded as a zero-length OCTET STRING.
func NewControl(oid string, critical bool, value []byte) Control {
	return Control{
		OID:         oid,
		Criticality: critical,
		Value:       value,
	}
}

// Packet returns the control as a tag tree.
// Control ::= SEQUENCE {
//
//	controlType             LDAPOID,
//	criticality             BOOLEAN DEFAULT FALSE,
//	controlValue            OCTET STRING OPTIONAL
//
// }
func (c Control) Packet() *ber.Packet {
	seq := ber.NewSequence(ber.NewOctetString([]byte(c.OID)))

	// Criticality is omitted when false since that is the default
	if c.Criticality {
		seq.AppendChild(ber.NewBoolean(true))
	}

	if c.Value != nil {
		seq.AppendChild(ber.NewOctetString(c.Value))
	}

	return seq
}

// EncodeControl serializes a single control.
func EncodeControl(engine ber.Engine, c Control) ([]byte, error) {
	if c.OID == "" {
		return nil, ErrInvalidControlOID
	}
	return engine.EncodeInto(nil, c.Packet())
}

// ParseControl parses a single BER-encoded control.
func ParseControl(engine ber.Engine, data []byte) (Control, error) {
	if len(data) == 0 {
		return Control{}, ErrEmptyControl
	}

	p, _, err := engine.ParsePacket(data)
	if err != nil {
		return Control{}, NewParseError(0, "failed to parse control", err)
	}
	return ControlFromPacket(p)
}

// ControlFromPacket interprets a parsed Control SEQUENCE.
func ControlFromPacket(p *ber.Packet) (Control, error) {
	ctrl := Control{
		Criticality: false, // DEFAULT FALSE
	}

	if !p.Constructed || !p.Is(ber.ClassUniversal, ber.TagSequence) {
		return ctrl, NewParseError(p.Offset, "expected SEQUENCE for control", ErrInvalidControlSequence)
	}

	// controlType (LDAPOID, encoded as OCTET STRING)
	oidTag, err := p.Child(0)
	if err != nil {
		return ctrl, NewParseError(p.Offset, "missing control OID", err)
	}
	if oidTag.Constructed || !oidTag.Is(ber.ClassUniversal, ber.TagOctetString) {
		return ctrl, NewParseError(oidTag.Offset, "control OID must be an OCTET STRING", ErrInvalidControlOID)
	}
	if len(oidTag.Content) == 0 {
		return ctrl, NewParseError(oidTag.Offset, "empty control OID", ErrInvalidControlOID)
	}
	ctrl.OID = string(oidTag.Content)

	rest := p.Children[1:]

	// Optional criticality (BOOLEAN)
	if len(rest) > 0 && rest[0].Is(ber.ClassUniversal, ber.TagBoolean) {
		content, err := rest[0].ExpectPrimitive()
		if err != nil {
			return ctrl, NewParseError(rest[0].Offset, "failed to read control criticality", err)
		}
		if len(content) != 1 {
			return ctrl, NewParseError(rest[0].Offset, "criticality must have length 1", ErrInvalidControlSequence)
		}
		ctrl.Criticality = content[0] != 0x00
		rest = rest[1:]
	}

	// Optional controlValue (OCTET STRING)
	if len(rest) > 0 && rest[0].Is(ber.ClassUniversal, ber.TagOctetString) {
		content, err := rest[0].ExpectPrimitive()
		if err != nil {
			return ctrl, NewParseError(rest[0].Offset, "failed to read control value", err)
		}
		ctrl.Value = content
		rest = rest[1:]
	}

	if len(rest) > 0 {
		return ctrl, NewParseError(rest[0].Offset, "unexpected element in control", ErrInvalidControlSequence)
	}

	return ctrl, nil
}

// ControlsPacket returns the [0] Controls element of an LDAPMessage.
// Controls ::= SEQUENCE OF control Control, implicitly tagged [0].
func ControlsPacket(controls []Control) *ber.Packet {
	p := ber.NewConstructed(ber.ClassContextSpecific, ContextTagControls)
	for _, ctrl := range controls {
		p.AppendChild(ctrl.Packet())
	}
	return p
}

// EncodeControls serializes the [0] Controls element.
func EncodeControls(engine ber.Engine, controls []Control) ([]byte, error) {
	for _, ctrl := range controls {
		if ctrl.OID == "" {
			return nil, ErrInvalidControlOID
		}
	}
	return engine.EncodeInto(nil, ControlsPacket(controls))
}

// ParseControls parses the [0] Controls element.
func ParseControls(engine ber.Engine, data []byte) ([]Control, error) {
	if len(data) == 0 {
		return nil, ErrEmptyControl
	}

	p, _, err := engine.ParsePacket(data)
	if err != nil {
		return nil, NewParseError(0, "failed to parse controls", err)
	}
	return ControlsFromPacket(p)
}

// ControlsFromPacket interprets a parsed [0] Controls element.
func ControlsFromPacket(p *ber.Packet) ([]Control, error) {
	if !p.Constructed || !p.Is(ber.ClassContextSpecific, ContextTagControls) {
		return nil, NewParseError(p.Offset, "expected [0] for controls", ErrInvalidControlSequence)
	}

	children := p.Children

	// Some clients wrap the controls in an explicit SEQUENCE OF inside [0].
	// A Control starts with an OCTET STRING, a wrapper starts with a SEQUENCE.
	if len(children) == 1 && isControlList(children[0]) {
		children = children[0].Children
	}

	controls := make([]Control, 0, len(children))
	for _, child := range children {
		ctrl, err := ControlFromPacket(child)
		if err != nil {
			return nil, err
		}
		controls = append(controls, ctrl)
	}
	return controls, nil
}

func isControlList(p *ber.Packet) bool {
	if !p.Constructed || !p.Is(ber.ClassUniversal, ber.TagSequence) {
		return false
	}
	if len(p.Children) == 0 {
		return true
	}
	return p.Children[0].Is(ber.ClassUniversal, ber.TagSequence)
}

// FindControl returns the first control with the given OID.
func FindControl(controls []Control, oid string) (Control, bool) {
	for _, ctrl := range controls {
		if ctrl.OID == oid {
			return ctrl, true
		}
	}
	return Control{}, false
}
