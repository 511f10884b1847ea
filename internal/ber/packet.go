package ber

import "fmt"

// Packet is one node of a BER tag tree. Primitive packets carry their raw
// content octets; constructed packets carry their children in encoded order.
type Packet struct {
	Class       int
	Constructed bool
	Tag         int
	Content     []byte
	Children    []*Packet
	// Offset is the position of the tag in the parsed input. It is zero
	// for packets built in memory.
	Offset int
}

// NewConstructed creates a constructed packet with the given children.
func NewConstructed(class, tag int, children ...*Packet) *Packet {
	return &Packet{
		Class:       class,
		Constructed: true,
		Tag:         tag,
		Children:    children,
	}
}

// NewPrimitive creates a primitive packet holding content.
func NewPrimitive(class, tag int, content []byte) *Packet {
	return &Packet{
		Class:   class,
		Tag:     tag,
		Content: content,
	}
}

// NewSequence creates a universal SEQUENCE.
func NewSequence(children ...*Packet) *Packet {
	return NewConstructed(ClassUniversal, TagSequence, children...)
}

// NewInteger creates a universal INTEGER in minimal two's complement form.
func NewInteger(v int64) *Packet {
	return NewPrimitive(ClassUniversal, TagInteger, encodeInteger(v))
}

// NewOctetString creates a universal OCTET STRING. The content is not copied.
func NewOctetString(v []byte) *Packet {
	if v == nil {
		v = []byte{}
	}
	return NewPrimitive(ClassUniversal, TagOctetString, v)
}

// NewBoolean creates a universal BOOLEAN. TRUE is encoded as 0xFF.
func NewBoolean(v bool) *Packet {
	content := []byte{0x00}
	if v {
		content[0] = 0xFF
	}
	return NewPrimitive(ClassUniversal, TagBoolean, content)
}

// AppendChild adds a child to a constructed packet.
func (p *Packet) AppendChild(child *Packet) {
	p.Children = append(p.Children, child)
}

// Child returns the i-th child, or ErrMissingElement when there is none.
func (p *Packet) Child(i int) (*Packet, error) {
	if i < 0 || i >= len(p.Children) {
		return nil, NewDecodeError(p.Offset, fmt.Sprintf("element %d not present", i), ErrMissingElement)
	}
	return p.Children[i], nil
}

// Is reports whether the packet has the given class and tag number.
func (p *Packet) Is(class, tag int) bool {
	return p.Class == class && p.Tag == tag
}

// ExpectConstructed returns the children of a constructed packet.
func (p *Packet) ExpectConstructed() ([]*Packet, error) {
	if !p.Constructed {
		return nil, NewDecodeError(p.Offset, "primitive tag where constructed required", ErrNotConstructed)
	}
	return p.Children, nil
}

// ExpectPrimitive returns the content of a primitive packet.
func (p *Packet) ExpectPrimitive() ([]byte, error) {
	if p.Constructed {
		return nil, NewDecodeError(p.Offset, "constructed tag where primitive required", ErrNotPrimitive)
	}
	return p.Content, nil
}

// MatchClass returns the packet if it has the given class.
func (p *Packet) MatchClass(class int) (*Packet, error) {
	if p.Class != class {
		return nil, p.mismatch(class, -1)
	}
	return p, nil
}

// MatchTag returns the packet if it has the given tag number.
func (p *Packet) MatchTag(tag int) (*Packet, error) {
	if p.Tag != tag {
		return nil, p.mismatch(-1, tag)
	}
	return p, nil
}

func (p *Packet) mismatch(class, tag int) *TagMismatchError {
	constructed := TypePrimitive
	if p.Constructed {
		constructed = TypeConstructed
	}
	return &TagMismatchError{
		Offset:            p.Offset,
		ExpectedClass:     class,
		ExpectedNumber:    tag,
		ActualClass:       p.Class,
		ActualNumber:      p.Tag,
		ActualConstructed: constructed,
	}
}

// String renders the tree on one line, e.g. "universal/16{universal/2[1], universal/4[0]}".
func (p *Packet) String() string {
	if p == nil {
		return "<nil>"
	}
	if !p.Constructed {
		return fmt.Sprintf("%s/%d[%d]", ClassName(p.Class), p.Tag, len(p.Content))
	}
	s := fmt.Sprintf("%s/%d{", ClassName(p.Class), p.Tag)
	for i, child := range p.Children {
		if i > 0 {
			s += ", "
		}
		s += child.String()
	}
	return s + "}"
}
