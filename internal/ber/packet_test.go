package ber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacketBuilders(t *testing.T) {
	tests := []struct {
		name     string
		packet   *Packet
		expected []byte
	}{
		{"integer zero", NewInteger(0), []byte{0x02, 0x01, 0x00}},
		{"integer 100", NewInteger(100), []byte{0x02, 0x01, 0x64}},
		{"empty octet string", NewOctetString(nil), []byte{0x04, 0x00}},
		{"octet string", NewOctetString([]byte("AB")), []byte{0x04, 0x02, 0x41, 0x42}},
		{"boolean true", NewBoolean(true), []byte{0x01, 0x01, 0xFF}},
		{"boolean false", NewBoolean(false), []byte{0x01, 0x01, 0x00}},
		{
			"sequence",
			NewSequence(NewInteger(0), NewOctetString(nil)),
			[]byte{0x30, 0x05, 0x02, 0x01, 0x00, 0x04, 0x00},
		},
		{
			"context constructed",
			NewConstructed(ClassContextSpecific, 0, NewSequence()),
			[]byte{0xA0, 0x02, 0x30, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.packet)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPacket_Child(t *testing.T) {
	p := NewSequence(NewInteger(1))

	child, err := p.Child(0)
	require.NoError(t, err)
	assert.Equal(t, TagInteger, child.Tag)

	_, err = p.Child(1)
	assert.ErrorIs(t, err, ErrMissingElement)

	_, err = p.Child(-1)
	assert.ErrorIs(t, err, ErrMissingElement)
}

func TestPacket_Expect(t *testing.T) {
	seq := NewSequence(NewInteger(1))
	integer := NewInteger(1)

	children, err := seq.ExpectConstructed()
	require.NoError(t, err)
	assert.Len(t, children, 1)

	_, err = integer.ExpectConstructed()
	assert.ErrorIs(t, err, ErrNotConstructed)

	content, err := integer.ExpectPrimitive()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, content)

	_, err = seq.ExpectPrimitive()
	assert.ErrorIs(t, err, ErrNotPrimitive)
}

func TestPacket_Match(t *testing.T) {
	p := NewOctetString([]byte("x"))

	got, err := p.MatchClass(ClassUniversal)
	require.NoError(t, err)
	assert.Same(t, p, got)

	_, err = p.MatchClass(ClassContextSpecific)
	assert.ErrorIs(t, err, ErrTagMismatch)

	_, err = p.MatchTag(TagInteger)
	require.ErrorIs(t, err, ErrTagMismatch)

	var mismatch *TagMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, TagInteger, mismatch.ExpectedNumber)
	assert.Equal(t, TagOctetString, mismatch.ActualNumber)
	assert.Equal(t, -1, mismatch.ExpectedClass)
}

func TestPacket_String(t *testing.T) {
	p := NewSequence(NewInteger(10), NewOctetString([]byte{1, 2}))
	assert.Equal(t, "universal/16{universal/2[1], universal/4[2]}", p.String())

	var nilPacket *Packet
	assert.Equal(t, "<nil>", nilPacket.String())
}

func TestParseUint(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    uint64
		wantErr bool
	}{
		{"zero", []byte{0x00}, 0, false},
		{"small", []byte{0x64}, 100, false},
		{"high bit is not a sign", []byte{0xFF}, 255, false},
		{"four bytes", []byte{0x7F, 0xFF, 0xFF, 0xFF}, 2147483647, false},
		{"all ones", []byte{0xFF, 0xFF, 0xFF, 0xFF}, 4294967295, false},
		{"nine bytes with leading zero", []byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 18446744073709551615, false},
		{"empty", []byte{}, 0, true},
		{"nine bytes", []byte{0x01, 0, 0, 0, 0, 0, 0, 0, 0}, 0, true},
		{"ten bytes", make([]byte, 10), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUint(tt.content)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInteger)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
