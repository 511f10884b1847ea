package ldap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KilimcininKorOglu/ldapctrl/internal/ber"
)

const pagedOID = "1.2.840.113556.1.4.319"

func searchDone() *ber.Packet {
	return ber.NewConstructed(ber.ClassApplication, ApplicationSearchResultDone,
		ber.NewPrimitive(ber.ClassUniversal, ber.TagEnumerated, []byte{0x00}),
		ber.NewOctetString(nil),
		ber.NewOctetString(nil),
	)
}

func TestEncodeMessage(t *testing.T) {
	msg := &Message{
		MessageID: 1,
		Operation: ber.NewPrimitive(ber.ClassApplication, 2, nil),
	}
	expected := []byte{0x30, 0x05, 0x02, 0x01, 0x01, 0x42, 0x00}

	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			data, err := EncodeMessage(e.engine, msg)
			require.NoError(t, err)
			assert.Equal(t, expected, data)
		})
	}
}

func TestMessageRoundTrip(t *testing.T) {
	value := []byte{0x30, 0x05, 0x02, 0x01, 0x00, 0x04, 0x00}
	msg := &Message{
		MessageID: 2,
		Operation: searchDone(),
		Controls: []Control{
			NewControl(pagedOID, false, value),
			NewControl("1.2.3", true, nil),
		},
	}

	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			data, err := EncodeMessage(e.engine, msg)
			require.NoError(t, err)

			parsed, err := ParseMessage(e.engine, data)
			require.NoError(t, err)

			assert.Equal(t, 2, parsed.MessageID)
			assert.Equal(t, ber.ClassApplication, parsed.Operation.Class)
			assert.Equal(t, ApplicationSearchResultDone, parsed.Operation.Tag)
			assert.True(t, parsed.Operation.Constructed)
			assert.Len(t, parsed.Operation.Children, 3)
			assert.Equal(t, msg.Controls, parsed.Controls)

			ctrl, ok := FindControl(parsed.Controls, pagedOID)
			require.True(t, ok)
			assert.Equal(t, value, ctrl.Value)
		})
	}
}

func TestParseMessage(t *testing.T) {
	t.Run("wrapped controls", func(t *testing.T) {
		data := []byte{
			0x30, 0x12,
			0x02, 0x01, 0x01,
			0x42, 0x00,
			0xA0, 0x0B,
			0x30, 0x09,
			0x30, 0x07, 0x04, 0x05, '1', '.', '2', '.', '3',
		}
		for _, e := range engines {
			msg, err := ParseMessage(e.engine, data)
			require.NoError(t, err, e.name)
			assert.Equal(t, []Control{{OID: "1.2.3"}}, msg.Controls, e.name)
		}
	})

	t.Run("no controls", func(t *testing.T) {
		msg, err := ParseMessage(ber.Native{}, []byte{0x30, 0x05, 0x02, 0x01, 0x07, 0x42, 0x00})
		require.NoError(t, err)
		assert.Equal(t, 7, msg.MessageID)
		assert.Nil(t, msg.Controls)
	})

	t.Run("other trailing element ignored", func(t *testing.T) {
		msg, err := ParseMessage(ber.Native{}, []byte{0x30, 0x07, 0x02, 0x01, 0x01, 0x42, 0x00, 0x04, 0x00})
		require.NoError(t, err)
		assert.Nil(t, msg.Controls)
	})
}

func TestParseMessage_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrEmptyMessage},
		{"not a sequence", []byte{0x04, 0x00}, ErrInvalidMessage},
		{"string messageID", []byte{0x30, 0x04, 0x04, 0x00, 0x42, 0x00}, ErrInvalidMessage},
		{"missing protocolOp", []byte{0x30, 0x03, 0x02, 0x01, 0x01}, ErrMissingOperation},
		{"negative messageID", []byte{0x30, 0x05, 0x02, 0x01, 0xFF, 0x42, 0x00}, ErrInvalidMessageID},
		{"messageID too large", []byte{0x30, 0x09, 0x02, 0x05, 0x00, 0x80, 0x00, 0x00, 0x00, 0x42, 0x00}, ErrInvalidMessageID},
		{"universal protocolOp", []byte{0x30, 0x05, 0x02, 0x01, 0x01, 0x04, 0x00}, ErrInvalidOperation},
		{"bad control", []byte{0x30, 0x09, 0x02, 0x01, 0x01, 0x42, 0x00, 0xA0, 0x02, 0x04, 0x00}, ErrInvalidControlSequence},
		{"truncated", []byte{0x30, 0x05, 0x02, 0x01}, ber.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMessage(ber.Native{}, tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEncodeMessage_Errors(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want error
	}{
		{"missing operation", &Message{MessageID: 1}, ErrMissingOperation},
		{"negative id", &Message{MessageID: -1, Operation: searchDone()}, ErrInvalidMessageID},
		{"universal operation", &Message{MessageID: 1, Operation: ber.NewSequence()}, ErrInvalidOperation},
		{
			"control without OID",
			&Message{MessageID: 1, Operation: searchDone(), Controls: []Control{{Criticality: true}}},
			ErrInvalidControlOID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeMessage(ber.Native{}, tt.msg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
