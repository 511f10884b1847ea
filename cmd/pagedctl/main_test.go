package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KilimcininKorOglu/ldapctrl/internal/ber"
	"github.com/KilimcininKorOglu/ldapctrl/internal/controls"
	"github.com/KilimcininKorOglu/ldapctrl/internal/ldap"
)

// runCapture runs the CLI with output captured.
func runCapture(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &errOut
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })

	code := run(append([]string{"pagedctl"}, args...))
	return code, out.String(), errOut.String()
}

func TestRun_NoArgs(t *testing.T) {
	code, out, _ := runCapture(t)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Usage:")
}

func TestRun_Help(t *testing.T) {
	for _, arg := range []string{"help", "-h", "--help"} {
		t.Run(arg, func(t *testing.T) {
			code, out, _ := runCapture(t, arg)
			assert.Equal(t, 0, code)
			assert.Contains(t, out, "pagedctl <command>")
		})
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	code, _, errOut := runCapture(t, "serve")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Unknown command: serve")
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCapture(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "pagedctl version "+version)

	code, out, _ = runCapture(t, "version", "-short")
	assert.Equal(t, 0, code)
	assert.Equal(t, version+"\n", out)
}

func TestRun_SubcommandHelp(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"encode", "-h"}, "pagedctl encode"},
		{[]string{"decode", "-help"}, "pagedctl decode"},
		{[]string{"version", "-h"}, "pagedctl version"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			code, out, _ := runCapture(t, tt.args...)
			assert.Equal(t, 0, code)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"initial request", []string{"-size", "0"}, "30050201000400"},
		{"size and cookie", []string{"-size", "5", "-cookie", "41"}, "3006020105040141"},
		{"default page size", nil, "30050201640400"},
		{"asn1ber engine", []string{"-size", "500", "-engine", "asn1ber"}, "3006020201f40400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runCapture(t, append([]string{"encode"}, tt.args...)...)
			require.Equal(t, 0, code, errOut)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestEncode_Control(t *testing.T) {
	oid := hex.EncodeToString([]byte(controls.PagedResultsOID))

	code, out, errOut := runCapture(t, "encode", "-size", "0", "-control", "-critical")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "3024"+"0416"+oid+"0101ff"+"0407"+"30050201000400\n", out)

	code, out, errOut = runCapture(t, "encode", "-size", "0", "-control")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "3021"+"0416"+oid+"0407"+"30050201000400\n", out)
}

func TestEncode_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad cookie", []string{"-cookie", "zz"}, "cookie"},
		{"size too large", []string{"-size", "4294967296"}, "out of 32-bit range"},
		{"unknown engine", []string{"-engine", "openssl"}, "unknown engine"},
		{"stray argument", []string{"extra"}, "Unexpected argument"},
		{"missing config", []string{"-config", "/nonexistent/pagedctl.toml"}, "load config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCapture(t, append([]string{"encode"}, tt.args...)...)
			assert.Equal(t, 1, code)
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func TestEncode_Config(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagedctl.toml")
	require.NoError(t, os.WriteFile(path, []byte("[codec]\npage_size = 25\ncritical = true\n"), 0600))

	code, out, errOut := runCapture(t, "encode", "-config", path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "30050201190400\n", out)

	code, out, errOut = runCapture(t, "encode", "-config", path, "-control", "-size", "1")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "0101ff", "critical from config")
	assert.True(t, strings.HasSuffix(out, "30050201010400\n"), "flag overrides config")
}

func TestEncode_LogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "pagedctl.log")
	path := filepath.Join(dir, "pagedctl.toml")
	cfg := "[logging]\nlevel = \"debug\"\nformat = \"json\"\noutput = \"" + filepath.ToSlash(logPath) + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0600))

	code, _, errOut := runCapture(t, "encode", "-config", path, "-size", "3")
	require.Equal(t, 0, code, errOut)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "encoded paged results control")
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"initial request", []string{"30050201000400"}, "size: 0\ncookie: \n"},
		{"separators", []string{"30:08:02:01:05", "04 01 41", "05 00"}, "size: 5\ncookie: 41\n"},
		{"asn1ber engine", []string{"-engine", "asn1ber", "3006020201f40400"}, "size: 500\ncookie: \n"},
		{"any primitive cookie tag", []string{"3006020105800141"}, "size: 5\ncookie: 41\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runCapture(t, append([]string{"decode"}, tt.args...)...)
			require.Equal(t, 0, code, errOut)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no input", nil, "hex input is required"},
		{"bad hex", []string{"zz"}, "invalid hex"},
		{"lone integer", []string{"02010a"}, "malformed"},
		{"strict cookie tag", []string{"-strict", "3006020105800141"}, "cookie element"},
		{"truncated", []string{"300502010004"}, "malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCapture(t, append([]string{"decode"}, tt.args...)...)
			assert.Equal(t, 1, code)
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func TestDecode_Control(t *testing.T) {
	encodeHex := func(c ldap.Control) string {
		data, err := ldap.EncodeControl(ber.Native{}, c)
		require.NoError(t, err)
		return hex.EncodeToString(data)
	}

	t.Run("paged results", func(t *testing.T) {
		ctrl, err := controls.Codec{}.Control(controls.PagedResults{Size: 7, Cookie: []byte{0xAB}}, true)
		require.NoError(t, err)

		code, out, errOut := runCapture(t, "decode", "-control", encodeHex(ctrl))
		require.Equal(t, 0, code, errOut)
		assert.Equal(t, "oid: "+controls.PagedResultsOID+"\ncritical: true\nsize: 7\ncookie: ab\n", out)
	})

	t.Run("other control", func(t *testing.T) {
		code, out, errOut := runCapture(t, "decode", "-control", encodeHex(ldap.NewControl("1.2.3", false, []byte{0xAB})))
		require.Equal(t, 0, code, errOut)
		assert.Equal(t, "oid: 1.2.3\ncritical: false\nvalue: ab\n", out)
	})

	t.Run("malformed non-critical value is logged", func(t *testing.T) {
		ctrl := ldap.NewControl(controls.PagedResultsOID, false, []byte{0x02, 0x01, 0x0A})
		code, _, errOut := runCapture(t, "decode", "-control", encodeHex(ctrl))
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "ignoring malformed control")
		assert.Contains(t, errOut, "control value is malformed")
	})

	t.Run("malformed critical value fails", func(t *testing.T) {
		ctrl := ldap.NewControl(controls.PagedResultsOID, true, []byte{0x02, 0x01, 0x0A})
		code, _, errOut := runCapture(t, "decode", "-control", encodeHex(ctrl))
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "critical control")
		assert.NotContains(t, errOut, "ignoring malformed control")
	})
}

func TestDecode_Table(t *testing.T) {
	code, out, errOut := runCapture(t, "decode", "-table", "3006020105040141")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, strings.ToUpper(out), "FIELD")
	assert.Contains(t, out, "size")
	assert.Contains(t, out, "41")
}

func TestParseHex(t *testing.T) {
	data, err := parseHex("30 05\n02:01:00\t04 00")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x30, 0x05, 0x02, 0x01, 0x00, 0x04, 0x00}, data)

	_, err = parseHex("abc")
	assert.Error(t, err)
}

func TestDecode_Message(t *testing.T) {
	encodeHex := func(m *ldap.Message) string {
		data, err := ldap.EncodeMessage(ber.Native{}, m)
		require.NoError(t, err)
		return hex.EncodeToString(data)
	}
	done := ber.NewConstructed(ber.ClassApplication, ldap.ApplicationSearchResultDone,
		ber.NewPrimitive(ber.ClassUniversal, ber.TagEnumerated, []byte{0x00}),
		ber.NewOctetString(nil),
		ber.NewOctetString(nil),
	)

	t.Run("search done with cookie", func(t *testing.T) {
		ctrl, err := controls.Codec{}.Control(controls.PagedResults{Size: 1200, Cookie: []byte{0x01, 0x02}}, false)
		require.NoError(t, err)
		msg := &ldap.Message{
			MessageID: 3,
			Operation: done,
			Controls:  []ldap.Control{ldap.NewControl("1.2.3", false, nil), ctrl},
		}

		code, out, errOut := runCapture(t, "decode", "-message", encodeHex(msg))
		require.Equal(t, 0, code, errOut)
		assert.Equal(t, "message_id: 3\noperation: application/5\ncritical: false\nsize: 1200\ncookie: 0102\n", out)
	})

	t.Run("no paged control", func(t *testing.T) {
		code, _, errOut := runCapture(t, "decode", "-message", encodeHex(&ldap.Message{MessageID: 4, Operation: done}))
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "no paged results control")
	})

	t.Run("exclusive with -control", func(t *testing.T) {
		code, _, errOut := runCapture(t, "decode", "-message", "-control", "00")
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "mutually exclusive")
	})
}
