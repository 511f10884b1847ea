// Package ldap implements the LDAP control envelope as specified in RFC 4511.
//
// Controls extend LDAP operations. Each control carries an OID identifying
// the extension, a criticality flag, and an optional opaque value whose
// encoding is defined by the extension itself:
//
//	Control ::= SEQUENCE {
//	    controlType             LDAPOID,
//	    criticality             BOOLEAN DEFAULT FALSE,
//	    controlValue            OCTET STRING OPTIONAL
//	}
//
// Controls travel in the optional [0] element of an LDAPMessage:
//
//	LDAPMessage ::= SEQUENCE {
//	    messageID       MessageID,
//	    protocolOp      CHOICE { ... },
//	    controls        [0] Controls OPTIONAL
//	}
//
// Use NewControl to build an envelope around an encoded value and
// EncodeControl / ParseControl to move it to and from the wire. The BER work
// is delegated to a ber.Engine so callers choose the implementation:
//
//	ctrl := ldap.NewControl(oid, true, value)
//	data, err := ldap.EncodeControl(ber.Native{}, ctrl)
//
// Message parses and builds that envelope, keeping the protocolOp as an
// opaque tag tree so controls can be read from any operation:
//
//	msg, err := ldap.ParseMessage(ber.Native{}, data)
//	ctrl, ok := ldap.FindControl(msg.Controls, oid)
//
// Criticality FALSE is never written, matching the DEFAULT FALSE in the
// ASN.1 definition. Parsing accepts an explicit FALSE.
//
// # References
//
//   - RFC 4511: LDAP Protocol, Section 4.1.11
package ldap
