package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage information to the given writer.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `pagedctl - LDAP Simple Paged Results control codec

Usage:
  pagedctl <command> [options]

Commands:
  encode      Encode a control value
  decode      Decode a control value
  version     Show version information

Use "pagedctl <command> -h" for more information about a command.
`)
}

// printEncodeUsage prints the encode command usage.
func printEncodeUsage(w io.Writer) {
	fmt.Fprint(w, `Encode a paged results control value as hex

Usage:
  pagedctl encode [options]

Options:
  -config string
        Path to configuration file
  -size int
        Page size (default from config, 100)
  -cookie string
        Cookie as hex (default empty)
  -critical
        Mark the control critical (only with -control)
  -control
        Print the full control instead of the value
  -engine string
        BER engine: native, asn1ber (overrides config)
  -h, -help
        Show this help message
`)
}

// printDecodeUsage prints the decode command usage.
func printDecodeUsage(w io.Writer) {
	fmt.Fprint(w, `Decode a paged results control value from hex

Usage:
  pagedctl decode [options] <hex>

Options:
  -config string
        Path to configuration file
  -control
        Input is a full control, not just the value
  -message
        Input is a full LDAPMessage carrying the control
  -strict
        Require the cookie to be an OCTET STRING (overrides config)
  -engine string
        BER engine: native, asn1ber (overrides config)
  -table
        Print fields as a table
  -h, -help
        Show this help message
`)
}

// printVersionUsage prints the version command usage.
func printVersionUsage(w io.Writer) {
	fmt.Fprint(w, `Show version information

Usage:
  pagedctl version [options]

Options:
  -short
        Show only version number
  -h, -help
        Show this help message
`)
}
