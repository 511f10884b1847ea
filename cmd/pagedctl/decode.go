package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/KilimcininKorOglu/ldapctrl/internal/ber"
	"github.com/KilimcininKorOglu/ldapctrl/internal/controls"
	"github.com/KilimcininKorOglu/ldapctrl/internal/ldap"
)

// decodeCmd handles the decode command.
func decodeCmd(args []string) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "Path to configuration file")
	envelope := fs.Bool("control", false, "Input is a full control, not just the value")
	message := fs.Bool("message", false, "Input is a full LDAPMessage")
	strict := fs.Bool("strict", false, "Require the cookie to be an OCTET STRING")
	engineName := fs.String("engine", "", "BER engine: native, asn1ber")
	table := fs.Bool("table", false, "Print fields as a table")
	help := fs.Bool("h", false, "Show help message")
	helpLong := fs.Bool("help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *help || *helpLong {
		printDecodeUsage(stdout)
		return 0
	}

	if *envelope && *message {
		fmt.Fprintln(stderr, "Error: -control and -message are mutually exclusive")
		return 1
	}

	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "Error: hex input is required")
		return 1
	}

	e, err := loadEnv(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer e.log.Close()

	set := setFlags(fs)
	if set["engine"] {
		if err := e.useEngine(*engineName); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	if !set["strict"] {
		*strict = e.cfg.Codec.Strict
	}

	data, err := parseHex(strings.Join(fs.Args(), ""))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	codec := controls.Codec{Engine: e.engine, StrictCookieTag: *strict}

	var rows [][]string
	switch {
	case *envelope:
		rows, err = decodeControl(e, codec, data)
	case *message:
		rows, err = decodeMessage(e, codec, data)
	default:
		var pr controls.PagedResults
		pr, err = codec.Decode(data)
		rows = pagedRows(pr)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	printFields(stdout, rows, *table)
	return 0
}

// decodeControl parses a control envelope and decodes its value through a
// registry, so a malformed non-critical value is logged rather than fatal.
func decodeControl(e *env, codec controls.Codec, data []byte) ([][]string, error) {
	ctrl, err := ldap.ParseControl(e.engine, data)
	if err != nil {
		return nil, err
	}

	parsed, err := pagedRegistry(e, codec).Parse(ctrl)
	if err != nil {
		return nil, err
	}

	rows := [][]string{
		{"oid", ctrl.OID},
		{"critical", strconv.FormatBool(ctrl.Criticality)},
	}

	pr, ok := parsed.Value.(controls.PagedResults)
	if !ok {
		if ctrl.OID == controls.PagedResultsOID {
			return nil, errors.New("control value is malformed")
		}
		return append(rows, []string{"value", hex.EncodeToString(ctrl.Value)}), nil
	}
	return append(rows, pagedRows(pr)...), nil
}

// decodeMessage parses an LDAPMessage and decodes its paged results control.
func decodeMessage(e *env, codec controls.Codec, data []byte) ([][]string, error) {
	msg, err := ldap.ParseMessage(e.engine, data)
	if err != nil {
		return nil, err
	}

	parsed, err := pagedRegistry(e, codec).ParseAll(msg.Controls)
	if err != nil {
		return nil, err
	}

	rows := [][]string{
		{"message_id", strconv.Itoa(msg.MessageID)},
		{"operation", fmt.Sprintf("%s/%d", ber.ClassName(msg.Operation.Class), msg.Operation.Tag)},
	}
	for _, p := range parsed {
		pr, ok := p.Value.(controls.PagedResults)
		if !ok {
			continue
		}
		rows = append(rows, []string{"critical", strconv.FormatBool(p.Raw.Criticality)})
		return append(rows, pagedRows(pr)...), nil
	}
	return nil, errors.New("message has no paged results control")
}

// pagedRegistry returns a registry whose paged results parser uses codec.
func pagedRegistry(e *env, codec controls.Codec) *controls.Registry {
	registry := controls.NewRegistry(e.engine, e.log)
	registry.Register(controls.PagedResultsOID, func(_ ber.Engine, value []byte) (controls.Encodable, error) {
		return codec.Decode(value)
	})
	return registry
}

func pagedRows(pr controls.PagedResults) [][]string {
	return [][]string{
		{"size", strconv.FormatInt(int64(pr.Size), 10)},
		{"cookie", hex.EncodeToString(pr.Cookie)},
	}
}

func printFields(w io.Writer, rows [][]string, asTable bool) {
	if !asTable {
		for _, row := range rows {
			fmt.Fprintf(w, "%s: %s\n", row[0], row[1])
		}
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}
