package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"math"

	"github.com/KilimcininKorOglu/ldapctrl/internal/controls"
	"github.com/KilimcininKorOglu/ldapctrl/internal/ldap"
)

// encodeCmd handles the encode command.
func encodeCmd(args []string) int {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "Path to configuration file")
	size := fs.Int64("size", 0, "Page size (default from config)")
	cookieHex := fs.String("cookie", "", "Cookie as hex")
	critical := fs.Bool("critical", false, "Mark the control critical")
	envelope := fs.Bool("control", false, "Print the full control instead of the value")
	engineName := fs.String("engine", "", "BER engine: native, asn1ber")
	help := fs.Bool("h", false, "Show help message")
	helpLong := fs.Bool("help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *help || *helpLong {
		printEncodeUsage(stdout)
		return 0
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Unexpected argument: %s\n", fs.Arg(0))
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
	if !set["size"] {
		*size = int64(e.cfg.Codec.PageSize)
	}
	if *size < math.MinInt32 || *size > math.MaxInt32 {
		fmt.Fprintf(stderr, "Error: size %d out of 32-bit range\n", *size)
		return 1
	}
	if !set["critical"] {
		*critical = e.cfg.Codec.Critical
	}

	cookie, err := parseHex(*cookieHex)
	if err != nil {
		fmt.Fprintf(stderr, "Error: cookie: %v\n", err)
		return 1
	}

	value := controls.PagedResults{Size: int32(*size), Cookie: cookie}
	codec := controls.NewCodec(e.engine)

	var out []byte
	if *envelope {
		var ctrl ldap.Control
		ctrl, err = codec.Control(value, *critical)
		if err == nil {
			out, err = ldap.EncodeControl(e.engine, ctrl)
		}
	} else {
		out, err = codec.Encode(value)
	}
	if err != nil {
		e.log.Error("encode failed", "engine", e.cfg.Codec.Engine, "error", err.Error())
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	e.log.Debug("encoded paged results control",
		"engine", e.cfg.Codec.Engine,
		"size", value.Size,
		"cookie_len", len(cookie),
		"bytes", len(out))

	fmt.Fprintln(stdout, hex.EncodeToString(out))
	return 0
}
