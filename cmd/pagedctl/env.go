package main

import (
	"encoding/hex"
	"flag"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/KilimcininKorOglu/ldapctrl/internal/ber"
	"github.com/KilimcininKorOglu/ldapctrl/internal/ber/asn1ber"
	"github.com/KilimcininKorOglu/ldapctrl/internal/config"
	"github.com/KilimcininKorOglu/ldapctrl/internal/logging"
)

// env is the state shared by the codec subcommands.
type env struct {
	cfg    *config.Config
	log    logging.Logger
	engine ber.Engine
}

// loadEnv reads the config file, if any, and builds the logger and engine.
func loadEnv(configPath string) (*env, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	logCfg := cfg.Logging
	if logCfg.Format == "" {
		logCfg.Format = "json"
		if f, ok := stderr.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			logCfg.Format = "text"
		}
	}

	var (
		log logging.Logger
		err error
	)
	if logCfg.Output == "" || logCfg.Output == "stderr" {
		log, err = logging.NewWithWriter(stderr, logCfg)
	} else {
		log, err = logging.New(logCfg)
	}
	if err != nil {
		return nil, errors.Wrap(err, "create logger")
	}

	e := &env{cfg: cfg, log: log}
	e.engine, err = newEngine(cfg.Codec.Engine, cfg.Codec.MaxDepth)
	if err != nil {
		log.Close()
		return nil, err
	}
	return e, nil
}

// useEngine replaces the configured engine by name.
func (e *env) useEngine(name string) error {
	engine, err := newEngine(name, e.cfg.Codec.MaxDepth)
	if err != nil {
		return err
	}
	e.cfg.Codec.Engine = name
	e.engine = engine
	return nil
}

func newEngine(name string, maxDepth int) (ber.Engine, error) {
	switch name {
	case "", "native":
		return ber.Native{MaxDepth: maxDepth}, nil
	case "asn1ber":
		return asn1ber.Engine{}, nil
	default:
		return nil, errors.Errorf("unknown engine %q (want native or asn1ber)", name)
	}
}

// setFlags returns the names of the flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// parseHex decodes hex input, ignoring whitespace and colon separators.
func parseHex(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':':
			return -1
		}
		return r
	}, s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid hex")
	}
	return data, nil
}
