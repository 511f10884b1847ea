// Package config loads the pagedctl configuration file.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"

	"github.com/KilimcininKorOglu/ldapctrl/internal/logging"
)

// Config holds the complete tool configuration.
type Config struct {
	Codec   CodecConfig    `toml:"codec"`
	Logging logging.Config `toml:"logging"`
}

// CodecConfig selects the BER engine and the control defaults.
type CodecConfig struct {
	// Engine is "native" or "asn1ber".
	Engine string `toml:"engine" validate:"oneof=native asn1ber"`
	// MaxDepth bounds nesting for the native engine. Zero uses the engine default.
	MaxDepth int `toml:"max_depth" validate:"gte=0,lte=1024"`
	// PageSize is used by encode when -size is not given.
	PageSize int32 `toml:"page_size" validate:"gte=0"`
	Critical bool  `toml:"critical"`
	// Strict requires the cookie to be a universal OCTET STRING.
	Strict bool `toml:"strict"`
}

// Load reads a TOML file over the defaults and validates the result.
// A leading ~ in path is expanded to the home directory.
func Load(path string) (*Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "expand config path %s", path)
	}

	cfg := DefaultConfig()
	md, err := toml.DecodeFile(expanded, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "load config %s", expanded)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("load config %s: unknown key %s", expanded, undecoded[0])
	}

	if errs := ValidateConfig(cfg); len(errs) > 0 {
		return nil, errors.Wrapf(errs[0], "invalid config %s", expanded)
	}
	return cfg, nil
}
