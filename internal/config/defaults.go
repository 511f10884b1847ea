package config

import (
	"github.com/KilimcininKorOglu/ldapctrl/internal/ber"
	"github.com/KilimcininKorOglu/ldapctrl/internal/logging"
)

// DefaultPageSize is the page size requested when none is configured.
const DefaultPageSize = 100

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Codec: CodecConfig{
			Engine:   "native",
			MaxDepth: ber.DefaultMaxDepth,
			PageSize: DefaultPageSize,
			Critical: false,
			Strict:   false,
		},
		Logging: logging.Config{
			Level:  "warn",
			Format: "",
			Output: "stderr",
		},
	}
}
