package diagnostic

import (
	"github.com/pkg/errors"
)

const (
	EncodingLogfmt = "logfmt"
	EncodingJSON   = "json"
	EncodingZap    = "zap"
)

type Config struct {
	// File is STDERR, STDOUT or the path of a log file.
	File     string `toml:"file"`
	Level    string `toml:"level"`
	Encoding string `toml:"encoding"`
}

func NewConfig() Config {
	return Config{
		File:     "STDERR",
		Level:    "INFO",
		Encoding: EncodingLogfmt,
	}
}

func (c Config) Validate() error {
	if c.File == "" {
		return errors.New("must specify a log file, STDERR or STDOUT")
	}
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	switch c.Encoding {
	case EncodingLogfmt, EncodingJSON, EncodingZap:
	default:
		return errors.Errorf("unknown log encoding %s", c.Encoding)
	}
	return nil
}
