package assets

import (
	"fmt"
)

const (
	DefaultMaxCostumeSize = 480
	DefaultMaxImageBytes  = 10 * 1024 * 1024
	DefaultMaxSoundBytes  = 20 * 1024 * 1024
)

type Config struct {
	// Scale bitmap costumes down so their larger side fits MaxCostumeSize.
	AutoScale      bool `toml:"auto-scale-costumes"`
	MaxCostumeSize int  `toml:"max-costume-size"`

	MaxImageBytes int64 `toml:"max-image-bytes"`
	MaxSoundBytes int64 `toml:"max-sound-bytes"`
}

func NewConfig() Config {
	return Config{
		MaxCostumeSize: DefaultMaxCostumeSize,
		MaxImageBytes:  DefaultMaxImageBytes,
		MaxSoundBytes:  DefaultMaxSoundBytes,
	}
}

func (c Config) Validate() error {
	if c.MaxCostumeSize <= 0 {
		return fmt.Errorf("max-costume-size must be positive, got %d", c.MaxCostumeSize)
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("max-image-bytes must be positive, got %d", c.MaxImageBytes)
	}
	if c.MaxSoundBytes <= 0 {
		return fmt.Errorf("max-sound-bytes must be positive, got %d", c.MaxSoundBytes)
	}
	return nil
}
