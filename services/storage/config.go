package storage

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Config struct {
	// Path of the bolt database file. A leading ~ is the home directory.
	Path string `toml:"path"`
	// Timeout is how long to wait for the file lock held by another slc.
	Timeout time.Duration `toml:"-"`
}

func NewConfig() Config {
	return Config{
		Path:    "~/.slc/cache.db",
		Timeout: time.Second,
	}
}

func (c Config) Validate() error {
	if c.Path == "" {
		return errors.New("must specify a storage path")
	}
	return nil
}

// ExpandPath resolves a leading ~ in the path to the home directory.
func (c Config) ExpandPath() (string, error) {
	if c.Path != "~" && !strings.HasPrefix(c.Path, "~/") {
		return c.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "resolving home directory")
	}
	return filepath.Join(home, strings.TrimPrefix(c.Path, "~")), nil
}
