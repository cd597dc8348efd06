package main

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/scratchlang/slc/assets"
	"github.com/scratchlang/slc/decompile"
	"github.com/scratchlang/slc/project"
	"github.com/scratchlang/slc/services/buildcache"
	"github.com/scratchlang/slc/services/diagnostic"
)

// Config is the configuration of the slc binary.
type Config struct {
	Compile   CompileConfig     `toml:"compile"`
	Decompile decompile.Config  `toml:"decompile"`
	Logging   diagnostic.Config `toml:"logging"`
	Cache     buildcache.Config `toml:"cache"`
}

type CompileConfig struct {
	// Root is the directory every referenced file must resolve into.
	// Empty means the directory of each source.
	Root string `toml:"root"`

	AutoScale      bool  `toml:"auto-scale-costumes"`
	MaxCostumeSize int   `toml:"max-costume-size"`
	MaxImageBytes  int64 `toml:"max-image-bytes"`
	MaxSoundBytes  int64 `toml:"max-sound-bytes"`

	Agent string `toml:"agent"`
}

func (c CompileConfig) Assets() assets.Config {
	return assets.Config{
		AutoScale:      c.AutoScale,
		MaxCostumeSize: c.MaxCostumeSize,
		MaxImageBytes:  c.MaxImageBytes,
		MaxSoundBytes:  c.MaxSoundBytes,
	}
}

func NewConfig() *Config {
	a := assets.NewConfig()
	return &Config{
		Compile: CompileConfig{
			AutoScale:      a.AutoScale,
			MaxCostumeSize: a.MaxCostumeSize,
			MaxImageBytes:  a.MaxImageBytes,
			MaxSoundBytes:  a.MaxSoundBytes,
			Agent:          project.DefaultAgent,
		},
		Decompile: decompile.NewConfig(),
		Logging:   diagnostic.NewConfig(),
		Cache:     buildcache.NewConfig(),
	}
}

func (c *Config) Validate() error {
	if c.Compile.Agent == "" {
		return errors.New("must configure a non empty agent")
	}
	if err := c.Compile.Assets().Validate(); err != nil {
		return errors.Wrap(err, "compile")
	}
	if err := c.Decompile.Validate(); err != nil {
		return errors.Wrap(err, "decompile")
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.Wrap(err, "logging")
	}
	if err := c.Cache.Validate(); err != nil {
		return errors.Wrap(err, "cache")
	}
	return nil
}

// FindConfigPath returns the config path specified or searches for one.
// The order is the given path, the SLC_CONFIG_PATH variable and then the
// first non empty ~/.slc/slc.conf or /etc/slc/slc.conf.
func FindConfigPath(path string) string {
	if path != "" {
		if path == os.DevNull {
			return ""
		}
		return path
	}
	if env := os.Getenv("SLC_CONFIG_PATH"); env != "" {
		return env
	}
	for _, p := range []string{
		os.ExpandEnv("${HOME}/.slc/slc.conf"),
		"/etc/slc/slc.conf",
	} {
		if fi, err := os.Stat(p); err == nil && fi.Size() != 0 {
			return p
		}
	}
	return ""
}

// ParseConfig decodes the file at path over the defaults and applies the
// environment. A blank path yields the defaults.
func ParseConfig(path string) (*Config, error) {
	c := NewConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, c); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
	}
	if err := c.ApplyEnvOverrides(); err != nil {
		return nil, errors.Wrap(err, "apply env config")
	}
	return c, nil
}

// ApplyEnvOverrides sets fields from SLC_<SECTION>_<KEY> variables, where
// the names are the upper cased toml keys with hyphens as underscores.
func (c *Config) ApplyEnvOverrides() error {
	return applyEnvOverrides("SLC", "", reflect.ValueOf(c))
}

func applyEnvOverrides(prefix, fieldDesc string, spec reflect.Value) error {
	s := spec
	if spec.Kind() == reflect.Ptr {
		s = spec.Elem()
	}

	if s.Kind() == reflect.Struct {
		return applyEnvOverridesToStruct(prefix, s)
	}

	value, ok := os.LookupEnv(prefix)
	if !ok || value == "" {
		return nil
	}
	fail := func() error {
		return fmt.Errorf("failed to apply %v to %v using type %v and value '%v'", prefix, fieldDesc, s.Type().String(), value)
	}

	switch s.Kind() {
	case reflect.String:
		s.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if s.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fail()
			}
			s.SetInt(int64(d))
			return nil
		}
		v, err := strconv.ParseInt(value, 0, s.Type().Bits())
		if err != nil {
			return fail()
		}
		s.SetInt(v)
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fail()
		}
		s.SetBool(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(value, s.Type().Bits())
		if err != nil {
			return fail()
		}
		s.SetFloat(v)
	}
	return nil
}

func applyEnvOverridesToStruct(prefix string, s reflect.Value) error {
	typ := s.Type()
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		name := typ.Field(i).Tag.Get("toml")
		if !f.CanSet() || name == "" || name == "-" {
			continue
		}
		key := strings.ToUpper(strings.Replace(name, "-", "_", -1))
		if prefix != "" {
			key = prefix + "_" + key
		}
		if err := applyEnvOverrides(key, typ.Field(i).Name, f); err != nil {
			return err
		}
	}
	return nil
}
