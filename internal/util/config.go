package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const DefaultMaxCallDepth = 2048

type Configuration struct {
	Version   string `toml:"-" yaml:"-"`
	BuildDate string `toml:"-" yaml:"-"`
	Commit    string `toml:"-" yaml:"-"`

	LogLevel       string `toml:"log_level" yaml:"log_level"`
	LogFile        string `toml:"log_file" yaml:"log_file"`
	MaxCallDepth   int    `toml:"max_call_depth" yaml:"max_call_depth"`
	EnableDatabase bool   `toml:"database" yaml:"database"`
	ShowSource     bool   `toml:"show_source" yaml:"show_source"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		LogLevel:     "none",
		MaxCallDepth: DefaultMaxCallDepth,
	}
}

var ErrUnknownFormat = errors.New("unknown config format")

// LoadConfiguration reads a .toml, .yaml or .yml file over the defaults.
// Keys the file does not mention keep their default values; unknown keys
// are an error.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("read config '%s': %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("read config '%s': unknown key '%s'", path, undecoded[0])
		}

	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("read config '%s': %w", path, err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("read config '%s': %w", path, err)
		}

	default:
		return cfg, fmt.Errorf("read config '%s': %w", path, ErrUnknownFormat)
	}

	if cfg.MaxCallDepth <= 0 {
		return cfg, fmt.Errorf("read config '%s': max_call_depth must be positive", path)
	}
	return cfg, nil
}
