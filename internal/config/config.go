package config

import (
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable the config reads.
const EnvPrefix = "TRANSCRIBER_"

var defaultPaths = []string{"transcriber.yaml", "transcriber.yml"}

// LoadConfig loads configuration from a YAML file and overlays TRANSCRIBER_*
// environment variables. If path is empty the default locations are searched
// and, when none exists, only defaults and environment are used.
func LoadConfig(path string) (*TranscriberConfig, error) {
	return load(path, nil)
}

// load is LoadConfig with an injectable environment; a nil environ reads the
// process environment.
func load(path string, environ map[string]string) (*TranscriberConfig, error) {
	explicit := path != ""
	if !explicit {
		for _, defaultPath := range defaultPaths {
			if _, err := os.Stat(defaultPath); err == nil {
				path = defaultPath
				break
			}
		}
	}

	var cfg TranscriberConfig
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open config")
		}
		defer f.Close()
		// An empty file decodes to io.EOF and is treated like "{}".
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
		cfg.FilePath = path
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}

	cfg = applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (cfg *TranscriberConfig) Validate() error {
	if strings.TrimSpace(cfg.SocketPath) == "" {
		return errors.New("socket_path must not be empty")
	}
	if cfg.TickRate <= 0 {
		return errors.Errorf("tick_rate must be positive (got %s)", cfg.TickRate)
	}
	switch cfg.Mode {
	case ModePrimary, ModeOffline:
	default:
		return errors.Errorf("unknown mode %q (want %q or %q)", cfg.Mode, ModePrimary, ModeOffline)
	}
	return nil
}
