package main

import (
	"bytes"
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/keys"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
)

// Config is the optional YAML configuration file. Command line flags
// override it.
type Config struct {
	NetworkHRP   string `yaml:"network_hrp"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	SpendKeyFile string `yaml:"spend_key_file"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		NetworkHRP: address.HRP,
		LogLevel:   defaultLogLevel,
		LogFormat:  defaultLogFormat,
	}
}

// LoadConfig reads path over the defaults. An empty path yields the
// defaults. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.NetworkHRP == "" {
		return errors.New("network_hrp must not be empty")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return errors.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	return nil
}

// Logger builds the zap logger the config describes.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "log_level")
	}
	var zc zap.Config
	if c.LogFormat == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

// SpendKey reads the hex spend key from the configured file.
func (c *Config) SpendKey() (keys.SpendKeyBytes, error) {
	if c.SpendKeyFile == "" {
		return keys.SpendKeyBytes{}, errors.New("no spend key file configured")
	}
	data, err := os.ReadFile(c.SpendKeyFile)
	if err != nil {
		return keys.SpendKeyBytes{}, errors.Wrap(err, "reading spend key")
	}
	raw, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return keys.SpendKeyBytes{}, errors.Wrap(err, "spend key is not hex")
	}
	sk, err := keys.SpendKeyFromBytes(raw)
	if err != nil {
		return keys.SpendKeyBytes{}, errors.Wrap(err, "invalid spend key")
	}
	return sk, nil
}
