// penumbra-signer CLI - offline signing for Penumbra transaction plans
//
// The CLI derives viewing keys and addresses from a spend key and signs
// transaction plan files the way a hardware wallet would.
//
// Example usage:
//
//	# Show the full viewing key
//	penumbra-signer --spend-key-file sk.hex fvk
//
//	# Show the address of account 2
//	penumbra-signer --spend-key-file sk.hex address --account 2
//
//	# Compute the effect hash of a plan
//	penumbra-signer --spend-key-file sk.hex effect-hash plan.json
//
//	# Sign a plan
//	penumbra-signer -c signer.yaml sign plan.json
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

const appVersion = "0.1.0"

// globalOptions are accepted before any command.
type globalOptions struct {
	ConfigFile   string `short:"c" long:"config" description:"Path to a YAML config file"`
	NetworkHRP   string `long:"hrp" description:"Bech32m prefix for addresses (overrides network_hrp)"`
	LogLevel     string `long:"log-level" description:"Log level (overrides log_level)"`
	SpendKeyFile string `long:"spend-key-file" description:"File holding the hex spend key (overrides spend_key_file)"`
}

// config loads the config file and applies flag overrides.
func (g *globalOptions) config() (*Config, error) {
	cfg, err := LoadConfig(g.ConfigFile)
	if err != nil {
		return nil, err
	}
	if g.NetworkHRP != "" {
		cfg.NetworkHRP = g.NetworkHRP
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if g.SpendKeyFile != "" {
		cfg.SpendKeyFile = g.SpendKeyFile
	}
	return cfg, cfg.validate()
}

// setup resolves the config and builds its logger.
func (g *globalOptions) setup() (*Config, *zap.Logger, error) {
	cfg, err := g.config()
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

type command interface {
	Register(parser *flags.Parser) error
}

func main() {
	opts := &globalOptions{}
	parser := flags.NewParser(opts, flags.Default)

	commands := []command{
		newFVKCommand(opts),
		newAddressCommand(opts),
		newDecodeAddressCommand(opts),
		newEffectHashCommand(opts),
		newSignCommand(opts),
		&versionCommand{},
	}
	for _, cmd := range commands {
		if err := cmd.Register(parser); err != nil {
			fmt.Fprintf(os.Stderr, "Error registering command: %v\n", err)
			os.Exit(1)
		}
	}

	if _, err := parser.Parse(); err != nil {
		if flagErr, ok := err.(*flags.Error); ok && flagErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}
