package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/api"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/hw"
	"github.com/suffix-labs/penumbra-signer/pkg/plan"
	"github.com/suffix-labs/penumbra-signer/pkg/signer"
)

const (
	fvkHRP      = "penumbrafullviewingkey"
	walletIDHRP = "penumbrawalletid"
)

// reportErr adds the numeric status code to err for display.
func reportErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%v (code %d)", err, uint32(errcode.FromError(err)))
}

type fvkCommand struct {
	Hex bool `long:"hex" description:"Print ak || nk as hex instead of bech32m"`

	global *globalOptions
	out    io.Writer
}

func newFVKCommand(g *globalOptions) *fvkCommand {
	return &fvkCommand{global: g, out: os.Stdout}
}

func (x *fvkCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"fvk",
		"Show the full viewing key",
		"Derive the full viewing key and wallet id of the configured "+
			"spend key",
		x,
	)
	return err
}

func (x *fvkCommand) Execute(_ []string) error {
	cfg, logger, err := x.global.setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	sk, err := cfg.SpendKey()
	if err != nil {
		return err
	}
	fvk, err := sk.FullViewingKey()
	if err != nil {
		return reportErr(err)
	}
	raw := fvk.Bytes()
	id := fvk.WalletID()

	if x.Hex {
		fmt.Fprintln(x.out, hex.EncodeToString(raw[:]))
		return nil
	}
	fvkText, err := address.EncodeBech32m(fvkHRP, raw[:])
	if err != nil {
		return reportErr(err)
	}
	idText, err := address.EncodeBech32m(walletIDHRP, id[:])
	if err != nil {
		return reportErr(err)
	}
	fmt.Fprintf(x.out, "fvk:       %s\n", fvkText)
	fmt.Fprintf(x.out, "wallet id: %s\n", idText)
	return nil
}

type addressCommand struct {
	Account   uint32 `long:"account" short:"a" description:"Account number"`
	Ephemeral bool   `long:"ephemeral" description:"Derive a fresh randomized address for the account"`

	global *globalOptions
	out    io.Writer
}

func newAddressCommand(g *globalOptions) *addressCommand {
	return &addressCommand{global: g, out: os.Stdout}
}

func (x *addressCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"address",
		"Show a payment address",
		"Derive the payment address of an account; with --ephemeral "+
			"a random index randomizer is drawn",
		x,
	)
	return err
}

func (x *addressCommand) Execute(_ []string) error {
	cfg, logger, err := x.global.setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	sk, err := cfg.SpendKey()
	if err != nil {
		return err
	}
	fvk, err := sk.FullViewingKey()
	if err != nil {
		return reportErr(err)
	}

	if !x.Ephemeral {
		s, err := api.PaymentAddress(fvk, x.Account, cfg.NetworkHRP)
		if err != nil {
			return reportErr(err)
		}
		fmt.Fprintln(x.out, s)
		return nil
	}

	host := hw.NewHost(logger)
	addr, _, err := fvk.EphemeralAddress(host.Rand(), x.Account)
	if err != nil {
		return reportErr(err)
	}
	s, err := addr.Encode(cfg.NetworkHRP)
	if err != nil {
		return reportErr(err)
	}
	fmt.Fprintln(x.out, s)
	return nil
}

type decodeAddressCommand struct {
	Args struct {
		Address string `positional-arg-name:"address" required:"yes"`
	} `positional-args:"yes"`

	global *globalOptions
	out    io.Writer
}

func newDecodeAddressCommand(g *globalOptions) *decodeAddressCommand {
	return &decodeAddressCommand{global: g, out: os.Stdout}
}

func (x *decodeAddressCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"decode-address",
		"Decode an address",
		"Decode a bech32m address, print its raw bytes and report "+
			"whether the configured key can view it",
		x,
	)
	return err
}

func (x *decodeAddressCommand) Execute(_ []string) error {
	cfg, logger, err := x.global.setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	sk, err := cfg.SpendKey()
	if err != nil {
		return err
	}
	fvk, err := sk.FullViewingKey()
	if err != nil {
		return reportErr(err)
	}
	info, err := api.DecodeAddress(fvk, x.Args.Address, cfg.NetworkHRP)
	if err != nil {
		return reportErr(err)
	}

	raw := info.Address.Bytes()
	fmt.Fprintf(x.out, "bytes:     %s\n", hex.EncodeToString(raw[:]))
	fmt.Fprintf(x.out, "visible:   %t\n", info.Visible)
	if info.Visible {
		fmt.Fprintf(x.out, "account:   %d\n", info.Account)
		fmt.Fprintf(x.out, "ephemeral: %t\n", info.Ephemeral)
	}
	return nil
}

type planArgs struct {
	Plan string `positional-arg-name:"plan" required:"yes" description:"Plan file (JSON)"`
}

func readPlan(path string) (*plan.TransactionPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading plan")
	}
	tp, err := api.ParsePlan(data)
	if err != nil {
		return nil, reportErr(err)
	}
	return tp, nil
}

type effectHashCommand struct {
	Actions bool     `long:"actions" description:"Also print every action's effect hash"`
	Args    planArgs `positional-args:"yes"`

	global *globalOptions
	out    io.Writer
}

func newEffectHashCommand(g *globalOptions) *effectHashCommand {
	return &effectHashCommand{global: g, out: os.Stdout}
}

func (x *effectHashCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"effect-hash",
		"Compute the effect hash of a plan",
		"Rebuild every action of the plan with the configured key and "+
			"print the transaction effect hash",
		x,
	)
	return err
}

func (x *effectHashCommand) Execute(_ []string) error {
	cfg, logger, err := x.global.setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	sk, err := cfg.SpendKey()
	if err != nil {
		return err
	}
	fvk, err := sk.FullViewingKey()
	if err != nil {
		return reportErr(err)
	}
	tp, err := readPlan(x.Args.Plan)
	if err != nil {
		return err
	}

	host := hw.NewHost(logger)
	h, err := tp.EffectHash(fvk, host)
	if err != nil {
		return reportErr(err)
	}
	logger.Debug("computed effect hash", zap.Int("actions", len(tp.Actions)))

	if x.Actions {
		hashes, err := tp.ActionHashes(fvk, host)
		if err != nil {
			return reportErr(err)
		}
		plans, err := tp.ActionPlans()
		if err != nil {
			return reportErr(err)
		}
		for i, ah := range hashes {
			fmt.Fprintf(x.out, "action %2d %-30s %s\n", i, plans[i].Kind(), ah)
		}
	}
	fmt.Fprintln(x.out, h)
	return nil
}

type signCommand struct {
	Output string   `long:"output" short:"o" description:"Write the authorization data here instead of stdout"`
	Args   planArgs `positional-args:"yes"`

	global *globalOptions
	out    io.Writer
}

func newSignCommand(g *globalOptions) *signCommand {
	return &signCommand{global: g, out: os.Stdout}
}

func (x *signCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"sign",
		"Sign a plan",
		"Verify the plan against the configured key, then authorize "+
			"every spend and delegator vote and print the "+
			"authorization data as JSON",
		x,
	)
	return err
}

func (x *signCommand) Execute(_ []string) error {
	cfg, logger, err := x.global.setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	sk, err := cfg.SpendKey()
	if err != nil {
		return err
	}
	tp, err := readPlan(x.Args.Plan)
	if err != nil {
		return err
	}

	s := signer.New(sk, hw.NewHost(logger), logger)
	fvk, err := s.FullViewingKey()
	if err != nil {
		return reportErr(err)
	}
	if err := api.VerifyBeforeSigning(tp, fvk); err != nil {
		return reportErr(err)
	}
	auth, err := s.Sign(tp)
	if err != nil {
		return reportErr(err)
	}

	out, err := json.MarshalIndent(auth, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding authorization data")
	}
	out = append(out, '\n')
	if x.Output == "" {
		_, err = x.out.Write(out)
		return err
	}
	return os.WriteFile(x.Output, out, 0o600)
}

type versionCommand struct{}

func (x *versionCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"version",
		"Show version information",
		"Show the signer version and the plan file version it reads",
		x,
	)
	return err
}

func (x *versionCommand) Execute(_ []string) error {
	fmt.Printf("penumbra-signer v%s\n", appVersion)
	fmt.Printf("plan file version %d\n", plan.Version)
	return nil
}
