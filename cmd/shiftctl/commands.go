package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"shapeshift/pkg/shapeshift"
)

type app struct {
	out    io.Writer
	getenv func(string) string

	configPath  string
	baseURL     string
	logLevel    string
	cors        bool
	minInterval time.Duration

	logger zerolog.Logger
	client *shapeshift.Client
}

func newRootCmd(out io.Writer, getenv func(string) string) *cobra.Command {
	a := &app{out: out, getenv: getenv, logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:                "shiftctl",
		Short:              "Query the swap service and create swaps",
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&a.baseURL, "base-url", "", "override the service base URL")
	flags.BoolVar(&a.cors, "cors", false, "use the CORS-enabled host")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.DurationVar(&a.minInterval, "min-interval", time.Second, "minimum spacing between authenticated calls")

	root.AddCommand(
		a.pairCmd("rate", "Current rate for a pair, or every pair", (*shapeshift.Client).Rate),
		a.pairCmd("limit", "Maximum deposit for a pair", (*shapeshift.Client).DepositLimit),
		a.pairCmd("marketinfo", "Rate, limits and miner fee for a pair", (*shapeshift.Client).MarketInfo),
		a.recentCmd(),
		a.statusCmd(),
		a.timeRemainingCmd(),
		a.coinsCmd(),
		a.pairsCmd(),
		a.txByAPIKeyCmd(),
		a.txByAddressCmd(),
		a.validateCmd(),
		a.shiftCmd(),
		a.sendAmountCmd(),
		a.mailCmd(),
		a.cancelCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(a.configPath, a.getenv)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.WithBaseURL(a.baseURL)
	}
	if flags.Changed("cors") {
		cfg.WithCORS(a.cors)
	}
	if flags.Changed("min-interval") {
		cfg.WithMinInterval(a.minInterval)
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.logger = newLogger(cfg.LogLevel)
	a.logger.Debug().
		Str("endpoint", cfg.Endpoint()).
		Bool("credentials", cfg.Credentials != nil).
		Msg("config loaded")

	client, err := shapeshift.New(cfg, shapeshift.NewLimiter(cfg.MinInterval), shapeshift.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.client = client
	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

// print checks the body for a service error and writes it indented.
func (a *app) print(body []byte) error {
	if err := shapeshift.CheckError(body); err != nil {
		return err
	}
	var v any
	if err := sonic.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(out))
	return err
}

func (a *app) pairCmd(use, short string, call func(*shapeshift.Client, context.Context, string) ([]byte, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [pair]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := call(a.client, cmd.Context(), optionalArg(args))
			if err != nil {
				return err
			}
			return a.print(body)
		},
	}
}

func (a *app) recentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recenttx [max]",
		Short: "Most recent swaps, up to 50",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			max := 0
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("max must be a number: %w", err)
				}
				max = n
			}
			body, err := a.client.RecentTransactions(cmd.Context(), max)
			if err != nil {
				return err
			}
			return a.print(body)
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <deposit-address>",
		Short: "Status of a deposit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := a.client.TransactionStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(body)
		},
	}
}

func (a *app) timeRemainingCmd() *cobra.Command {
	var destTag string
	cmd := &cobra.Command{
		Use:   "timeremaining <deposit-address>",
		Short: "Seconds left on a fixed-amount deposit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				body []byte
				err  error
			)
			if cmd.Flags().Changed("dest-tag") {
				body, err = a.client.TimeRemainingRipple(cmd.Context(), args[0], destTag)
			} else {
				body, err = a.client.TimeRemaining(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			return a.print(body)
		},
	}
	cmd.Flags().StringVar(&destTag, "dest-tag", "", "Ripple destination tag")
	return cmd
}

func (a *app) coinsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coins",
		Short: "Every coin the service supports, with availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := a.client.Coins(cmd.Context())
			if err != nil {
				return err
			}
			coins, err := shapeshift.Decode[map[string]shapeshift.CoinInfo](body)
			if err != nil {
				return err
			}
			for _, sym := range slices.Sorted(maps.Keys(coins)) {
				c := coins[sym]
				fmt.Fprintf(a.out, "%-8s %-24s %s\n", sym, c.Name, c.Status)
			}
			return nil
		},
	}
}

func (a *app) pairsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pairs",
		Short: "Pairs generated from the configured coins",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, p := range a.client.PairCatalog().Pairs() {
				fmt.Fprintln(a.out, p)
			}
			return nil
		},
	}
}

func (a *app) txByAPIKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "txbyapikey <api-key>",
		Short: "Swaps made with a private API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := a.client.TransactionsByAPIKey(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(body)
		},
	}
}

func (a *app) txByAddressCmd() *cobra.Command {
	var destTag string
	cmd := &cobra.Command{
		Use:   "txbyaddress <withdrawal-address> <api-key>",
		Short: "Swaps sent to a withdrawal address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				body []byte
				err  error
			)
			if cmd.Flags().Changed("dest-tag") {
				body, err = a.client.TransactionsByAddressRipple(cmd.Context(), args[0], args[1], destTag)
			} else {
				body, err = a.client.TransactionsByAddress(cmd.Context(), args[0], args[1])
			}
			if err != nil {
				return err
			}
			return a.print(body)
		},
	}
	cmd.Flags().StringVar(&destTag, "dest-tag", "", "Ripple destination tag")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <address> <coin>",
		Short: "Check an address for a coin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := a.client.ValidateAddress(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			v, err := shapeshift.DecodeAddressValidation(body)
			if err != nil {
				return err
			}
			if v.Valid {
				fmt.Fprintln(a.out, "valid")
				return nil
			}
			fmt.Fprintf(a.out, "invalid: %s\n", v.Error)
			return nil
		},
	}
}

// optionalFlags registers the optional swap parameters on cmd.
type optionalFlags struct {
	returnAddress string
	destTag       string
	rsAddress     string
	withAPIKey    bool
}

func (o *optionalFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.returnAddress, "return-address", "", "address to refund to on failure")
	cmd.Flags().StringVar(&o.destTag, "dest-tag", "", "Ripple destination tag")
	cmd.Flags().StringVar(&o.rsAddress, "rs-address", "", "NXT RS address for new accounts")
	cmd.Flags().BoolVar(&o.withAPIKey, "with-api-key", false, "attach the configured public API key")
}

// build keeps only the flags that were set, so unset ones stay out of the body.
func (o *optionalFlags) build(cmd *cobra.Command) shapeshift.Optionals {
	var opt shapeshift.Optionals
	if cmd.Flags().Changed("return-address") {
		opt.ReturnAddress = shapeshift.String(o.returnAddress)
	}
	if cmd.Flags().Changed("dest-tag") {
		opt.DestTag = shapeshift.String(o.destTag)
	}
	if cmd.Flags().Changed("rs-address") {
		opt.RSAddress = shapeshift.String(o.rsAddress)
	}
	opt.IncludeAPIKey = o.withAPIKey
	return opt
}

func (a *app) shiftCmd() *cobra.Command {
	var (
		in   shapeshift.ShiftRequest
		opts optionalFlags
	)
	cmd := &cobra.Command{
		Use:   "shift",
		Short: "Create a swap and print its deposit address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Optionals = opts.build(cmd)
			body, err := a.client.Shift(cmd.Context(), &in)
			if err != nil {
				return err
			}
			return a.print(body)
		},
	}
	cmd.Flags().StringVar(&in.Withdrawal, "withdrawal", "", "address to receive the output coin")
	cmd.Flags().StringVar(&in.Pair, "pair", "", "pair to swap, e.g. ltc_btc")
	opts.register(cmd)
	return cmd
}

func (a *app) sendAmountCmd() *cobra.Command {
	var (
		in            shapeshift.SendAmountRequest
		opts          optionalFlags
		amount        string
		depositAmount string
	)
	cmd := &cobra.Command{
		Use:   "sendamount",
		Short: "Create a fixed-amount swap and print the quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if in.Amount, err = parseDecimal("amount", amount); err != nil {
				return err
			}
			if in.DepositAmount, err = parseDecimal("deposit-amount", depositAmount); err != nil {
				return err
			}
			in.Optionals = opts.build(cmd)

			body, err := a.client.SendAmount(cmd.Context(), &in)
			if err != nil {
				return err
			}
			return a.print(body)
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "amount of the output coin to receive")
	cmd.Flags().StringVar(&depositAmount, "deposit-amount", "", "amount of the input coin to send")
	cmd.Flags().StringVar(&in.Withdrawal, "withdrawal", "", "address to receive the output coin")
	cmd.Flags().StringVar(&in.Pair, "pair", "", "pair to swap, e.g. ltc_btc")
	opts.register(cmd)
	return cmd
}

func (a *app) mailCmd() *cobra.Command {
	var in shapeshift.EmailReceiptRequest
	cmd := &cobra.Command{
		Use:   "mail",
		Short: "Request an e-mail receipt for an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := a.client.RequestEmailReceipt(cmd.Context(), &in)
			if err != nil {
				return err
			}
			return a.print(body)
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "address to send the receipt to")
	cmd.Flags().StringVar(&in.OrderID, "order-id", "", "order to send a receipt for")
	return cmd
}

func (a *app) cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <deposit-address>",
		Short: "Cancel a pending swap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := a.client.CancelPending(cmd.Context(), &shapeshift.CancelPendingRequest{Address: args[0]})
			if err != nil {
				return err
			}
			return a.print(body)
		},
	}
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// parseDecimal returns nil for an empty value so request validation reports it.
func parseDecimal(name, value string) (*apd.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, _, err := apd.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}
