package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/stride-storefront/internal/apiclient"
	"github.com/angelmondragon/stride-storefront/internal/cart"
	"github.com/angelmondragon/stride-storefront/pkg/config"
	"github.com/angelmondragon/stride-storefront/pkg/kv"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
)

// app holds what every subcommand shares. It is opened in the root
// PersistentPreRunE so `--help` never touches local state, and closed by main.
type app struct {
	cfg    *config.ClientConfig
	logg   *logger.Logger
	store  kv.Store
	client *apiclient.Client
	cart   *cart.Store
	out    io.Writer
	errOut io.Writer
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{out: os.Stdout, errOut: os.Stderr}
	err := newRootCmd(a).ExecuteContext(ctx)
	if closeErr := a.close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", describe(err))
		}
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "shop",
		Short:         "Browse the Stride catalog, manage your cart and place orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
	}
	root.AddCommand(
		newProductsCmd(a),
		newCategoriesCmd(a),
		newCartCmd(a),
		newCheckoutCmd(a),
		newSpecialOrderCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newAdminCmd(a),
	)
	return root
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logg = logger.New(logger.Options{
		ServiceName: "stride-shop",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Output:      a.errOut,
	})

	store, err := kv.Open(ctx, *cfg, a.logg)
	if err != nil {
		return fmt.Errorf("open local state: %w", err)
	}
	a.store = store

	client, err := apiclient.NewClient(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.RequestTimeout),
		apiclient.WithCredentials(apiclient.NewKVCredentials(store)),
		apiclient.WithLogger(a.logg),
		apiclient.WithUnauthorizedHook(func() {
			fmt.Fprintln(a.errOut, "Your admin session has expired. Run `shop login` again.")
		}),
	)
	if err != nil {
		return err
	}
	a.client = client
	a.cart = cart.NewStore(ctx, cart.NewKVPersister(store), a.logg)
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// writeMetrics dumps g in the text exposition format for a node_exporter
// textfile collector when STRIDE_CLIENT_METRICS_FILE is set.
func (a *app) writeMetrics(ctx context.Context, g prometheus.Gatherer) {
	if a.cfg == nil || a.cfg.MetricsFile == "" {
		return
	}
	if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, g); err != nil {
		a.logg.Warn(a.logg.WithField(ctx, "error", err.Error()), "checkout metrics not written")
	}
}

// describe flattens API errors into one readable line with their field details.
func describe(err error) string {
	apiErr, ok := apiclient.AsAPIError(err)
	if !ok {
		return err.Error()
	}
	msg := apiErr.Message
	if msg == "" {
		msg = apiErr.Error()
	}
	details := apiErr.DetailMap()
	fields := make([]string, 0, len(details))
	for field := range details {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		msg += fmt.Sprintf("\n  %s: %s", field, details[field])
	}
	return msg
}
