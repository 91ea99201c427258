package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/stride-storefront/internal/checkout"
	"github.com/angelmondragon/stride-storefront/internal/notifications"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
	"github.com/angelmondragon/stride-storefront/pkg/metrics"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

// errReported marks a failure the user has already been shown.
var errReported = errors.New("reported")

func newCheckoutCmd(a *app) *cobra.Command {
	form := checkout.NewForm()
	var payment string
	var confirm bool
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart: contact, shipping, confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			method, err := enums.ParsePaymentMethod(payment)
			if err != nil {
				return err
			}
			form.PaymentMethod = method

			bus := notifications.NewBus(0, a.logg)
			defer bus.Close()
			unsubscribe := bus.Subscribe(func(n notifications.Notification) {
				printNotification(a.errOut, n)
			})
			defer unsubscribe()

			registry := prometheus.NewRegistry()
			defer a.writeMetrics(ctx, registry)

			flow, err := checkout.NewFlow(a.cart, a.client, bus,
				checkout.WithLogger(a.logg),
				checkout.WithMetrics(metrics.NewCheckoutMetrics(registry)),
				checkout.WithPendingStore(checkout.NewKVPendingStore(a.store)),
			)
			if err != nil {
				return err
			}
			flow.Update(func(f *checkout.Form) { *f = form })

			for flow.Step() < checkout.StepConfirmation {
				if err := flow.Next(ctx); err != nil {
					return errReported
				}
			}

			snapshot := a.cart.Snapshot()
			if snapshot.IsEmpty() {
				bus.Notify(ctx, enums.NotificationKindError, "Your cart is empty", "Add something to your cart before checking out.")
				return errReported
			}
			fmt.Fprintln(a.out, "Review your order")
			if err := a.printCart(snapshot); err != nil {
				return err
			}
			entered := flow.Form()
			fmt.Fprintf(a.out, "\nDeliver to %s (%s)\n  %s\nPayment: %s\n",
				entered.CustomerName, entered.CustomerPhone, entered.ShippingAddress, entered.PaymentMethod)
			if entered.Notes != "" {
				fmt.Fprintf(a.out, "Notes: %s\n", entered.Notes)
			}

			if !confirm && !askYes(os.Stdin, a.out, "\nPlace this order? [y/N] ") {
				fmt.Fprintln(a.out, "Order not placed. Your cart is unchanged.")
				return nil
			}
			if _, err := flow.Submit(ctx); err != nil {
				return errReported
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.CustomerName, "name", "", "full name")
	f.StringVar(&form.CustomerPhone, "phone", "", "contact phone")
	f.StringVar(&form.ShippingAddress, "address", "", "shipping address")
	f.StringVar(&payment, "payment", enums.DefaultPaymentMethod.String(), "cash_on_delivery, card_on_delivery or bank_transfer")
	f.StringVar(&form.Notes, "notes", "", "delivery notes")
	f.BoolVarP(&confirm, "yes", "y", false, "place the order without asking")
	return cmd
}

func newSpecialOrderCmd(a *app) *cobra.Command {
	var req types.SpecialOrderRequest
	var size string
	cmd := &cobra.Command{
		Use:   "special-order",
		Short: "Ask the shop to source a product it does not stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(size) != "" {
				parsed, err := types.ParseSize(size)
				if err != nil {
					return err
				}
				req.Size = parsed
			}
			created, err := a.client.CreateSpecialOrder(cmd.Context(), req, uuid.NewString())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Request %s received. We will call %s once we find it.\n", created.ID, created.CustomerPhone)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.CustomerName, "name", "", "full name")
	f.StringVar(&req.CustomerPhone, "phone", "", "contact phone")
	f.StringVar(&req.ProductName, "product", "", "product you are looking for")
	f.StringVar(&req.Brand, "brand", "", "brand")
	f.StringVar(&size, "size", "", "size")
	f.StringVar(&req.Details, "details", "", "anything else we should know")
	return cmd
}

func printNotification(w io.Writer, n notifications.Notification) {
	if n.Detail == "" {
		fmt.Fprintf(w, "[%s] %s\n", n.Kind, n.Title)
		return
	}
	fmt.Fprintf(w, "[%s] %s: %s\n", n.Kind, n.Title, n.Detail)
}

func askYes(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
