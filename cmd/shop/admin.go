package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/stride-storefront/internal/apiclient"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the back office",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				fmt.Fprint(a.out, "Password: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			resp, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed in as %s until %s.\n", resp.Admin.Email, resp.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "admin email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out.")
			return nil
		},
	}
}

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Back-office commands (requires login)",
	}
	cmd.AddCommand(newAdminOrdersCmd(a), newAdminSpecialOrdersCmd(a), newAdminAnalyticsCmd(a))
	return cmd
}

func newAdminOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Work the order desk",
	}

	var q apiclient.OrderQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.client.ListOrders(cmd.Context(), q)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NUMBER\tID\tCUSTOMER\tSTATUS\tTOTAL\tPLACED")
			for _, o := range page.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					o.OrderNumber, o.ID, o.CustomerName, o.Status, o.Total, o.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "page %d of %d (%d orders)\n", page.Page, page.TotalPages, page.Total)
			return nil
		},
	}
	list.Flags().StringVar(&q.Status, "status", "", "filter by status")
	list.Flags().StringVarP(&q.Search, "search", "s", "", "search number, name or phone")
	list.Flags().IntVar(&q.Page, "page", 1, "page number")
	list.Flags().IntVar(&q.Limit, "limit", 20, "page size")

	show := &cobra.Command{
		Use:   "show <order-number-or-id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.client.GetOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Order %s (%s)\n", o.OrderNumber, o.Status)
			fmt.Fprintf(a.out, "  id:       %s\n", o.ID)
			fmt.Fprintf(a.out, "  customer: %s, %s\n", o.CustomerName, o.CustomerPhone)
			fmt.Fprintf(a.out, "  address:  %s\n", o.ShippingAddress)
			fmt.Fprintf(a.out, "  payment:  %s\n", o.PaymentMethod)
			if o.Notes != "" {
				fmt.Fprintf(a.out, "  notes:    %s\n", o.Notes)
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "\nITEM\tSIZE\tQTY\tPRICE")
			for _, item := range o.Items {
				fmt.Fprintf(tw, "%s %s\t%s\t%d\t%s\n", item.Brand, item.Name, item.Size, item.Quantity, item.Price)
			}
			fmt.Fprintf(tw, "\t\tTOTAL\t%s\n", o.Total)
			return tw.Flush()
		},
	}

	status := &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Move an order to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			next, err := enums.ParseOrderStatus(args[1])
			if err != nil {
				return err
			}
			o, err := a.client.UpdateOrderStatus(cmd.Context(), id, next)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Order %s is now %s.\n", o.OrderNumber, o.Status)
			return nil
		},
	}

	cmd.AddCommand(list, show, status)
	return cmd
}

func newAdminSpecialOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "special-orders",
		Short: "Follow up on sourcing requests",
	}

	var q apiclient.OrderQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List special order requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.client.ListSpecialOrders(cmd.Context(), q)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCUSTOMER\tPHONE\tPRODUCT\tSIZE\tSTATUS")
			for _, so := range page.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					so.ID, so.CustomerName, so.CustomerPhone, strings.TrimSpace(so.Brand+" "+so.ProductName), so.Size, so.Status)
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&q.Status, "status", "", "filter by status")
	list.Flags().StringVarP(&q.Search, "search", "s", "", "search name, phone or product")
	list.Flags().IntVar(&q.Page, "page", 1, "page number")
	list.Flags().IntVar(&q.Limit, "limit", 20, "page size")

	status := &cobra.Command{
		Use:   "status <request-id> <status>",
		Short: "Update a request's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid request id %q", args[0])
			}
			next, err := enums.ParseSpecialOrderStatus(args[1])
			if err != nil {
				return err
			}
			so, err := a.client.UpdateSpecialOrderStatus(cmd.Context(), id, next)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Request for %s is now %s.\n", so.ProductName, so.Status)
			return nil
		},
	}

	cmd.AddCommand(list, status)
	return cmd
}

func newAdminAnalyticsCmd(a *app) *cobra.Command {
	var preset string
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show the sales overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ov, err := a.client.Overview(cmd.Context(), preset)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Orders:          %d\n", ov.OrderCount)
			fmt.Fprintf(a.out, "Revenue:         %s\n", ov.Revenue)
			fmt.Fprintf(a.out, "Average order:   %s\n", ov.AverageOrderValue)
			fmt.Fprintf(a.out, "Products:        %d (%d low on stock)\n", ov.ProductCount, ov.LowStockCount)

			statuses := make([]string, 0, len(ov.OrdersByStatus))
			for s := range ov.OrdersByStatus {
				statuses = append(statuses, s.String())
			}
			sort.Strings(statuses)
			for _, s := range statuses {
				fmt.Fprintf(a.out, "  %-12s %d\n", s, ov.OrdersByStatus[enums.OrderStatus(s)])
			}

			if len(ov.TopProducts) > 0 {
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "\nTOP PRODUCT\tUNITS\tREVENUE")
				for _, p := range ov.TopProducts {
					fmt.Fprintf(tw, "%s\t%d\t%s\n", p.Name, p.Quantity, p.Revenue)
				}
				return tw.Flush()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&preset, "range", "all", "7d, 30d, 90d or all")
	return cmd
}
