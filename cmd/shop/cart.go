package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/stride-storefront/internal/cart"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the cart kept on this machine",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the cart",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.printCart(a.cart.Snapshot())
		},
	}

	var quantity int
	add := &cobra.Command{
		Use:   "add <product-id> <size>",
		Short: "Add a product in a size, merging with an existing line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, size, err := parseLineArgs(args)
			if err != nil {
				return err
			}
			product, err := a.client.GetProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			state, err := a.cart.AddChecked(cmd.Context(), *product, size, quantity)
			switch {
			case errors.Is(err, cart.ErrSizeUnavailable):
				return fmt.Errorf("%s is not available in size %s (offered: %s)", product.Name, size, joinSizes(product.Sizes))
			case err != nil:
				return err
			}
			fmt.Fprintf(a.out, "Added %d x %s (%s) to your cart.\n", quantity, product.Name, size)
			return a.printCart(state)
		},
	}
	add.Flags().IntVarP(&quantity, "quantity", "q", 1, "units to add")

	remove := &cobra.Command{
		Use:   "remove <product-id> <size>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, size, err := parseLineArgs(args)
			if err != nil {
				return err
			}
			return a.printCart(a.cart.Remove(cmd.Context(), id, size))
		},
	}

	set := &cobra.Command{
		Use:   "set <product-id> <size> <quantity>",
		Short: "Set a line's quantity; zero or less removes it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, size, err := parseLineArgs(args[:2])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[2])
			}
			return a.printCart(a.cart.SetQuantity(cmd.Context(), id, size, qty))
		},
	}

	empty := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.cart.Clear(cmd.Context())
			fmt.Fprintln(a.out, "Your cart is empty.")
			return nil
		},
	}

	cmd.AddCommand(show, add, remove, set, empty)
	return cmd
}

func parseLineArgs(args []string) (uuid.UUID, types.Size, error) {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, types.Size{}, fmt.Errorf("invalid product id %q", args[0])
	}
	size, err := types.ParseSize(args[1])
	if err != nil {
		return uuid.Nil, types.Size{}, err
	}
	return id, size, nil
}

func (a *app) printCart(state cart.State) error {
	if state.IsEmpty() {
		fmt.Fprintln(a.out, "Your cart is empty.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tSIZE\tQTY\tPRICE\tSUBTOTAL")
	for _, line := range state.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			line.Product.ID, line.Product.Name, line.Size, line.Quantity, line.Product.Price, line.Subtotal())
	}
	fmt.Fprintf(tw, "\t\t\t%d\t\t%s\n", state.Count, state.Total)
	return tw.Flush()
}
