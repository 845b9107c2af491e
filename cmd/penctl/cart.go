package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fekuna/penstore/internal/app"
	cartdto "github.com/fekuna/penstore/internal/cart/dto"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/pkg/format"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (c *cli) cmdCart() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the cart stored on this device",
	}
	cmd.AddCommand(
		c.cartCmd("add <product>", "Add one unit of a product, by slug or id", cobra.ExactArgs(1),
			func(ctx context.Context, a *app.App, args []string) (*model.Cart, error) {
				id, err := resolveProduct(ctx, a, args[0])
				if err != nil {
					return nil, err
				}
				return a.Carts.AddItem(ctx, c.cartKey, &cartdto.AddItemInput{ProductID: id})
			}),
		c.cartCmd("remove <product>", "Remove a product line", cobra.ExactArgs(1),
			func(ctx context.Context, a *app.App, args []string) (*model.Cart, error) {
				id, err := resolveProduct(ctx, a, args[0])
				if err != nil {
					return nil, err
				}
				return a.Carts.RemoveItem(ctx, c.cartKey, id)
			}),
		c.cartCmd("set <product> <quantity>", "Set a line quantity; 0 removes the line", cobra.ExactArgs(2),
			func(ctx context.Context, a *app.App, args []string) (*model.Cart, error) {
				quantity, err := strconv.Atoi(args[1])
				if err != nil {
					return nil, errors.Wrapf(model.ErrInvalid, "quantity %q", args[1])
				}
				id, err := resolveProduct(ctx, a, args[0])
				if err != nil {
					return nil, err
				}
				return a.Carts.UpdateQuantity(ctx, c.cartKey, id, quantity)
			}),
		c.cartCmd("list", "Show the cart", cobra.NoArgs,
			func(ctx context.Context, a *app.App, _ []string) (*model.Cart, error) {
				return a.Carts.GetCart(ctx, c.cartKey)
			}),
		c.cartCmd("clear", "Empty the cart", cobra.NoArgs,
			func(ctx context.Context, a *app.App, _ []string) (*model.Cart, error) {
				return &model.Cart{}, a.Carts.ClearCart(ctx, c.cartKey)
			}),
		c.cmdCartCheckout(),
	)
	return cmd
}

// cartCmd wraps a cart mutation and prints the resulting cart.
func (c *cli) cartCmd(use, short string, args cobra.PositionalArgs, fn func(context.Context, *app.App, []string) (*model.Cart, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := fn(cmd.Context(), a, args)
			if err != nil {
				return err
			}
			printCart(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func (c *cli) cmdCartCheckout() *cobra.Command {
	var input cartdto.CheckoutInput
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an inquiry order from the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			o, err := a.Carts.Checkout(cmd.Context(), c.cartKey, &input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %s placed, total %s\n", o.OrderNumber, format.FormatPrice(o.TotalAmount))
			return nil
		},
	}
	cmd.Flags().StringVar(&input.CustomerName, "name", "", "Customer name")
	cmd.Flags().StringVar(&input.Email, "email", "", "Customer email")
	cmd.Flags().StringVar(&input.Phone, "phone", "", "Customer phone")
	cmd.Flags().StringVar(&input.Company, "company", "", "Company")
	cmd.Flags().StringVar(&input.Notes, "notes", "", "Notes for the boutique")
	return cmd
}

// resolveProduct accepts a slug or an id.
func resolveProduct(ctx context.Context, a *app.App, ref string) (string, error) {
	p, err := a.Products.GetProductBySlug(ctx, ref)
	if err != nil {
		return "", err
	}
	if p != nil {
		return p.ID, nil
	}
	return ref, nil
}

const nameWidth = 28

func printCart(w io.Writer, c *model.Cart) {
	if len(c.Items) == 0 {
		fmt.Fprintln(w, "cart is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tQTY\tPRICE")
	for _, item := range c.Items {
		name, price := item.ProductID, "-"
		if item.Product != nil {
			name, price = format.Truncate(item.Product.Name, nameWidth), format.FormatPrice(item.Product.Price)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", name, item.Quantity, price)
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t%s\n", c.Count(), format.FormatPrice(c.Total()))
	tw.Flush()
}
