package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
	"github.com/vladislavdragonenkov/fanwaves/internal/pricing"
)

type addOptions struct {
	name        string
	price       string
	salePrice   string
	quantity    int
	variationID int64
	image       string
	sku         string
	team        string
	category    string
	maxQuantity int
	stockStatus string
	attributes  map[string]string
}

func (o addOptions) input(cmd *cobra.Command, rawID string) (domain.CartItemInput, error) {
	productID, err := parseID("product id", rawID)
	if err != nil {
		return domain.CartItemInput{}, err
	}
	price, ok := pricing.ParseAmount(o.price)
	if !ok {
		return domain.CartItemInput{}, fmt.Errorf("invalid --price %q", o.price)
	}

	item := domain.CartItemInput{
		ID:          productID,
		Name:        o.name,
		Price:       price,
		Image:       o.image,
		SKU:         o.sku,
		Team:        o.team,
		Category:    o.category,
		StockStatus: domain.StockStatus(o.stockStatus),
	}
	if len(o.attributes) > 0 {
		item.Attributes = o.attributes
	}
	if cmd.Flags().Changed("sale-price") {
		sale, ok := pricing.ParseAmount(o.salePrice)
		if !ok {
			return domain.CartItemInput{}, fmt.Errorf("invalid --sale-price %q", o.salePrice)
		}
		item.SalePrice = &sale
	}
	if cmd.Flags().Changed("variation-id") {
		variationID := o.variationID
		item.VariationID = &variationID
	}
	if cmd.Flags().Changed("max-qty") {
		maxQuantity := o.maxQuantity
		item.MaxQuantity = &maxQuantity
	}
	return item, nil
}

func newAddCmd(c *cli) *cobra.Command {
	var opts addOptions
	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product; a line with the same product and variation is merged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.quantity < 1 {
				return fmt.Errorf("%w: --qty must be at least 1", domain.ErrInvalidQuantity)
			}
			item, err := opts.input(cmd, args[0])
			if err != nil {
				return err
			}
			return c.reportMutation(c.rt.Cart.AddItem(item, opts.quantity))
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.name, "name", "", "product name")
	f.StringVar(&opts.price, "price", "0", "regular unit price")
	f.StringVar(&opts.salePrice, "sale-price", "", "sale unit price")
	f.IntVar(&opts.quantity, "qty", 1, "quantity to add")
	f.Int64Var(&opts.variationID, "variation-id", 0, "variation id (size, colour)")
	f.StringVar(&opts.image, "image", "", "image URL")
	f.StringVar(&opts.sku, "sku", "", "SKU")
	f.StringVar(&opts.team, "team", "", "team")
	f.StringVar(&opts.category, "category", "", "category")
	f.IntVar(&opts.maxQuantity, "max-qty", 0, "maximum quantity for the line (0 = no limit)")
	f.StringVar(&opts.stockStatus, "stock-status", string(domain.StockStatusInStock), "instock|outofstock|onbackorder")
	f.StringToStringVar(&opts.attributes, "attr", nil, "attributes, e.g. --attr size=L,color=blue")
	return cmd
}

func newUpdateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "update <line-id> <qty>",
		Short: "Set the quantity of a line; 0 or less removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			lineID, err := parseID("line id", args[0])
			if err != nil {
				return err
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: %q", domain.ErrInvalidQuantity, args[1])
			}
			return c.reportMutation(c.rt.Cart.UpdateQuantity(lineID, quantity))
		},
	}
}

func newRemoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <line-id>",
		Short: "Remove a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			lineID, err := parseID("line id", args[0])
			if err != nil {
				return err
			}
			if !c.rt.Cart.RemoveItem(lineID) {
				return fmt.Errorf("%w: %d", domain.ErrLineNotFound, lineID)
			}
			_, _ = fmt.Fprintf(c.out, "removed line %d\n", lineID)
			return nil
		},
	}
}

func newClearCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart (lines, coupon and note)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c.rt.Cart.ClearCart()
			_, _ = fmt.Fprintln(c.out, "cart cleared")
			return nil
		},
	}
}

func newShowCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print lines, checkout fields and totals",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if asJSON {
				return writeJSON(c.out, newCartView(c.rt.Cart))
			}
			return renderCart(c.out, c.rt.Cart)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newOpenCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Mark the cart panel as open",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c.rt.Cart.OpenCart()
			return c.printOpenState()
		},
	}
}

func newCloseCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "close",
		Short: "Mark the cart panel as closed",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c.rt.Cart.CloseCart()
			return c.printOpenState()
		},
	}
}

func newToggleCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Toggle the cart panel",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c.rt.Cart.ToggleCart()
			return c.printOpenState()
		},
	}
}

func (c *cli) printOpenState() error {
	state := "closed"
	if c.rt.Cart.IsOpen() {
		state = "open"
	}
	_, err := fmt.Fprintf(c.out, "cart is %s\n", state)
	return err
}

// reportMutation печатает итог мутации. Отказ и отсутствие строки: ошибка команды.
func (c *cli) reportMutation(result domain.MutationResult) error {
	switch result.Outcome {
	case domain.OutcomeRefused, domain.OutcomeNotFound:
		return result.Err
	case domain.OutcomeRemoved:
		_, _ = fmt.Fprintf(c.out, "removed line %d\n", result.LineID)
	default:
		_, _ = fmt.Fprintf(c.out, "%s line %d: qty %d\n", result.Outcome, result.LineID, result.Quantity)
	}
	return nil
}

func parseID(what, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, raw)
	}
	return id, nil
}
