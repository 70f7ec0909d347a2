package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
	"github.com/vladislavdragonenkov/fanwaves/internal/pricing"
)

func bindAddressFlags(f *pflag.FlagSet, a *domain.Address) {
	f.StringVar(&a.FirstName, "first-name", "", "first name")
	f.StringVar(&a.LastName, "last-name", "", "last name")
	f.StringVar(&a.Company, "company", "", "company")
	f.StringVar(&a.Address1, "address-1", "", "address line 1")
	f.StringVar(&a.Address2, "address-2", "", "address line 2")
	f.StringVar(&a.City, "city", "", "city")
	f.StringVar(&a.State, "state", "", "state code, drives the tax rate (CA, NY, TX, FL)")
	f.StringVar(&a.Postcode, "postcode", "", "postcode")
	f.StringVar(&a.Country, "country", "", "country code")
	f.StringVar(&a.Phone, "phone", "", "phone")
}

func newShipToCmd(c *cli) *cobra.Command {
	var (
		address domain.Address
		unset   bool
	)
	cmd := &cobra.Command{
		Use:   "ship-to",
		Short: "Set the shipping address",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if unset {
				c.rt.Cart.SetShipping(nil)
				_, _ = fmt.Fprintln(c.out, "shipping address cleared")
				return nil
			}
			c.rt.Cart.SetShipping(&address)
			_, _ = fmt.Fprintf(c.out, "shipping to %s\n", formatAddress(&address))
			return nil
		},
	}
	bindAddressFlags(cmd.Flags(), &address)
	cmd.Flags().BoolVar(&unset, "clear", false, "remove the shipping address")
	return cmd
}

func newBillToCmd(c *cli) *cobra.Command {
	var (
		billing domain.BillingInfo
		unset   bool
	)
	cmd := &cobra.Command{
		Use:   "bill-to",
		Short: "Set the billing address and email",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if unset {
				c.rt.Cart.SetBilling(nil)
				_, _ = fmt.Fprintln(c.out, "billing address cleared")
				return nil
			}
			c.rt.Cart.SetBilling(&billing)
			_, _ = fmt.Fprintf(c.out, "billing to %s <%s>\n", formatAddress(&billing.Address), billing.Email)
			return nil
		},
	}
	bindAddressFlags(cmd.Flags(), &billing.Address)
	cmd.Flags().StringVar(&billing.Email, "email", "", "billing email")
	cmd.Flags().BoolVar(&unset, "clear", false, "remove the billing address")
	return cmd
}

func newPaymentCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "payment <method>",
		Short: "Set the payment method",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c.rt.Cart.SetPaymentMethod(args[0])
			_, _ = fmt.Fprintf(c.out, "payment method: %s\n", args[0])
			return nil
		},
	}
}

func newNoteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "note [text...]",
		Short: "Set the customer note; no text clears it",
		RunE: func(_ *cobra.Command, args []string) error {
			note := strings.Join(args, " ")
			c.rt.Cart.SetCustomerNote(note)
			if note == "" {
				_, _ = fmt.Fprintln(c.out, "customer note cleared")
			} else {
				_, _ = fmt.Fprintf(c.out, "customer note: %s\n", note)
			}
			return nil
		},
	}
}

func newCouponCmd(c *cli) *cobra.Command {
	var (
		discountType string
		amount       string
		remove       bool
	)
	cmd := &cobra.Command{
		Use:   "coupon [code]",
		Short: "Apply a coupon for this session (coupons are not saved)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if remove {
				c.rt.Cart.SetCouponCode("")
				c.rt.Cart.SetAppliedCoupon(nil)
				_, _ = fmt.Fprintln(c.out, "coupon removed")
				return nil
			}
			if len(args) == 0 {
				return errors.New("coupon code is required")
			}
			switch domain.DiscountType(discountType) {
			case domain.DiscountFixedCart, domain.DiscountPercent:
			default:
				return fmt.Errorf("unsupported discount type %q (use fixed_cart|percent)", discountType)
			}

			code := args[0]
			c.rt.Cart.SetCouponCode(code)
			c.rt.Cart.SetAppliedCoupon(&domain.Coupon{
				Code:         code,
				DiscountType: domain.DiscountType(discountType),
				Amount:       amount,
			})
			_, _ = fmt.Fprintf(c.out, "coupon %s applied: discount %s\n", code, pricing.FormatPrice(c.rt.Cart.DiscountTotal()))
			return nil
		},
	}
	cmd.Flags().StringVar(&discountType, "type", string(domain.DiscountFixedCart), "discount type: fixed_cart|percent")
	cmd.Flags().StringVar(&amount, "amount", "0", "discount amount (currency or percent)")
	cmd.Flags().BoolVar(&remove, "remove", false, "remove the applied coupon")
	return cmd
}

func newShippingMethodCmd(c *cli) *cobra.Command {
	var (
		title  string
		total  string
		remove bool
	)
	cmd := &cobra.Command{
		Use:   "shipping-method [id]",
		Short: "Choose a shipping method for this session (not saved)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if remove {
				c.rt.Cart.SetShippingMethod(nil)
				_, _ = fmt.Fprintln(c.out, "shipping method removed")
				return nil
			}
			if len(args) == 0 {
				return errors.New("shipping method id is required")
			}
			c.rt.Cart.SetShippingMethod(&domain.ShippingMethod{ID: args[0], Title: title, Total: total})
			_, _ = fmt.Fprintf(c.out, "shipping method %s: %s\n", args[0], pricing.FormatPrice(c.rt.Cart.ShippingTotal()))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "display title")
	cmd.Flags().StringVar(&total, "total", "", "rate as a decimal string; empty uses the flat fallback rate")
	cmd.Flags().BoolVar(&remove, "remove", false, "remove the shipping method")
	return cmd
}

func newCheckoutCmd(c *cli) *cobra.Command {
	var clearAfter bool
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Hand the cart off to the checkout flow",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			request, err := c.rt.Checkout.Handoff()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(c.errOut, "checkout request %s handed off: %d items, total $%s\n",
				request.ID, request.Totals.Items, request.Totals.Total)
			if clearAfter {
				c.rt.Cart.ClearCart()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAfter, "clear", false, "empty the cart after a successful hand-off")
	return cmd
}
