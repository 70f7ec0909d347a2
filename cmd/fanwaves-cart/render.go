package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vladislavdragonenkov/fanwaves/internal/cart"
	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
	"github.com/vladislavdragonenkov/fanwaves/internal/pricing"
)

// cartView: то, что печатает `show --json`.
type cartView struct {
	Key            string                 `json:"key"`
	Open           bool                   `json:"open"`
	Items          []domain.CartItem      `json:"items"`
	Shipping       *domain.Address        `json:"shipping,omitempty"`
	Billing        *domain.BillingInfo    `json:"billing,omitempty"`
	PaymentMethod  string                 `json:"payment_method,omitempty"`
	CustomerNote   string                 `json:"customer_note,omitempty"`
	Coupon         *domain.Coupon         `json:"coupon,omitempty"`
	ShippingMethod *domain.ShippingMethod `json:"shipping_method,omitempty"`
	Totals         domain.Totals          `json:"totals"`
}

func newCartView(store *cart.Store) cartView {
	return cartView{
		Key:            store.Key(),
		Open:           store.IsOpen(),
		Items:          store.Items(),
		Shipping:       store.Shipping(),
		Billing:        store.Billing(),
		PaymentMethod:  store.PaymentMethod(),
		CustomerNote:   store.CustomerNote(),
		Coupon:         store.AppliedCoupon(),
		ShippingMethod: store.ShippingMethod(),
		Totals:         store.Totals(),
	}
}

func renderCart(w io.Writer, store *cart.Store) error {
	items := store.Items()
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, "cart is empty")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "LINE\tPRODUCT\tNAME\tQTY\tPRICE\tTOTAL")
		for _, item := range items {
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
				item.ID,
				productLabel(item),
				item.Name,
				item.Quantity,
				unitPriceLabel(item),
				pricing.FormatPrice(item.LineTotal()),
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if shipping := store.Shipping(); shipping != nil {
		_, _ = fmt.Fprintf(w, "Ship to:   %s\n", formatAddress(shipping))
	}
	if method := store.ShippingMethod(); method != nil {
		_, _ = fmt.Fprintf(w, "Method:    %s %s\n", method.ID, method.Title)
	}
	if coupon := store.AppliedCoupon(); coupon != nil {
		_, _ = fmt.Fprintf(w, "Coupon:    %s (%s %s)\n", coupon.Code, coupon.DiscountType, coupon.Amount)
	}
	if payment := store.PaymentMethod(); payment != "" {
		_, _ = fmt.Fprintf(w, "Payment:   %s\n", payment)
	}
	if note := store.CustomerNote(); note != "" {
		_, _ = fmt.Fprintf(w, "Note:      %s\n", note)
	}

	totals := store.Totals()
	_, _ = fmt.Fprintf(w, "Items:     %d\n", totals.Items)
	_, _ = fmt.Fprintf(w, "Subtotal:  %s\n", pricing.FormatPrice(totals.Subtotal))
	_, _ = fmt.Fprintf(w, "Shipping:  %s\n", pricing.FormatPrice(totals.Shipping))
	_, _ = fmt.Fprintf(w, "Tax:       %s\n", pricing.FormatPrice(totals.Tax))
	_, _ = fmt.Fprintf(w, "Discount:  %s\n", pricing.FormatPrice(totals.Discount.Neg()))
	_, err := fmt.Fprintf(w, "Total:     %s\n", pricing.FormatPrice(totals.Total))
	return err
}

func productLabel(item domain.CartItem) string {
	if item.VariationID != nil {
		return fmt.Sprintf("%d/%d", item.ProductID, *item.VariationID)
	}
	return fmt.Sprintf("%d", item.ProductID)
}

// unitPriceLabel показывает цену распродажи вместе с экономией.
func unitPriceLabel(item domain.CartItem) string {
	if item.SalePrice == nil {
		return pricing.FormatPrice(item.Price)
	}
	savings := pricing.CalculateSavings(item.Price, *item.SalePrice)
	if savings.IsZero() {
		return pricing.FormatPrice(*item.SalePrice)
	}
	return fmt.Sprintf("%s (was %s, -%d%%)",
		pricing.FormatPrice(*item.SalePrice),
		pricing.FormatPrice(item.Price),
		pricing.CalculateDiscountPercentage(item.Price, *item.SalePrice),
	)
}

func formatAddress(a *domain.Address) string {
	var parts []string
	if name := strings.TrimSpace(a.FirstName + " " + a.LastName); name != "" {
		parts = append(parts, name)
	}
	for _, part := range []string{a.Company, a.Address1, a.Address2, a.City, a.State, a.Postcode, a.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "(empty address)"
	}
	return strings.Join(parts, ", ")
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
