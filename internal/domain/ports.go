package domain

import "time"

// CheckoutPublisher передаёт корзину во внешний процесс оформления заказа.
type CheckoutPublisher interface {
	// PublishCheckout должен быть идемпотентным по request.ID.
	PublishCheckout(request CheckoutRequest) error
}

// CheckoutTotals: суммы корзины в виде десятичных строк для внешних систем.
type CheckoutTotals struct {
	Items    int    `json:"items"`
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

// CheckoutRequest: снимок корзины на момент передачи в оформление.
type CheckoutRequest struct {
	ID             string          `json:"id"`
	CartKey        string          `json:"cart_key"`
	Items          []CartItem      `json:"items"`
	Shipping       *Address        `json:"shipping,omitempty"`
	Billing        *BillingInfo    `json:"billing,omitempty"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	CustomerNote   string          `json:"customer_note,omitempty"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	ShippingMethod *ShippingMethod `json:"shipping_method,omitempty"`
	Totals         CheckoutTotals  `json:"totals"`
	CreatedAt      time.Time       `json:"created_at"`
}
