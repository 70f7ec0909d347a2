package cart

import (
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
	"github.com/vladislavdragonenkov/fanwaves/internal/pricing"
)

var hundred = decimal.NewFromInt(100)

// TotalItems возвращает суммарное количество единиц во всех строках.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalItems()
}

// Subtotal: сумма (эффективная цена * количество) по всем строкам.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subtotal()
}

// ShippingTotal: стоимость доставки. Без способа доставки 0, при подытоге
// от порога бесплатной доставки 0, иначе ставка способа или запасная ставка.
func (s *Store) ShippingTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shippingTotal(s.subtotal())
}

// TaxTotal: налог по штату адреса доставки.
func (s *Store) TaxTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taxTotal(s.subtotal())
}

// DiscountTotal: скидка по применённому купону.
func (s *Store) DiscountTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.discountTotal(s.subtotal())
}

// Total: итог к оплате, никогда не отрицательный.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totals().Total
}

// Totals считает все суммы за один проход под одной блокировкой.
func (s *Store) Totals() domain.Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totals()
}

func (s *Store) totals() domain.Totals {
	subtotal := s.subtotal()
	t := domain.Totals{
		Items:    s.totalItems(),
		Subtotal: subtotal,
		Shipping: s.shippingTotal(subtotal),
		Tax:      s.taxTotal(subtotal),
		Discount: s.discountTotal(subtotal),
	}
	total := t.Subtotal.Add(t.Shipping).Add(t.Tax).Sub(t.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	t.Total = total
	return t
}

func (s *Store) totalItems() int {
	var n int
	for _, item := range s.items {
		n += item.Quantity
	}
	return n
}

func (s *Store) subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range s.items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

func (s *Store) shippingTotal(subtotal decimal.Decimal) decimal.Decimal {
	if s.shippingMethod == nil {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(pricing.FreeShippingThreshold) {
		return decimal.Zero
	}
	rate, ok := pricing.ParseAmount(s.shippingMethod.Total)
	if !ok {
		return pricing.FallbackShippingRate
	}
	return rate
}

func (s *Store) taxTotal(subtotal decimal.Decimal) decimal.Decimal {
	if s.shipping == nil {
		return decimal.Zero
	}
	return subtotal.Mul(pricing.TaxRate(s.shipping.State))
}

func (s *Store) discountTotal(subtotal decimal.Decimal) decimal.Decimal {
	if s.appliedCoupon == nil {
		return decimal.Zero
	}
	amount, ok := pricing.ParseAmount(s.appliedCoupon.Amount)
	if !ok {
		return decimal.Zero
	}
	switch s.appliedCoupon.DiscountType {
	case domain.DiscountFixedCart:
		return amount
	case domain.DiscountPercent:
		return subtotal.Mul(amount.Div(hundred))
	default:
		return decimal.Zero
	}
}
