package cart

import "github.com/vladislavdragonenkov/fanwaves/internal/domain"

// OpenCart, CloseCart и ToggleCart управляют только флагом видимости корзины.
func (s *Store) OpenCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = true
}

func (s *Store) CloseCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = false
}

func (s *Store) ToggleCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = !s.isOpen
}

func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isOpen
}

// SetShipping заменяет адрес доставки и сохраняет снапшот.
func (s *Store) SetShipping(address *domain.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shipping = cloneAddress(address)
	s.persist()
}

// SetBilling заменяет платёжный адрес и сохраняет снапшот.
func (s *Store) SetBilling(billing *domain.BillingInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.billing = cloneBilling(billing)
	s.persist()
}

func (s *Store) SetPaymentMethod(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentMethod = method
	s.persist()
}

func (s *Store) SetCustomerNote(note string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerNote = note
	s.persist()
}

// SetCouponCode, SetAppliedCoupon и SetShippingMethod не сохраняются в снапшот.
func (s *Store) SetCouponCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.couponCode = code
}

func (s *Store) SetAppliedCoupon(coupon *domain.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if coupon == nil {
		s.appliedCoupon = nil
		return
	}
	c := *coupon
	s.appliedCoupon = &c
}

func (s *Store) SetShippingMethod(method *domain.ShippingMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if method == nil {
		s.shippingMethod = nil
		return
	}
	m := *method
	s.shippingMethod = &m
}

// Items возвращает копию строк корзины в порядке добавления.
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

// Item возвращает строку по ID.
func (s *Store) Item(lineID int64) (domain.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(lineID)
	if idx < 0 {
		return domain.CartItem{}, false
	}
	return s.items[idx].Clone(), true
}

func (s *Store) Shipping() *domain.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAddress(s.shipping)
}

func (s *Store) Billing() *domain.BillingInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneBilling(s.billing)
}

func (s *Store) PaymentMethod() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paymentMethod
}

func (s *Store) CustomerNote() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customerNote
}

func (s *Store) CouponCode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.couponCode
}

func (s *Store) AppliedCoupon() *domain.Coupon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.appliedCoupon == nil {
		return nil
	}
	c := *s.appliedCoupon
	return &c
}

func (s *Store) ShippingMethod() *domain.ShippingMethod {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.shippingMethod == nil {
		return nil
	}
	m := *s.shippingMethod
	return &m
}
