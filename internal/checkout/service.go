// Package checkout передаёт содержимое корзины во внешний процесс оформления.
//
// Оплата и создание заказа происходят за пределами этого модуля: Service только
// собирает CheckoutRequest и отдаёт его CheckoutPublisher.
package checkout

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
)

// Cart: то, что Service читает из корзины.
type Cart interface {
	Key() string
	Items() []domain.CartItem
	Shipping() *domain.Address
	Billing() *domain.BillingInfo
	PaymentMethod() string
	CustomerNote() string
	CouponCode() string
	ShippingMethod() *domain.ShippingMethod
	Totals() domain.Totals
}

// Recorder учитывает результат передачи.
type Recorder interface {
	RecordHandoff(err error)
}

// Service собирает запрос на оформление и публикует его.
type Service struct {
	cart      Cart
	publisher domain.CheckoutPublisher
	recorder  Recorder
	logger    *log.Entry
	now       func() time.Time
	newID     func() string
}

// NewService создаёт сервис передачи. recorder и logger могут быть nil.
func NewService(cart Cart, publisher domain.CheckoutPublisher, recorder Recorder, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "checkout")
	}
	return &Service{
		cart:      cart,
		publisher: publisher,
		recorder:  recorder,
		logger:    logger,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// Handoff публикует текущую корзину. Пустая корзина не передаётся.
func (s *Service) Handoff() (domain.CheckoutRequest, error) {
	request, err := s.buildRequest()
	if err != nil {
		return domain.CheckoutRequest{}, err
	}

	err = s.publisher.PublishCheckout(request)
	if s.recorder != nil {
		s.recorder.RecordHandoff(err)
	}
	if err != nil {
		s.logger.WithError(err).WithField("request_id", request.ID).Error("checkout hand-off failed")
		return domain.CheckoutRequest{}, fmt.Errorf("publish checkout request: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"request_id": request.ID,
		"cart_key":   request.CartKey,
		"items":      request.Totals.Items,
		"total":      request.Totals.Total,
	}).Info("checkout hand-off published")

	return request, nil
}

func (s *Service) buildRequest() (domain.CheckoutRequest, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return domain.CheckoutRequest{}, domain.ErrCartEmpty
	}

	totals := s.cart.Totals()
	return domain.CheckoutRequest{
		ID:             s.newID(),
		CartKey:        s.cart.Key(),
		Items:          items,
		Shipping:       s.cart.Shipping(),
		Billing:        s.cart.Billing(),
		PaymentMethod:  s.cart.PaymentMethod(),
		CustomerNote:   s.cart.CustomerNote(),
		CouponCode:     s.cart.CouponCode(),
		ShippingMethod: s.cart.ShippingMethod(),
		Totals: domain.CheckoutTotals{
			Items:    totals.Items,
			Subtotal: totals.Subtotal.StringFixed(2),
			Shipping: totals.Shipping.StringFixed(2),
			Tax:      totals.Tax.StringFixed(2),
			Discount: totals.Discount.StringFixed(2),
			Total:    totals.Total.StringFixed(2),
		},
		CreatedAt: s.now().UTC(),
	}, nil
}
