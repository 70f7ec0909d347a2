package checkout

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/fanwaves/internal/cart"
	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
	"github.com/vladislavdragonenkov/fanwaves/internal/storage/memory"
)

type publisherSpy struct {
	requests []domain.CheckoutRequest
	err      error
}

func (p *publisherSpy) PublishCheckout(request domain.CheckoutRequest) error {
	if p.err != nil {
		return p.err
	}
	p.requests = append(p.requests, request)
	return nil
}

type handoffSpy struct {
	successes int
	failures  int
}

func (r *handoffSpy) RecordHandoff(err error) {
	if err != nil {
		r.failures++
		return
	}
	r.successes++
}

func silentLogger() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return log.NewEntry(logger)
}

func newCart(t *testing.T) *cart.Store {
	t.Helper()
	return cart.NewStore(memory.NewSnapshotRepository(), "checkout-test", nil, silentLogger())
}

func addJerseys(t *testing.T, store *cart.Store) {
	t.Helper()
	result := store.AddItem(domain.CartItemInput{
		ID:    7,
		Name:  "Home Jersey",
		Price: decimal.RequireFromString("42.00"),
	}, 2)
	require.True(t, result.Changed())
}

func TestService_Handoff_EmptyCart(t *testing.T) {
	publisher := &publisherSpy{}
	recorder := &handoffSpy{}
	service := NewService(newCart(t), publisher, recorder, silentLogger())

	_, err := service.Handoff()
	require.True(t, errors.Is(err, domain.ErrCartEmpty))
	require.Empty(t, publisher.requests)
	require.Zero(t, recorder.successes+recorder.failures)
}

func TestService_Handoff_BuildsRequest(t *testing.T) {
	store := newCart(t)
	addJerseys(t, store)
	store.SetShipping(&domain.Address{FirstName: "Ada", State: "CA"})
	store.SetPaymentMethod("card")
	store.SetCustomerNote("gift wrap")
	store.SetCouponCode("WAVES")

	publisher := &publisherSpy{}
	recorder := &handoffSpy{}
	service := NewService(store, publisher, recorder, silentLogger())
	service.newID = func() string { return "req-1" }
	service.now = func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) }

	request, err := service.Handoff()
	require.NoError(t, err)
	require.Len(t, publisher.requests, 1)
	require.Equal(t, request, publisher.requests[0])
	require.Equal(t, 1, recorder.successes)

	require.Equal(t, "req-1", request.ID)
	require.Equal(t, "checkout-test", request.CartKey)
	require.Len(t, request.Items, 1)
	require.Equal(t, "card", request.PaymentMethod)
	require.Equal(t, "gift wrap", request.CustomerNote)
	require.Equal(t, "WAVES", request.CouponCode)
	require.Equal(t, domain.CheckoutTotals{
		Items:    2,
		Subtotal: "84.00",
		Shipping: "0.00",
		Tax:      "8.19",
		Discount: "0.00",
		Total:    "92.19",
	}, request.Totals)
	require.Equal(t, time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC), request.CreatedAt)

	// Передача не меняет корзину.
	require.Equal(t, 2, store.TotalItems())
}

func TestService_Handoff_GeneratesUniqueIDs(t *testing.T) {
	store := newCart(t)
	addJerseys(t, store)

	publisher := &publisherSpy{}
	service := NewService(store, publisher, nil, nil)

	first, err := service.Handoff()
	require.NoError(t, err)
	second, err := service.Handoff()
	require.NoError(t, err)

	require.NotEmpty(t, first.ID)
	require.NotEqual(t, first.ID, second.ID)
}

func TestService_Handoff_PublishError(t *testing.T) {
	store := newCart(t)
	addJerseys(t, store)

	publisher := &publisherSpy{err: domain.ErrCheckoutPublish}
	recorder := &handoffSpy{}
	service := NewService(store, publisher, recorder, silentLogger())

	_, err := service.Handoff()
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrCheckoutPublish))
	require.Equal(t, 1, recorder.failures)
}

func TestWriterPublisher_WritesJSON(t *testing.T) {
	store := newCart(t)
	addJerseys(t, store)

	var buf bytes.Buffer
	service := NewService(store, NewWriterPublisher(&buf), nil, silentLogger())

	request, err := service.Handoff()
	require.NoError(t, err)

	var decoded domain.CheckoutRequest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, request.ID, decoded.ID)
	require.Equal(t, "84.00", decoded.Totals.Total)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestWriterPublisher_WriteError(t *testing.T) {
	err := NewWriterPublisher(failingWriter{}).PublishCheckout(domain.CheckoutRequest{ID: "x"})
	require.True(t, errors.Is(err, domain.ErrCheckoutPublish))
}
