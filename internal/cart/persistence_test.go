package cart

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
	"github.com/vladislavdragonenkov/fanwaves/internal/storage/memory"
)

func TestPersistence_RoundTrip(t *testing.T) {
	repo := memory.NewSnapshotRepository()
	first := NewStore(repo, DefaultKey, nil, testLogger())

	scarf := jersey(11, "19.99")
	scarf.VariationID = int64Ptr(111)
	scarf.SalePrice = decPtr("14.99")
	scarf.Attributes = map[string]string{"Color": "Red"}
	scarf.MaxQuantity = intPtr(5)
	first.AddItem(scarf, 2)
	first.AddItem(jersey(12, "89.00"), 1)
	first.SetShipping(&domain.Address{FirstName: "Sam", City: "Los Angeles", State: "CA", Postcode: "90001", Country: "US"})
	first.SetCouponCode("WAVES10")
	first.SetAppliedCoupon(&domain.Coupon{DiscountType: domain.DiscountPercent, Amount: "10"})
	first.SetShippingMethod(&domain.ShippingMethod{Total: "7.00"})

	restarted := NewStore(repo, DefaultKey, nil, testLogger())

	require.JSONEq(t, mustJSON(t, first.Items()), mustJSON(t, restarted.Items()))
	require.Equal(t, first.Shipping(), restarted.Shipping())
	require.False(t, restarted.IsOpen())
	require.Empty(t, restarted.CouponCode())
	require.Nil(t, restarted.AppliedCoupon())
	require.Nil(t, restarted.ShippingMethod())
	require.True(t, first.Subtotal().Equal(restarted.Subtotal()))
}

func TestPersistence_RestoresCheckoutFields(t *testing.T) {
	repo := memory.NewSnapshotRepository()
	first := NewStore(repo, DefaultKey, nil, testLogger())
	first.SetBilling(&domain.BillingInfo{Address: domain.Address{State: "NY"}, Email: "fan@example.com"})
	first.SetPaymentMethod("paypal")
	first.SetCustomerNote("gift wrap")

	restarted := NewStore(repo, DefaultKey, nil, testLogger())

	require.Equal(t, "fan@example.com", restarted.Billing().Email)
	require.Equal(t, "paypal", restarted.PaymentMethod())
	require.Equal(t, "gift wrap", restarted.CustomerNote())
}

func TestPersistence_NewLineIDsAfterRestore(t *testing.T) {
	repo := memory.NewSnapshotRepository()
	first := NewStore(repo, DefaultKey, nil, testLogger())
	res := first.AddItem(jersey(1, "10"), 1)

	restarted := NewStore(repo, DefaultKey, nil, testLogger())
	restarted.now = first.now
	next := restarted.AddItem(jersey(2, "10"), 1)

	require.Greater(t, next.LineID, res.LineID)
}

func TestPersistence_MalformedSnapshotStartsEmpty(t *testing.T) {
	for _, payload := range []string{"{not json", `{"items": "oops"}`, `[]`} {
		repo := memory.NewSnapshotRepository()
		require.NoError(t, repo.Save(DefaultKey, []byte(payload)))
		spy := newRecorderSpy()

		s := NewStore(repo, DefaultKey, spy, testLogger())

		require.Empty(t, s.Items(), "payload %q", payload)
		require.Nil(t, s.Shipping())
		require.Equal(t, []string{RestoreMalformed}, spy.restores)
	}
}

func TestPersistence_LoadErrorStartsEmpty(t *testing.T) {
	spy := newRecorderSpy()
	s := NewStore(&failingRepository{loadErr: errors.New("connection refused")}, DefaultKey, spy, testLogger())

	require.Empty(t, s.Items())
	require.Equal(t, []string{RestoreFailed}, spy.restores)
}

func TestPersistence_SaveFailureKeepsMemoryState(t *testing.T) {
	repo := &failingRepository{saveErr: errDiskFull}
	spy := newRecorderSpy()
	s := NewStore(repo, DefaultKey, spy, testLogger())

	res := s.AddItem(jersey(1, "10"), 2)

	require.Equal(t, domain.OutcomeAdded, res.Outcome)
	require.Equal(t, 2, s.TotalItems())
	require.Equal(t, 1, repo.saves)
	require.Equal(t, 1, spy.writeFailures)
}

func TestPersistence_WriteThroughOnPersistedFieldsOnly(t *testing.T) {
	repo := &failingRepository{}
	s := NewStore(repo, DefaultKey, nil, testLogger())

	res := s.AddItem(jersey(1, "10"), 1)
	s.UpdateQuantity(res.LineID, 2)
	s.SetShipping(&domain.Address{State: "FL"})
	s.SetBilling(&domain.BillingInfo{})
	s.SetPaymentMethod("cod")
	s.SetCustomerNote("note")
	require.Equal(t, 6, repo.saves)

	s.SetCouponCode("X")
	s.SetAppliedCoupon(&domain.Coupon{})
	s.SetShippingMethod(&domain.ShippingMethod{})
	s.OpenCart()
	s.ToggleCart()
	require.Equal(t, 6, repo.saves, "non-persisted fields must not trigger writes")

	s.RemoveItem(res.LineID + 1)
	s.UpdateQuantity(res.LineID+1, 3)
	require.Equal(t, 6, repo.saves, "no-op mutations must not trigger writes")

	s.ClearCart()
	require.Equal(t, 7, repo.saves)
}

func TestPersistence_RefusalDoesNotWrite(t *testing.T) {
	repo := &failingRepository{}
	s := NewStore(repo, DefaultKey, nil, testLogger())
	capped := jersey(1, "10")
	capped.MaxQuantity = intPtr(1)

	res := s.AddItem(capped, 1)
	s.AddItem(capped, 1)
	s.UpdateQuantity(res.LineID, 2)

	require.Equal(t, 1, repo.saves)
}

func TestPersistence_NilRepositoryIsMemoryOnly(t *testing.T) {
	s := NewStore(nil, "", nil, nil)

	s.AddItem(jersey(1, "10"), 1)

	require.Equal(t, DefaultKey, s.Key())
	require.Equal(t, 1, s.TotalItems())
}

func TestRecorder_ReceivesSignals(t *testing.T) {
	spy := newRecorderSpy()
	s := NewStore(memory.NewSnapshotRepository(), DefaultKey, spy, testLogger())
	capped := jersey(1, "10")
	capped.MaxQuantity = intPtr(1)

	res := s.AddItem(capped, 1)
	s.AddItem(capped, 1)
	s.UpdateQuantity(res.LineID, 0)

	require.Equal(t, []string{RestoreEmpty}, spy.restores)
	require.Equal(t, 1, spy.mutations[OpAddItem+":"+string(domain.OutcomeAdded)])
	require.Equal(t, 1, spy.mutations[OpAddItem+":"+string(domain.OutcomeRefused)])
	require.Equal(t, 1, spy.mutations[OpUpdateQuantity+":"+string(domain.OutcomeRemoved)])
	require.Equal(t, 2, spy.writes)
	require.Equal(t, 0, spy.lines)
	require.Equal(t, 0, spy.units)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}
