package cart

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func jersey(productID int64, price string) domain.CartItemInput {
	return domain.CartItemInput{
		ID:          productID,
		Name:        "Home Jersey",
		Price:       dec(price),
		SKU:         "JER-HOME",
		Team:        "Waves",
		Category:    "jerseys",
		StockStatus: domain.StockStatusInStock,
	}
}

func testLogger() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return log.NewEntry(logger)
}

// failingRepository отдаёт заданные ошибки и считает записи.
type failingRepository struct {
	loadErr error
	saveErr error
	payload []byte
	saves   int
}

func (r *failingRepository) Load(string) ([]byte, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.payload == nil {
		return nil, domain.ErrSnapshotNotFound
	}
	return r.payload, nil
}

func (r *failingRepository) Save(_ string, payload []byte) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.payload = append([]byte(nil), payload...)
	return nil
}

var errDiskFull = errors.New("disk full")

// recorderSpy запоминает сигналы Recorder.
type recorderSpy struct {
	mu            sync.Mutex
	mutations     map[string]int
	writes        int
	writeFailures int
	restores      []string
	lines, units  int
}

func newRecorderSpy() *recorderSpy {
	return &recorderSpy{mutations: make(map[string]int)}
}

func (r *recorderSpy) RecordMutation(op string, outcome domain.MutationOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations[op+":"+string(outcome)]++
}

func (r *recorderSpy) RecordSnapshotWrite(_ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if err != nil {
		r.writeFailures++
	}
}

func (r *recorderSpy) RecordRestore(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restores = append(r.restores, outcome)
}

func (r *recorderSpy) ObserveCart(lines, units int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines, r.units = lines, units
}
