// Package cart реализует состояние корзины: строки, поля оформления,
// производные суммы и сквозное сохранение снапшота в слот хранилища.
//
// Store создаётся в точке сборки приложения и передаётся явно.
// Все суммы пересчитываются при каждом вызове, кэша нет.
package cart

import (
	"encoding/json"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
)

// DefaultKey: имя слота, в котором хранится снапшот корзины.
const DefaultKey = "fan-waves-cart"

// Recorder получает сигналы о работе корзины (метрики).
type Recorder interface {
	RecordMutation(operation string, outcome domain.MutationOutcome)
	RecordSnapshotWrite(duration time.Duration, err error)
	RecordRestore(outcome string)
	ObserveCart(lines, units int)
}

// Итоги восстановления снапшота для Recorder.
const (
	RestoreRestored  = "restored"
	RestoreEmpty     = "empty"
	RestoreMalformed = "malformed"
	RestoreFailed    = "failed"
)

// Store: единственный владелец строк корзины и полей оформления.
// Безопасен для конкурентного использования.
type Store struct {
	mu sync.RWMutex

	snapshots domain.SnapshotRepository
	key       string
	recorder  Recorder
	logger    *log.Entry
	now       func() time.Time

	lastLineID int64

	items          []domain.CartItem
	isOpen         bool
	shipping       *domain.Address
	billing        *domain.BillingInfo
	paymentMethod  string
	customerNote   string
	couponCode     string
	appliedCoupon  *domain.Coupon
	shippingMethod *domain.ShippingMethod
}

// NewStore создаёт корзину и восстанавливает её из слота key.
// snapshots и recorder могут быть nil: тогда корзина живёт только в памяти.
func NewStore(snapshots domain.SnapshotRepository, key string, recorder Recorder, logger *log.Entry) *Store {
	if key == "" {
		key = DefaultKey
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if logger == nil {
		logger = log.WithField("component", "cart")
	}

	s := &Store{
		snapshots: snapshots,
		key:       key,
		recorder:  recorder,
		logger:    logger.WithField("cart_key", key),
		now:       time.Now,
		items:     []domain.CartItem{},
	}
	s.restore()
	return s
}

// Key возвращает имя слота хранилища.
func (s *Store) Key() string {
	return s.key
}

// restore читает снапшот. Отсутствующий или повреждённый снапшот означает пустую корзину.
func (s *Store) restore() {
	if s.snapshots == nil {
		s.recorder.RecordRestore(RestoreEmpty)
		return
	}

	payload, err := s.snapshots.Load(s.key)
	if err != nil {
		if domain.IsSnapshotNotFound(err) {
			s.recorder.RecordRestore(RestoreEmpty)
			return
		}
		s.logger.WithError(err).Warn("не удалось прочитать снапшот корзины, начинаем с пустой")
		s.recorder.RecordRestore(RestoreFailed)
		return
	}

	var snap domain.CartSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		s.logger.WithError(err).Warn("снапшот корзины повреждён, начинаем с пустой")
		s.recorder.RecordRestore(RestoreMalformed)
		return
	}

	if snap.Items != nil {
		s.items = snap.Items
	}
	s.shipping = snap.Shipping
	s.billing = snap.Billing
	s.paymentMethod = snap.PaymentMethod
	s.customerNote = snap.CustomerNote

	for _, item := range s.items {
		if item.ID > s.lastLineID {
			s.lastLineID = item.ID
		}
	}

	s.logger.WithField("lines", len(s.items)).Debug("корзина восстановлена из снапшота")
	s.recorder.RecordRestore(RestoreRestored)
	s.recorder.ObserveCart(len(s.items), s.totalItems())
}

// persist перезаписывает снапшот целиком. Ошибка записи не возвращается:
// состояние в памяти остаётся источником истины для текущей сессии.
// Вызывается под s.mu.
func (s *Store) persist() {
	s.recorder.ObserveCart(len(s.items), s.totalItems())
	if s.snapshots == nil {
		return
	}

	payload, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		s.logger.WithError(err).Warn("не удалось сериализовать снапшот корзины")
		s.recorder.RecordSnapshotWrite(0, err)
		return
	}

	start := time.Now()
	err = s.snapshots.Save(s.key, payload)
	s.recorder.RecordSnapshotWrite(time.Since(start), err)
	if err != nil {
		s.logger.WithError(err).Warn("не удалось сохранить снапшот корзины")
	}
}

// Snapshot возвращает сохраняемую проекцию состояния.
func (s *Store) Snapshot() domain.CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() domain.CartSnapshot {
	return domain.CartSnapshot{
		Items:         cloneItems(s.items),
		Shipping:      cloneAddress(s.shipping),
		Billing:       cloneBilling(s.billing),
		PaymentMethod: s.paymentMethod,
		CustomerNote:  s.customerNote,
	}
}

// nextLineID выдаёт монотонный идентификатор строки на основе времени в миллисекундах.
func (s *Store) nextLineID() int64 {
	candidate := s.now().UnixMilli()
	if candidate <= s.lastLineID {
		candidate = s.lastLineID + 1
	}
	s.lastLineID = candidate
	return candidate
}

func (s *Store) indexOf(lineID int64) int {
	for i := range s.items {
		if s.items[i].ID == lineID {
			return i
		}
	}
	return -1
}

type noopRecorder struct{}

func (noopRecorder) RecordMutation(string, domain.MutationOutcome) {}
func (noopRecorder) RecordSnapshotWrite(time.Duration, error)      {}
func (noopRecorder) RecordRestore(string)                          {}
func (noopRecorder) ObserveCart(int, int)                          {}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

func cloneAddress(a *domain.Address) *domain.Address {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func cloneBilling(b *domain.BillingInfo) *domain.BillingInfo {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}
