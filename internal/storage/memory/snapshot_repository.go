package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
)

// snapshotRepositoryInMemory: слот снапшотов в памяти процесса.
type snapshotRepositoryInMemory struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewSnapshotRepository возвращает in-memory хранилище для тестов и режима без диска.
func NewSnapshotRepository() domain.SnapshotRepository {
	return &snapshotRepositoryInMemory{
		slots: make(map[string][]byte),
	}
}

// Load возвращает копию снапшота или ErrSnapshotNotFound.
func (r *snapshotRepositoryInMemory) Load(key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payload, ok := r.slots[key]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return append([]byte(nil), payload...), nil
}

// Save перезаписывает слот копией payload.
func (r *snapshotRepositoryInMemory) Save(key string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Храним копию, чтобы вызывающий код не менял содержимое слота.
	r.slots[key] = append([]byte(nil), payload...)
	return nil
}

var _ domain.SnapshotRepository = (*snapshotRepositoryInMemory)(nil)
