// Package file хранит снапшоты корзины в JSON-файлах: один файл на ключ.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// SnapshotRepository пишет снапшот во временный файл и атомарно переименовывает его.
type SnapshotRepository struct {
	mu  sync.Mutex
	fs  afero.Fs
	dir string
}

// NewSnapshotRepository создаёт файловое хранилище в каталоге dir на диске.
func NewSnapshotRepository(dir string) *SnapshotRepository {
	return NewSnapshotRepositoryWithFs(afero.NewOsFs(), dir)
}

// NewSnapshotRepositoryWithFs позволяет подменить файловую систему (например, в тестах).
func NewSnapshotRepositoryWithFs(fs afero.Fs, dir string) *SnapshotRepository {
	return &SnapshotRepository{fs: fs, dir: dir}
}

// Path возвращает путь к файлу слота.
func (r *SnapshotRepository) Path(key string) string {
	return filepath.Join(r.dir, sanitizeKey(key)+".json")
}

// Load читает снапшот. Отсутствующий или пустой файл: ErrSnapshotNotFound.
func (r *SnapshotRepository) Load(key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := afero.ReadFile(r.fs, r.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	if len(b) == 0 {
		return nil, domain.ErrSnapshotNotFound
	}
	return b, nil
}

// Save перезаписывает файл слота через tmp + rename.
func (r *SnapshotRepository) Save(key string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.fs.MkdirAll(r.dir, dirPerm); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	path := r.Path(key)
	tmp := path + ".tmp"
	if err := afero.WriteFile(r.fs, tmp, payload, filePerm); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := r.fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename snapshot file: %w", err)
	}
	return nil
}

// Ping проверяет, что каталог доступен.
func (r *SnapshotRepository) Ping() error {
	if err := r.fs.MkdirAll(r.dir, dirPerm); err != nil {
		return fmt.Errorf("snapshot dir is not writable: %w", err)
	}
	return nil
}

// sanitizeKey убирает из ключа разделители путей.
func sanitizeKey(key string) string {
	return strings.NewReplacer("/", "_", `\`, "_", "..", "_").Replace(key)
}

var (
	_ domain.SnapshotRepository = (*SnapshotRepository)(nil)
	_ domain.Pinger             = (*SnapshotRepository)(nil)
)
