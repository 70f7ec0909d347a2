package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
)

const opTimeout = 5 * time.Second

type snapshotRepository struct {
	store *Store
}

// NewSnapshotRepository создаёт PostgreSQL-реализацию слота снапшотов.
func NewSnapshotRepository(store *Store) domain.SnapshotRepository {
	return &snapshotRepository{store: store}
}

func (r *snapshotRepository) Load(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var payload []byte
	err := r.store.DB().QueryRowContext(ctx, `
		SELECT payload
		FROM cart_snapshots
		WHERE cart_key = $1
	`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("select cart snapshot: %w", err)
	}
	return payload, nil
}

// Save делает upsert: последняя запись побеждает.
func (r *snapshotRepository) Save(key string, payload []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.store.DB().ExecContext(ctx, `
		INSERT INTO cart_snapshots (cart_key, payload, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (cart_key) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`, key, string(payload))
	if err != nil {
		return fmt.Errorf("upsert cart snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepository) Ping() error {
	return r.store.Ping(context.Background())
}

var (
	_ domain.SnapshotRepository = (*snapshotRepository)(nil)
	_ domain.Pinger             = (*snapshotRepository)(nil)
)
