// Package redis хранит снапшоты корзины в Redis по ключу "<prefix><cart key>".
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
)

const (
	opTimeout = 3 * time.Second
	// DefaultPrefix отделяет ключи корзины от остальных данных в базе.
	DefaultPrefix = "fanwaves:cart:"
)

// Options описывает подключение и поведение слота.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	// TTL задаёт срок жизни снапшота, 0 означает без ограничения.
	TTL time.Duration
}

// SnapshotRepository: слот снапшотов в Redis.
type SnapshotRepository struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// Open подключается к Redis и проверяет соединение.
func Open(ctx context.Context, opts Options) (*SnapshotRepository, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis addr is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewSnapshotRepository(client, opts.Prefix, opts.TTL), nil
}

// NewSnapshotRepository оборачивает готовый клиент.
func NewSnapshotRepository(client *goredis.Client, prefix string, ttl time.Duration) *SnapshotRepository {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SnapshotRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *SnapshotRepository) redisKey(key string) string {
	return r.prefix + key
}

// Load читает снапшот или возвращает ErrSnapshotNotFound.
func (r *SnapshotRepository) Load(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	b, err := r.client.Get(ctx, r.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("redis get snapshot: %w", err)
	}
	return b, nil
}

// Save перезаписывает снапшот (SET с TTL, если он задан).
func (r *SnapshotRepository) Save(key string, payload []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.redisKey(key), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	return nil
}

// Delete удаляет слот.
func (r *SnapshotRepository) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.client.Del(ctx, r.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del snapshot: %w", err)
	}
	return nil
}

// Ping проверяет доступность Redis.
func (r *SnapshotRepository) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

// Close закрывает клиент.
func (r *SnapshotRepository) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

var (
	_ domain.SnapshotRepository = (*SnapshotRepository)(nil)
	_ domain.Pinger             = (*SnapshotRepository)(nil)
)
