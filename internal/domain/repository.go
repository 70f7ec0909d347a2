package domain

// SnapshotRepository: долговременный слот «ключ → снапшот корзины».
// Хранилище не разбирает содержимое, последняя запись побеждает.
type SnapshotRepository interface {
	// Load возвращает последний сохранённый снапшот или ErrSnapshotNotFound.
	Load(key string) ([]byte, error)
	// Save перезаписывает слот целиком.
	Save(key string, payload []byte) error
}

// Pinger реализуют хранилища, у которых есть внешнее подключение.
type Pinger interface {
	Ping() error
}
