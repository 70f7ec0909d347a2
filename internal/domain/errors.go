package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSnapshotNotFound возвращается хранилищем, если слот корзины пуст.
	ErrSnapshotNotFound = errors.New("cart snapshot not found")
	// ErrStockLimitExceeded: запрошенное количество больше max_quantity строки.
	ErrStockLimitExceeded = errors.New("stock limit exceeded")
	// ErrLineNotFound: строки с указанным ID нет в корзине.
	ErrLineNotFound = errors.New("cart line not found")
	// ErrCartEmpty: операция требует хотя бы одну позицию.
	ErrCartEmpty = errors.New("cart is empty")
	// ErrInvalidQuantity: количество должно быть больше нуля.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	// ErrUnsupportedStorage: неизвестный драйвер хранилища снапшотов.
	ErrUnsupportedStorage = errors.New("unsupported storage driver")
	// ErrCheckoutPublish: не удалось передать корзину в оформление заказа.
	ErrCheckoutPublish = errors.New("checkout hand-off publish failed")
)

// StockLimitError подробно описывает отказ по складскому лимиту.
type StockLimitError struct {
	LineID      int64
	ProductID   int64
	Requested   int
	MaxQuantity int
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("stock limit exceeded: line=%d product=%d requested=%d max=%d",
		e.LineID, e.ProductID, e.Requested, e.MaxQuantity)
}

// Is позволяет сравнивать через errors.Is(err, ErrStockLimitExceeded).
func (e *StockLimitError) Is(target error) bool {
	return target == ErrStockLimitExceeded
}

// IsStockLimit проверяет, является ли ошибка отказом по складскому лимиту.
func IsStockLimit(err error) bool {
	return errors.Is(err, ErrStockLimitExceeded)
}

// IsSnapshotNotFound проверяет, что слот корзины пуст.
func IsSnapshotNotFound(err error) bool {
	return errors.Is(err, ErrSnapshotNotFound)
}
