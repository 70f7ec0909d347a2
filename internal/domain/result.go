package domain

// MutationOutcome описывает, чем закончилось изменение корзины.
type MutationOutcome string

const (
	// OutcomeAdded: создана новая строка.
	OutcomeAdded MutationOutcome = "added"
	// OutcomeMerged: количество добавлено к существующей строке.
	OutcomeMerged MutationOutcome = "merged"
	// OutcomeUpdated: количество строки заменено.
	OutcomeUpdated MutationOutcome = "updated"
	// OutcomeRemoved: строка удалена (количество <= 0).
	OutcomeRemoved MutationOutcome = "removed"
	// OutcomeRefused: превышен MaxQuantity, состояние не изменилось.
	OutcomeRefused MutationOutcome = "refused"
	// OutcomeNotFound: строки с таким ID нет, состояние не изменилось.
	OutcomeNotFound MutationOutcome = "not_found"
)

// MutationResult возвращается из AddItem и UpdateQuantity.
// Вызывающий код может его игнорировать: при отказе корзина просто не меняется.
type MutationResult struct {
	Outcome  MutationOutcome
	LineID   int64
	Quantity int
	Err      error
}

// Changed сообщает, изменилось ли состояние корзины.
func (r MutationResult) Changed() bool {
	switch r.Outcome {
	case OutcomeAdded, OutcomeMerged, OutcomeUpdated, OutcomeRemoved:
		return true
	default:
		return false
	}
}

// Refused сообщает об отказе из-за складского лимита.
func (r MutationResult) Refused() bool {
	return r.Outcome == OutcomeRefused
}
