package cart

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
)

// Имена операций для метрик и логов.
const (
	OpAddItem        = "add_item"
	OpRemoveItem     = "remove_item"
	OpUpdateQuantity = "update_quantity"
	OpClearCart      = "clear_cart"
)

// AddItem добавляет товар в корзину. Если строка с тем же (product_id, variation_id)
// уже есть, количество суммируется. Превышение max_quantity отклоняется без изменений.
// При успешном добавлении корзина открывается.
func (s *Store) AddItem(item domain.CartItemInput, quantity int) domain.MutationResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result domain.MutationResult
	if idx := s.findLine(item.ID, item.VariationID); idx >= 0 {
		existing := &s.items[idx]
		candidate := existing.Quantity + quantity
		if err := s.checkLimit(*existing, candidate); err != nil {
			result = domain.MutationResult{
				Outcome:  domain.OutcomeRefused,
				LineID:   existing.ID,
				Quantity: existing.Quantity,
				Err:      err,
			}
			s.recorder.RecordMutation(OpAddItem, result.Outcome)
			return result
		}
		existing.Quantity = candidate
		result = domain.MutationResult{Outcome: domain.OutcomeMerged, LineID: existing.ID, Quantity: candidate}
	} else {
		line := newLine(item, quantity)
		line.ID = s.nextLineID()
		s.items = append(s.items, line)
		result = domain.MutationResult{Outcome: domain.OutcomeAdded, LineID: line.ID, Quantity: quantity}
	}

	s.isOpen = true
	s.persist()
	s.recorder.RecordMutation(OpAddItem, result.Outcome)
	return result
}

// RemoveItem удаляет строку. Возвращает false, если строки не было.
func (s *Store) RemoveItem(lineID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.removeLocked(lineID)
	if removed {
		s.persist()
		s.recorder.RecordMutation(OpRemoveItem, domain.OutcomeRemoved)
	} else {
		s.recorder.RecordMutation(OpRemoveItem, domain.OutcomeNotFound)
	}
	return removed
}

// UpdateQuantity задаёт количество строки. quantity <= 0 удаляет строку.
// Превышение max_quantity отклоняется, количество остаётся прежним.
func (s *Store) UpdateQuantity(lineID int64, quantity int) domain.MutationResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.updateLocked(lineID, quantity)
	if result.Changed() {
		s.persist()
	}
	s.recorder.RecordMutation(OpUpdateQuantity, result.Outcome)
	return result
}

func (s *Store) updateLocked(lineID int64, quantity int) domain.MutationResult {
	if quantity <= 0 {
		if s.removeLocked(lineID) {
			return domain.MutationResult{Outcome: domain.OutcomeRemoved, LineID: lineID}
		}
		return domain.MutationResult{Outcome: domain.OutcomeNotFound, LineID: lineID, Err: domain.ErrLineNotFound}
	}

	idx := s.indexOf(lineID)
	if idx < 0 {
		return domain.MutationResult{Outcome: domain.OutcomeNotFound, LineID: lineID, Err: domain.ErrLineNotFound}
	}

	line := &s.items[idx]
	if err := s.checkLimit(*line, quantity); err != nil {
		return domain.MutationResult{Outcome: domain.OutcomeRefused, LineID: lineID, Quantity: line.Quantity, Err: err}
	}
	line.Quantity = quantity
	return domain.MutationResult{Outcome: domain.OutcomeUpdated, LineID: lineID, Quantity: quantity}
}

// ClearCart очищает строки, купон и комментарий. Адреса, способ оплаты,
// способ доставки и флаг открытия сохраняются.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []domain.CartItem{}
	s.appliedCoupon = nil
	s.couponCode = ""
	s.customerNote = ""
	s.persist()
	s.recorder.RecordMutation(OpClearCart, domain.OutcomeRemoved)
}

func (s *Store) removeLocked(lineID int64) bool {
	idx := s.indexOf(lineID)
	if idx < 0 {
		return false
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return true
}

func (s *Store) findLine(productID int64, variationID *int64) int {
	for i := range s.items {
		if s.items[i].SameLine(productID, variationID) {
			return i
		}
	}
	return -1
}

// checkLimit возвращает *domain.StockLimitError, если quantity больше max_quantity строки.
// Нулевой max_quantity ограничением не считается.
func (s *Store) checkLimit(line domain.CartItem, quantity int) error {
	if line.MaxQuantity == nil || *line.MaxQuantity <= 0 || quantity <= *line.MaxQuantity {
		return nil
	}

	s.logger.WithFields(log.Fields{
		"line_id":      line.ID,
		"product_id":   line.ProductID,
		"requested":    quantity,
		"max_quantity": *line.MaxQuantity,
	}).Warn("количество превышает складской лимит, изменение отклонено")

	return &domain.StockLimitError{
		LineID:      line.ID,
		ProductID:   line.ProductID,
		Requested:   quantity,
		MaxQuantity: *line.MaxQuantity,
	}
}

func newLine(item domain.CartItemInput, quantity int) domain.CartItem {
	line := domain.CartItem{
		ProductID:   item.ID,
		VariationID: item.VariationID,
		Name:        item.Name,
		Price:       item.Price,
		SalePrice:   item.SalePrice,
		Quantity:    quantity,
		Image:       item.Image,
		SKU:         item.SKU,
		Team:        item.Team,
		Category:    item.Category,
		Attributes:  item.Attributes,
		MaxQuantity: item.MaxQuantity,
		StockStatus: item.StockStatus,
	}
	// Копия, чтобы вызывающий код не мог менять строку через свои указатели.
	return line.Clone()
}
