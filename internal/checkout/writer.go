package checkout

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
)

// WriterPublisher пишет запрос JSON-документом в io.Writer.
// Используется, когда брокер не настроен.
type WriterPublisher struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterPublisher создаёт publisher поверх w.
func NewWriterPublisher(w io.Writer) *WriterPublisher {
	return &WriterPublisher{w: w}
}

// PublishCheckout реализует domain.CheckoutPublisher.
func (p *WriterPublisher) PublishCheckout(request domain.CheckoutRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	encoder := json.NewEncoder(p.w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(request); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCheckoutPublish, err)
	}
	return nil
}

var _ domain.CheckoutPublisher = (*WriterPublisher)(nil)
