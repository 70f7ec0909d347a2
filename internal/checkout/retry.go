package checkout

import (
	"encoding/json"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
)

// RetryConfig конфигурация повторной публикации.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig возвращает конфигурацию по умолчанию.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
	}
}

// RetryingPublisher повторяет PublishCheckout с экспоненциальной задержкой.
// Повтор безопасен: брокер дедуплицирует по request.ID.
type RetryingPublisher struct {
	next   domain.CheckoutPublisher
	config RetryConfig
	logger *log.Entry
	sleep  func(time.Duration)
}

// NewRetryingPublisher оборачивает next. MaxAttempts < 1 трактуется как одна попытка.
func NewRetryingPublisher(next domain.CheckoutPublisher, config RetryConfig, logger *log.Entry) *RetryingPublisher {
	if logger == nil {
		logger = log.WithField("component", "checkout-retry")
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.BackoffFactor < 1 {
		config.BackoffFactor = 1
	}
	return &RetryingPublisher{
		next:   next,
		config: config,
		logger: logger,
		sleep:  time.Sleep,
	}
}

// PublishCheckout реализует domain.CheckoutPublisher.
func (p *RetryingPublisher) PublishCheckout(request domain.CheckoutRequest) error {
	var lastErr error
	delay := p.config.InitialDelay

	for attempt := 1; attempt <= p.config.MaxAttempts; attempt++ {
		err := p.next.PublishCheckout(request)
		if err == nil {
			if attempt > 1 {
				p.logger.WithFields(log.Fields{
					"request_id": request.ID,
					"attempt":    attempt,
				}).Info("checkout publish succeeded after retry")
			}
			return nil
		}

		lastErr = err
		if !shouldRetry(err) {
			p.logger.WithError(err).WithField("request_id", request.ID).Warn("checkout publish failed with non-retryable error")
			return err
		}

		if attempt < p.config.MaxAttempts {
			p.logger.WithError(err).WithFields(log.Fields{
				"request_id": request.ID,
				"attempt":    attempt,
				"delay":      delay,
			}).Warn("checkout publish failed, retrying")

			p.sleep(delay)

			delay = time.Duration(float64(delay) * p.config.BackoffFactor)
			if p.config.MaxDelay > 0 && delay > p.config.MaxDelay {
				delay = p.config.MaxDelay
			}
		}
	}

	p.logger.WithError(lastErr).WithFields(log.Fields{
		"request_id":   request.ID,
		"max_attempts": p.config.MaxAttempts,
	}).Error("checkout publish failed after all retry attempts")
	return lastErr
}

// shouldRetry отсекает ошибки, которые повтор не исправит.
func shouldRetry(err error) bool {
	if errors.Is(err, domain.ErrCartEmpty) {
		return false
	}

	var unsupportedType *json.UnsupportedTypeError
	var unsupportedValue *json.UnsupportedValueError
	var marshaler *json.MarshalerError
	if errors.As(err, &unsupportedType) || errors.As(err, &unsupportedValue) || errors.As(err, &marshaler) {
		return false
	}

	return true
}

var _ domain.CheckoutPublisher = (*RetryingPublisher)(nil)
