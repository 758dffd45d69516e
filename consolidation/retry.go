package consolidation

import (
	"context"
	"log"
	"strings"
	"time"
)

const (
	// DefaultRetryAttempts количество попыток повтора по умолчанию
	DefaultRetryAttempts = 3
	// DefaultRetryDelay задержка между попытками по умолчанию
	DefaultRetryDelay = 100 * time.Millisecond
	// MaxRetryDelay максимальная задержка между попытками
	MaxRetryDelay = 2 * time.Second
)

// RetryConfig конфигурация для retry логики
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryConfig возвращает конфигурацию retry по умолчанию
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  DefaultRetryAttempts,
		InitialDelay: DefaultRetryDelay,
		MaxDelay:     MaxRetryDelay,
		Multiplier:   2.0,
	}
}

// RetryableFunc функция, которую можно повторить при ошибке
type RetryableFunc func() error

// IsRetryableError проверяет, можно ли повторить операцию при данной ошибке
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	retryableErrors := []string{
		"timeout",
		"connection",
		"temporary",
		"network",
		"deadline exceeded",
		"unexpected status code: 5",
		"busy",
	}

	for _, retryable := range retryableErrors {
		if strings.Contains(errStr, retryable) {
			return true
		}
	}

	return false
}

// RetryWithContext выполняет функцию с retry логикой и логированием.
// Прерывается при отмене контекста между попытками.
func RetryWithContext(ctx context.Context, fn RetryableFunc, config RetryConfig, operationName string) error {
	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 1 {
				log.Printf("[Retry] INFO: %s succeeded after %d attempts", operationName, attempt)
			}
			return nil
		}

		lastErr = err

		if !IsRetryableError(err) {
			log.Printf("[Retry] ERROR: %s failed with non-retryable error: %v", operationName, err)
			return err
		}

		if attempt < config.MaxAttempts {
			log.Printf("[Retry] WARN: %s failed (attempt %d/%d), retrying in %v: %v",
				operationName, attempt, config.MaxAttempts, delay, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * config.Multiplier)
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
		} else {
			log.Printf("[Retry] ERROR: %s failed after %d attempts: %v",
				operationName, config.MaxAttempts, err)
		}
	}

	return lastErr
}
