package repositories

import (
	"context"
	"errors"

	"paygate/internal/domain/payment"
)

// ErrPaymentNotFound is returned when no payment matches the lookup key.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepository defines the contract for payment data access
type PaymentRepository interface {
	// Save upserts a payment keyed by its transaction reference.
	Save(ctx context.Context, payment *payment.Payment) error
	FindByReference(ctx context.Context, reference string) (*payment.Payment, error)
	// FindByUserEmail returns the caller's most recently initiated payment.
	FindByUserEmail(ctx context.Context, email string) (*payment.Payment, error)
	ListByUserEmail(ctx context.Context, email string, limit, offset int) ([]*payment.Payment, error)
	// ApplyVerification overwrites status, channel, completed_at, amount and
	// currency for an already stored payment.
	ApplyVerification(ctx context.Context, payment *payment.Payment) error
}
