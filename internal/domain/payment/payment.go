package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents one payment attempt against the gateway.
type Payment struct {
	ID          int64
	Reference   string
	UserEmail   string
	Amount      decimal.Decimal
	Currency    string
	Channel     string
	Status      Status
	InitiatedAt time.Time
	CompletedAt *time.Time
}

// Status represents payment status as reported by the gateway.
type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusFailed     Status = "failed"
	StatusProcessing Status = "processing"
	StatusAbandoned  Status = "abandoned"
	StatusReversed   Status = "reversed"
	StatusUnknown    Status = "unknown"
)

// StatusFromGateway maps a gateway status string to a domain status.
// Unrecognized inputs map to StatusUnknown.
func StatusFromGateway(s string) Status {
	switch s {
	case "success":
		return StatusPaid
	case "failed":
		return StatusFailed
	case "processing":
		return StatusProcessing
	case "abandoned":
		return StatusAbandoned
	case "reversed":
		return StatusReversed
	default:
		return StatusUnknown
	}
}

// NewPending creates a payment in its initial state, before verification.
func NewPending(reference, userEmail string, amount decimal.Decimal) (*Payment, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, fmt.Errorf("transaction reference is required")
	}
	if strings.TrimSpace(userEmail) == "" {
		return nil, fmt.Errorf("user email is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount must be positive: %s", amount)
	}
	return &Payment{
		Reference:   reference,
		UserEmail:   userEmail,
		Amount:      amount,
		Status:      StatusPending,
		InitiatedAt: time.Now(),
	}, nil
}

// ApplyVerification overwrites the verifiable fields from a gateway verify
// response. The reference never changes; the transition is one-shot from
// pending to whatever the gateway reports.
func (p *Payment) ApplyVerification(status Status, channel, currency string, amount decimal.Decimal, completedAt *time.Time) {
	p.Status = status
	p.Channel = channel
	p.Currency = currency
	p.Amount = amount
	p.CompletedAt = completedAt
}

// IsTerminal reports whether the payment has left the pending state.
func (p *Payment) IsTerminal() bool {
	return p.Status != StatusPending
}
