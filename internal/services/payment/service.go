package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"paygate/internal/auth"
	"paygate/internal/domain/payment"
	"paygate/internal/gateway/paystack"
	"paygate/internal/store/repositories"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// paidAtLayout is the gateway's paid_at timestamp with the trailing zone
// marker stripped.
const paidAtLayout = "2006-01-02T15:04:05"

// Gateway is the slice of the payment gateway this service needs.
type Gateway interface {
	InitializeTransaction(ctx context.Context, email string, amount decimal.Decimal) (*paystack.InitResult, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.VerifyResult, error)
}

// Service orchestrates payment initiation and verification against the
// gateway and the local store.
type Service struct {
	resolver auth.Resolver
	gateway  Gateway
	payments repositories.PaymentRepository
}

func NewService(resolver auth.Resolver, gateway Gateway, payments repositories.PaymentRepository) *Service {
	return &Service{resolver: resolver, gateway: gateway, payments: payments}
}

type InitiateRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type InitiateResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

// VerifyResponse mirrors the gateway's settled view of the transaction,
// independent of whether a stored record was updated.
type VerifyResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Currency  string `json:"currency"`
	Channel   string `json:"channel"`
	PaidAt    string `json:"paid_at"`
	Amount    string `json:"amount"`
}

// Initiate opens a transaction with the gateway for the current user and
// records it as pending. Gateway failures propagate unchanged, and no
// record is written on failure.
func (s *Service) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	u, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(strings.ReplaceAll(u.Email, `"`, ""))
	res, err := s.gateway.InitializeTransaction(ctx, email, req.Amount)
	if err != nil {
		return nil, err
	}

	p, err := payment.NewPending(res.Reference, u.Email, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("build pending payment: %w", err)
	}
	if err := s.payments.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save pending payment: %w", err)
	}

	log.Info().
		Str("reference", res.Reference).
		Str("user_email", u.Email).
		Str("amount", req.Amount.String()).
		Msg("payment initiated")

	return &InitiateResponse{
		AuthorizationURL: res.AuthorizationURL,
		Reference:        res.Reference,
	}, nil
}

// Verify queries the gateway for the settled state of a transaction and
// overwrites the stored record. A missing record is not an error; the
// gateway's answer is returned either way.
func (s *Service) Verify(ctx context.Context, reference string) (*VerifyResponse, error) {
	if _, err := s.resolver.Resolve(ctx); err != nil {
		return nil, err
	}

	res, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		var gwErr *paystack.GatewayError
		if errors.As(err, &gwErr) {
			log.Error().
				Int("status_code", gwErr.StatusCode).
				Str("body", string(gwErr.Body)).
				Str("reference", reference).
				Msg("failed to verify payment")
		}
		return nil, err
	}

	if err := s.applyVerification(ctx, res); err != nil {
		return nil, err
	}

	return &VerifyResponse{
		Reference: res.Reference,
		Status:    res.Status,
		Currency:  res.Currency,
		Channel:   res.Channel,
		PaidAt:    res.PaidAt,
		Amount:    decimal.NewFromInt(res.Amount).String(),
	}, nil
}

func (s *Service) applyVerification(ctx context.Context, res *paystack.VerifyResult) error {
	p, err := s.payments.FindByReference(ctx, res.Reference)
	if errors.Is(err, repositories.ErrPaymentNotFound) {
		log.Debug().Str("reference", res.Reference).Msg("no stored payment to update")
		return nil
	}
	if err != nil {
		return fmt.Errorf("find payment %s: %w", res.Reference, err)
	}

	p.ApplyVerification(
		payment.StatusFromGateway(res.Status),
		res.Channel,
		res.Currency,
		decimal.NewFromInt(res.Amount),
		parsePaidAt(res.PaidAt),
	)
	if err := s.payments.ApplyVerification(ctx, p); err != nil {
		return fmt.Errorf("update payment %s: %w", res.Reference, err)
	}
	return nil
}

// parsePaidAt handles the gateway's paid_at value, which arrives with a
// trailing "Z" but no offset semantics worth preserving. An empty or
// unparseable value leaves the completion time unset.
func parsePaidAt(paidAt string) *time.Time {
	if paidAt == "" {
		return nil
	}
	t, err := time.Parse(paidAtLayout, strings.TrimSuffix(paidAt, "Z"))
	if err != nil {
		log.Warn().Str("paid_at", paidAt).Msg("unparseable paid_at from gateway")
		return nil
	}
	return &t
}
