package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"paygate/internal/auth"
	"paygate/internal/domain/user"
	"paygate/internal/gateway/paystack"
	paymentsvc "paygate/internal/services/payment"
	"paygate/internal/store/repositories"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PaymentService is the orchestration surface the handlers depend on.
type PaymentService interface {
	Initiate(ctx context.Context, req paymentsvc.InitiateRequest) (*paymentsvc.InitiateResponse, error)
	Verify(ctx context.Context, reference string) (*paymentsvc.VerifyResponse, error)
}

type initiateReq struct {
	Amount decimal.Decimal `json:"amount"`
}

func InitiatePayment(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in initiateReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if in.Amount.LessThanOrEqual(decimal.Zero) {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}

		// Short, bounded context for the gateway round trip
		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()

		out, err := svc.Initiate(ctx, paymentsvc.InitiateRequest{Amount: in.Amount})
		if err != nil {
			writePaymentError(w, err, "payment initiation failed")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

func VerifyPayment(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reference := chi.URLParam(r, "reference")
		if reference == "" {
			http.Error(w, "missing reference", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()

		out, err := svc.Verify(ctx, reference)
		if err != nil {
			writePaymentError(w, err, "payment verification failed")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

func ListPayments(repo repositories.PaymentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := auth.UserFromContext(r.Context())
		if !ok {
			http.Error(w, "not authorized", http.StatusUnauthorized)
			return
		}
		limit := 50
		offset := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
				limit = n
			}
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}
		rows, err := repo.ListByUserEmail(r.Context(), u.Email, limit, offset)
		if err != nil {
			log.Error().Err(err).Str("user_email", u.Email).Msg("list payments failed")
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": rows})
	}
}

// writePaymentError maps service errors onto the wire. Gateway failures are
// forwarded with the upstream status and body verbatim.
func writePaymentError(w http.ResponseWriter, err error, logMsg string) {
	var gwErr *paystack.GatewayError
	switch {
	case errors.Is(err, user.ErrNotAuthenticated):
		http.Error(w, "not authorized", http.StatusUnauthorized)
	case errors.As(err, &gwErr):
		log.Error().Int("status_code", gwErr.StatusCode).Msg(logMsg)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(gwErr.StatusCode)
		_, _ = w.Write(gwErr.Body)
	default:
		log.Error().Err(err).Msg(logMsg)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
