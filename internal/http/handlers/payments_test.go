package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"paygate/internal/auth"
	"paygate/internal/domain/payment"
	"paygate/internal/domain/user"
	"paygate/internal/gateway/paystack"
	paymentsvc "paygate/internal/services/payment"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceMock struct{ mock.Mock }

func (m *serviceMock) Initiate(ctx context.Context, req paymentsvc.InitiateRequest) (*paymentsvc.InitiateResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*paymentsvc.InitiateResponse)
	return res, args.Error(1)
}

func (m *serviceMock) Verify(ctx context.Context, reference string) (*paymentsvc.VerifyResponse, error) {
	args := m.Called(ctx, reference)
	res, _ := args.Get(0).(*paymentsvc.VerifyResponse)
	return res, args.Error(1)
}

type listRepoMock struct{ mock.Mock }

func (m *listRepoMock) Save(ctx context.Context, p *payment.Payment) error { return nil }
func (m *listRepoMock) FindByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	return nil, nil
}
func (m *listRepoMock) FindByUserEmail(ctx context.Context, email string) (*payment.Payment, error) {
	return nil, nil
}
func (m *listRepoMock) ApplyVerification(ctx context.Context, p *payment.Payment) error { return nil }

func (m *listRepoMock) ListByUserEmail(ctx context.Context, email string, limit, offset int) ([]*payment.Payment, error) {
	args := m.Called(ctx, email, limit, offset)
	rows, _ := args.Get(0).([]*payment.Payment)
	return rows, args.Error(1)
}

func TestInitiatePayment(t *testing.T) {
	mkReq := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/initiate", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	t.Run("invalid json", func(t *testing.T) {
		rr := httptest.NewRecorder()
		InitiatePayment(new(serviceMock)).ServeHTTP(rr, mkReq("{"))
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		rr := httptest.NewRecorder()
		InitiatePayment(new(serviceMock)).ServeHTTP(rr, mkReq(`{"amount":"0"}`))
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("success", func(t *testing.T) {
		svc := new(serviceMock)
		svc.On("Initiate", mock.Anything, paymentsvc.InitiateRequest{Amount: decimal.RequireFromString("5000")}).
			Return(&paymentsvc.InitiateResponse{
				AuthorizationURL: "https://checkout.example/abc",
				Reference:        "ref_abc",
			}, nil)

		rr := httptest.NewRecorder()
		InitiatePayment(svc).ServeHTTP(rr, mkReq(`{"amount":"5000"}`))
		require.Equal(t, http.StatusOK, rr.Code)

		var got map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Equal(t, "https://checkout.example/abc", got["authorization_url"])
		require.Equal(t, "ref_abc", got["reference"])
	})

	t.Run("gateway failure forwards upstream status and body", func(t *testing.T) {
		svc := new(serviceMock)
		svc.On("Initiate", mock.Anything, mock.Anything).
			Return(nil, &paystack.GatewayError{
				StatusCode: http.StatusPaymentRequired,
				Body:       []byte(`{"message":"Insufficient permissions"}`),
			})

		rr := httptest.NewRecorder()
		InitiatePayment(svc).ServeHTTP(rr, mkReq(`{"amount":"5000"}`))
		require.Equal(t, http.StatusPaymentRequired, rr.Code)
		require.JSONEq(t, `{"message":"Insufficient permissions"}`, rr.Body.String())
	})

	t.Run("not authenticated", func(t *testing.T) {
		svc := new(serviceMock)
		svc.On("Initiate", mock.Anything, mock.Anything).Return(nil, user.ErrNotAuthenticated)

		rr := httptest.NewRecorder()
		InitiatePayment(svc).ServeHTTP(rr, mkReq(`{"amount":"5000"}`))
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestVerifyPayment(t *testing.T) {
	mount := func(svc PaymentService) *chi.Mux {
		r := chi.NewRouter()
		r.Get("/verify/{reference}", VerifyPayment(svc))
		return r
	}

	t.Run("success", func(t *testing.T) {
		svc := new(serviceMock)
		svc.On("Verify", mock.Anything, "ref_abc").Return(&paymentsvc.VerifyResponse{
			Reference: "ref_abc",
			Status:    "success",
			Currency:  "NGN",
			Channel:   "card",
			PaidAt:    "2026-03-04T12:30:00Z",
			Amount:    "500000",
		}, nil)

		rr := httptest.NewRecorder()
		mount(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/verify/ref_abc", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var got map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Equal(t, "success", got["status"])
		require.Equal(t, "500000", got["amount"])
	})

	t.Run("gateway failure surfaces upstream status", func(t *testing.T) {
		svc := new(serviceMock)
		svc.On("Verify", mock.Anything, "ref_abc").
			Return(nil, &paystack.GatewayError{StatusCode: http.StatusNotFound, Body: []byte(`{"message":"not found"}`)})

		rr := httptest.NewRecorder()
		mount(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/verify/ref_abc", nil))
		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("not authenticated", func(t *testing.T) {
		svc := new(serviceMock)
		svc.On("Verify", mock.Anything, "ref_abc").Return(nil, user.ErrNotAuthenticated)

		rr := httptest.NewRecorder()
		mount(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/verify/ref_abc", nil))
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestListPayments(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		rr := httptest.NewRecorder()
		ListPayments(new(listRepoMock)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("returns caller's payments", func(t *testing.T) {
		repo := new(listRepoMock)
		stored, err := payment.NewPending("ref_abc", "user@example.com", decimal.NewFromInt(5000))
		require.NoError(t, err)
		repo.On("ListByUserEmail", mock.Anything, "user@example.com", 50, 0).
			Return([]*payment.Payment{stored}, nil)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(auth.WithUser(req.Context(), user.User{ID: "u1", Email: "user@example.com"}))

		rr := httptest.NewRecorder()
		ListPayments(repo).ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Contains(t, rr.Body.String(), "ref_abc")
	})
}
