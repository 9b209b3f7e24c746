package httpx

import (
	"encoding/json"
	"net/http"

	"paygate/internal/config"
	"paygate/internal/http/handlers"
	middlewarex "paygate/internal/http/middleware"
	"paygate/internal/store/repositories"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterDependencies holds everything the HTTP surface needs.
type RouterDependencies struct {
	Config         config.Cfg
	PaymentService handlers.PaymentService
	PaymentRepo    repositories.PaymentRepository
}

func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	// Health check (public)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	})

	// Payment operations (bearer-token protected)
	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Use(middlewarex.BearerAuth(deps.Config.Auth))

		r.Post("/initiate", handlers.InitiatePayment(deps.PaymentService))
		r.Get("/verify/{reference}", handlers.VerifyPayment(deps.PaymentService))
		r.Get("/", handlers.ListPayments(deps.PaymentRepo))
	})

	return r
}
