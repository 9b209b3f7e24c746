package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"paygate/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// channels is the fixed set of payment channels offered on every
// initialization.
var channels = []string{"card", "bank", "ussd", "qr", "bank_transfer"}

var minorUnitFactor = decimal.NewFromInt(100)

// Client talks to the Paystack transaction API.
type Client struct {
	cfg  config.PaystackCfg
	http *http.Client
}

func New(cfg config.PaystackCfg) *Client {
	timeout := cfg.TimeoutSec
	if timeout == 0 {
		timeout = 15
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: time.Duration(timeout) * time.Second}}
}

// GatewayError carries a non-2xx gateway response verbatim. Status code and
// body are forwarded to callers unchanged.
type GatewayError struct {
	StatusCode int
	Body       []byte
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, string(e.Body))
}

// InitResult is the useful part of a successful initialize response.
type InitResult struct {
	AuthorizationURL string
	Reference        string
}

// VerifyResult is the settled transaction state as reported by the gateway.
// Amount is in minor units, exactly as transmitted on the wire.
type VerifyResult struct {
	Reference string
	Status    string
	Currency  string
	Channel   string
	PaidAt    string
	Amount    int64
}

// InitializeTransaction asks the gateway to open a transaction for the given
// email and major-unit amount. The amount is converted to minor units before
// transmission.
func (c *Client) InitializeTransaction(ctx context.Context, email string, amount decimal.Decimal) (*InitResult, error) {
	payload := map[string]any{
		"email":    email,
		"amount":   amount.Mul(minorUnitFactor).IntPart(),
		"channels": channels,
	}
	b, _ := json.Marshal(payload)

	url := c.cfg.BaseURL + "/transaction/initialize"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build initialize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("initialize transaction: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read initialize response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &GatewayError{StatusCode: res.StatusCode, Body: body}
	}

	var out struct {
		Data struct {
			AuthorizationURL string `json:"authorization_url"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode initialize response: %w", err)
	}

	log.Info().
		Str("reference", out.Data.Reference).
		Str("authorization_url", out.Data.AuthorizationURL).
		Msg("transaction initialized")

	return &InitResult{
		AuthorizationURL: out.Data.AuthorizationURL,
		Reference:        out.Data.Reference,
	}, nil
}

// VerifyTransaction queries the settled state of a previously initialized
// transaction.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error) {
	url := c.cfg.BaseURL + "/transaction/verify/" + reference
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify transaction: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read verify response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &GatewayError{StatusCode: res.StatusCode, Body: body}
	}

	var out struct {
		Data struct {
			Reference string `json:"reference"`
			Status    string `json:"status"`
			Currency  string `json:"currency"`
			Channel   string `json:"channel"`
			PaidAt    string `json:"paid_at"`
			Amount    int64  `json:"amount"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}

	return &VerifyResult{
		Reference: out.Data.Reference,
		Status:    out.Data.Status,
		Currency:  out.Data.Currency,
		Channel:   out.Data.Channel,
		PaidAt:    out.Data.PaidAt,
		Amount:    out.Data.Amount,
	}, nil
}
