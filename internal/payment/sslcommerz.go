// Package payment implements the hosted payment gateway client. Checkout
// creates a gateway session from the cart totals, the shopper completes
// payment on the gateway's hosted page, and the webview's terminal redirect
// reports the outcome.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/tausif1337/remart/internal/domain"
	apperrors "github.com/tausif1337/remart/pkg/errors"
	"github.com/tausif1337/remart/pkg/httpclient"
)

const (
	sessionPath   = "/gwprocess/v4/api.php"
	validatorPath = "/validator/api/validationserverAPI.php"

	// The gateway truncates long product name lists; send at most the first
	// ten names and cap the joined string at 100 characters.
	maxProductNames   = 10
	maxProductNameLen = 100
)

// Outcome is the terminal state reported by the gateway's redirect.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSuccess
	OutcomeFail
	OutcomeCancel
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFail:
		return "fail"
	case OutcomeCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Config holds gateway credentials and the deep-link redirect URLs the
// hosted page navigates to on completion.
type Config struct {
	BaseURL       string
	StoreID       string
	StorePassword string
	Currency      string

	SuccessURL string
	FailURL    string
	CancelURL  string
}

// SessionRequest is the input to InitiateSession.
type SessionRequest struct {
	TranID   string
	Amount   float64
	Customer domain.CustomerInfo
	Items    []domain.CartItem
}

// Session is an initiated gateway session. The shopper is sent to GatewayURL.
type Session struct {
	SessionKey string `json:"session_key"`
	GatewayURL string `json:"gateway_url"`
}

// Client talks to the SSLCommerz-style hosted gateway. Requests go through
// the shared retrying HTTP client behind a circuit breaker.
type Client struct {
	cfg    Config
	http   *httpclient.CircuitBreakerClient
	logger *slog.Logger
}

// NewClient creates a gateway client.
func NewClient(cfg Config, http *httpclient.CircuitBreakerClient, logger *slog.Logger) *Client {
	return &Client{cfg: cfg, http: http, logger: logger}
}

// sessionResponse is the gateway's session init payload.
type sessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

// InitiateSession creates a payment session for the given transaction and
// returns the hosted page URL to redirect the shopper to.
func (c *Client) InitiateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	form := c.sessionForm(req)

	resp, err := c.http.Post(ctx, c.cfg.BaseURL+sessionPath,
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperrors.Wrap(err, "initiate gateway session")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, httpclient.ParseResponseError(resp, "payment gateway")
	}

	var body sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	if strings.EqualFold(body.Status, "FAILED") {
		c.logger.WarnContext(ctx, "gateway rejected session",
			slog.String("tran_id", req.TranID),
			slog.String("reason", body.FailedReason),
		)
		return nil, apperrors.PaymentFailed("gateway rejected session: " + body.FailedReason)
	}
	if body.SessionKey == "" && body.GatewayPageURL == "" {
		return nil, apperrors.PaymentFailed("gateway returned no session")
	}

	c.logger.InfoContext(ctx, "gateway session initiated",
		slog.String("tran_id", req.TranID),
		slog.String("session_key", body.SessionKey),
	)

	return &Session{SessionKey: body.SessionKey, GatewayURL: body.GatewayPageURL}, nil
}

// sessionForm builds the form-encoded session request.
func (c *Client) sessionForm(req SessionRequest) url.Values {
	cus := req.Customer

	form := url.Values{}
	form.Set("store_id", c.cfg.StoreID)
	form.Set("store_passwd", c.cfg.StorePassword)
	form.Set("total_amount", fmt.Sprintf("%.2f", req.Amount))
	form.Set("currency", c.cfg.Currency)
	form.Set("tran_id", req.TranID)
	form.Set("success_url", c.cfg.SuccessURL)
	form.Set("fail_url", c.cfg.FailURL)
	form.Set("cancel_url", c.cfg.CancelURL)
	form.Set("shipping_method", "Courier")
	form.Set("product_name", productNames(req.Items))
	form.Set("product_category", productCategory(req.Items))
	form.Set("product_profile", "general")
	form.Set("num_of_item", strconv.Itoa(len(req.Items)))

	form.Set("cus_name", cus.FullName())
	form.Set("cus_email", cus.Email)
	form.Set("cus_add1", cus.Address)
	form.Set("cus_city", cus.City)
	form.Set("cus_state", cus.State)
	form.Set("cus_postcode", cus.ZipCode)
	form.Set("cus_country", cus.Country)
	form.Set("cus_phone", cus.Phone)

	form.Set("ship_name", cus.FullName())
	form.Set("ship_add1", cus.Address)
	form.Set("ship_city", cus.City)
	form.Set("ship_state", cus.State)
	form.Set("ship_postcode", cus.ZipCode)
	form.Set("ship_country", cus.Country)

	return form
}

// productNames joins the first ten item names, capped at 100 characters.
func productNames(items []domain.CartItem) string {
	names := make([]string, 0, maxProductNames)
	for i, item := range items {
		if i == maxProductNames {
			break
		}
		names = append(names, item.Name)
	}

	joined := strings.Join(names, ", ")
	if len(joined) > maxProductNameLen {
		joined = joined[:maxProductNameLen]
	}
	if joined == "" {
		joined = "Order"
	}
	return joined
}

func productCategory(items []domain.CartItem) string {
	if len(items) > 0 && items[0].Category != "" {
		return items[0].Category
	}
	return "general"
}

// validationResponse is the validator API payload.
type validationResponse struct {
	Status   string `json:"status"`
	TranID   string `json:"tran_id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// Validate confirms a transaction with the gateway's validator API after a
// success redirect. Only VALID or VALIDATED counts as paid.
func (c *Client) Validate(ctx context.Context, tranID string, amount float64, currency string) error {
	form := url.Values{}
	form.Set("store_id", c.cfg.StoreID)
	form.Set("store_passwd", c.cfg.StorePassword)
	form.Set("tran_id", tranID)
	form.Set("format", "json")

	resp, err := c.http.Post(ctx, c.cfg.BaseURL+validatorPath,
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return apperrors.Wrap(err, "validate payment")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return httpclient.ParseResponseError(resp, "payment gateway")
	}

	var body validationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode validation response: %w", err)
	}

	switch strings.ToUpper(body.Status) {
	case "VALID", "VALIDATED":
	default:
		return apperrors.PaymentFailed("payment not validated: " + body.Status)
	}

	if body.Amount != "" {
		paid, err := strconv.ParseFloat(body.Amount, 64)
		if err != nil || paid+0.005 < amount {
			return apperrors.PaymentFailed("validated amount does not cover order total")
		}
	}
	if body.Currency != "" && currency != "" && !strings.EqualFold(body.Currency, currency) {
		return apperrors.PaymentFailed("validated currency mismatch")
	}

	return nil
}

// ClassifyRedirect maps a webview navigation URL onto the terminal outcome
// by matching the configured success/fail/cancel deep links. URLs outside
// those prefixes are OutcomeUnknown and should be ignored by the caller.
func (c *Client) ClassifyRedirect(rawURL string) Outcome {
	switch {
	case matchesRedirect(rawURL, c.cfg.SuccessURL):
		return OutcomeSuccess
	case matchesRedirect(rawURL, c.cfg.FailURL):
		return OutcomeFail
	case matchesRedirect(rawURL, c.cfg.CancelURL):
		return OutcomeCancel
	default:
		return OutcomeUnknown
	}
}

func matchesRedirect(rawURL, target string) bool {
	return target != "" && strings.HasPrefix(rawURL, target)
}
