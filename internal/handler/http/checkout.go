package http

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/tausif1337/remart/internal/catalog"
	"github.com/tausif1337/remart/internal/checkout"
	"github.com/tausif1337/remart/internal/domain"
	"github.com/tausif1337/remart/internal/payment"
	apperrors "github.com/tausif1337/remart/pkg/errors"
	"github.com/tausif1337/remart/pkg/httputil"
	pkgmiddleware "github.com/tausif1337/remart/pkg/middleware"
	"github.com/tausif1337/remart/pkg/validator"
)

// RedirectClassifier maps a webview navigation URL to a payment outcome.
type RedirectClassifier interface {
	ClassifyRedirect(rawURL string) payment.Outcome
}

// CheckoutHandler serves checkout and order history endpoints.
type CheckoutHandler struct {
	checkout   *checkout.Service
	classifier RedirectClassifier
	orders     catalog.OrderRepository
	logger     *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(
	svc *checkout.Service,
	classifier RedirectClassifier,
	orders catalog.OrderRepository,
	logger *slog.Logger,
) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc, classifier: classifier, orders: orders, logger: logger}
}

// BeginCheckoutRequest is the JSON request body for starting a checkout.
type BeginCheckoutRequest struct {
	CustomerInfo domain.CustomerInfo `json:"customer_info"`
}

// CallbackRequest reports a webview terminal redirect. The presentation
// layer observes the navigation and posts the URL it landed on.
type CallbackRequest struct {
	TranID      string `json:"tran_id" validate:"required"`
	RedirectURL string `json:"redirect_url" validate:"required"`
}

// CallbackResponse is the terminal state of a completed callback.
type CallbackResponse struct {
	Outcome string        `json:"outcome"`
	Order   *domain.Order `json:"order,omitempty"`
}

// Begin handles POST /api/v1/checkout (authenticated).
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	userID := pkgmiddleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	var req BeginCheckoutRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.checkout.Begin(r.Context(), userID, req.CustomerInfo)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Callback handles POST /api/v1/checkout/callback. Unauthenticated: the
// webview may fire it after the session cookie context is gone; the tran_id
// is the capability.
func (h *CheckoutHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var req CallbackRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if _, err := url.Parse(req.RedirectURL); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("malformed redirect URL"), h.logger)
		return
	}

	outcome := h.classifier.ClassifyRedirect(req.RedirectURL)
	if outcome == payment.OutcomeUnknown {
		httputil.WriteError(w, r, apperrors.InvalidInput("redirect URL is not a terminal payment state"), h.logger)
		return
	}

	order, err := h.checkout.Complete(r.Context(), outcome, req.TranID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CallbackResponse{
		Outcome: outcome.String(),
		Order:   order,
	}})
}

// ListOrders handles GET /api/v1/orders (authenticated).
func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := pkgmiddleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	orders, err := h.orders.ListByUser(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}

// CancelOrder handles POST /api/v1/orders/{id}/cancel (authenticated).
func (h *CheckoutHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID := pkgmiddleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	orderID := chi.URLParam(r, "id")
	order, err := h.orders.Cancel(r.Context(), orderID, userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}
