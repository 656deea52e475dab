package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tausif1337/remart/internal/domain"
	"github.com/tausif1337/remart/internal/store"
	apperrors "github.com/tausif1337/remart/pkg/errors"
	"github.com/tausif1337/remart/pkg/httputil"
	"github.com/tausif1337/remart/pkg/validator"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	wishlist *store.WishlistStore
	logger   *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(wishlist *store.WishlistStore, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist, logger: logger}
}

// ToggleRequest is the JSON request body for toggling wishlist membership.
type ToggleRequest struct {
	Product ProductPayload `json:"product" validate:"required"`
}

// WishlistResponse is the wishlist payload with its derived selectors.
type WishlistResponse struct {
	Items    []domain.Product `json:"items"`
	Count    int              `json:"count"`
	Hydrated bool             `json:"hydrated"`
}

// ToggleResponse reports the membership state after a toggle.
type ToggleResponse struct {
	Wishlisted bool `json:"wishlisted"`
	WishlistResponse
}

func (h *WishlistHandler) wishlistResponse() WishlistResponse {
	items := h.wishlist.Items()
	return WishlistResponse{
		Items:    items,
		Count:    len(items),
		Hydrated: h.wishlist.Hydrated(),
	}
}

// GetWishlist handles GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.wishlistResponse()})
}

// Toggle handles POST /api/v1/wishlist/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	wishlisted := h.wishlist.Toggle(req.Product.toDomain())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ToggleResponse{
		Wishlisted:       wishlisted,
		WishlistResponse: h.wishlistResponse(),
	}})
}

// Remove handles DELETE /api/v1/wishlist/{productId}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("product id is required"), h.logger)
		return
	}

	h.wishlist.Remove(productID)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.wishlistResponse()})
}

// Clear handles DELETE /api/v1/wishlist
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.wishlist.Clear()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.wishlistResponse()})
}
