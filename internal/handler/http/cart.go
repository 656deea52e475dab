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

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	cart   *store.CartStore
	logger *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(cart *store.CartStore, logger *slog.Logger) *CartHandler {
	return &CartHandler{cart: cart, logger: logger}
}

// --- Request DTOs ---

// ProductPayload is the full product snapshot carried by add/toggle
// requests. The presentation layer fetched it from the catalog; the stores
// never fetch products themselves.
type ProductPayload struct {
	ID             string                 `json:"id" validate:"required"`
	Name           string                 `json:"name" validate:"required,min=1,max=500"`
	Price          float64                `json:"price" validate:"gte=0"`
	Category       string                 `json:"category"`
	Image          string                 `json:"image"`
	Rating         float64                `json:"rating" validate:"gte=0,lte=5"`
	Description    string                 `json:"description"`
	Specifications []domain.Specification `json:"specifications"`
	Stock          int                    `json:"stock" validate:"gte=0"`
}

func (p ProductPayload) toDomain() domain.Product {
	return domain.Product{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		Category:       p.Category,
		Image:          p.Image,
		Rating:         p.Rating,
		Description:    p.Description,
		Specifications: p.Specifications,
		Stock:          p.Stock,
	}
}

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	Product  ProductPayload `json:"product" validate:"required"`
	Quantity int            `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityRequest is the JSON request body for updating an item's
// quantity. Zero routes to removal.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// CartResponse is the cart payload with its derived selectors.
type CartResponse struct {
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     float64           `json:"total"`
	Hydrated  bool              `json:"hydrated"`
}

func (h *CartHandler) cartResponse() CartResponse {
	items := h.cart.Items()
	return CartResponse{
		Items:     items,
		ItemCount: domain.CartItemCount(items),
		Total:     domain.CartTotal(items),
		Hydrated:  h.cart.Hydrated(),
	}
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.cartResponse()})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	h.cart.Add(req.Product.toDomain(), req.Quantity)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.cartResponse()})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("product id is required"), h.logger)
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	h.cart.UpdateQuantity(productID, req.Quantity)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.cartResponse()})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("product id is required"), h.logger)
		return
	}

	h.cart.Remove(productID)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.cartResponse()})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.cartResponse()})
}
