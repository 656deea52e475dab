package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tausif1337/remart/internal/catalog"
	"github.com/tausif1337/remart/internal/domain"
	"github.com/tausif1337/remart/internal/store"
	apperrors "github.com/tausif1337/remart/pkg/errors"
	"github.com/tausif1337/remart/pkg/httputil"
	pkgmiddleware "github.com/tausif1337/remart/pkg/middleware"
	"github.com/tausif1337/remart/pkg/pagination"
	"github.com/tausif1337/remart/pkg/slug"
	"github.com/tausif1337/remart/pkg/validator"
)

// CatalogHandler serves product browsing and review endpoints.
type CatalogHandler struct {
	products catalog.ProductRepository
	reviews  catalog.ReviewRepository
	wishlist *store.WishlistStore
	logger   *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(
	products catalog.ProductRepository,
	reviews catalog.ReviewRepository,
	wishlist *store.WishlistStore,
	logger *slog.Logger,
) *CatalogHandler {
	return &CatalogHandler{products: products, reviews: reviews, wishlist: wishlist, logger: logger}
}

// ProductDetail is a product plus its wishlist membership selector.
type ProductDetail struct {
	domain.Product
	Wishlisted bool `json:"wishlisted"`
}

// AddReviewRequest is the JSON request body for submitting a review.
type AddReviewRequest struct {
	Rating  float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string  `json:"comment" validate:"required,min=1,max=2000"`
	Name    string  `json:"name" validate:"required,min=1,max=100"`
	Image   string  `json:"image"`
}

// ListProducts handles GET /api/v1/products. Supports an optional category
// filter (matched by slug) and pagination.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if category := r.URL.Query().Get("category"); category != "" {
		want := slug.Generate(category)
		filtered := products[:0]
		for _, p := range products {
			if slug.Generate(p.Category) == want {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	params := pagination.FromRequest(r)
	total := len(products)

	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.PerPage
	if end > total {
		end = total
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(products[start:end], total, params),
	})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ProductDetail{
		Product:    *product,
		Wishlisted: h.wishlist.IsWishlisted(id),
	}})
}

// ListReviews handles GET /api/v1/products/{id}/reviews
func (h *CatalogHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	reviews, err := h.reviews.ListByProduct(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// AddReview handles POST /api/v1/products/{id}/reviews (authenticated).
func (h *CatalogHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	if pkgmiddleware.UserIDFromContext(r.Context()) == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	var req AddReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.reviews.Add(r.Context(), domain.Review{
		ProductID: productID,
		UserName:  req.Name,
		UserImage: req.Image,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}
