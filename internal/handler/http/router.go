package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tausif1337/remart/internal/auth"
	"github.com/tausif1337/remart/internal/catalog"
	"github.com/tausif1337/remart/internal/checkout"
	"github.com/tausif1337/remart/internal/hydrate"
	"github.com/tausif1337/remart/internal/store"
	"github.com/tausif1337/remart/pkg/health"
	"github.com/tausif1337/remart/pkg/middleware"
)

// Deps bundles everything the router serves.
type Deps struct {
	Cart        *store.CartStore
	Wishlist    *store.WishlistStore
	Coordinator *hydrate.Coordinator
	Checkout    *checkout.Service
	Classifier  RedirectClassifier
	Products    catalog.ProductRepository
	Reviews     catalog.ReviewRepository
	Orders      catalog.OrderRepository
	Verifier    auth.TokenVerifier
	Health      *health.Handler
	Logger      *slog.Logger
	CORS        middleware.CORSConfig
	PprofCIDRs  []string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(d.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(d.CORS))
	r.Use(middleware.RequestLogging(d.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(d.Logger))

	// Health check endpoints
	r.Get("/health/live", d.Health.LivenessHandler())
	r.Get("/health/ready", d.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, d.PprofCIDRs, d.Logger)

	cartHandler := NewCartHandler(d.Cart, d.Logger)
	wishlistHandler := NewWishlistHandler(d.Wishlist, d.Logger)
	catalogHandler := NewCatalogHandler(d.Products, d.Reviews, d.Wishlist, d.Logger)
	checkoutHandler := NewCheckoutHandler(d.Checkout, d.Classifier, d.Orders, d.Logger)

	requireAuth := auth.Middleware(d.Verifier, d.Logger)
	gate := HydrationGate(d.Coordinator, d.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Catalog browsing is read-only remote data; no hydration gate.
		r.Route("/products", func(r chi.Router) {
			r.With(middleware.CacheControl(300)).Get("/", catalogHandler.ListProducts)
			r.With(middleware.CacheControl(300)).Get("/{id}", catalogHandler.GetProduct)
			r.Get("/{id}/reviews", catalogHandler.ListReviews)
			r.With(requireAuth).Post("/{id}/reviews", catalogHandler.AddReview)
		})

		// Cart and wishlist mutations wait for hydration; reads serve the
		// current (possibly pre-hydration) state with the hydrated flag.
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)

			r.Group(func(r chi.Router) {
				r.Use(gate)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{productId}", cartHandler.UpdateItemQuantity)
				r.Delete("/items/{productId}", cartHandler.RemoveItem)
			})
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.GetWishlist)

			r.Group(func(r chi.Router) {
				r.Use(gate)
				r.Delete("/", wishlistHandler.Clear)
				r.Post("/toggle", wishlistHandler.Toggle)
				r.Delete("/{productId}", wishlistHandler.Remove)
			})
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(gate)
			r.With(requireAuth).Post("/", checkoutHandler.Begin)
			r.Post("/callback", checkoutHandler.Callback)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", checkoutHandler.ListOrders)
			r.Post("/{id}/cancel", checkoutHandler.CancelOrder)
		})
	})

	return r
}
