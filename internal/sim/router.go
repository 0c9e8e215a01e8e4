package sim

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter registers the HTTP surface and returns the handler with
// middleware. The API lives under /api/v1; health is served at the origin
// root.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(WithRequestID)
	r.Use(WithLogging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Get("/openapi.yaml", s.openapiSpec)
	r.Get("/docs", s.docs)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users/register", s.register)
		r.Post("/users/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/users/me", s.me)
			r.Put("/users/me", s.updateMe)

			r.Get("/products", s.listProducts)
			r.Post("/products", s.createProduct)
			r.Get("/products/{id}", s.getProduct)
			r.Put("/products/{id}", s.updateProduct)
			r.Delete("/products/{id}", s.deleteProduct)
			r.Post("/products/{id}/scrape", s.scrapeProduct)

			r.Get("/prices", s.listPrices)
			r.Get("/prices/product/{id}/history", s.priceHistory)
			r.Get("/prices/alerts/price-drops", s.priceDrops)
			r.Get("/prices/trends/popular", s.popularTrends)

			r.Get("/monitoring/alerts", s.listAlerts)
			r.Post("/monitoring/alerts", s.createAlert)
			r.Put("/monitoring/alerts/{id}", s.updateAlert)
			r.Delete("/monitoring/alerts/{id}", s.deleteAlert)

			r.Post("/search", s.search)
		})
	})
	return r
}
