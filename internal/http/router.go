package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"georag/internal/handlers"
	"georag/internal/service"
)

// requestTimeout bounds retrieval and answer generation per request.
const requestTimeout = 2 * time.Minute

// Deps holds dependencies for the HTTP router.
type Deps struct {
	QueryService   service.QueryService
	VectorStore    handlers.VectorChecker
	Graph          handlers.ConnectivityChecker // optional
	Recognizer     handlers.BreakerState        // optional
	CollectionName string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	retrieveHandler := handlers.NewRetrieveHandler(deps.QueryService)
	compareHandler := handlers.NewCompareHandler(deps.QueryService)
	askHandler := handlers.NewAskHandler(deps.QueryService)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.Graph, deps.Recognizer, deps.CollectionName)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Route("/v1", func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Method(http.MethodPost, "/retrieve", retrieveHandler)
			r.Method(http.MethodPost, "/compare", compareHandler)
			r.Method(http.MethodPost, "/ask", askHandler)
		})
	})

	return r
}
