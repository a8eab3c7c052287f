package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vilebranco/catalogo-be/internal/api/handlers"
	"github.com/vilebranco/catalogo-be/internal/services"
)

// NewRouter creates and configures a new Chi router for the catalog API and
// the static front-end.
func NewRouter(userService services.UserServiceProvider, productService services.ProductServiceProvider, webRoot string, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	// CORS is only needed when the front-end is served from another origin
	// (e.g. a dev server); in production it ships from this binary.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Errors the router produces itself use the same JSON envelope as the
	// handlers.
	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/list", productHandler.List)
		r.Get("/get", productHandler.Get)
		r.Post("/add", productHandler.Create)
		r.Put("/update", productHandler.Update)
		r.Patch("/toggle-active", productHandler.ToggleActive)
		r.Delete("/delete", productHandler.Delete)
	})

	// Static front-end
	if webRoot != "" {
		fs := http.FileServer(http.Dir(webRoot))
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/app/index.html", http.StatusFound)
		})
		r.Get("/app/*", fs.ServeHTTP)
	}

	return r
}
