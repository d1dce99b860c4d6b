package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trigardening/trigardening/internal/addresses"
	"github.com/trigardening/trigardening/internal/auth"
	"github.com/trigardening/trigardening/internal/blogs"
	"github.com/trigardening/trigardening/internal/catalog/categories"
	"github.com/trigardening/trigardening/internal/catalog/products"
	"github.com/trigardening/trigardening/internal/catalog/tags"
	"github.com/trigardening/trigardening/internal/observability"
	"github.com/trigardening/trigardening/internal/orders"
	"github.com/trigardening/trigardening/internal/reviews"
	"github.com/trigardening/trigardening/internal/settings"
	"github.com/trigardening/trigardening/internal/shared"
	"github.com/trigardening/trigardening/internal/users"
	"github.com/trigardening/trigardening/jobs"
)

// RouterConfig carries every handler the HTTP surface mounts.
type RouterConfig struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics

	Guard      auth.Middleware
	Auth       *auth.Handler
	Categories *categories.Handler
	Tags       *tags.Handler
	Products   *products.Handler
	Blogs      *blogs.Handler
	Reviews    *reviews.Handler
	Orders     *orders.Handler
	Addresses  *addresses.Handler
	Settings   *settings.Handler
	Users      *users.Handler
	Jobs       *jobs.Handler
}

// NewRouter assembles the HTTP surface under /api/v1.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{Logger: cfg.Logger, Config: cfg.Config, Metrics: cfg.Metrics}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", cfg.Auth.MountRoutes)
		api.Route("/categories", cfg.Categories.MountRoutes)
		api.Route("/tags", cfg.Tags.MountRoutes)

		api.Route("/products", func(pr chi.Router) {
			pr.Use(cfg.Guard.Identify)
			cfg.Products.MountRoutes(pr)
			cfg.Reviews.MountPublicRoutes(pr)
			pr.Group(func(g chi.Router) {
				g.Use(cfg.Guard.RequireAuth)
				cfg.Reviews.MountCustomerRoutes(g)
			})
		})

		api.Route("/blogs", cfg.Blogs.MountRoutes)
		api.Route("/settings", cfg.Settings.MountRoutes)

		api.Group(func(g chi.Router) {
			g.Use(cfg.Guard.RequireAuth)
			g.Get("/me", cfg.Auth.HandleMe)
			g.Route("/orders", cfg.Orders.MountRoutes)
			g.Route("/addresses", cfg.Addresses.MountRoutes)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(cfg.Guard.RequireRole(shared.RoleAdmin))
			admin.Route("/products", cfg.Products.MountAdminRoutes)
			admin.Route("/blogs", cfg.Blogs.MountAdminRoutes)
			admin.Route("/reviews", cfg.Reviews.MountAdminRoutes)
			admin.Route("/orders", cfg.Orders.MountAdminRoutes)
			admin.Route("/settings", cfg.Settings.MountAdminRoutes)
			admin.Route("/users", cfg.Users.MountAdminRoutes)
			if cfg.Jobs != nil {
				admin.Route("/jobs", cfg.Jobs.MountRoutes)
			}
		})
	})

	return r
}
