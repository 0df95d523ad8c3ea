package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/contact-crm/internal/auth"
	"github.com/wolfman30/contact-crm/internal/contacts"
	httpmiddleware "github.com/wolfman30/contact-crm/internal/http/middleware"
	"github.com/wolfman30/contact-crm/internal/http/respond"
	"github.com/wolfman30/contact-crm/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	AuthHandler        *auth.Handler
	ContactsHandler    *contacts.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	FrontendDir        string

	// SessionGuard, when set, wraps every contact endpoint.
	SessionGuard func(http.Handler) http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Group(func(public chi.Router) {
		public.Get("/health", health)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.AuthHandler != nil {
			public.Post("/login", cfg.AuthHandler.Login)
		}
	})

	if h := cfg.ContactsHandler; h != nil {
		r.Group(func(api chi.Router) {
			if cfg.SessionGuard != nil {
				api.Use(cfg.SessionGuard)
			}
			api.Post("/submit", h.Submit)
			api.Get("/get_history", h.History)
			api.Get("/get_contact/{id}", h.Get)
			api.Patch("/update/{id}", h.Update)
			api.Delete("/delete/{id}", h.Delete)
			api.Get("/export_excel", h.Export)
		})
	}

	mountFrontend(r, cfg.FrontendDir)
	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
