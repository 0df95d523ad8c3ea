package router

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/contact-crm/internal/http/respond"
)

// mountFrontend serves the login page at /, the dashboard at /dashboard
// and every other unmatched GET from dir.
func mountFrontend(r chi.Router, dir string) {
	if dir == "" {
		return
	}
	r.Get("/", page(dir, "login.html"))
	r.Get("/dashboard", page(dir, "index.html"))

	r.Get("/*", http.FileServer(http.Dir(dir)).ServeHTTP)
}

func page(dir, name string) http.HandlerFunc {
	path := filepath.Join(dir, name)
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			respond.Error(w, http.StatusNotFound, "Not Found")
			return
		}
		http.ServeFile(w, r, path)
	}
}
