package app

import (
	"encoding/json"
	"net/http"

	"bookrec/backend/features/book"
	"bookrec/backend/features/recommend"
	"bookrec/backend/internal/config"
	"bookrec/backend/internal/middleware"
)

type App struct {
	Handler http.Handler
}

// New wires handlers and routes. A nil catalog is allowed: the affected
// endpoints answer 500 with a diagnostic instead of the process refusing
// to start.
func New(cfg *config.Config, catalog *book.Store, searcher recommend.Searcher, queryLogger *recommend.QueryLogger) *App {
	bookHandler := book.NewHandler(catalog, cfg.BooksPageSize)

	var recService *recommend.Service
	if catalog != nil {
		recService = recommend.NewService(catalog, searcher, queryLogger)
	}
	recHandler := recommend.NewHandler(recService)

	enableCORS := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	route := func(h http.HandlerFunc) http.Handler {
		return middleware.CorrelationID(enableCORS(h))
	}

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", route(root))

	mux.Handle("GET /books", route(bookHandler.List))
	mux.Handle("GET /books/{isbn13}", route(bookHandler.Get))
	mux.Handle("GET /search", route(bookHandler.Search))

	mux.Handle("POST /recommendations", route(recHandler.Recommend))
	mux.Handle("GET /categories", route(recHandler.Categories))

	// Serves the cover-not-found fallback referenced by large_thumbnail.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return &App{Handler: mux}
}

func root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"message": "Welcome to the Book Recommender API!"}); err != nil {
		http.Error(w, "encoding failed", http.StatusInternalServerError)
	}
}
