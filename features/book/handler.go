package book

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"bookrec/backend/internal/isbn"
)

type Handler struct {
	store    *Store
	pageSize int
}

// NewHandler accepts a nil store: endpoints then answer 500 with a
// diagnostic instead of serving an empty catalog that looks like zero
// matches.
func NewHandler(store *Store, pageSize int) *Handler {
	return &Handler{store: store, pageSize: pageSize}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if !h.available(r.Context(), w) {
		return
	}
	writeJSON(w, http.StatusOK, h.store.All(h.pageSize))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.available(r.Context(), w) {
		return
	}

	id := r.PathValue("isbn13")
	if !isbn.Valid(id) {
		writeError(w, "VALIDATION_ERROR", "isbn13 must be a 13-digit number string", http.StatusBadRequest)
		return
	}

	b, err := h.store.ByISBN(id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, "NOT_FOUND", "book not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if !h.available(r.Context(), w) {
		return
	}

	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeError(w, "VALIDATION_ERROR", "q is required", http.StatusBadRequest)
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(w, "VALIDATION_ERROR", "limit must be greater than 0", http.StatusBadRequest)
			return
		}
		limit = v
	}

	writeJSON(w, http.StatusOK, h.store.Search(q, limit))
}

func (h *Handler) available(ctx context.Context, w http.ResponseWriter) bool {
	if h.store == nil {
		slog.ErrorContext(ctx, "book catalog unavailable")
		writeError(w, "SERVICE_UNAVAILABLE", "book catalog not available, check server logs for initialization errors", http.StatusInternalServerError)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
