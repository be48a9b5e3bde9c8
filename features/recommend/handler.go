package recommend

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		slog.ErrorContext(r.Context(), "recommendation service unavailable")
		writeError(w, "SERVICE_UNAVAILABLE", "recommendation service not available, check server logs for initialization errors", http.StatusInternalServerError)
		return
	}

	// Pointer fields distinguish absent from explicit zero: absent fields
	// take defaults, explicit zeros fail validation.
	var body struct {
		Query       string  `json:"query"`
		Category    *string `json:"category"`
		Tone        *string `json:"tone"`
		InitialTopK *int    `json:"initial_top_k"`
		FinalTopK   *int    `json:"final_top_k"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, "VALIDATION_ERROR", "invalid request body", http.StatusBadRequest)
		return
	}

	req := Request{
		Query:       body.Query,
		Category:    "All",
		Tone:        "All",
		InitialTopK: DefaultInitialTopK,
		FinalTopK:   DefaultFinalTopK,
	}
	if body.Category != nil {
		req.Category = *body.Category
	}
	if body.Tone != nil {
		req.Tone = *body.Tone
	}
	if body.InitialTopK != nil {
		req.InitialTopK = *body.InitialTopK
	}
	if body.FinalTopK != nil {
		req.FinalTopK = *body.FinalTopK
	}

	if err := req.Validate(); err != nil {
		writeError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, h.service.Recommend(r.Context(), req))
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"categories": Categories,
		"tones":      Tones,
	})
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
