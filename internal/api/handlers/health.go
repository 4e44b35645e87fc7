package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/rohits-web03/filekeep/internal/repositories"
)

// GET /health
// Health godoc
// @Summary Health check
// @Description Pings the database.
// @Tags System
// @Produce plain
// @Success 200 {string} string "OK"
// @Failure 503 {string} string "database unavailable"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := repositories.Ping(ctx, h.db); err != nil {
		log.Printf("Health check failed: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "database unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}
