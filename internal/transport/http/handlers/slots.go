package handlers

import (
	"context"
	"net/http"

	"github.com/samyukta/registration-service/internal/domain"
	"github.com/samyukta/registration-service/internal/transport/http/response"
)

type SlotsReader interface {
	Snapshot(ctx context.Context) (domain.CapacitySnapshot, error)
}

type SlotsHandler struct {
	slots SlotsReader
}

func NewSlotsHandler(slots SlotsReader) *SlotsHandler {
	return &SlotsHandler{slots: slots}
}

// Get serves the live capacity document. It must never be cached.
func (h *SlotsHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	snap, err := h.slots.Snapshot(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, snap.SlotsDocument())
}
