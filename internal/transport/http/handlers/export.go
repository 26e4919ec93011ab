package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/samyukta/registration-service/internal/application/export"
	"github.com/samyukta/registration-service/internal/transport/http/response"
)

type Exporter interface {
	WriteCSV(ctx context.Context, w io.Writer) error
	SyncSheets(ctx context.Context) (*export.SyncResult, error)
}

type ExportHandler struct {
	svc   Exporter
	clock Clock
}

type Clock interface{ Now() time.Time }

func NewExportHandler(svc Exporter, clock Clock) *ExportHandler {
	return &ExportHandler{svc: svc, clock: clock}
}

// CSV buffers the file so a mid-export failure still gets a JSON error.
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.WriteCSV(r.Context(), &buf); err != nil {
		response.Err(w, r, err)
		return
	}
	name := "registrations-" + h.clock.Now().UTC().Format("20060102-150405") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *ExportHandler) Sheets(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.SyncSheets(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, res)
}
