package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/samyukta/registration-service/internal/application/capacity"
	"github.com/samyukta/registration-service/internal/application/registration"
	"github.com/samyukta/registration-service/internal/domain"
	"github.com/samyukta/registration-service/internal/transport/http/dto"
	"github.com/samyukta/registration-service/internal/transport/http/middleware"
	"github.com/samyukta/registration-service/internal/transport/http/response"
	"github.com/samyukta/registration-service/internal/transport/http/validate"
)

type RegistrationService interface {
	Register(ctx context.Context, cmd registration.RegisterCmd) (*domain.Registration, error)
	Get(ctx context.Context, id, actorID, actorRole string) (*domain.Registration, error)
	GetMine(ctx context.Context, userID string) (*domain.Registration, error)
	List(ctx context.Context, f registration.ListFilter) ([]*domain.Registration, int, error)
	UpdateStatus(ctx context.Context, cmd registration.UpdateStatusCmd) (*domain.Registration, error)
	PitchDeckUploadURL(ctx context.Context, cmd registration.PitchDeckCmd) (*registration.PresignedUpload, error)
}

type StatsReader interface {
	Stats(ctx context.Context) (capacity.Stats, error)
}

type RegistrationsHandler struct {
	svc   RegistrationService
	stats StatsReader
}

func NewRegistrationsHandler(svc RegistrationService, stats StatsReader) *RegistrationsHandler {
	return &RegistrationsHandler{svc: svc, stats: stats}
}

func (h *RegistrationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRegistrationReq
	if err := validate.DecodeJSON(w, r, &req); err != nil {
		response.Err(w, r, err)
		return
	}
	cmd, err := req.ToCommand(middleware.UserID(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	reg, err := h.svc.Register(r.Context(), cmd)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, dto.ToRegistrationResp(reg))
}

func (h *RegistrationsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	reg, err := h.svc.GetMine(r.Context(), middleware.UserID(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToRegistrationResp(reg))
}

func (h *RegistrationsHandler) PitchDeck(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validate.UUIDParam("id", id); err != nil {
		response.Err(w, r, err)
		return
	}
	var req dto.PitchDeckReq
	if err := validate.DecodeJSON(w, r, &req); err != nil {
		response.Err(w, r, err)
		return
	}
	up, err := h.svc.PitchDeckUploadURL(r.Context(), registration.PitchDeckCmd{
		RegistrationID: id,
		ActorID:        middleware.UserID(r),
		ActorRole:      middleware.Role(r),
		ContentType:    req.ContentType,
		Size:           req.Size,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, up)
}

// Admin

func (h *RegistrationsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	f := registration.ListFilter{
		Status:     domain.RegistrationStatus(q.Get("status")),
		TicketKind: domain.TicketKind(q.Get("ticket_kind")),
		Query:      q.Get("q"),
		Page:       page,
		PageSize:   pageSize,
	}
	if err := f.Normalize(); err != nil {
		response.Err(w, r, err)
		return
	}

	regs, total, err := h.svc.List(r.Context(), f)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, response.Page{
		Items:    dto.ToRegistrationList(regs),
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	})
}

func (h *RegistrationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validate.UUIDParam("id", id); err != nil {
		response.Err(w, r, err)
		return
	}
	reg, err := h.svc.Get(r.Context(), id, middleware.UserID(r), middleware.Role(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToRegistrationResp(reg))
}

func (h *RegistrationsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validate.UUIDParam("id", id); err != nil {
		response.Err(w, r, err)
		return
	}
	var req dto.UpdateStatusReq
	if err := validate.DecodeJSON(w, r, &req); err != nil {
		response.Err(w, r, err)
		return
	}
	reg, err := h.svc.UpdateStatus(r.Context(), registration.UpdateStatusCmd{
		ID:        id,
		ActorID:   middleware.UserID(r),
		ActorRole: middleware.Role(r),
		Status:    domain.RegistrationStatus(req.Status),
		Reason:    req.Reason,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToRegistrationResp(reg))
}

func (h *RegistrationsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Stats(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, map[string]any{
		"slots":             st.Snapshot.SlotsDocument(),
		"by_status":         st.ByStatus,
		"expected_revenue":  st.ExpectedRevenue,
		"confirmed_revenue": st.ConfirmedRevenue,
	})
}
