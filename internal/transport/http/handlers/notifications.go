package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/samyukta/registration-service/internal/application/notify"
	"github.com/samyukta/registration-service/internal/domain"
	"github.com/samyukta/registration-service/internal/transport/http/dto"
	"github.com/samyukta/registration-service/internal/transport/http/middleware"
	"github.com/samyukta/registration-service/internal/transport/http/response"
	"github.com/samyukta/registration-service/internal/transport/http/validate"
)

type NotificationService interface {
	Create(ctx context.Context, cmd notify.CreateCmd) (*domain.Notification, error)
	List(ctx context.Context, actorRole string, page, pageSize int) ([]*domain.Notification, int, error)
	Send(ctx context.Context, id, actorRole string) (*domain.Notification, error)
	Inbox(ctx context.Context, userID string) ([]domain.InboxItem, error)
	MarkRead(ctx context.Context, userID, itemID string) error
	Subscribe(ctx context.Context, cmd notify.SubscribeCmd) (*domain.PushSubscription, error)
}

type NotificationsHandler struct {
	svc            NotificationService
	vapidPublicKey string
}

func NewNotificationsHandler(svc NotificationService, vapidPublicKey string) *NotificationsHandler {
	return &NotificationsHandler{svc: svc, vapidPublicKey: vapidPublicKey}
}

func decode(r *http.Request, dst any) error {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		return domain.ErrValidationMeta("invalid json body", map[string]string{"body": err.Error()})
	}
	return nil
}

func (h *NotificationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateNotificationReq
	if err := decode(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}
	n, err := h.svc.Create(r.Context(), notify.CreateCmd{
		ActorID:   middleware.UserID(r),
		ActorRole: middleware.Role(r),
		Title:     req.Title,
		Message:   req.Message,
		URL:       req.URL,
		Channels:  dto.ToChannels(req.Channels),
		Audience:  domain.Audience(req.Audience),
		UserIDs:   req.UserIDs,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, dto.ToNotificationResp(n))
}

func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	ns, total, err := h.svc.List(r.Context(), middleware.Role(r), page, pageSize)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	response.Data(w, http.StatusOK, response.Page{
		Items:    dto.ToNotificationList(ns),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *NotificationsHandler) Send(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validate.UUIDParam("id", id); err != nil {
		response.Err(w, r, err)
		return
	}
	n, err := h.svc.Send(r.Context(), id, middleware.Role(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToNotificationResp(n))
}

func (h *NotificationsHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Inbox(r.Context(), middleware.UserID(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToInboxResp(items))
}

func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validate.UUIDParam("id", id); err != nil {
		response.Err(w, r, err)
		return
	}
	if err := h.svc.MarkRead(r.Context(), middleware.UserID(r), id); err != nil {
		response.Err(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationsHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req dto.PushSubscriptionReq
	if err := decode(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}
	sub, err := h.svc.Subscribe(r.Context(), notify.SubscribeCmd{
		UserID:   middleware.UserID(r),
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, map[string]string{"id": sub.ID, "endpoint": sub.Endpoint})
}

// VAPIDKey lets the browser create a subscription for this server.
func (h *NotificationsHandler) VAPIDKey(w http.ResponseWriter, r *http.Request) {
	if h.vapidPublicKey == "" {
		response.Err(w, r, domain.ErrUnavailable("push notifications are not configured"))
		return
	}
	response.Data(w, http.StatusOK, map[string]string{"public_key": h.vapidPublicKey})
}
