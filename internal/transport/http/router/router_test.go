package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/samyukta/registration-service/internal/application/capacity"
	"github.com/samyukta/registration-service/internal/application/export"
	"github.com/samyukta/registration-service/internal/application/notify"
	"github.com/samyukta/registration-service/internal/application/registration"
	"github.com/samyukta/registration-service/internal/config"
	"github.com/samyukta/registration-service/internal/domain"
	"github.com/samyukta/registration-service/internal/transport/http/handlers"
	authmw "github.com/samyukta/registration-service/internal/transport/http/middleware"
)

type stubClock struct{}

func (stubClock) Now() time.Time { return time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC) }

type stubSlots struct{}

func (stubSlots) Snapshot(ctx context.Context) (domain.CapacitySnapshot, error) {
	return domain.ComputeSnapshot(domain.RegistrationCounts{}, domain.DefaultCapacityLimits()), nil
}
func (stubSlots) Stats(ctx context.Context) (capacity.Stats, error) { return capacity.Stats{}, nil }

type stubQuoter struct{}

func (stubQuoter) Quote(ctx context.Context, req domain.PricingRequest) (*registration.Quote, error) {
	return &registration.Quote{}, nil
}

type stubRegs struct{}

func (stubRegs) Register(ctx context.Context, cmd registration.RegisterCmd) (*domain.Registration, error) {
	return &domain.Registration{}, nil
}
func (stubRegs) Get(ctx context.Context, id, actorID, actorRole string) (*domain.Registration, error) {
	return &domain.Registration{}, nil
}
func (stubRegs) GetMine(ctx context.Context, userID string) (*domain.Registration, error) {
	return &domain.Registration{}, nil
}
func (stubRegs) List(ctx context.Context, f registration.ListFilter) ([]*domain.Registration, int, error) {
	return nil, 0, nil
}
func (stubRegs) UpdateStatus(ctx context.Context, cmd registration.UpdateStatusCmd) (*domain.Registration, error) {
	return &domain.Registration{}, nil
}
func (stubRegs) PitchDeckUploadURL(ctx context.Context, cmd registration.PitchDeckCmd) (*registration.PresignedUpload, error) {
	return &registration.PresignedUpload{}, nil
}

type stubNotify struct{}

func (stubNotify) Create(ctx context.Context, cmd notify.CreateCmd) (*domain.Notification, error) {
	return &domain.Notification{}, nil
}
func (stubNotify) List(ctx context.Context, actorRole string, page, pageSize int) ([]*domain.Notification, int, error) {
	return nil, 0, nil
}
func (stubNotify) Send(ctx context.Context, id, actorRole string) (*domain.Notification, error) {
	return &domain.Notification{}, nil
}
func (stubNotify) Inbox(ctx context.Context, userID string) ([]domain.InboxItem, error) {
	return nil, nil
}
func (stubNotify) MarkRead(ctx context.Context, userID, itemID string) error { return nil }
func (stubNotify) Subscribe(ctx context.Context, cmd notify.SubscribeCmd) (*domain.PushSubscription, error) {
	return &domain.PushSubscription{}, nil
}

type stubExport struct{}

func (stubExport) WriteCSV(ctx context.Context, w io.Writer) error { return nil }
func (stubExport) SyncSheets(ctx context.Context) (*export.SyncResult, error) {
	return &export.SyncResult{}, nil
}

func newTestRouter(cfg *config.Config) http.Handler {
	return New(Handlers{
		Health:        handlers.NewHealthHandler(nil),
		Slots:         handlers.NewSlotsHandler(stubSlots{}),
		Pricing:       handlers.NewPricingHandler(stubQuoter{}),
		Registrations: handlers.NewRegistrationsHandler(stubRegs{}, stubSlots{}),
		Notifications: handlers.NewNotificationsHandler(stubNotify{}, ""),
		Export:        handlers.NewExportHandler(stubExport{}, stubClock{}),
	}, authmw.NewAuth("secret", "issuer"), nil, cfg)
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, authmw.Claims{
		UserID: "user-1",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "issuer",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := tok.SignedString([]byte("secret"))
	assert.NoError(t, err)
	return s
}

func TestRouter_Routing(t *testing.T) {
	r := newTestRouter(&config.Config{})

	tests := []struct {
		name       string
		method     string
		path       string
		role       string
		wantStatus int
	}{
		{"healthz", http.MethodGet, "/healthz", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"public_slots", http.MethodGet, "/api/v1/slots", "", http.StatusOK},
		{"me_requires_auth", http.MethodGet, "/api/v1/me/registration", "", http.StatusUnauthorized},
		{"me_with_token", http.MethodGet, "/api/v1/me/registration", "user", http.StatusOK},
		{"admin_requires_auth", http.MethodGet, "/api/v1/admin/stats", "", http.StatusUnauthorized},
		{"admin_forbidden_for_user", http.MethodGet, "/api/v1/admin/stats", "user", http.StatusForbidden},
		{"admin_stats", http.MethodGet, "/api/v1/admin/stats", "admin", http.StatusOK},
		{"admin_csv", http.MethodGet, "/api/v1/admin/export/registrations.csv", "admin", http.StatusOK},
		{"unknown_route", http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
		{"wrong_method", http.MethodDelete, "/api/v1/slots", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("Authorization", "Bearer "+token(t, tt.role))
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestRouter_SetsRequestIDAndSecurityHeaders(t *testing.T) {
	r := newTestRouter(&config.Config{})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestRouter_InProcessRateLimitFallback(t *testing.T) {
	r := newTestRouter(&config.Config{RLEnabled: true, RLLimit: 1, RLWindow: time.Minute})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/slots", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/slots", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
