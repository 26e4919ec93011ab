package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRegistration(t *testing.T) {
	before := testutil.ToFloat64(registrationsTotal.WithLabelValues("combo", "created"))
	RecordRegistration("combo", "created")
	after := testutil.ToFloat64(registrationsTotal.WithLabelValues("combo", "created"))
	assert.Equal(t, before+1, after)
}

func TestRecordDelivery_IgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(notificationDeliveriesTotal.WithLabelValues("push", "failed"))
	RecordDelivery("push", "failed", 0)
	RecordDelivery("push", "failed", 3)
	after := testutil.ToFloat64(notificationDeliveriesTotal.WithLabelValues("push", "failed"))
	assert.Equal(t, before+3, after)
}

func TestSetRegistered(t *testing.T) {
	SetRegistered("pitch", 42)
	assert.Equal(t, float64(42), testutil.ToFloat64(registeredParticipants.WithLabelValues("pitch")))
}

func TestOtherRecorders(t *testing.T) {
	RecordHTTPRequest(http.MethodGet, "/api/v1/slots", "200", 5*time.Millisecond)
	RecordCapacityRejection("hackathon")
	RecordQuote("workshopOnly")
	RecordNotificationSend("all", time.Second)
}

func TestHandler(t *testing.T) {
	RecordQuote("startupOnly")

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "samyukta_price_quotes_total"))
}
