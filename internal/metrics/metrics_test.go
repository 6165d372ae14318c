package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *BonusMetrics
	assert.NotPanics(t, func() {
		m.ObserveGroupCreated("manual")
		m.ObserveRedeemed(100)
		m.ObserveDeleted()
		m.ObserveFailure("redeem", "conflict")
		m.ObserveAutosave("ok")
		m.ObserveRequest("/x", "200", 0.1)
	})
}

func TestBonusCounters(t *testing.T) {
	m := Bonus()
	require.Same(t, m, Bonus())

	before := testutil.ToFloat64(m.redeemedCents)
	m.ObserveRedeemed(250)
	assert.Equal(t, before+250, testutil.ToFloat64(m.redeemedCents))

	beforeAuto := testutil.ToFloat64(m.groupsCreated.WithLabelValues("auto"))
	m.ObserveGroupCreated("auto")
	assert.Equal(t, beforeAuto+1, testutil.ToFloat64(m.groupsCreated.WithLabelValues("auto")))

	m.ObserveFailure("create_group", "")
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.failures.WithLabelValues("create_group", "unknown")), 1.0)
}

func TestHandlerExposesMetrics(t *testing.T) {
	Bonus().ObserveDeleted()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "bonus_groups_deleted_total"))
}
