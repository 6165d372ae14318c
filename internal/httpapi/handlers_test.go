package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/bonuswiser/internal/auth"
	"github.com/mmynk/bonuswiser/internal/draft"
	"github.com/mmynk/bonuswiser/internal/engine"
	"github.com/mmynk/bonuswiser/internal/lock"
	"github.com/mmynk/bonuswiser/internal/middleware"
	"github.com/mmynk/bonuswiser/internal/models"
	"github.com/mmynk/bonuswiser/internal/service"
	"github.com/mmynk/bonuswiser/internal/storage/sqlstore"
	api "github.com/mmynk/bonuswiser/pkg/api"
)

type testServer struct {
	*httptest.Server
	engine *engine.Engine
}

func setup(t *testing.T, cfg Config) *testServer {
	t.Helper()

	store, err := sqlstore.NewSQLite(filepath.Join(t.TempDir(), "rest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	locker := lock.NewLocal()
	autosaver := draft.NewAutosaver(store, locker, draft.WithDelay(10*time.Millisecond))
	t.Cleanup(func() { autosaver.Close(context.Background()) })

	e := engine.New(store,
		engine.WithLocker(locker),
		engine.WithAutosaver(autosaver),
		engine.WithDefaultSettings(models.Settings{DiscountRate: 10, OrdersRequiredForDiscount: 3, AutoCreateDiscount: true}),
	)

	router := NewRouter(NewHandler(service.NewBonusService(e), nil), cfg)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, engine: e}
}

func (s *testServer) seed(t *testing.T, customerID string, orderIDs ...string) {
	t.Helper()
	for i, id := range orderIDs {
		_, err := s.engine.IngestPurchase(context.Background(),
			&models.Customer{ID: customerID, Name: "Jane"},
			models.Purchase{
				ID:         id,
				CustomerID: customerID,
				Date:       int64(1000 + i),
				LineItems:  []models.LineItem{{Description: "Shirt", Subtotal: 10000, DiscountEligible: true}},
			})
		require.NoError(t, err)
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func members(orderIDs ...string) []api.Member {
	out := make([]api.Member, len(orderIDs))
	for i, id := range orderIDs {
		out[i] = api.Member{OrderID: id, BundleIndex: i}
	}
	return out
}

func TestHealthz(t *testing.T) {
	srv := setup(t, Config{})

	resp := srv.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetOverview(t *testing.T) {
	srv := setup(t, Config{})
	srv.seed(t, "c1", "o1", "o2")

	resp := srv.do(t, http.MethodGet, "/discount/c1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	overview := decodeBody[api.Overview](t, resp)
	assert.Equal(t, "c1", overview.Customer.ID)
	require.Len(t, overview.Purchases, 2)
	assert.Equal(t, int64(10000), overview.Purchases[0].EligibleAmount)
	assert.Equal(t, 2, overview.Queue.Count)
	assert.Equal(t, 3, overview.Settings.OrdersRequiredForDiscount)
}

func TestGetOverview_UnknownCustomer(t *testing.T) {
	srv := setup(t, Config{})

	resp := srv.do(t, http.MethodGet, "/discount/nobody", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody[api.ErrorResponse](t, resp)
	assert.Contains(t, body.Error, "nobody")
}

func TestGroupLifecycle(t *testing.T) {
	srv := setup(t, Config{})
	srv.seed(t, "c1", "o1", "o2", "o3", "o4")

	resp := srv.do(t, http.MethodPost, "/discount/c1/groups", groupBody{Members: members("o1", "o2", "o3"), DiscountRate: 10})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	group := decodeBody[api.BonusGroup](t, resp)
	assert.Equal(t, int64(3000), group.TotalDiscount)
	assert.True(t, group.IsRedeemable)

	resp = srv.do(t, http.MethodPut, "/discount/c1/groups/"+group.ID, groupBody{Members: members("o1", "o2", "o3", "o4")})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[api.BonusGroup](t, resp)
	assert.Equal(t, int64(4000), updated.TotalDiscount)

	resp = srv.do(t, http.MethodPut, "/discount/c1/groups/"+group.ID+"/redeem", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	redeemed := decodeBody[api.BonusGroup](t, resp)
	assert.Equal(t, string(models.GroupStatusRedeemed), redeemed.Status)

	resp = srv.do(t, http.MethodPut, "/discount/c1/groups/"+group.ID+"/redeem", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = srv.do(t, http.MethodDelete, "/discount/c1/groups/"+group.ID, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateGroup_StaleRateMessage(t *testing.T) {
	srv := setup(t, Config{})
	srv.seed(t, "c1", "o1", "o2", "o3")

	resp := srv.do(t, http.MethodPost, "/discount/c1/groups", groupBody{Members: members("o1", "o2", "o3"), DiscountRate: 12.5})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[api.ErrorResponse](t, resp)
	assert.Contains(t, body.Error, "reload")
}

func TestCreateGroup_InvalidBody(t *testing.T) {
	srv := setup(t, Config{})
	srv.seed(t, "c1", "o1")

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/discount/c1/groups", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteGroup(t *testing.T) {
	srv := setup(t, Config{})
	srv.seed(t, "c1", "o1", "o2", "o3")

	resp := srv.do(t, http.MethodPost, "/discount/c1/groups", groupBody{Members: members("o1", "o2", "o3")})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	group := decodeBody[api.BonusGroup](t, resp)

	resp = srv.do(t, http.MethodDelete, "/discount/c1/groups/"+group.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	deleted := decodeBody[api.DeleteGroupResponse](t, resp)
	assert.ElementsMatch(t, []string{"o1", "o2", "o3"}, deleted.ReleasedOrderIDs)

	resp = srv.do(t, http.MethodGet, "/discount/c1/queue", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	queue := decodeBody[api.QueueStatus](t, resp)
	assert.Equal(t, 3, queue.Count)
	assert.True(t, queue.ReadyForDiscount)
}

func TestDraftRoutes(t *testing.T) {
	srv := setup(t, Config{})
	srv.seed(t, "c1", "o1", "o2", "o3", "o4")

	resp := srv.do(t, http.MethodPut, "/discount/c1/draft", draftBody{Bundles: [][]string{{"o1", "o2"}}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = srv.do(t, http.MethodPost, "/discount/c1/draft/bundles", bundleBody{OrderIDs: []string{"o3"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d := decodeBody[api.Draft](t, resp)
	assert.Equal(t, [][]string{{"o1", "o2"}, {"o3"}}, d.Bundles)

	resp = srv.do(t, http.MethodPost, "/discount/c1/draft/bundles", bundleBody{OrderIDs: []string{"o3"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = srv.do(t, http.MethodDelete, "/discount/c1/draft/bundles/0/purchases/o2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d = decodeBody[api.Draft](t, resp)
	assert.Equal(t, [][]string{{"o1"}, {"o3"}}, d.Bundles)

	resp = srv.do(t, http.MethodDelete, "/discount/c1/draft/bundles/x", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = srv.do(t, http.MethodPost, "/discount/c1/draft/bundles", bundleBody{OrderIDs: []string{"o4"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = srv.do(t, http.MethodPost, "/discount/c1/draft/commit", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	group := decodeBody[api.BonusGroup](t, resp)
	assert.Equal(t, 3, group.UniqueBundleCount)

	resp = srv.do(t, http.MethodGet, "/discount/c1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	overview := decodeBody[api.Overview](t, resp)
	assert.Empty(t, overview.Draft.Bundles)
}

func TestEditRoutes(t *testing.T) {
	srv := setup(t, Config{})
	srv.seed(t, "c1", "o1", "o2", "o3")

	resp := srv.do(t, http.MethodPost, "/discount/c1/auto", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	group := decodeBody[api.BonusGroup](t, resp)
	assert.True(t, group.Auto)

	resp = srv.do(t, http.MethodPost, "/discount/c1/draft/edit/"+group.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d := decodeBody[api.Draft](t, resp)
	assert.Equal(t, group.ID, d.EditingGroupID)
	assert.ElementsMatch(t, []string{"o1", "o2", "o3"}, d.Selection)

	resp = srv.do(t, http.MethodPost, "/discount/c1/draft/selection/o3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d = decodeBody[api.Draft](t, resp)
	assert.ElementsMatch(t, []string{"o1", "o2"}, d.Selection)

	resp = srv.do(t, http.MethodDelete, "/discount/c1/draft/edit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d = decodeBody[api.Draft](t, resp)
	assert.Empty(t, d.EditingGroupID)

	resp = srv.do(t, http.MethodDelete, "/discount/c1/draft/edit", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	srv := setup(t, Config{Auth: middleware.RequireAuthHTTP(jwtManager)})
	srv.seed(t, "c1", "o1", "o2", "o3")

	resp := srv.do(t, http.MethodGet, "/discount/c1", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = srv.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	token, err := jwtManager.Generate("staff-7", "Sam")
	require.NoError(t, err)
	bearer := "Bearer " + token

	resp = srv.do(t, http.MethodPost, "/discount/c1/groups", groupBody{Members: members("o1", "o2", "o3")}, "Authorization", bearer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	group := decodeBody[api.BonusGroup](t, resp)

	resp = srv.do(t, http.MethodPut, "/discount/c1/groups/"+group.ID+"/redeem", nil, "Authorization", bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	redeemed := decodeBody[api.BonusGroup](t, resp)
	assert.Equal(t, "staff-7", redeemed.RedeemedBy)
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	srv := setup(t, Config{Auth: middleware.OptionalAuthHTTP(jwtManager)})
	srv.seed(t, "c1", "o1", "o2", "o3", "o4", "o5", "o6")

	resp := srv.do(t, http.MethodPost, "/discount/c1/groups", groupBody{Members: members("o1", "o2", "o3")})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	anonymous := decodeBody[api.BonusGroup](t, resp)

	resp = srv.do(t, http.MethodPut, "/discount/c1/groups/"+anonymous.ID+"/redeem", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[api.BonusGroup](t, resp).RedeemedBy)

	token, err := jwtManager.Generate("staff-9", "Ana")
	require.NoError(t, err)

	resp = srv.do(t, http.MethodPost, "/discount/c1/groups", groupBody{Members: members("o4", "o5", "o6")})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	signed := decodeBody[api.BonusGroup](t, resp)

	resp = srv.do(t, http.MethodPut, "/discount/c1/groups/"+signed.ID+"/redeem", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "staff-9", decodeBody[api.BonusGroup](t, resp).RedeemedBy)

	resp = srv.do(t, http.MethodGet, "/discount/c1", nil, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "a bad token is ignored")
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(60, 2)
	now := time.Unix(1700000000, 0)
	l.clockNow = func() time.Time { return now }

	assert.True(t, l.allow("a"))
	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))
	assert.True(t, l.allow("b"), "clients have separate buckets")

	now = now.Add(time.Second)
	assert.True(t, l.allow("a"))

	now = now.Add(visitorIdleTTL + time.Second)
	l.allow("b")
	l.mu.Lock()
	_, kept := l.visitors["a"]
	l.mu.Unlock()
	assert.False(t, kept, "idle clients are evicted")
}

func TestRateLimiter_Middleware(t *testing.T) {
	srv := setup(t, Config{RequestsPerMinute: 1, Burst: 1})
	srv.seed(t, "c1", "o1")

	resp := srv.do(t, http.MethodGet, "/discount/c1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = srv.do(t, http.MethodGet, "/discount/c1", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    int
		wantMsg string
	}{
		{"invalid argument", connect.NewError(connect.CodeInvalidArgument, errors.New("order o1 is already in a bonus group")), http.StatusBadRequest, "order o1 is already in a bonus group"},
		{"not found", connect.NewError(connect.CodeNotFound, errors.New("bonus group g1 not found")), http.StatusNotFound, "bonus group g1 not found"},
		{"aborted", connect.NewError(connect.CodeAborted, errors.New("customer is busy, try again")), http.StatusConflict, "customer is busy, try again"},
		{"unauthenticated", connect.NewError(connect.CodeUnauthenticated, errors.New("missing token")), http.StatusUnauthorized, "missing token"},
		{"internal", connect.NewError(connect.CodeInternal, errors.New("disk full")), http.StatusInternalServerError, "internal error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)
			assert.Equal(t, tt.want, rec.Code)

			var body api.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}
}
