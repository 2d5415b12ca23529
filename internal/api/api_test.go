package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"forklift-fleet-backend/internal/db"
	"forklift-fleet-backend/internal/metrics"
	"forklift-fleet-backend/internal/model"
	"forklift-fleet-backend/internal/session"
	"forklift-fleet-backend/internal/status"
	"forklift-fleet-backend/internal/store"
)

type testAPI struct {
	router *gin.Engine
	store  store.Store
	token  string
}

var testNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWith(t, &status.Classifier{WarningWindowDays: 30, Now: func() time.Time { return testNow }})
}

func newTestAPIWith(t *testing.T, classifier *status.Classifier) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gormDB, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(gormDB))

	s := store.NewGormStore(gormDB, "sequence")
	sessions := session.NewManager(s, "test-secret", time.Hour)
	sessions.SetCost(bcrypt.MinCost)

	reg := prometheus.NewRegistry()
	h := NewHandler(s, classifier, sessions, Options{
		Metrics:             metrics.New(reg),
		Webpush:             &webpush.Options{VAPIDPublicKey: "public-key"},
		MaintenanceInterval: 1000,
	})
	router := NewRouter(h, RouterConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000, CacheTTL: time.Minute, Gatherer: reg})

	api := &testAPI{router: router, store: s}
	w := api.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "pedro", "email": "pedro@example.com", "password": "supersecret", "role": "supervisor",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sess session.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	api.token = sess.Token
	return api
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

var carlos = map[string]any{
	"name": "Carlos Silva", "role": "operator", "cpf": "123.456.789-10",
	"contact": "(11) 98765-4321", "shift": "Morning", "registrationDate": "15/03/2022",
	"asoExpirationDate": "15/03/2024", "nrExpirationDate": "20/05/2024",
	"asoStatus": "regular", "nrStatus": "regular",
}

var maria = map[string]any{
	"name": "Maria Oliveira", "role": "operator", "cpf": "987.654.321-00",
	"shift": "Afternoon", "registrationDate": "10/06/2022",
	"asoExpirationDate": "10/06/2023", "nrExpirationDate": "15/08/2023",
	"asoStatus": "expired", "nrStatus": "expired",
}

func forklift(name, typ, st string) map[string]any {
	return map[string]any{
		"model": name, "type": typ, "capacity": "2500 kg", "status": st,
		"acquisitionDate": "10/01/2020", "lastMaintenance": "30/10/2023",
		"hourMeter": 5240, "hourMeterAtLastMaintenance": 5000,
	}
}

func TestAuthRequired(t *testing.T) {
	api := newTestAPI(t)
	api.token = ""

	w := api.do(t, http.MethodGet, "/api/forklifts", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	api.token = "garbage"
	w = api.do(t, http.MethodGet, "/api/forklifts", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/users/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[model.User](t, w)
	assert.Equal(t, "pedro", me.Username)
	assert.Equal(t, model.RoleSupervisor, me.Role)
	assert.NotContains(t, w.Body.String(), "supersecret")

	w = api.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "pedro", "email": "other@example.com", "password": "supersecret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/api/auth/login", map[string]string{"login": "pedro", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(t, http.MethodGet, "/api/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodPost, "/api/auth/login", map[string]string{"login": "pedro@example.com", "password": "supersecret"})
	require.Equal(t, http.StatusOK, w.Code)
	api.token = decode[session.Session](t, w).Token
	w = api.do(t, http.MethodGet, "/api/users/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOperatorsCRUDAndFilter(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/operators", carlos)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[model.Operator](t, w)
	assert.Equal(t, "OP001", created.ID)

	w = api.do(t, http.MethodPost, "/api/operators", maria)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/operators?q=carlos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[[]model.Operator](t, w)
	require.Len(t, found, 1)
	assert.Equal(t, "Carlos Silva", found[0].Name)

	w = api.do(t, http.MethodGet, "/api/operators?q=maria&cert_status=regular", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]model.Operator](t, w))

	w = api.do(t, http.MethodGet, "/api/operators?cert_status=expired&role=all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Operator](t, w), 1)

	w = api.do(t, http.MethodGet, "/api/operators?colour=red", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	edited := map[string]any{}
	for k, v := range carlos {
		edited[k] = v
	}
	edited["shift"] = "Night"
	w = api.do(t, http.MethodPut, "/api/operators/OP001", edited)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Night", decode[model.Operator](t, w).Shift)

	w = api.do(t, http.MethodGet, "/api/operators", nil)
	all := decode[[]model.Operator](t, w)
	require.Len(t, all, 2)
	assert.Equal(t, "OP001", all[0].ID, "edits keep the list position")
	assert.Equal(t, "Night", all[0].Shift, "mutations flush cached lists")

	w = api.do(t, http.MethodDelete, "/api/operators/OP001", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(t, http.MethodGet, "/api/operators/OP001", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(t, http.MethodPut, "/api/operators/OP001", edited)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateValidation(t *testing.T) {
	api := newTestAPI(t)

	bad := forklift("", "diesel", "operational")
	w := api.do(t, http.MethodPost, "/api/forklifts", bad)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[struct {
		Fields map[string]string `json:"fields"`
	}](t, w)
	assert.Contains(t, body.Fields, "model")
	assert.Contains(t, body.Fields, "type")

	w = api.do(t, http.MethodPost, "/api/maintenances", map[string]any{
		"forkliftId": "G999", "issue": "Brakes", "reportedBy": "Ana Costa",
		"reportedDate": "2023-11-15", "status": "waiting",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "forkliftId")

	dup := forklift("Toyota 8FGU25", "gas", "operational")
	dup["id"] = "G001"
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/forklifts", dup).Code)
	assert.Equal(t, http.StatusConflict, api.do(t, http.MethodPost, "/api/forklifts", dup).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/forklifts", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+api.token)
	w = httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMaintenanceCopiesForkliftModel(t *testing.T) {
	api := newTestAPI(t)

	f := forklift("Crown RR5725", "retractable", "stopped")
	f["id"] = "R003"
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/forklifts", f).Code)

	w := api.do(t, http.MethodPost, "/api/maintenances", map[string]any{
		"forkliftId": "R003", "issue": "Traction motor with abnormal noise", "reportedBy": "John Pereira",
		"reportedDate": "2023-11-10", "status": "in_progress",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	m := decode[model.Maintenance](t, w)
	assert.Equal(t, "M001", m.ID)
	assert.Equal(t, "Crown RR5725", m.ForkliftModel)

	w = api.do(t, http.MethodGet, "/api/maintenances?forklift=R003&status=in_progress", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Maintenance](t, w), 1)
}

func TestDashboard(t *testing.T) {
	api := newTestAPI(t)

	for _, st := range []string{"operational", "operational", "operational", "stopped", "maintenance"} {
		require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/forklifts", forklift("Yale GLP050", "gas", st)).Code)
	}
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/operators", carlos).Code)
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/operators", maria).Code)

	w := api.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[model.DashboardStats](t, w)
	assert.Equal(t, model.ForkliftCounts{Total: 5, Operational: 3, Stopped: 1, Maintenance: 1}, stats.Forklifts)
	assert.Equal(t, 2, stats.Operators.Total)
	assert.Equal(t, 1, stats.Operators.Regular)
	assert.Equal(t, 1, stats.Operators.Expired)
	// Carlos's ASO expires two weeks after testNow.
	assert.Equal(t, 1, stats.CertificatesDueSoon)
}

func TestFleetEndpoints(t *testing.T) {
	api := newTestAPI(t)

	f := forklift("Toyota 8FGU25", "gas", "operational")
	f["id"] = "G001"
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/forklifts", f).Code)

	w := api.do(t, http.MethodGet, "/api/forklifts/G001/maintenance-due", nil)
	require.Equal(t, http.StatusOK, w.Code)
	due := decode[status.Due](t, w)
	assert.Equal(t, 760, due.HoursRemaining)
	assert.False(t, due.Due)

	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/operators", carlos).Code)
	w = api.do(t, http.MethodGet, "/api/operators/OP001/certificates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report struct {
		ASO          status.CertificateCheck `json:"aso"`
		Overall      model.CertificateStatus `json:"overall"`
		Inconsistent bool                    `json:"inconsistent"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, model.CertificateWarning, report.ASO.Derived)
	assert.Equal(t, model.CertificateRegular, report.ASO.Stored)
	assert.Equal(t, model.CertificateWarning, report.Overall)
	assert.True(t, report.Inconsistent)

	cases := map[string]string{
		"/api/certificates/classify?expires=15/03/2024&at=01/03/2024": "warning",
		"/api/certificates/classify?expires=15/03/2024&at=2024-04-01": "expired",
		"/api/certificates/classify?expires=2024-03-15&at=01/01/2024": "regular",
	}
	for path, want := range cases {
		w = api.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, want, decode[map[string]string](t, w)["status"], path)
	}

	w = api.do(t, http.MethodGet, "/api/certificates/classify?expires=31/02/2024", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(t, http.MethodGet, "/api/certificates/classify", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFleetEndpoints_WallClock(t *testing.T) {
	api := newTestAPIWith(t, &status.Classifier{})

	w := api.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/certificates/classify?expires=01/01/2000", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Status model.CertificateStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, model.CertificateExpired, res.Status)
}

func TestSubscriptions(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/operators", carlos).Code)

	w := api.do(t, http.MethodPut, "/api/subscriptions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())

	w = api.do(t, http.MethodPut, "/api/subscriptions", map[string]any{
		"endpoint": "https://push.example.com/abc", "p256dh": "key", "auth": "secret",
		"subscribed_operators": []string{"OP001"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/subscriptions?endpoint=https://push.example.com/abc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subscribed_operators":["OP001"]}`, w.Body.String())

	w = api.do(t, http.MethodDelete, "/api/subscriptions", map[string]string{"endpoint": "https://push.example.com/abc"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(t, http.MethodGet, "/api/subscriptions?endpoint=https://push.example.com/abc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	api.token = ""
	w = api.do(t, http.MethodGet, "/api/vapid_public_key", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"public_key":"public-key"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.do(t, http.MethodGet, "/api/forklifts", nil)

	w := api.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `fleet_filter_requests_total{collection="forklifts"} 1`)
}
