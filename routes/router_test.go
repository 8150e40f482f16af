package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"salonsuite/database/dbtest"
	"salonsuite/pkg/phorest"
	"salonsuite/pkg/storage"
	"salonsuite/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type offlineSalon struct{}

var errOffline = errors.New("salon api offline")

func (offlineSalon) ListBranches(ctx context.Context) ([]phorest.Branch, error) {
	return nil, errOffline
}

func (offlineSalon) ListStaff(ctx context.Context, branchID string) ([]phorest.Staff, error) {
	return nil, errOffline
}

func (offlineSalon) ListAppointments(ctx context.Context, branchID string, from, to time.Time) ([]phorest.Appointment, error) {
	return nil, errOffline
}

func (offlineSalon) GetClients(ctx context.Context, clientIDs []string) ([]phorest.Client, error) {
	return nil, errOffline
}

type testApp struct {
	app *fiber.App
	db  *gorm.DB
	svc *Services
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := dbtest.New(t)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	svc := NewServices(db, store, offlineSalon{}, Options{
		CommissionRate:     decimal.RequireFromString("0.20"),
		CommissionCacheTTL: time.Hour,
		BaseURL:            "https://salon.example",
		MaxUploadBytes:     1 << 20,
		KioskRateLimit:     10,
	})
	return &testApp{app: NewApp(svc, session.New()), db: db, svc: svc}
}

func (a *testApp) createUser(t *testing.T, email string, admin bool) {
	t.Helper()
	_, err := a.svc.Users.Create(context.Background(), 0, services.UserInput{
		Name:     "Test User",
		Email:    email,
		Password: "correct-horse",
		IsAdmin:  admin,
	})
	require.NoError(t, err)
}

func (a *testApp) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (a *testApp) login(t *testing.T, email string) []*http.Cookie {
	t.Helper()
	resp := a.do(t, fiber.MethodPost, "/auth/login", `{"email":"`+email+`","password":"correct-horse"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthz(t *testing.T) {
	a := newTestApp(t)
	resp := a.do(t, fiber.MethodGet, "/healthz", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode(t, resp)["status"])
}

func TestUnknownAPIRoute_ReturnsJSON404(t *testing.T) {
	a := newTestApp(t)
	resp := a.do(t, fiber.MethodGet, "/api/does-not-exist", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "resource not found", decode(t, resp)["error"])
}

func TestProtectedRoutes_RequireSession(t *testing.T) {
	a := newTestApp(t)

	resp := a.do(t, fiber.MethodGet, "/api/esign/envelopes", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(fiber.MethodGet, "/commissions", nil)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMETextHTML)
	page, err := a.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, page.StatusCode)
	assert.Equal(t, "/auth/login", page.Header.Get(fiber.HeaderLocation))
}

func TestLoginPage_Renders(t *testing.T) {
	a := newTestApp(t)
	req := httptest.NewRequest(fiber.MethodGet, "/auth/login", nil)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMETextHTML)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `action="/auth/login"`)
}

func TestLoginLogoutFlow(t *testing.T) {
	a := newTestApp(t)
	a.createUser(t, "owner@salon.example", true)

	bad := a.do(t, fiber.MethodPost, "/auth/login", `{"email":"owner@salon.example","password":"nope-nope"}`)
	assert.Equal(t, fiber.StatusUnauthorized, bad.StatusCode)

	cookies := a.login(t, "owner@salon.example")

	me := a.do(t, fiber.MethodGet, "/auth/me", "", cookies...)
	require.Equal(t, fiber.StatusOK, me.StatusCode)
	user := decode(t, me)["user"].(map[string]interface{})
	assert.Equal(t, "owner@salon.example", user["email"])

	out := a.do(t, fiber.MethodPost, "/auth/logout", "", cookies...)
	assert.Equal(t, fiber.StatusNoContent, out.StatusCode)

	after := a.do(t, fiber.MethodGet, "/auth/me", "", cookies...)
	assert.Equal(t, fiber.StatusUnauthorized, after.StatusCode)
}

func TestAdminRoutes_ForbiddenForStaff(t *testing.T) {
	a := newTestApp(t)
	a.createUser(t, "staff@salon.example", false)
	cookies := a.login(t, "staff@salon.example")

	for _, path := range []string{"/api/admin/users", "/api/timeclock/admin/employees"} {
		resp := a.do(t, fiber.MethodGet, path, "", cookies...)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, path)
	}

	own := a.do(t, fiber.MethodGet, "/api/esign/envelopes", "", cookies...)
	assert.Equal(t, fiber.StatusOK, own.StatusCode)
}

func TestCommissionAPI(t *testing.T) {
	a := newTestApp(t)
	a.createUser(t, "staff@salon.example", false)
	cookies := a.login(t, "staff@salon.example")

	invalid := a.do(t, fiber.MethodPost, "/api/commissions", `{"startDate":"2024-02-10","endDate":"2024-02-01"}`, cookies...)
	assert.Equal(t, fiber.StatusBadRequest, invalid.StatusCode)

	upstream := a.do(t, fiber.MethodPost, "/api/commissions", `{"startDate":"2024-02-01","endDate":"2024-02-10"}`, cookies...)
	assert.Equal(t, fiber.StatusBadGateway, upstream.StatusCode)
}

func TestErrorHandler_HidesInternalDetails(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("dial tcp 10.0.0.5:5432: password authentication failed for user salon")
	})
	app.Get("/bad", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "startDate is required")
	})

	req := httptest.NewRequest(fiber.MethodGet, "/boom", nil)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, internalErrorMessage, decode(t, resp)["error"])

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, internalErrorMessage, string(body))
	assert.NotContains(t, string(body), "password")

	req = httptest.NewRequest(fiber.MethodGet, "/bad", nil)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "startDate is required", decode(t, resp)["error"])
}

func TestCommissionCacheClear_AdminOnly(t *testing.T) {
	a := newTestApp(t)
	a.createUser(t, "staff@salon.example", false)
	a.createUser(t, "owner@salon.example", true)

	staff := a.do(t, fiber.MethodDelete, "/api/commissions/cache", "", a.login(t, "staff@salon.example")...)
	assert.Equal(t, fiber.StatusForbidden, staff.StatusCode)

	resp := a.do(t, fiber.MethodDelete, "/api/commissions/cache", "", a.login(t, "owner@salon.example")...)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), decode(t, resp)["removed"])
}

func TestKioskPunch(t *testing.T) {
	a := newTestApp(t)
	_, err := a.svc.Employees.Create(context.Background(), 1, services.EmployeeInput{FirstName: "Ana", LastName: "Lee", PIN: "4321"})
	require.NoError(t, err)

	wrong := a.do(t, fiber.MethodPost, "/api/timeclock/kiosk/punch", `{"pin":"0000"}`)
	assert.Equal(t, fiber.StatusUnauthorized, wrong.StatusCode)

	in := a.do(t, fiber.MethodPost, "/api/timeclock/kiosk/punch", `{"pin":"4321"}`)
	require.Equal(t, fiber.StatusOK, in.StatusCode)
	assert.Equal(t, "clock_in", decode(t, in)["action"])

	again := a.do(t, fiber.MethodPost, "/api/timeclock/kiosk/clock-in", `{"pin":"4321"}`)
	assert.Equal(t, fiber.StatusConflict, again.StatusCode)

	out := a.do(t, fiber.MethodPost, "/api/timeclock/kiosk/punch", `{"pin":"4321"}`)
	require.Equal(t, fiber.StatusOK, out.StatusCode)
	assert.Equal(t, "clock_out", decode(t, out)["action"])
}

func TestKioskRateLimit(t *testing.T) {
	a := newTestApp(t)

	for i := 0; i < 10; i++ {
		resp := a.do(t, fiber.MethodPost, "/api/timeclock/kiosk/identify", `{"pin":"0000"}`)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "attempt %d", i+1)
	}

	blocked := a.do(t, fiber.MethodPost, "/api/timeclock/kiosk/punch", `{"pin":"0000"}`)
	assert.Equal(t, fiber.StatusTooManyRequests, blocked.StatusCode)

	form := httptest.NewRequest(fiber.MethodPost, "/kiosk", strings.NewReader("pin=0000"))
	form.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := a.app.Test(form, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	// kiosk dışındaki uçlar sınırdan etkilenmez
	assert.Equal(t, fiber.StatusOK, a.do(t, fiber.MethodGet, "/healthz", "").StatusCode)
}

func TestESign_EnvelopeOwnershipAndSigningToken(t *testing.T) {
	a := newTestApp(t)
	a.createUser(t, "first@salon.example", false)
	a.createUser(t, "second@salon.example", false)
	first := a.login(t, "first@salon.example")
	second := a.login(t, "second@salon.example")

	created := a.do(t, fiber.MethodPost, "/api/esign/envelopes", `{"title":"Consent form"}`, first...)
	require.Equal(t, fiber.StatusCreated, created.StatusCode)
	id := decode(t, created)["id"].(float64)
	path := "/api/esign/envelopes/" + jsonNumber(id)

	assert.Equal(t, fiber.StatusOK, a.do(t, fiber.MethodGet, path, "", first...).StatusCode)
	assert.Equal(t, fiber.StatusForbidden, a.do(t, fiber.MethodGet, path, "", second...).StatusCode)

	unknown := a.do(t, fiber.MethodGet, "/sign/not-a-real-token", "")
	assert.Equal(t, fiber.StatusNotFound, unknown.StatusCode)
}

func jsonNumber(v float64) string {
	b, _ := json.Marshal(int64(v))
	return string(b)
}
