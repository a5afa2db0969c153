package appointments_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/flicapp/flicapp/internal/app/features/appointments"
	uierrors "github.com/flicapp/flicapp/internal/app/features/errors"
	"github.com/flicapp/flicapp/internal/app/store/audit"
	appointmentstore "github.com/flicapp/flicapp/internal/app/store/appointments"
	"github.com/flicapp/flicapp/internal/app/system/auditlog"
	"github.com/flicapp/flicapp/internal/app/system/tablestate"
	"github.com/flicapp/flicapp/internal/app/system/tableview"
	"github.com/flicapp/flicapp/internal/domain/models"
	"github.com/flicapp/flicapp/internal/testutil"
	"go.uber.org/zap"
)

type env struct {
	h     *appointments.Handler
	store *appointmentstore.Store
	audit *audit.Store

	admin, provider, client, other models.User
	done, upcoming, foreign        models.Appointment
}

func newEnv(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	store := audit.New(db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	e := env{
		h: appointments.NewHandler(db, uierrors.NewErrorLogger(logger),
			auditlog.New(store, logger, auditlog.Config{Admin: auditlog.DestDB}),
			tablestate.NewManager(db, logger), 0, logger),
		store: appointmentstore.New(db),
		audit: store,
	}
	e.admin = fx.CreateUser(ctx, "Ana Admin", "ana@flicapp.test", models.RoleAdmin)
	e.provider = fx.CreateUser(ctx, "Bruno Prestador", "bruno@flicapp.test", models.RoleProvider)
	e.client = fx.CreateUser(ctx, "Carla Cliente", "carla@flicapp.test", models.RoleClient)
	e.other = fx.CreateUser(ctx, "Davi Cliente", "davi@flicapp.test", models.RoleClient)

	day := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	e.done = fx.CreateAppointment(ctx, e.client, e.provider, "Instalação elétrica", day, 25000, models.AppointmentCompleted)
	e.upcoming = fx.CreateAppointment(ctx, e.client, e.provider, "Troca de tomada", day.AddDate(0, 1, 0), 8000, models.AppointmentScheduled)
	e.foreign = fx.CreateAppointment(ctx, e.other, e.provider, "Chuveiro", day.AddDate(0, 0, 7), 12000, models.AppointmentScheduled)
	return e
}

func serve(fn http.HandlerFunc, req *http.Request, as models.User, params ...string) *httptest.ResponseRecorder {
	req = testutil.WithUser(req, testutil.AsTestUser(as))
	for i := 0; i+1 < len(params); i += 2 {
		req = testutil.WithChiURLParam(req, params[i], params[i+1])
	}
	rec := httptest.NewRecorder()
	func() {
		defer func() { recover() }()
		fn(rec, req)
	}()
	return rec
}

func page(t *testing.T, e env, as models.User, target string) tableview.PageJSON[models.Appointment] {
	t.Helper()
	rec := serve(e.h.ServeList, testutil.NewRequest(http.MethodGet, target), as)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s: status %d", target, rec.Code)
	}
	var out tableview.PageJSON[models.Appointment]
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestServeList_ScopedByRole(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name string
		as   models.User
		want int
	}{
		{"admin sees all", e.admin, 3},
		{"provider sees own", e.provider, 3},
		{"client sees own", e.client, 2},
		{"other client sees own", e.other, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := page(t, e, tc.as, "/appointments?format=json").TotalItems; got != tc.want {
				t.Errorf("TotalItems = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestServeList_UnknownRoleIsForbidden(t *testing.T) {
	e := newEnv(t)
	auditor := e.admin
	auditor.Role = "auditor"

	rec := serve(e.h.ServeList, testutil.NewRequest(http.MethodGet, "/appointments?format=json"), auditor)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	var out tableview.PageJSON[models.Appointment]
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err == nil && len(out.Rows) > 0 {
		t.Errorf("unknown role received %d appointments", len(out.Rows))
	}
}

func TestServeList_SortByPrice(t *testing.T) {
	e := newEnv(t)
	out := page(t, e, e.admin, "/appointments?sort=price&order=desc&format=json")
	if len(out.Rows) != 3 {
		t.Fatalf("rows = %d", len(out.Rows))
	}
	want := []int64{25000, 12000, 8000}
	for i, a := range out.Rows {
		if a.PriceCents != want[i] {
			t.Errorf("row %d price = %d, want %d", i, a.PriceCents, want[i])
		}
	}
}

func TestHandleRowAction_Rate(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	rate := func(form url.Values, id string) *httptest.ResponseRecorder {
		return serve(e.h.HandleRowAction, testutil.NewFormRequest("/appointments/x/actions/rate", form), e.client,
			"id", id, "action", "rate")
	}

	// No rating yet: the form is shown and nothing changes.
	rate(url.Values{}, e.done.ID.Hex())
	if rec := rate(url.Values{"rating": {"9"}}, e.done.ID.Hex()); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("out of range rating: status = %d, want 422", rec.Code)
	}

	rec := rate(url.Values{"rating": {"4"}}, e.done.ID.Hex())
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	got, err := e.store.GetByID(ctx, e.done.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Rating != 4 {
		t.Errorf("rating = %d, want 4", got.Rating)
	}
	n, _ := e.audit.CountByFilter(ctx, audit.QueryFilter{EventType: audit.EventAppointmentRated})
	if n != 1 {
		t.Errorf("rated audit events = %d, want 1", n)
	}

	// Scheduled appointments cannot be rated.
	rec = rate(url.Values{"rating": {"5"}}, e.upcoming.ID.Hex())
	if loc := rec.Header().Get("Location"); loc != "/appointments?msg=unavailable" {
		t.Errorf("Location = %q", loc)
	}
}

func TestHandleRowAction_ClientCannotTouchOthers(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := serve(e.h.HandleRowAction, testutil.NewFormRequest("/appointments/x/actions/cancel", url.Values{}), e.client,
		"id", e.foreign.ID.Hex(), "action", "cancel")
	if loc := rec.Header().Get("Location"); loc != "/appointments?msg=unavailable" {
		t.Errorf("Location = %q", loc)
	}
	got, _ := e.store.GetByID(ctx, e.foreign.ID)
	if got.Status != models.AppointmentScheduled {
		t.Errorf("status = %q, want scheduled", got.Status)
	}

	// Clients have no complete action.
	rec = serve(e.h.HandleRowAction, testutil.NewFormRequest("/appointments/x/actions/complete", url.Values{}), e.client,
		"id", e.upcoming.ID.Hex(), "action", "complete")
	if loc := rec.Header().Get("Location"); loc != "/appointments?msg=unavailable" {
		t.Errorf("Location = %q", loc)
	}
}

func TestHandleBulk_ProviderCompletes(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	serve(e.h.ServeList, testutil.NewRequest(http.MethodGet, "/appointments?filter=scheduled&toggle_page=1"), e.provider)
	if sel := page(t, e, e.provider, "/appointments?format=json").Selected; len(sel) != 2 {
		t.Fatalf("selected = %v, want 2 ids", sel)
	}

	rec := serve(e.h.HandleBulk, testutil.NewFormRequest("/appointments/bulk/complete", url.Values{}), e.provider,
		"action", "complete")
	if loc := rec.Header().Get("Location"); loc != "/appointments?msg=applied" {
		t.Fatalf("Location = %q", loc)
	}
	for _, a := range []models.Appointment{e.upcoming, e.foreign} {
		got, _ := e.store.GetByID(ctx, a.ID)
		if got.Status != models.AppointmentCompleted {
			t.Errorf("%s status = %q, want completed", a.Service, got.Status)
		}
	}
}

func TestHandleBulk_ClientRatesEligibleSelection(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Selects the completed and the scheduled appointment.
	serve(e.h.ServeList, testutil.NewRequest(http.MethodGet, "/appointments?toggle_page=1"), e.client)
	if sel := page(t, e, e.client, "/appointments?format=json").Selected; len(sel) != 2 {
		t.Fatalf("selected = %v, want 2 ids", sel)
	}
	bulkRate := func(form url.Values) *httptest.ResponseRecorder {
		return serve(e.h.HandleBulk, testutil.NewFormRequest("/appointments/bulk/rate", form), e.client, "action", "rate")
	}

	// No rating yet: the form is shown instead of a redirect.
	if rec := bulkRate(url.Values{}); rec.Header().Get("Location") != "" {
		t.Fatalf("rate without rating redirected to %q", rec.Header().Get("Location"))
	}
	if rec := bulkRate(url.Values{"rating": {"0"}}); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid rating: status = %d, want 422", rec.Code)
	}

	rec := bulkRate(url.Values{"rating": {"5"}})
	if loc := rec.Header().Get("Location"); loc != "/appointments?msg=applied" {
		t.Fatalf("Location = %q", loc)
	}
	done, _ := e.store.GetByID(ctx, e.done.ID)
	if done.Rating != 5 {
		t.Errorf("completed rating = %d, want 5", done.Rating)
	}
	upcoming, _ := e.store.GetByID(ctx, e.upcoming.ID)
	if upcoming.Rating != 0 {
		t.Errorf("scheduled appointment was rated %d", upcoming.Rating)
	}
}

func TestServeExport_JSON(t *testing.T) {
	e := newEnv(t)
	rec := serve(e.h.ServeExport, testutil.NewRequest(http.MethodGet, "/appointments/export/json"), e.other, "format", "json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var rows []models.Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != e.foreign.ID {
		t.Errorf("export = %+v", rows)
	}
}
