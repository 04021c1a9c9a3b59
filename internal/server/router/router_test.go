package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/oliveraq/internal/config"
	"github.com/mamadbah2/oliveraq/internal/domain/models"
	"github.com/mamadbah2/oliveraq/internal/server/handlers"
	"github.com/mamadbah2/oliveraq/internal/service/auth"
	"github.com/mamadbah2/oliveraq/internal/service/employees"
	"github.com/mamadbah2/oliveraq/internal/service/orders"
	"github.com/mamadbah2/oliveraq/internal/service/quiz"
	"github.com/mamadbah2/oliveraq/internal/service/reporting"
	"github.com/mamadbah2/oliveraq/internal/service/stock"
)

var today = models.NewDate(2026, time.October, 19)

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	calendar := models.FixedCalendar(today)
	account, err := auth.NewAccount("admin")
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	gate := auth.NewGate(auth.OpenChecker, auth.NewSessionManager(), nil)
	reports := reporting.NewService(config.BusinessConfig{Name: "OLIVERAQ", City: "Tunis", VATPct: 19}, t.TempDir(), calendar, nil)

	engine := New(Handlers{
		Auth:      handlers.NewAuthHandler(gate, account, nil),
		Calc:      handlers.NewCalcHandler(nil),
		Employees: handlers.NewEmployeeHandler(employees.NewService(calendar, nil), reports, nil),
		Orders: handlers.NewOrderHandler([]*orders.Service{
			orders.NewService(models.KindClient, calendar, nil),
			orders.NewService(models.KindSupplier, calendar, nil),
		}, reports, nil),
		Stock: handlers.NewStockHandler(stock.NewService(calendar, nil), reports, nil),
		Quiz:  handlers.NewQuizHandler(quiz.NewRegistry(), nil),
	}, nil)

	srv := &testServer{t: t, engine: engine}
	rec := srv.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "x"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body)
	}
	var session auth.Session
	srv.decode(rec, &session)
	srv.token = session.Token
	return srv
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set(handlers.SessionHeader, s.token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) decode(rec *httptest.ResponseRecorder, v any) {
	s.t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		s.t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestHealthAndSessionGate(t *testing.T) {
	srv := newTestServer(t)
	expectStatus(t, srv.do(http.MethodGet, "/healthz", nil), http.StatusOK)

	srv.token = ""
	expectStatus(t, srv.do(http.MethodGet, "/api/employees", nil), http.StatusUnauthorized)

	srv.token = "not-a-session"
	expectStatus(t, srv.do(http.MethodGet, "/api/stock", nil), http.StatusUnauthorized)
}

func TestLogoutClosesSession(t *testing.T) {
	srv := newTestServer(t)
	expectStatus(t, srv.do(http.MethodPost, "/api/auth/logout", nil), http.StatusNoContent)
	expectStatus(t, srv.do(http.MethodGet, "/api/quiz", nil), http.StatusUnauthorized)
}

func TestChangePassword(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodPost, "/api/auth/password", map[string]string{"old_password": "admin", "new_password": "ab", "confirm_password": "ab"})
	expectStatus(t, rec, http.StatusUnprocessableEntity)
	var body map[string]string
	srv.decode(rec, &body)
	if body["error"] != "Le mot de passe doit contenir au moins 4 caractères." || body["field"] != "password" {
		t.Fatalf("unexpected notice %v", body)
	}

	rec = srv.do(http.MethodPost, "/api/auth/password", map[string]string{"old_password": "nope", "new_password": "abcd", "confirm_password": "abcd"})
	expectStatus(t, rec, http.StatusUnauthorized)
	body = nil
	srv.decode(rec, &body)
	if body["error"] != "L'ancien mot de passe est incorrect." {
		t.Fatalf("unexpected notice %v", body)
	}

	rec = srv.do(http.MethodPost, "/api/auth/password", map[string]string{"old_password": "admin", "new_password": "abcd", "confirm_password": "abcd"})
	expectStatus(t, rec, http.StatusOK)
}

func TestCalcInvoice(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(http.MethodPost, "/api/calc/invoice", map[string]string{"price_before_tax": "100", "discount_pct": "10", "vat_pct": "19", "advance": "7"})
	expectStatus(t, rec, http.StatusOK)

	var fields map[string]string
	srv.decode(rec, &fields)
	if fields["price_after_discount"] != "90.00" || fields["price_after_tax"] != "107.10" || fields["remaining_balance"] != "100.10" {
		t.Fatalf("unexpected fields %v", fields)
	}

	rec = srv.do(http.MethodPost, "/api/calc/yield", map[string]string{"type": "Olive", "raw_quantity_kg": "10", "produced_quantity_l": "2"})
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"yield":""`) {
		t.Fatalf("olive yield should be blank: %s", rec.Body)
	}
}

func TestEmployeeLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodPost, "/api/employees", map[string]any{"last_name": "", "first_name": "Sami"})
	expectStatus(t, rec, http.StatusUnprocessableEntity)
	if !strings.Contains(rec.Body.String(), `"field":"name"`) {
		t.Fatalf("expected field in body: %s", rec.Body)
	}

	rec = srv.do(http.MethodPost, "/api/employees", map[string]any{
		"last_name": "Trabelsi", "first_name": "Sami", "position": "Opérateur", "salary": 1200, "hours": 160,
		"hire_date": "02/03/2020", "birth_date": "15/06/1990",
	})
	expectStatus(t, rec, http.StatusCreated)
	var created models.Employee
	srv.decode(rec, &created)
	if created.ID != 1 || created.Ref == "" {
		t.Fatalf("unexpected employee %+v", created)
	}

	expectStatus(t, srv.do(http.MethodGet, "/api/employees/stats", nil), http.StatusOK)
	expectStatus(t, srv.do(http.MethodGet, "/api/employees/unknown", nil), http.StatusNotFound)
	expectStatus(t, srv.do(http.MethodGet, "/api/employees?sort=bogus", nil), http.StatusUnprocessableEntity)

	rec = srv.do(http.MethodGet, "/api/employees/"+created.Ref+"/attestation", nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "Attestation_Trabelsi_Sami.pdf") {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}

	rec = srv.do(http.MethodDelete, "/api/employees/"+created.Ref, nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"deleted":false`) {
		t.Fatalf("unconfirmed delete must be a no-op: %s", rec.Body)
	}
	rec = srv.do(http.MethodDelete, "/api/employees/"+created.Ref+"?confirm=true", nil)
	if !strings.Contains(rec.Body.String(), `"deleted":true`) {
		t.Fatalf("confirmed delete failed: %s", rec.Body)
	}
	expectStatus(t, srv.do(http.MethodGet, "/api/employees/"+created.Ref, nil), http.StatusNotFound)
}

func TestOrdersByKind(t *testing.T) {
	srv := newTestServer(t)

	expectStatus(t, srv.do(http.MethodGet, "/api/orders/partners", nil), http.StatusNotFound)

	rec := srv.do(http.MethodPost, "/api/orders/suppliers", map[string]any{
		"counterparty": "Agri Sfax", "product": "Olives", "price_before_tax": "100", "delivery_date": today.String(),
	})
	expectStatus(t, rec, http.StatusCreated)
	var order models.Order
	srv.decode(rec, &order)
	if order.ID != "CMD-F-1" || order.Status != models.StatusDelivered {
		t.Fatalf("unexpected order %+v", order)
	}

	expectStatus(t, srv.do(http.MethodPost, "/api/orders/suppliers/save", map[string]any{}), http.StatusUnprocessableEntity)

	rec = srv.do(http.MethodGet, "/api/orders/suppliers/stats", nil)
	expectStatus(t, rec, http.StatusOK)
	var stats orders.Statistics
	srv.decode(rec, &stats)
	if stats.TotalOrders != 1 || stats.Best.Counterparty != "Agri Sfax" {
		t.Fatalf("unexpected stats %+v", stats)
	}

	rec = srv.do(http.MethodGet, "/api/orders/clients", nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"orders":[]`) {
		t.Fatalf("client table should be independent: %s", rec.Body)
	}

	rec = srv.do(http.MethodGet, "/api/orders/suppliers/"+order.Ref+"/invoice", nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "Facture_Fournisseur_Agri_Sfax.pdf") {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
}

func TestStockFormFlow(t *testing.T) {
	srv := newTestServer(t)

	expectStatus(t, srv.do(http.MethodPost, "/api/stock/form/new", nil), http.StatusOK)
	rec := srv.do(http.MethodPost, "/api/stock/form/quantities", map[string]string{"raw_quantity_kg": "500", "produced_quantity_l": "100"})
	expectStatus(t, rec, http.StatusOK)
	var state stock.FormState
	srv.decode(rec, &state)
	if state.Fields.Yield != "5.00" {
		t.Fatalf("unexpected yield %q", state.Fields.Yield)
	}

	expectStatus(t, srv.do(http.MethodPost, "/api/stock/form/save", nil), http.StatusUnprocessableEntity)

	state.Fields.Identifier = "P1"
	expectStatus(t, srv.do(http.MethodPost, "/api/stock/form/fields", state.Fields), http.StatusOK)
	expectStatus(t, srv.do(http.MethodPost, "/api/stock/form/save", nil), http.StatusOK)

	rec = srv.do(http.MethodGet, "/api/stock?type=Olive", nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"batches":[]`) {
		t.Fatalf("olive filter should hide the oil batch: %s", rec.Body)
	}

	rec = srv.do(http.MethodGet, "/api/stock/report?format=xlsx", nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "Etat_Stock_2026_10.xlsx") {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
	expectStatus(t, srv.do(http.MethodGet, "/api/stock/report?format=doc", nil), http.StatusBadRequest)

	rec = srv.do(http.MethodPost, "/api/stock/report/publish", nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"batch_count":1`) {
		t.Fatalf("unexpected publish result: %s", rec.Body)
	}
}

func TestQuizFlow(t *testing.T) {
	srv := newTestServer(t)

	expectStatus(t, srv.do(http.MethodPost, "/api/quiz/next", nil), http.StatusConflict)
	expectStatus(t, srv.do(http.MethodPost, "/api/quiz/answer", map[string]any{}), http.StatusUnprocessableEntity)

	rec := srv.do(http.MethodPost, "/api/quiz/answer", map[string]int{"option": 1})
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"correct":true`) {
		t.Fatalf("option 1 answers the first question: %s", rec.Body)
	}

	rec = srv.do(http.MethodPost, "/api/quiz/next", nil)
	expectStatus(t, rec, http.StatusOK)
	var state quiz.State
	srv.decode(rec, &state)
	if state.Index != 1 || state.Question == nil {
		t.Fatalf("unexpected state %+v", state)
	}

	rec = srv.do(http.MethodPost, "/api/quiz/restart", nil)
	srv.decode(rec, &state)
	if state.Index != 0 {
		t.Fatalf("restart should go back to the first question: %+v", state)
	}
}
