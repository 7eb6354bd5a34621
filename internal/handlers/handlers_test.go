package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/abrezinsky/eventvote/internal/auth"
	"github.com/abrezinsky/eventvote/internal/handlers"
	"github.com/abrezinsky/eventvote/internal/logger"
	"github.com/abrezinsky/eventvote/internal/metrics"
	"github.com/abrezinsky/eventvote/internal/repository"
	"github.com/abrezinsky/eventvote/internal/services"
	"github.com/abrezinsky/eventvote/internal/testutil"
)

const testPassword = "test-password"

type testSetup struct {
	repo       *repository.Repository
	fx         *testutil.Fixture
	router     chi.Router
	metrics    *metrics.Manager
	authCookie *http.Cookie
}

// newTestSetup wires real services over an in-memory repository seeded with a ranked event
func newTestSetup(t *testing.T) *testSetup {
	t.Helper()

	repo := testutil.NewTestRepository(t)
	fx := testutil.SeedRankedEvent(t, repo)
	return newTestSetupWithRepo(t, repo, fx)
}

func newTestSetupWithRepo(t *testing.T, repo repository.FullRepository, fx *testutil.Fixture) *testSetup {
	t.Helper()
	log := logger.New()

	votingService := services.NewVotingService(log, repo, nil)
	resultsService := services.NewResultsService(log, repo, nil, 10)
	eventService := services.NewEventService(log, repo, nil, "http://vote.example.com")
	m := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
	adminAuth := auth.New(testPassword)

	h := handlers.New(votingService, resultsService, eventService, adminAuth, nil, m, log)

	token, _ := adminAuth.Login(testPassword)
	s := &testSetup{
		fx:         fx,
		router:     h.Router(),
		metrics:    m,
		authCookie: &http.Cookie{Name: auth.CookieName, Value: token},
	}
	if r, ok := repo.(*repository.Repository); ok {
		s.repo = r
	}
	return s
}

// do sends a request through the router. userID 0 omits the voter header.
func (s *testSetup) do(t *testing.T, method, path string, body interface{}, userID int) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(handlers.UserIDHeader, strconv.Itoa(userID))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// admin sends an authenticated admin request
func (s *testSetup) admin(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.AddCookie(s.authCookie)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testSetup) eventPath(suffix string) string {
	return "/api/events/" + strconv.Itoa(s.fx.EventID) + suffix
}

func (s *testSetup) adminEventPath(suffix string) string {
	return "/api/admin/events/" + strconv.Itoa(s.fx.EventID) + suffix
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handlers.APIError {
	t.Helper()
	var apiErr handlers.APIError
	if err := json.NewDecoder(rec.Body).Decode(&apiErr); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return apiErr
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		t.Fatalf("failed to encode body: %v", err)
	}
	return &buf
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
