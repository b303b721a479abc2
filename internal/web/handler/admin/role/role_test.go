package role

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"

	"github.com/tenderdesk/tenderdesk/internal/auth"
	"github.com/tenderdesk/tenderdesk/internal/backend"
	"github.com/tenderdesk/tenderdesk/internal/config"
	"github.com/tenderdesk/tenderdesk/internal/identity"
	websess "github.com/tenderdesk/tenderdesk/internal/web/session"
)

type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["Error"]; exists && v != nil {
			if msg, isString := v.(string); isString && msg != "" {
				_, _ = io.WriteString(w, msg)
				return nil
			}
		}
	}

	_, _ = io.WriteString(w, name)

	return nil
}

type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

const testSessionID = "test-session"

func signIn(t *testing.T) {
	t.Helper()

	websess.Init(&testStorage{data: make(map[string][]byte)})

	data := &websess.Data{
		Token: "test-token",
		User: identity.Identity{
			ID:    "u-1",
			Roles: []string{auth.RoleSysAdmin},
		},
	}

	if err := data.Write(testSessionID, time.Minute); err != nil {
		t.Fatalf("failed to write session: %v", err)
	}
}

// apiStub serves a fixed role list and counts write requests.
type apiStub struct {
	mu     sync.Mutex
	writes int
}

const rolesBody = `[
	{"id":1,"name":"SYS_ADMIN","isSystem":true,"usageCount":1},
	{"id":2,"name":"FIELD_AUDITOR","isSystem":false,"usageCount":3},
	{"id":3,"name":"DRAFT_ROLE","isSystem":false,"usageCount":0}
]`

func (a *apiStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(rolesBody))
			return
		}

		a.mu.Lock()
		a.writes++
		a.mu.Unlock()

		_, _ = w.Write([]byte(`{"id":3,"name":"RENAMED"}`))
	}
}

func (a *apiStub) writeCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.writes
}

func newApp(t *testing.T, stub *apiStub) *fiber.App {
	t.Helper()

	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	app := fiber.New(fiber.Config{Views: noOpViews{}})

	var s Service
	if err := s.Init(app, &config.Config{Title: "TenderDesk"}, backend.New(srv.URL, time.Second)); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	return app
}

func performPost(t *testing.T, app *fiber.App, target string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "session", Value: testSessionID})

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func TestRenameSystemRoleRejectedLocally(t *testing.T) {
	signIn(t)

	stub := &apiStub{}
	app := newApp(t, stub)

	form := url.Values{"name": {"SUPER_ADMIN"}, "description": {""}}
	resp := performPost(t, app, Path+"/1", form)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "cannot be renamed") {
		t.Fatalf("expected rename rejection message, got %q", string(body))
	}

	if n := stub.writeCount(); n != 0 {
		t.Fatalf("expected no update request for a rejected rename, got %d", n)
	}
}

func TestRenameRoleInUseRejectedLocally(t *testing.T) {
	signIn(t)

	stub := &apiStub{}
	app := newApp(t, stub)

	form := url.Values{"name": {"SITE_AUDITOR"}, "description": {""}}
	resp := performPost(t, app, Path+"/2", form)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	if n := stub.writeCount(); n != 0 {
		t.Fatalf("expected no update request for a rejected rename, got %d", n)
	}
}

func TestRenameUnusedRoleAllowed(t *testing.T) {
	signIn(t)

	stub := &apiStub{}
	app := newApp(t, stub)

	form := url.Values{"name": {"RENAMED"}, "description": {""}}
	resp := performPost(t, app, Path+"/3", form)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 redirect, got %d", resp.StatusCode)
	}

	if n := stub.writeCount(); n != 1 {
		t.Fatalf("expected exactly one update request, got %d", n)
	}
}

func TestDescriptionChangeOnSystemRoleAllowed(t *testing.T) {
	signIn(t)

	stub := &apiStub{}
	app := newApp(t, stub)

	// name unchanged, only the description differs
	form := url.Values{"name": {"SYS_ADMIN"}, "description": {"Full administrative access"}}
	resp := performPost(t, app, Path+"/1", form)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 redirect, got %d", resp.StatusCode)
	}

	if n := stub.writeCount(); n != 1 {
		t.Fatalf("expected exactly one update request, got %d", n)
	}
}
