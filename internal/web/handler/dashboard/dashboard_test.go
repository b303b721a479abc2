package dashboard

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
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

// snapshotViews is a Fiber Views engine for tests that writes the rendered
// snapshot's pending supplier count, so tests can tell snapshots apart.
type snapshotViews struct{}

func (snapshotViews) Load() error { return nil }

func (snapshotViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if snap, isSnap := m["Snapshot"].(Snapshot); isSnap {
			_, _ = fmt.Fprintf(w, "pending=%d", snap.PendingSuppliers)
			return nil
		}
	}

	_, _ = io.WriteString(w, name)

	return nil
}

// testStorage is a minimal in-memory implementation of storage.Storage.
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

// writeSession stores a session for one user under the given cookie value.
func writeSession(t *testing.T, sessionID, userID, token string) {
	t.Helper()

	data := &websess.Data{
		Token: token,
		User: identity.Identity{
			ID:    userID,
			Roles: []string{auth.RoleRequester},
		},
	}

	if err := data.Write(sessionID, time.Minute); err != nil {
		t.Fatalf("failed to write session: %v", err)
	}
}

// newApp wires the handler against a stub that scopes the pending supplier
// list by the caller's token.
func newApp(t *testing.T, pendingByToken map[string]int) *fiber.App {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/suppliers") {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

			suppliers := make([]string, 0, pendingByToken[token])
			for i := 0; i < pendingByToken[token]; i++ {
				suppliers = append(suppliers, `{"id":1,"name":"S","status":"pending"}`)
			}

			_, _ = io.WriteString(w, "["+strings.Join(suppliers, ",")+"]")

			return
		}

		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(srv.Close)

	app := fiber.New(fiber.Config{Views: snapshotViews{}})

	var s Service
	if err := s.Init(app, &config.Config{Title: "TenderDesk"}, backend.New(srv.URL, time.Second)); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	return app
}

func performGet(t *testing.T, app *fiber.App, sessionID string) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, Path, nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)

	return string(body)
}

func TestGetSnapshotIsScopedPerIdentity(t *testing.T) {
	websess.Init(&testStorage{data: make(map[string][]byte)})
	writeSession(t, "session-a", "u-1", "token-a")
	writeSession(t, "session-b", "u-2", "token-b")

	app := newApp(t, map[string]int{"token-a": 1, "token-b": 3})

	if body := performGet(t, app, "session-a"); body != "pending=1" {
		t.Fatalf("expected first user's own counts, got %q", body)
	}

	// the second user must not be served the first user's cached snapshot
	if body := performGet(t, app, "session-b"); body != "pending=3" {
		t.Fatalf("expected second user's own counts, got %q", body)
	}

	// repeat visits keep serving the visitor's own cache
	if body := performGet(t, app, "session-a"); body != "pending=1" {
		t.Fatalf("expected cached counts for the first user, got %q", body)
	}
}
