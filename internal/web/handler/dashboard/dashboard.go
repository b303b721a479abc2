// Package dashboard provides the dashboard handler showing a snapshot of
// the procurement pipeline.
package dashboard

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/tenderdesk/tenderdesk/internal/auth"
	"github.com/tenderdesk/tenderdesk/internal/backend"
	"github.com/tenderdesk/tenderdesk/internal/config"
	"github.com/tenderdesk/tenderdesk/internal/refresh"
	"github.com/tenderdesk/tenderdesk/internal/web/handler"
	"github.com/tenderdesk/tenderdesk/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	defaultTimeout = 30 * time.Second
)

// StatusCount is one status bucket with its item count.
type StatusCount struct {
	Status string
	Count  int
}

// Snapshot is the cached dashboard state. A zero Taken time means no
// snapshot has been fetched yet.
type Snapshot struct {
	Requisitions     []StatusCount
	Tenders          []StatusCount
	PendingSuppliers int
	Unassigned       int
	Taken            time.Time
	Degraded         bool
}

// viewCache is the snapshot state of one signed-in user. Snapshots are
// never shared between identities, every fetch runs with its owner's
// token, so role-scoped API results stay with that user.
type viewCache struct {
	mu       sync.RWMutex
	snapshot Snapshot
	deb      *refresh.Debouncer
	guard    refresh.Guard
}

// Service is the dashboard handler service.
type Service struct {
	cfg *config.Config
	api *backend.Client

	mu     sync.Mutex
	caches map[string]*viewCache
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, api *backend.Client) error {
	if app == nil || cfg == nil || api == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return nil
	}

	s.cfg = cfg
	s.api = api
	s.caches = make(map[string]*viewCache)

	app.Get(Path, s.Get)

	return nil
}

// Get handles the dashboard page rendering. A user's first request fetches
// their snapshot synchronously; later requests serve the cached one and
// schedule a debounced background refresh, so a burst of page loads hits
// the API once. The generation guard drops results of a refresh that was
// overtaken by a newer one.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Dashboard", "dashboard", "dashboard").
		AddBreadcrumb("Home", Path, false).
		AddBreadcrumb("Dashboard", Path, true)

	ident, _ := auth.CurrentIdentity(c)
	cache := s.cacheFor(ident.ID)
	token := auth.Token(c)

	cache.mu.RLock()
	snap := cache.snapshot
	cache.mu.RUnlock()

	if snap.Taken.IsZero() {
		snap = s.fetchSnapshot(token)
		cache.store(cache.guard.Begin(), snap)
	} else {
		s.scheduleRefresh(cache, token)
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Snapshot":   snap,
	}, handler.BaseLayout)
}

// cacheFor returns the snapshot cache of one identity, creating it on the
// user's first dashboard visit.
func (s *Service) cacheFor(userID string) *viewCache {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cache, ok := s.caches[userID]; ok {
		return cache
	}

	cache := &viewCache{deb: refresh.NewDebouncer(refresh.DefaultDelay)}
	s.caches[userID] = cache

	return cache
}

// scheduleRefresh queues a debounced background snapshot fetch for one
// user's cache.
func (s *Service) scheduleRefresh(cache *viewCache, token string) {
	gen := cache.guard.Begin()

	cache.deb.Trigger(func() {
		cache.store(gen, s.fetchSnapshot(token))
	})
}

// store installs a snapshot unless a newer refresh has started since.
func (c *viewCache) store(gen uint64, snap Snapshot) {
	if !c.guard.Keep(gen) {
		log.Debug().Uint64("generation", gen).Msg("dashboard snapshot superseded, dropping")
		return
	}

	c.mu.Lock()
	c.snapshot = snap
	c.mu.Unlock()
}

// fetchSnapshot pulls the pipeline state from the procurement API. A
// failing lookup degrades that part of the snapshot to empty instead of
// failing the page.
func (s *Service) fetchSnapshot(token string) Snapshot {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	snap := Snapshot{Taken: time.Now()}

	requisitions, err := s.api.Requisitions(ctx, token, "")
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch requisitions for dashboard")

		snap.Degraded = true
	}

	tenders, err := s.api.Tenders(ctx, token, "")
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch tenders for dashboard")

		snap.Degraded = true
	}

	suppliers, err := s.api.Suppliers(ctx, token, "pending")
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch pending suppliers for dashboard")

		snap.Degraded = true
	}

	snap.PendingSuppliers = len(suppliers)

	reqCounts := make(map[string]int)
	for i := range requisitions {
		reqCounts[requisitions[i].Status]++

		if len(requisitions[i].OfficerAssignments) == 0 {
			snap.Unassigned++
		}
	}

	tenderCounts := make(map[string]int)
	for i := range tenders {
		tenderCounts[tenders[i].Status]++

		if len(tenders[i].OfficerAssignments) == 0 {
			snap.Unassigned++
		}
	}

	snap.Requisitions = sortedCounts(reqCounts)
	snap.Tenders = sortedCounts(tenderCounts)

	return snap
}

// sortedCounts flattens a status histogram into a stable, display-ready list.
func sortedCounts(counts map[string]int) []StatusCount {
	out := make([]StatusCount, 0, len(counts))

	for status, count := range counts {
		out = append(out, StatusCount{Status: status, Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Status) < strings.ToLower(out[j].Status)
	})

	return out
}
