package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tenderdesk/tenderdesk/internal/backend"
	"github.com/tenderdesk/tenderdesk/internal/config"
	fiberlogger "github.com/tenderdesk/tenderdesk/internal/logger/adapter/fiber"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/admin/currency"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/admin/department"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/admin/role"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/admin/settings/apiserver"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/admin/supplier"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/admin/user"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/dashboard"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/login"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/logout"
	requisitionofficers "github.com/tenderdesk/tenderdesk/internal/web/handler/requisition/officers"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/tender/committee"
	tenderofficers "github.com/tenderdesk/tenderdesk/internal/web/handler/tender/officers"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/tender/prepmanager"
	"github.com/tenderdesk/tenderdesk/internal/web/handler/tender/publication"
	"github.com/tenderdesk/tenderdesk/internal/web/middleware/auth"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the portal.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	// Wait interrupt or shutdown request through /shutdown
	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, api *backend.Client) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if api == nil {
		panic("api client cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	// Add template helper functions
	templateEngine.AddFunc("iterate", func(count int) []int {
		result := make([]int, count)
		for i := range result {
			result[i] = i
		}

		return result
	})
	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("sub", func(a, b int) int {
		return a - b
	})
	templateEngine.AddFunc("containsID", func(ids []int64, id int64) bool {
		for _, v := range ids {
			if v == id {
				return true
			}
		}

		return false
	})
	templateEngine.AddFunc("managerIs", func(managerID *int64, id int64) bool {
		return managerID != nil && *managerID == id
	})

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "TenderDesk",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
		},
	)

	// access logging
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: "/healthz",
	}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	// init web service
	service := &Service{
		cfg: cfg,
		App: app,
		db:  db,
	}

	// liveness probe, outside the session gate
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("ok")
	})
	service.alive.Store(true)

	// session middleware
	app.Use(auth.Middleware)

	// init handlers (they register their own routes with role checks)
	mustInit := func(name string, err error) {
		if err != nil {
			log.Fatal().Err(err).Str("handler", name).Msg("handler init failed")
		}
	}

	mustInit("login", login.Handler.Init(app, cfg, api))
	logout.Handler.Init(app, cfg)
	mustInit("dashboard", dashboard.Handler.Init(app, cfg, api))
	mustInit("admin/user", user.Handler.Init(app, cfg, api))
	mustInit("admin/role", role.Handler.Init(app, cfg, api))
	mustInit("admin/department", department.Handler.Init(app, cfg, api))
	mustInit("admin/currency", currency.Handler.Init(app, cfg, api))
	mustInit("admin/supplier", supplier.Handler.Init(app, cfg, api))
	mustInit("admin/settings/api-server", apiserver.Handler.Init(app, cfg, api, db))
	mustInit("requisition/officers", requisitionofficers.Handler.Init(app, cfg, api))
	mustInit("tender/officers", tenderofficers.Handler.Init(app, cfg, api))
	mustInit("tender/prep-manager", prepmanager.Handler.Init(app, cfg, api))
	mustInit("tender/committee", committee.Handler.Init(app, cfg, api))
	mustInit("tender/publication", publication.Handler.Init(app, cfg, api))

	// redirect root to dashboard
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(dashboard.Path)
	})

	return service
}
