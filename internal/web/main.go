// Package web wires the fiber application: middleware chain, the curtain
// gate and every route.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoCurtain/GoCurtain/internal/auth"
	"github.com/GoCurtain/GoCurtain/internal/config"
	"github.com/GoCurtain/GoCurtain/internal/curtain"
	fiberlog "github.com/GoCurtain/GoCurtain/internal/logger/adapter/fiber"
	"github.com/GoCurtain/GoCurtain/internal/web/adminbar"
	"github.com/GoCurtain/GoCurtain/internal/web/gate"
	"github.com/GoCurtain/GoCurtain/internal/web/handler"
	"github.com/GoCurtain/GoCurtain/internal/web/handler/dashboard"
	"github.com/GoCurtain/GoCurtain/internal/web/handler/login"
	"github.com/GoCurtain/GoCurtain/internal/web/handler/logout"
	"github.com/GoCurtain/GoCurtain/internal/web/handler/settings"
	"github.com/GoCurtain/GoCurtain/internal/web/handler/site"
	"github.com/GoCurtain/GoCurtain/internal/web/identity"
	"github.com/GoCurtain/GoCurtain/internal/web/notice"
	"github.com/GoCurtain/GoCurtain/internal/web/toggle"
)

const (
	// StaticPath serves the embedded assets.
	StaticPath = "/static"

	// MetricsPath serves prometheus metrics.
	MetricsPath = "/metrics"

	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
	plugin       *curtain.Plugin
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and stops the server gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

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

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, plugin *curtain.Plugin, views fiber.Views) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if plugin == nil {
		panic("plugin cannot be nil")
	}

	if views == nil {
		views = newTemplateEngine(cfg)
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize:    8192,
			AppName:           "GoCurtain",
			CaseSensitive:     true,
			Prefork:           false,
			Immutable:         true,
			Views:             views,
			PassLocalsToViews: true,
		},
	)

	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: auth.NewService(db),
		plugin:      plugin,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(fiberlog.New(fiberlog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(StaticPath,
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	app.Use(identity.Identify)

	// the curtain runs before any content handler
	app.Use(gate.New(gate.Config{
		Loader:         plugin,
		LoginPath:      cfg.Curtain.LoginPath,
		PublicPrefixes: []string{StaticPath},
		Title:          cfg.Title,
	}))

	app.Use(auth.AddCapabilitiesToLocals(service.authService))
	app.Use(adminbar.New(adminbar.Config{
		Loader:      plugin,
		AuthService: service.authService,
		AdminPath:   handler.AdminPath,
	}))

	if err := login.Handler.Init(app, cfg, db); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}

	_ = logout.Handler.Init(app, cfg)
	_ = site.Handler.Init(app, cfg)

	admin := app.Group(handler.AdminPath,
		identity.RequireLogin(cfg.Curtain.LoginPath),
		notice.New(),
		toggle.New(toggle.Config{
			Plugin:       plugin,
			AuthService:  service.authService,
			SettingsPath: settings.Path,
			OptionsPath:  settings.OptionsPath,
		}),
	)

	dashboard.Handler.Init(admin, cfg, plugin)
	settings.Handler.Init(admin, cfg, plugin, service.authService)

	return service
}

func newTemplateEngine(cfg *config.Config) *html.Engine {
	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("join", strings.Join)

	return templateEngine
}
