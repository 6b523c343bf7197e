// Package daemon opens the database, prepares the curtain and runs the web
// service.
package daemon

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoCurtain/GoCurtain/internal/config"
	"github.com/GoCurtain/GoCurtain/internal/curtain"
	"github.com/GoCurtain/GoCurtain/internal/db/dsn"
	"github.com/GoCurtain/GoCurtain/internal/db/models"
	"github.com/GoCurtain/GoCurtain/internal/web"
	"github.com/GoCurtain/GoCurtain/internal/web/session"
)

const (
	sessionTable       = "sessions"
	slowQueryThreshold = 200 * time.Millisecond
)

// ErrNilConfig is returned when no configuration was given.
var ErrNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until it stops.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

func dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return gormmysql.Open(dsn.Create(cfg)), nil
	case config.EnginePostgres:
		return gormpostgres.Open(dsn.Create(cfg)), nil
	case config.EngineSQLite, "":
		return sqlite.Open(dsn.Create(cfg)), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownGormEngine, cfg.DB.GormEngine)
	}
}

// newGormLogger writes gorm's statements through w. A missing record is an
// expected answer for the options and grants lookups, so it is not logged.
func newGormLogger(w gormlogger.Writer, devMode bool) gormlogger.Interface {
	level := gormlogger.Warn
	if devMode {
		level = gormlogger.Info
	}

	return gormlogger.New(w, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// OpenDB connects to the configured database, migrates the schema and
// seeds roles and the first user. The curtain is activated only when the
// roles are seeded, so a restart never widens the grants.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	dbDriver, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dbDriver, &gorm.Config{
		Logger: newGormLogger(&log.Logger, cfg.DevMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err = seed(db, cfg.Curtain.ThemeBackground); err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	return db, nil
}

// sessionStorage keeps sessions next to the data for server databases.
// SQLite installs keep them in memory.
func sessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		})
	default:
		return nil
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	plugin := curtain.New(db, cfg.Curtain.ThemeBackground)

	session.Init(sessionStorage(cfg))

	log.Info().Str("engine", cfg.DB.GormEngine).Msg("curtain ready")

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, plugin, nil),
	}, nil
}
