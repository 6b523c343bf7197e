package config

import (
	"time"

	"github.com/GoCurtain/GoCurtain/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Curtain holds the maintenance page settings that are not part of the
// options record.
type Curtain struct {
	// ThemeBackground is the site's own background color (hex, no '#').
	// It becomes the default notice background.
	ThemeBackground string
	// LoginPath is never blocked by the curtain.
	LoginPath string
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Curtain   Curtain
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	DisableRecover bool    // disable recover middleware
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}
