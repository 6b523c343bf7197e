package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the root of a route group.
	RouterRootPath = "/"

	// AdminPath is the prefix of every admin page.
	AdminPath = "/admin"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
