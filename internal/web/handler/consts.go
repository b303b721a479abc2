package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the root path inside a route group.
	RouterRootPath = ""

	// ErrNilACDFatalLogMsg is used if app or cfg or api var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or api client is nil"
)
