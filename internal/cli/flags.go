package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// StatusCommand — show store backend, seen-message stats, daemon health.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// CheckCommand — report whether a message may still be shown.
type CheckCommand struct {
	ID string `long:"id" description:"Message ID (required)"`

	globals *GlobalFlags
	version string
}

// MarkCommand — record a message as shown.
type MarkCommand struct {
	ID string `long:"id" description:"Message ID (required)"`

	globals *GlobalFlags
	version string
}

// ClassifyCommand — classify a navigation the way a message surface would.
type ClassifyCommand struct {
	URL          string `long:"url" description:"Navigation URL (required)"`
	InAppBrowser bool   `long:"in-app-browser" description:"Classify as if the surface were an in-app browser"`

	globals *GlobalFlags
	version string
}

// RouteCommand — resolve a deep link to an app destination.
type RouteCommand struct {
	URL string `long:"url" description:"Deep link URL (required)"`

	globals *GlobalFlags
	version string
}

// InspectCommand — classify every link in an in-app message document.
type InspectCommand struct {
	File string `long:"file" description:"HTML file to scan, - for stdin (required)"`
	Base string `long:"base" description:"URL the document was loaded from" default:"https://localhost/"`

	globals *GlobalFlags
	version string
}

// ServeCommand — run the local HTTP daemon.
type ServeCommand struct {
	Host     string `long:"host" description:"Override daemon host"`
	Port     int    `long:"port" description:"Override daemon port"`
	LogLevel string `long:"log-level" description:"Override log level"`

	globals *GlobalFlags
	version string
}
