package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Status   *StatusCommand
	Check    *CheckCommand
	Mark     *MarkCommand
	Classify *ClassifyCommand
	Route    *RouteCommand
	Inspect  *InspectCommand
	Serve    *ServeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "inkgate"
	parser.LongDescription = "Seen-message gate and link interceptor for in-app messages."

	cmds := &commands{
		Status:   &StatusCommand{globals: &globals, version: version},
		Check:    &CheckCommand{globals: &globals, version: version},
		Mark:     &MarkCommand{globals: &globals, version: version},
		Classify: &ClassifyCommand{globals: &globals, version: version},
		Route:    &RouteCommand{globals: &globals, version: version},
		Inspect:  &InspectCommand{globals: &globals, version: version},
		Serve:    &ServeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("status", "Show store statistics", "Show the storage backend, seen-message statistics, and daemon health.", cmds.Status)
	parser.AddCommand("check", "Check whether a message may be shown", "Report whether an in-app message has not been shown yet.", cmds.Check)
	parser.AddCommand("mark", "Mark a message as shown", "Record an in-app message as shown so it is never shown again.", cmds.Mark)
	parser.AddCommand("classify", "Classify a navigation URL", "Show what a message surface does when a link is tapped.", cmds.Classify)
	parser.AddCommand("route", "Resolve a deep link", "Resolve a deep link to a product, category, or product listing.", cmds.Route)
	parser.AddCommand("inspect", "Classify every link in a message document", "Scan an in-app message HTML document and classify each link it contains.", cmds.Inspect)
	parser.AddCommand("serve", "Start the inkgate daemon", "Start the inkgate daemon (local HTTP service).", cmds.Serve)

	return parser, &globals, cmds
}

// Run is the main entry point for the inkgate CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("inkgate %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
