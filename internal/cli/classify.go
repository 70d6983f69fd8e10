package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/runnerr0/inkgate/internal/linkscan"
)

// Execute implements the go-flags Commander interface for ClassifyCommand.
func (c *ClassifyCommand) Execute(args []string) error {
	if c.URL == "" {
		return fmt.Errorf("--url is required for classify command")
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid URL: %s", c.URL)
	}

	f := linkscan.Describe(u, c.InAppBrowser)
	if c.globals.JSON {
		return printJSON(f)
	}
	printFinding(f)
	return nil
}

func printFinding(f linkscan.Finding) {
	fmt.Println(f.URL)
	fmt.Printf("Action:       %s\n", f.Action)
	fmt.Printf("Policy:       %s\n", f.Policy)
	fmt.Printf("Tears down:   %s\n", yesNo(f.TearsDown))
	if len(f.Identifiers) > 0 {
		fmt.Printf("Identifiers:  %s\n", strings.Join(f.Identifiers, ", "))
	}
	fmt.Printf("Close button: %s\n", yesNo(f.ShowCloseButton))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
