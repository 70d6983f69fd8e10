package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/runnerr0/inkgate/internal/linkscan"
)

// Execute implements the go-flags Commander interface for InspectCommand.
func (c *InspectCommand) Execute(args []string) error {
	if c.File == "" {
		return fmt.Errorf("--file is required for inspect command")
	}

	var r io.Reader = os.Stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("opening document: %w", err)
		}
		defer f.Close()
		r = f
	}

	return c.executeWithReader(r)
}

// executeWithReader scans a document from r (used by tests).
func (c *InspectCommand) executeWithReader(r io.Reader) error {
	findings, err := linkscan.Scan(c.Base, r)
	if err != nil {
		return err
	}

	if c.globals.JSON {
		if findings == nil {
			findings = []linkscan.Finding{}
		}
		return printJSON(findings)
	}

	if len(findings) == 0 {
		fmt.Println("No links found")
		return nil
	}

	fmt.Printf("%d links\n\n", len(findings))
	for _, f := range findings {
		ids := ""
		if len(f.Identifiers) > 0 {
			ids = " [" + strings.Join(f.Identifiers, ", ") + "]"
		}
		fmt.Printf("  %-20s %-7s %s%s\n", f.Action, f.Policy, f.URL, ids)
	}
	return nil
}
