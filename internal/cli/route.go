package cli

import (
	"fmt"

	"github.com/runnerr0/inkgate/internal/deeplink"
)

// Execute implements the go-flags Commander interface for RouteCommand.
func (c *RouteCommand) Execute(args []string) error {
	if c.URL == "" {
		return fmt.Errorf("--url is required for route command")
	}

	d, ok := deeplink.RouteString(c.URL)
	if !ok {
		return fmt.Errorf("no route for %s", c.URL)
	}

	if c.globals.JSON {
		return printJSON(d)
	}

	fmt.Printf("Destination:  %s\n", d.Kind)
	switch d.Kind {
	case deeplink.KindProduct:
		fmt.Printf("Product:      %s\n", d.ProductID)
	case deeplink.KindCategory:
		fmt.Printf("Gender:       %s\n", d.Gender)
	case deeplink.KindProducts:
		fmt.Printf("Gender:       %s\n", d.Gender)
		fmt.Printf("Category:     %s\n", d.Category)
	}
	return nil
}
