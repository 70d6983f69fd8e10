package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/inkgate/internal/seen"
)

// Execute implements the go-flags Commander interface for MarkCommand.
func (c *MarkCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for mark command")
	}

	ctx := context.Background()
	_, gate, cleanup, err := prepare(ctx, c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithGate(ctx, gate)
}

// executeWithGate marks the message shown on a provided gate (used by tests).
// MarkShown swallows storage faults, so the result is read back to report
// whether the record is durable.
func (c *MarkCommand) executeWithGate(ctx context.Context, gate *seen.Store) error {
	gate.MarkShown(ctx, c.ID)

	recorded, err := gate.Has(ctx, c.ID)
	if err != nil {
		recorded = false
	}

	if c.globals.JSON {
		return printJSON(map[string]interface{}{
			"id":       c.ID,
			"recorded": recorded,
		})
	}

	if recorded {
		fmt.Printf("Marked %s as shown\n", c.ID)
	} else {
		fmt.Printf("Could not record %s; it will be shown again\n", c.ID)
	}
	return nil
}
