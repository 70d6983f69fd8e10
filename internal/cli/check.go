package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/inkgate/internal/seen"
)

type checkJSON struct {
	ID      string `json:"id"`
	Seen    bool   `json:"seen"`
	CanShow bool   `json:"can_show"`
	Error   string `json:"error,omitempty"`
}

// Execute implements the go-flags Commander interface for CheckCommand.
func (c *CheckCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for check command")
	}

	ctx := context.Background()
	_, gate, cleanup, err := prepare(ctx, c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithGate(ctx, gate)
}

// executeWithGate runs the check against a provided gate (used by tests).
// can_show follows the gate's fail-open rule even when the lookup fails.
func (c *CheckCommand) executeWithGate(ctx context.Context, gate *seen.Store) error {
	out := checkJSON{ID: c.ID}

	has, err := gate.Has(ctx, c.ID)
	if err != nil {
		out.Error = err.Error()
	}
	out.Seen = has
	out.CanShow = gate.CanShow(ctx, c.ID)

	if c.globals.JSON {
		return printJSON(out)
	}

	if out.CanShow {
		fmt.Printf("%s: can show\n", c.ID)
	} else {
		fmt.Printf("%s: already shown\n", c.ID)
	}
	if out.Error != "" {
		fmt.Printf("  Lookup failed: %s\n", out.Error)
	}
	return nil
}
