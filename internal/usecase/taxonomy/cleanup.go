package taxonomy

import (
	"context"
	"fmt"

	"github.com/avercast/timeslips-api/internal/domain/timesheet"
)

// cleanupStep is one named piece of a delete cascade. Each delete
// usecase declares its steps as an ordered list so the cascade order
// is a documented contract rather than an artifact of call order, and
// every step runs inside the surrounding transaction.
type cleanupStep struct {
	name string
	run  func(ctx context.Context, s timesheet.Store) error
}

func runCleanup(ctx context.Context, s timesheet.Store, steps []cleanupStep) error {
	for _, step := range steps {
		if err := step.run(ctx, s); err != nil {
			return fmt.Errorf("cleanup step %s: %w", step.name, err)
		}
	}
	return nil
}
