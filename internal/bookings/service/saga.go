package service

import (
	"context"
	"fmt"

	"parkade/pkg/logger"
)

// sagaStep is one stage of the booking pipeline. Compensate undoes the
// step's effect when a later step fails; steps without side effects leave
// it nil.
type sagaStep struct {
	name       string
	execute    func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// runSaga executes steps in order. On failure it runs the compensations of
// every completed step in reverse and returns the original error;
// compensation failures are logged and do not mask it.
func runSaga(ctx context.Context, log *logger.Logger, steps []sagaStep) error {
	var completed []sagaStep

	for _, step := range steps {
		if err := step.execute(ctx); err != nil {
			log.Warn("Booking pipeline step failed",
				"step", step.name,
				"error", err,
			)
			compensate(ctx, log, completed)
			return fmt.Errorf("%s step failed: %w", step.name, err)
		}
		completed = append(completed, step)
	}

	return nil
}

func compensate(ctx context.Context, log *logger.Logger, completed []sagaStep) {
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.compensate == nil {
			continue
		}
		if err := step.compensate(ctx); err != nil {
			log.Error("Booking pipeline compensation failed",
				"step", step.name,
				"error", err,
			)
		}
	}
}
