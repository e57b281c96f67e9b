package provisioning

import (
	"fmt"
	"strings"
	"time"
)

// WorkflowError is returned by RunPhases when a phase fails. Phases that
// completed before the failure are not rolled back.
type WorkflowError struct {
	Phase     string
	Completed []CompletedPhase
	Err       error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s phase failed: %v", e.Phase, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// CompletedSummary renders the completed phases as "machine=42, kernel=11".
func (e *WorkflowError) CompletedSummary() string {
	parts := make([]string, 0, len(e.Completed))
	for _, c := range e.Completed {
		if c.ID != 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", c.Name, c.ID))
		} else {
			parts = append(parts, c.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// RunPhases executes all provisioning phases sequentially and stops at the
// first failure.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting workflow with %d phases", len(phases))

	for i, phase := range phases {
		if err := ctx.Err(); err != nil {
			return &WorkflowError{Phase: phase.Name(), Completed: ctx.State.Completed, Err: err}
		}

		phaseStart := time.Now()
		LogPhaseStart(ctx.Observer, phase.Name())
		ctx.Observer.Progress(phase.Name(), i+1, len(phases))

		if err := phase.Provision(ctx); err != nil {
			LogPhaseFailed(ctx.Observer, phase.Name(), err)
			return &WorkflowError{Phase: phase.Name(), Completed: ctx.State.Completed, Err: err}
		}

		elapsed := time.Since(phaseStart)
		ctx.State.Completed = append(ctx.State.Completed, CompletedPhase{
			Name:     phase.Name(),
			ID:       ctx.State.resolved[phase.Name()],
			Duration: elapsed,
		})
		LogPhaseComplete(ctx.Observer, phase.Name(), elapsed)
	}

	ctx.Observer.Printf("Workflow completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
