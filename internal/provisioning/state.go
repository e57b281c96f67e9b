package provisioning

import (
	"time"

	"github.com/imamik/mrpctl/internal/platform/mrp"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Lookup results
	Machine *mrp.Machine
	Kernel  *mrp.Image
	Initrd  *mrp.Image
	Preseed *mrp.Preseed

	// Mutation results
	Updated        *mrp.Machine
	ProvisionState mrp.MachineState

	// Completed lists the phases that succeeded, in order.
	Completed []CompletedPhase

	resolved map[string]int64
}

// CompletedPhase records a successful phase and the id it resolved, if any.
type CompletedPhase struct {
	Name     string        `json:"phase"`
	ID       int64         `json:"id,omitempty"`
	Duration time.Duration `json:"-"`
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{resolved: make(map[string]int64)}
}

// resolve records the id a phase resolved.
func (s *State) resolve(phase string, id int64) {
	s.resolved[phase] = id
}

// Debug returns the resolved records for diagnostics. Preseed content is
// left out.
func (s *State) Debug() map[string]any {
	debug := make(map[string]any)
	if s.Machine != nil {
		debug["machine"] = s.Machine
	}
	if s.Kernel != nil {
		debug["kernel"] = s.Kernel
	}
	if s.Initrd != nil {
		debug["initrd"] = s.Initrd
	}
	if s.Preseed != nil {
		p := *s.Preseed
		p.Content = ""
		debug["preseed"] = &p
	}
	if s.Updated != nil {
		debug["machine_update"] = s.Updated
	}
	return debug
}
