package provisioning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/imamik/mrpctl/internal/platform/mrp"
)

// Phase names of the provision workflow, in execution order.
const (
	PhaseMachine    = "machine"
	PhaseKernel     = "kernel"
	PhaseInitrd     = "initrd"
	PhasePreseed    = "preseed"
	PhaseParameters = "parameters"
	PhaseProvision  = "provision"
)

// ProvisionRequest names everything a machine is provisioned with.
type ProvisionRequest struct {
	Machine           string
	KernelDescription string
	InitrdDescription string
	Arch              string
	Subarch           string
	Preseed           string
	KernelOpts        string
}

// Validate checks that every lookup key is present.
func (r ProvisionRequest) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"machine", r.Machine},
		{"kernel description", r.KernelDescription},
		{"initrd description", r.InitrdDescription},
		{"arch", r.Arch},
		{"subarch", r.Subarch},
		{"preseed name", r.Preseed},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required values: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ProvisionResult is the outcome of a provision workflow.
type ProvisionResult struct {
	Changed bool
	Machine *mrp.Machine
	State   mrp.MachineState
	Debug   map[string]any
}

// ProvisionPhases returns the workflow phases. In dry-run mode the two
// mutation phases are left out.
func ProvisionPhases(req ProvisionRequest, dryRun bool) []Phase {
	phases := []Phase{
		&machinePhase{name: req.Machine},
		&imagePhase{phase: PhaseKernel, key: mrp.ImageKey{Description: req.KernelDescription, Type: mrp.ImageTypeKernel, Arch: req.Arch}},
		&imagePhase{phase: PhaseInitrd, key: mrp.ImageKey{Description: req.InitrdDescription, Type: mrp.ImageTypeInitrd, Arch: req.Arch}},
		&preseedPhase{name: req.Preseed},
	}
	if dryRun {
		return phases
	}
	return append(phases,
		&parametersPhase{subarch: req.Subarch, kernelOpts: req.KernelOpts},
		&provisionPhase{},
	)
}

// Provision resolves the machine, kernel, initrd and preseed named in req,
// assigns them to the machine and requests provisioning. It does not wait
// for the machine to boot.
func Provision(ctx *Context, req ProvisionRequest) (*ProvisionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := RunPhases(ctx, ProvisionPhases(req, ctx.DryRun)); err != nil {
		return &ProvisionResult{Debug: ctx.State.Debug()}, err
	}

	if ctx.DryRun {
		LogPhaseSkipped(ctx.Observer, PhaseParameters)
		LogPhaseSkipped(ctx.Observer, PhaseProvision)
		return &ProvisionResult{
			Changed: false,
			Machine: ctx.State.Machine,
			Debug:   ctx.State.Debug(),
		}, nil
	}

	return &ProvisionResult{
		Changed: true,
		Machine: ctx.State.Updated,
		State:   ctx.State.ProvisionState,
		Debug:   ctx.State.Debug(),
	}, nil
}

type machinePhase struct {
	name string
}

func (p *machinePhase) Name() string { return PhaseMachine }

func (p *machinePhase) Provision(ctx *Context) error {
	m, err := ctx.API.GetMachineByName(ctx, p.name)
	if err != nil {
		return err
	}
	ctx.State.Machine = m
	ctx.State.resolve(PhaseMachine, m.ID)
	LogResourceResolved(ctx.Observer, PhaseMachine, "machine", p.name, m.ID)
	return nil
}

type imagePhase struct {
	phase string
	key   mrp.ImageKey
}

func (p *imagePhase) Name() string { return p.phase }

func (p *imagePhase) Provision(ctx *Context) error {
	img, err := ctx.API.FindImage(ctx, p.key)
	if err != nil {
		return err
	}
	switch p.key.Type {
	case mrp.ImageTypeKernel:
		ctx.State.Kernel = img
	case mrp.ImageTypeInitrd:
		ctx.State.Initrd = img
	}
	ctx.State.resolve(p.phase, img.ID)
	LogResourceResolved(ctx.Observer, p.phase, "image", p.key.String(), img.ID)
	return nil
}

type preseedPhase struct {
	name string
}

func (p *preseedPhase) Name() string { return PhasePreseed }

func (p *preseedPhase) Provision(ctx *Context) error {
	preseed, err := ctx.API.FindPreseed(ctx, p.name)
	if err != nil {
		return err
	}
	ctx.State.Preseed = preseed
	ctx.State.resolve(PhasePreseed, preseed.ID)
	LogResourceResolved(ctx.Observer, PhasePreseed, "preseed", p.name, preseed.ID)
	return nil
}

type parametersPhase struct {
	subarch    string
	kernelOpts string
}

func (p *parametersPhase) Name() string { return PhaseParameters }

func (p *parametersPhase) Provision(ctx *Context) error {
	s := ctx.State
	if s.Machine == nil || s.Kernel == nil || s.Initrd == nil || s.Preseed == nil {
		return errors.New("machine, kernel, initrd and preseed must be resolved first")
	}

	updated, err := ctx.API.SetMachineParameters(ctx, s.Machine.ID, mrp.MachineParameters{
		KernelID:   &s.Kernel.ID,
		InitrdID:   &s.Initrd.ID,
		PreseedID:  &s.Preseed.ID,
		Subarch:    p.subarch,
		KernelOpts: p.kernelOpts,
	})
	if err != nil {
		return err
	}
	s.Updated = updated
	s.resolve(PhaseParameters, s.Machine.ID)
	ctx.Observer.Event(Event{
		Type:     EventResourceUpdated,
		Phase:    PhaseParameters,
		Resource: s.Machine.Name,
		Message:  "netboot parameters assigned",
		Fields: map[string]string{
			"kernel_id":  fmt.Sprint(s.Kernel.ID),
			"initrd_id":  fmt.Sprint(s.Initrd.ID),
			"preseed_id": fmt.Sprint(s.Preseed.ID),
			"subarch":    p.subarch,
		},
	})
	return nil
}

type provisionPhase struct{}

func (p *provisionPhase) Name() string { return PhaseProvision }

func (p *provisionPhase) Provision(ctx *Context) error {
	if ctx.State.Machine == nil {
		return errors.New("machine must be resolved first")
	}
	state, err := ctx.API.ProvisionMachine(ctx, ctx.State.Machine.ID)
	if err != nil {
		return err
	}
	ctx.State.ProvisionState = state
	ctx.State.resolve(PhaseProvision, ctx.State.Machine.ID)
	ctx.Observer.Event(Event{
		Type:     EventResourceUpdated,
		Phase:    PhaseProvision,
		Resource: ctx.State.Machine.Name,
		Message:  "provisioning requested",
	})
	return nil
}
