package provisioning

import (
	"context"
	"io"

	"github.com/imamik/mrpctl/internal/artifact"
	"github.com/imamik/mrpctl/internal/platform/mrp"
)

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the name of this phase, used in errors and events.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// MachineAPI resolves and mutates machines.
// Implemented by internal/platform/mrp.Client.
type MachineAPI interface {
	GetMachineByName(ctx context.Context, name string) (*mrp.Machine, error)
	ListInterfaces(ctx context.Context, machineID int64) ([]mrp.Interface, error)
	SetMachineParameters(ctx context.Context, machineID int64, params mrp.MachineParameters) (*mrp.Machine, error)
	ProvisionMachine(ctx context.Context, machineID int64) (mrp.MachineState, error)
}

// ImageAPI looks up and uploads images.
type ImageAPI interface {
	FindImage(ctx context.Context, key mrp.ImageKey) (*mrp.Image, error)
	UploadImage(ctx context.Context, upload mrp.ImageUpload, content io.Reader) (*mrp.Image, error)
}

// PreseedAPI looks up and uploads preseeds.
type PreseedAPI interface {
	FindPreseed(ctx context.Context, name string) (*mrp.Preseed, error)
	UploadPreseed(ctx context.Context, upload mrp.PreseedUpload) (*mrp.Preseed, error)
}

// API is the full provisioner surface used by the workflows.
type API interface {
	MachineAPI
	ImageAPI
	PreseedAPI
}

// ContentOpener opens upload content by reference.
// Implemented by internal/artifact.Opener.
type ContentOpener interface {
	Open(ctx context.Context, ref string) (*artifact.Artifact, error)
	ReadString(ctx context.Context, ref string) (string, error)
}

var (
	_ API           = (*mrp.Client)(nil)
	_ ContentOpener = (*artifact.Opener)(nil)
)
