package testing

import (
	"context"
	"io"
	"sync"

	"github.com/imamik/mrpctl/internal/platform/mrp"
)

// MockAPI is a mock of the provisioner API used by the provisioning
// workflow. Unset functions return mrp.NotFoundError for lookups and a
// zero record for mutations.
type MockAPI struct {
	GetMachineByNameFunc     func(ctx context.Context, name string) (*mrp.Machine, error)
	ListInterfacesFunc       func(ctx context.Context, machineID int64) ([]mrp.Interface, error)
	SetMachineParametersFunc func(ctx context.Context, machineID int64, params mrp.MachineParameters) (*mrp.Machine, error)
	ProvisionMachineFunc     func(ctx context.Context, machineID int64) (mrp.MachineState, error)
	FindImageFunc            func(ctx context.Context, key mrp.ImageKey) (*mrp.Image, error)
	UploadImageFunc          func(ctx context.Context, upload mrp.ImageUpload, content io.Reader) (*mrp.Image, error)
	FindPreseedFunc          func(ctx context.Context, name string) (*mrp.Preseed, error)
	UploadPreseedFunc        func(ctx context.Context, upload mrp.PreseedUpload) (*mrp.Preseed, error)

	mu    sync.Mutex
	calls []string
}

// Calls returns the names of the methods called, in order.
func (m *MockAPI) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockAPI) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// GetMachineByName records the call and delegates to GetMachineByNameFunc.
func (m *MockAPI) GetMachineByName(ctx context.Context, name string) (*mrp.Machine, error) {
	m.record("GetMachineByName")
	if m.GetMachineByNameFunc != nil {
		return m.GetMachineByNameFunc(ctx, name)
	}
	return nil, &mrp.NotFoundError{Resource: "assigned machine", Key: "name " + name}
}

// ListInterfaces records the call and delegates to ListInterfacesFunc.
func (m *MockAPI) ListInterfaces(ctx context.Context, machineID int64) ([]mrp.Interface, error) {
	m.record("ListInterfaces")
	if m.ListInterfacesFunc != nil {
		return m.ListInterfacesFunc(ctx, machineID)
	}
	return nil, &mrp.NotFoundError{Resource: "interfaces", Key: "machine"}
}

// SetMachineParameters records the call and delegates to SetMachineParametersFunc.
func (m *MockAPI) SetMachineParameters(ctx context.Context, machineID int64, params mrp.MachineParameters) (*mrp.Machine, error) {
	m.record("SetMachineParameters")
	if m.SetMachineParametersFunc != nil {
		return m.SetMachineParametersFunc(ctx, machineID, params)
	}
	return &mrp.Machine{ID: machineID}, nil
}

// ProvisionMachine records the call and delegates to ProvisionMachineFunc.
func (m *MockAPI) ProvisionMachine(ctx context.Context, machineID int64) (mrp.MachineState, error) {
	m.record("ProvisionMachine")
	if m.ProvisionMachineFunc != nil {
		return m.ProvisionMachineFunc(ctx, machineID)
	}
	return mrp.MachineState{"state": "provision"}, nil
}

// FindImage records the call and delegates to FindImageFunc.
func (m *MockAPI) FindImage(ctx context.Context, key mrp.ImageKey) (*mrp.Image, error) {
	m.record("FindImage")
	if m.FindImageFunc != nil {
		return m.FindImageFunc(ctx, key)
	}
	return nil, &mrp.NotFoundError{Resource: "image", Key: key.String()}
}

// UploadImage records the call and delegates to UploadImageFunc.
func (m *MockAPI) UploadImage(ctx context.Context, upload mrp.ImageUpload, content io.Reader) (*mrp.Image, error) {
	m.record("UploadImage")
	if m.UploadImageFunc != nil {
		return m.UploadImageFunc(ctx, upload, content)
	}
	return &mrp.Image{Description: upload.Description, Type: upload.Type, Arch: upload.Arch}, nil
}

// FindPreseed records the call and delegates to FindPreseedFunc.
func (m *MockAPI) FindPreseed(ctx context.Context, name string) (*mrp.Preseed, error) {
	m.record("FindPreseed")
	if m.FindPreseedFunc != nil {
		return m.FindPreseedFunc(ctx, name)
	}
	return nil, &mrp.NotFoundError{Resource: "preseed", Key: "name " + name}
}

// UploadPreseed records the call and delegates to UploadPreseedFunc.
func (m *MockAPI) UploadPreseed(ctx context.Context, upload mrp.PreseedUpload) (*mrp.Preseed, error) {
	m.record("UploadPreseed")
	if m.UploadPreseedFunc != nil {
		return m.UploadPreseedFunc(ctx, upload)
	}
	return &mrp.Preseed{Name: upload.Name, Type: upload.Type}, nil
}
