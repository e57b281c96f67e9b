package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/mrpctl/cmd/mrpctl/handlers"
	"github.com/imamik/mrpctl/internal/provisioning"
)

func TestMachineProvision_BindsFlags(t *testing.T) {
	origHandler := provisionHandler
	t.Cleanup(func() { provisionHandler = origHandler })

	var got provisioning.ProvisionRequest
	provisionHandler = func(_ context.Context, _ handlers.Options, req provisioning.ProvisionRequest) error {
		got = req
		return nil
	}

	err := execute(t, "machine", "provision", "dut01",
		"--kernel", "k1", "--initrd", "i1", "--arch", "arm64", "--subarch", "efi",
		"--preseed", "p1", "--kernel-opts", "console=ttyAMA0")
	require.NoError(t, err)

	assert.Equal(t, provisioning.ProvisionRequest{
		Machine:           "dut01",
		KernelDescription: "k1",
		InitrdDescription: "i1",
		Arch:              "arm64",
		Subarch:           "efi",
		Preseed:           "p1",
		KernelOpts:        "console=ttyAMA0",
	}, got)
}

func TestMachineProvision_RequiredFlags(t *testing.T) {
	origHandler := provisionHandler
	t.Cleanup(func() { provisionHandler = origHandler })

	provisionHandler = func(context.Context, handlers.Options, provisioning.ProvisionRequest) error {
		t.Fatal("handler must not run")
		return nil
	}

	err := execute(t, "machine", "provision", "dut01", "--kernel", "k1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s)")
	assert.Contains(t, err.Error(), "preseed")
}

func TestMachineProvision_RequiresMachine(t *testing.T) {
	err := execute(t, "machine", "provision")
	require.Error(t, err)
}

func TestMachineIP_Defaults(t *testing.T) {
	origHandler := machineIPHandler
	t.Cleanup(func() { machineIPHandler = origHandler })

	var gotMachine string
	var got handlers.IPOptions
	machineIPHandler = func(_ context.Context, _ handlers.Options, machine string, opts handlers.IPOptions) error {
		gotMachine, got = machine, opts
		return nil
	}

	require.NoError(t, execute(t, "machine", "ip", "dut01"))
	assert.Equal(t, "dut01", gotMachine)
	assert.Equal(t, handlers.IPOptions{Interface: "eth1"}, got)

	require.NoError(t, execute(t, "machine", "ip", "dut02", "--interface", "eth0", "--wait", "--wait-timeout", "90s"))
	assert.Equal(t, "dut02", gotMachine)
	assert.Equal(t, handlers.IPOptions{Interface: "eth0", Wait: true, WaitTimeout: 90 * time.Second}, got)
}
