package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/mrpctl/internal/platform/mrp"
	"github.com/imamik/mrpctl/internal/provisioning"
	testutil "github.com/imamik/mrpctl/internal/testing"
)

var testProvisionRequest = provisioning.ProvisionRequest{
	Machine:           "dut01",
	KernelDescription: "k1",
	InitrdDescription: "i1",
	Arch:              "arm64",
	Subarch:           "efi",
	Preseed:           "p1",
}

// provisionableAPI returns a mock on which every lookup succeeds.
func provisionableAPI() *testutil.MockAPI {
	return &testutil.MockAPI{
		GetMachineByNameFunc: func(_ context.Context, name string) (*mrp.Machine, error) {
			return &mrp.Machine{ID: 42, Name: name}, nil
		},
		FindImageFunc: func(_ context.Context, key mrp.ImageKey) (*mrp.Image, error) {
			id := int64(11)
			if key.Type == mrp.ImageTypeInitrd {
				id = 12
			}
			return &mrp.Image{ID: id, Description: key.Description, Type: key.Type, Arch: key.Arch}, nil
		},
		FindPreseedFunc: func(_ context.Context, name string) (*mrp.Preseed, error) {
			return &mrp.Preseed{ID: 13, Name: name, Content: "d-i ..."}, nil
		},
		SetMachineParametersFunc: func(_ context.Context, id int64, params mrp.MachineParameters) (*mrp.Machine, error) {
			return &mrp.Machine{ID: id, Name: "dut01", KernelID: params.KernelID, InitrdID: params.InitrdID, PreseedID: params.PreseedID, Subarch: params.Subarch, NetbootEnabled: true}, nil
		},
		ProvisionMachineFunc: func(_ context.Context, _ int64) (mrp.MachineState, error) {
			return mrp.MachineState{"state": "provision"}, nil
		},
	}
}

func TestProvision_JSONOutput(t *testing.T) {
	api := provisionableAPI()
	env := setupHandlers(t, api)

	err := Provision(context.Background(), Options{Output: OutputJSON}, testProvisionRequest)
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal(env.stdout.Bytes(), &res))
	assert.Equal(t, true, res["changed"])
	assert.Equal(t, float64(42), res["json"].(map[string]any)["id"])
	assert.Equal(t, true, res["json"].(map[string]any)["netboot_enabled"])
	assert.Equal(t, map[string]any{"state": "provision"}, res["machine_provision"])
	assert.Contains(t, res["debug"], "machine")
	assert.Contains(t, res["debug"], "kernel")
	assert.NotContains(t, env.stdout.String(), "d-i ...")

	assert.Contains(t, api.Calls(), "SetMachineParameters")
	assert.Contains(t, api.Calls(), "ProvisionMachine")
}

func TestProvision_TextOutput(t *testing.T) {
	env := setupHandlers(t, provisionableAPI())

	err := Provision(context.Background(), Options{}, testProvisionRequest)
	require.NoError(t, err)

	out := env.stdout.String()
	assert.Contains(t, out, "changed")
	assert.Contains(t, out, "resolved:")
	assert.Contains(t, out, "preseed:")
	assert.Contains(t, out, `provision: {"state":"provision"}`)
}

func TestProvision_DryRunSkipsMutations(t *testing.T) {
	api := provisionableAPI()
	env := setupHandlers(t, api)

	err := Provision(context.Background(), Options{Output: OutputJSON, DryRun: true}, testProvisionRequest)
	require.NoError(t, err)

	var res Result
	require.NoError(t, json.Unmarshal(env.stdout.Bytes(), &res))
	assert.False(t, res.Changed)
	assert.Contains(t, res.Msg, "dry run")
	assert.Nil(t, res.Provision)
	assert.NotContains(t, api.Calls(), "SetMachineParameters")
	assert.NotContains(t, api.Calls(), "ProvisionMachine")
}

func TestProvision_MissingImageFails(t *testing.T) {
	api := provisionableAPI()
	api.FindImageFunc = func(_ context.Context, key mrp.ImageKey) (*mrp.Image, error) {
		if key.Type == mrp.ImageTypeInitrd {
			return nil, &mrp.NotFoundError{Resource: "image", Key: key.String()}
		}
		return &mrp.Image{ID: 11}, nil
	}
	env := setupHandlers(t, api)

	err := Provision(context.Background(), Options{Output: OutputJSON}, testProvisionRequest)
	require.Error(t, err)
	assert.True(t, mrp.IsNotFound(err))
	assert.Contains(t, err.Error(), "completed: machine=42, kernel=11")

	var res Result
	require.NoError(t, json.Unmarshal(env.stdout.Bytes(), &res))
	assert.True(t, res.Failed)
	assert.False(t, res.Changed)
	assert.Equal(t, err.Error(), res.Msg)
	assert.NotContains(t, api.Calls(), "SetMachineParameters")
}

func TestProvision_TextFailurePrintsNothing(t *testing.T) {
	api := provisionableAPI()
	api.ProvisionMachineFunc = func(_ context.Context, _ int64) (mrp.MachineState, error) {
		return nil, errors.New("boom")
	}
	env := setupHandlers(t, api)

	err := Provision(context.Background(), Options{}, testProvisionRequest)
	require.Error(t, err)
	assert.Empty(t, env.stdout.String())
}

func TestProvision_InvalidRequest(t *testing.T) {
	api := provisionableAPI()
	setupHandlers(t, api)

	req := testProvisionRequest
	req.Preseed = ""
	err := Provision(context.Background(), Options{}, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "preseed name")
	assert.Empty(t, api.Calls())
}
