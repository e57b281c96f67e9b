package mrp

import (
	"context"
	"fmt"
	"net/http"
)

// GetMachineByName returns the single machine assigned to the caller with
// exactly this name.
func (c *Client) GetMachineByName(ctx context.Context, name string) (*Machine, error) {
	query := showAll(false)
	query.Set("q", string(Eq("name", name)))

	var machines []Machine
	if err := c.get(ctx, "machine", "/machine", query, &machines); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("name %q", name)
	switch len(machines) {
	case 0:
		return nil, &NotFoundError{Resource: "assigned machine", Key: key}
	case 1:
		return &machines[0], nil
	default:
		return nil, &AmbiguousResultError{Resource: "machine", Key: key, Matches: machines}
	}
}

// ListInterfaces returns the network interfaces of a machine.
func (c *Client) ListInterfaces(ctx context.Context, machineID int64) ([]Interface, error) {
	var ifaces []Interface
	if err := c.get(ctx, "interface", fmt.Sprintf("/machine/%d/interface", machineID), nil, &ifaces); err != nil {
		return nil, err
	}
	if len(ifaces) == 0 {
		return nil, &NotFoundError{Resource: "interfaces", Key: fmt.Sprintf("machine id %d", machineID)}
	}
	return ifaces, nil
}

// SetMachineParameters assigns boot images, preseed and subarchitecture to a
// machine and enables netboot. Only the supplied ids are changed.
func (c *Client) SetMachineParameters(ctx context.Context, machineID int64, params MachineParameters) (*Machine, error) {
	req, payload, err := c.newJSONRequest(ctx, http.MethodPut, fmt.Sprintf("/machine/%d", machineID), params.body())
	if err != nil {
		return nil, err
	}

	var machine Machine
	if err := c.do(req, "machine", []int{http.StatusOK}, &machine); err != nil {
		if te, ok := rejected(err); ok {
			return nil, &UpdateError{MachineID: machineID, Payload: string(payload), Cause: te}
		}
		return nil, err
	}
	return &machine, nil
}

// MachineState is the provisioner's answer to a state transition.
type MachineState map[string]any

// ProvisionMachine asks the provisioner to PXE boot and install the machine.
// The transition is asynchronous; this does not wait for it to finish.
func (c *Client) ProvisionMachine(ctx context.Context, machineID int64) (MachineState, error) {
	req, _, err := c.newJSONRequest(ctx, http.MethodPost, fmt.Sprintf("/machine/%d/state", machineID), map[string]string{"state": "provision"})
	if err != nil {
		return nil, err
	}

	state := MachineState{}
	if err := c.do(req, "state", []int{http.StatusOK, http.StatusAccepted}, &state); err != nil {
		if te, ok := rejected(err); ok {
			return nil, &ProvisionError{MachineID: machineID, Cause: te}
		}
		return nil, err
	}
	return state, nil
}
