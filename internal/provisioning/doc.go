// Package provisioning sequences provisioner API calls into the workflows
// mrpctl exposes.
//
// # Core Types
//
// Context carries the API client, observer and the dry-run switch.
// Phase is one step of a workflow with Name() and Provision() methods.
// State accumulates the records resolved by each phase, and RunPhases turns
// a failing phase into a WorkflowError listing the phases that completed.
//
// # Workflows
//
//   - Provision resolves a machine, kernel, initrd and preseed, assigns them
//     to the machine and requests provisioning.
//   - EnsureImage and EnsurePreseed upload content unless a record with the
//     same natural key already exists.
//   - MachineIP and WaitForMachineIP read back a machine's IPv4 address.
package provisioning
