// Package mrp is a client for the Mr. Provisioner REST API.
//
// It covers the calls needed to netboot-provision a machine: looking up
// machines, images and preseeds by their human-readable keys, uploading
// kernels, initrds and preseeds, assigning them to a machine and triggering
// the provision state transition.
//
// Lookups fail with *NotFoundError or *AmbiguousResultError, transport
// problems with *TransportError, and rejected mutations with
// *CreationError, *UpdateError or *ProvisionError.
package mrp
