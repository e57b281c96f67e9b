package provisioning

import (
	"context"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	API      API
	State    *State
	Observer Observer

	// DryRun resolves everything but issues no mutation.
	DryRun bool
}

// NewContext creates a new provisioning context.
func NewContext(ctx context.Context, api API, observer Observer) *Context {
	if observer == nil {
		observer = NopObserver()
	}
	return &Context{
		Context:  ctx,
		API:      api,
		State:    NewState(),
		Observer: observer,
	}
}
