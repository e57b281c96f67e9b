package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errURLRequired   = errors.New("provisioner URL is required")
	errURLInvalid    = errors.New("URL must start with http:// or https:// and include a host")
	errTokenRequired = errors.New("token is required when it is stored in the file")
)
