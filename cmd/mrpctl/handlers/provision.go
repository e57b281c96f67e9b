package handlers

import (
	"context"

	"github.com/imamik/mrpctl/internal/logging"
	"github.com/imamik/mrpctl/internal/provisioning"
)

// Provision assigns kernel, initrd and preseed to a machine and requests
// provisioning. It returns as soon as the provisioner accepts the request.
func Provision(ctx context.Context, opts Options, req provisioning.ProvisionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	s, err := newSession(opts)
	if err != nil {
		return err
	}
	defer s.finish()

	pctx := s.provisioningContext(ctx, "provision")
	pctx.Observer = pctx.Observer.WithFields(map[string]string{"machine": req.Machine})

	res, err := provisioning.Provision(pctx, req)
	if err != nil {
		var debug map[string]any
		if res != nil {
			debug = res.Debug
		}
		failed, err := failure(err, debug)
		return report(stdout, s.opts.Output, failed, err)
	}

	out := &Result{Changed: res.Changed, Debug: res.Debug}
	if res.Machine != nil {
		out.JSON = res.Machine
	}
	if s.opts.DryRun {
		out.Msg = "dry run: machine parameters and provision request skipped"
	} else if res.State != nil {
		out.Provision = res.State
		logger := logging.WithMachine(s.logger, req.Machine)
		logger.Info().Interface("state", res.State["state"]).Msg("provisioning requested")
	}
	return report(stdout, s.opts.Output, out, nil)
}
