package handlers

import (
	"context"
	"time"

	"github.com/imamik/mrpctl/internal/logging"
	"github.com/imamik/mrpctl/internal/provisioning"
)

// IPOptions configures MachineIP.
type IPOptions struct {
	Interface   string
	Wait        bool
	WaitTimeout time.Duration
}

// MachineIP prints the IPv4 address of a machine interface, optionally
// waiting for it to appear.
func MachineIP(ctx context.Context, opts Options, machine string, ipOpts IPOptions) error {
	s, err := newSession(opts)
	if err != nil {
		return err
	}
	defer s.finish()

	var ip string
	if ipOpts.Wait {
		timeout := ipOpts.WaitTimeout
		if timeout <= 0 {
			timeout = s.timeouts.IPWait
		}
		ip, err = provisioning.WaitForMachineIP(ctx, s.api, machine, ipOpts.Interface, provisioning.WaitOptions{
			Timeout:      timeout,
			InitialDelay: s.timeouts.RetryInitialDelay,
			MaxDelay:     s.timeouts.RetryMaxDelay,
			Logger:       logging.WithMachine(s.logger, machine),
		})
	} else {
		ip, err = provisioning.MachineIP(ctx, s.api, machine, ipOpts.Interface)
	}
	if err != nil {
		failed, err := failure(err, nil)
		return report(stdout, s.opts.Output, failed, err)
	}

	return report(stdout, s.opts.Output, &Result{
		Changed: true,
		IP:      ip,
		JSON:    map[string]string{"status": "ok"},
	}, nil)
}
