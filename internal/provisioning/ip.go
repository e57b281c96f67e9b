package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/imamik/mrpctl/internal/platform/mrp"
	"github.com/imamik/mrpctl/internal/util/retry"
)

// DefaultInterface is the interface queried when none is given.
const DefaultInterface = "eth1"

// ErrNoAddress is returned when the interface exists but has neither a
// reserved address nor a DHCP lease yet.
var ErrNoAddress = errors.New("interface has no IPv4 address")

// MachineIP returns the IPv4 address of iface on the named machine.
func MachineIP(ctx context.Context, api MachineAPI, machine, iface string) (string, error) {
	if iface == "" {
		iface = DefaultInterface
	}

	m, err := api.GetMachineByName(ctx, machine)
	if err != nil {
		return "", err
	}

	ifaces, err := api.ListInterfaces(ctx, m.ID)
	if err != nil {
		return "", err
	}

	for _, i := range ifaces {
		if i.Identifier != iface {
			continue
		}
		ip := i.IPv4()
		if ip == "" {
			return "", fmt.Errorf("%s on %s: %w", iface, machine, ErrNoAddress)
		}
		return ip, nil
	}

	return "", &mrp.NotFoundError{Resource: "interface", Key: fmt.Sprintf("identifier %q on machine %q", iface, machine)}
}

// WaitOptions configures WaitForMachineIP.
type WaitOptions struct {
	Timeout      time.Duration
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Logger       zerolog.Logger
}

// WaitForMachineIP polls MachineIP until the interface reports an address
// or the timeout expires. Only a missing address is retried; lookup
// failures end the wait immediately.
func WaitForMachineIP(ctx context.Context, api MachineAPI, machine, iface string, opts WaitOptions) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	retryOpts := []retry.Option{
		retry.WithMaxRetries(retry.Unlimited),
		retry.WithOnRetry(func(attempt int, err error, next time.Duration) {
			opts.Logger.Debug().
				Str("machine", machine).
				Int("attempt", attempt).
				Dur("next", next).
				Err(err).
				Msg("waiting for address")
		}),
	}
	if opts.InitialDelay > 0 {
		retryOpts = append(retryOpts, retry.WithInitialDelay(opts.InitialDelay))
	}
	if opts.MaxDelay > 0 {
		retryOpts = append(retryOpts, retry.WithMaxDelay(opts.MaxDelay))
	}

	var ip string
	err := retry.WithExponentialBackoff(ctx, func() error {
		addr, err := MachineIP(ctx, api, machine, iface)
		if err != nil {
			if errors.Is(err, ErrNoAddress) {
				return err
			}
			return retry.Fatal(err)
		}
		ip = addr
		return nil
	}, retryOpts...)
	if err != nil {
		return "", err
	}
	return ip, nil
}
