package handlers

import (
	"context"

	"github.com/imamik/mrpctl/internal/provisioning"
)

// UploadImage uploads a kernel or initrd unless an image with the same
// description, type and arch already exists.
func UploadImage(ctx context.Context, opts Options, spec provisioning.ImageSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	s, err := newSession(opts)
	if err != nil {
		return err
	}
	defer s.finish()

	res, err := provisioning.EnsureImage(s.provisioningContext(ctx, "image"), newOpener(s.cfg), spec)
	if err != nil {
		failed, err := failure(err, nil)
		return report(stdout, s.opts.Output, failed, err)
	}

	out := &Result{Changed: res.Changed}
	if res.Record != nil {
		out.JSON = res.Record
	} else if s.opts.DryRun {
		out.Msg = "dry run: " + spec.Key().String() + " would be uploaded"
	}
	return report(stdout, s.opts.Output, out, nil)
}
