package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/mrpctl/internal/provisioning"
)

// UploadPreseed uploads a preseed unless one with the same name exists.
func UploadPreseed(ctx context.Context, opts Options, spec provisioning.PreseedSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	s, err := newSession(opts)
	if err != nil {
		return err
	}
	defer s.finish()

	res, err := provisioning.EnsurePreseed(s.provisioningContext(ctx, "preseed"), newOpener(s.cfg), spec)
	if err != nil {
		failed, err := failure(err, nil)
		return report(stdout, s.opts.Output, failed, err)
	}

	out := &Result{Changed: res.Changed}
	if res.Record != nil {
		out.JSON = res.Record
	} else if s.opts.DryRun {
		out.Msg = fmt.Sprintf("dry run: preseed %q would be uploaded", spec.Name)
	}
	return report(stdout, s.opts.Output, out, nil)
}
