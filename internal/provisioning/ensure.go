package provisioning

import (
	"context"
	"fmt"

	"github.com/imamik/mrpctl/internal/platform/mrp"
)

// EnsureResult is the outcome of a get-or-create operation. In dry-run mode
// Record is nil when an upload would have happened.
type EnsureResult[T any] struct {
	Changed bool
	Record  *T
}

// EnsureOperation encapsulates get-or-create logic for a provisioner
// resource identified by a natural key.
//
// Usage example:
//
//	res, err := (&EnsureOperation[mrp.Preseed]{
//	    ResourceType: "preseed",
//	    Key:          name,
//	    Find:         func(ctx context.Context) (*mrp.Preseed, error) { return api.FindPreseed(ctx, name) },
//	    Create:       func(ctx context.Context) (*mrp.Preseed, error) { return api.UploadPreseed(ctx, upload) },
//	    ID:           func(p *mrp.Preseed) int64 { return p.ID },
//	}).Execute(ctx)
type EnsureOperation[T any] struct {
	ResourceType string
	Key          string

	// Find looks the resource up by its natural key. It must return an
	// error matching mrp.ErrNotFound when nothing matches.
	Find func(ctx context.Context) (*T, error)

	// Create uploads the resource.
	Create func(ctx context.Context) (*T, error)

	// ID extracts the record id for events.
	ID func(*T) int64
}

// Execute performs the get-or-create operation. A lookup error other than
// not-found aborts without uploading.
func (op *EnsureOperation[T]) Execute(ctx *Context) (*EnsureResult[T], error) {
	existing, err := op.Find(ctx)
	if err == nil {
		LogResourceExists(ctx.Observer, op.ResourceType, op.ResourceType, op.Key, op.ID(existing))
		return &EnsureResult[T]{Changed: false, Record: existing}, nil
	}
	if !mrp.IsNotFound(err) {
		return nil, fmt.Errorf("failed to look up %s %s: %w", op.ResourceType, op.Key, err)
	}

	if ctx.DryRun {
		LogPhaseSkipped(ctx.Observer, op.ResourceType)
		return &EnsureResult[T]{Changed: true}, nil
	}

	LogResourceCreating(ctx.Observer, op.ResourceType, op.ResourceType, op.Key)
	created, err := op.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s %s: %w", op.ResourceType, op.Key, err)
	}
	LogResourceCreated(ctx.Observer, op.ResourceType, op.ResourceType, op.Key, op.ID(created))
	return &EnsureResult[T]{Changed: true, Record: created}, nil
}

// ImageSpec describes an image to ensure and where its content lives.
type ImageSpec struct {
	Source      string
	Description string
	Type        string
	Arch        string
	KnownGood   bool
	Public      bool
}

// Key returns the natural key of the image.
func (s ImageSpec) Key() mrp.ImageKey {
	return mrp.ImageKey{Description: s.Description, Type: s.Type, Arch: s.Arch}
}

// Validate checks the required fields before any request is made.
func (s ImageSpec) Validate() error {
	if s.Source == "" {
		return fmt.Errorf("image source is required")
	}
	if !mrp.ValidImageType(s.Type) {
		return fmt.Errorf("invalid image type %q: must be one of %s, %s", s.Type, mrp.ImageTypeKernel, mrp.ImageTypeInitrd)
	}
	if s.Arch == "" {
		return fmt.Errorf("image arch is required")
	}
	return nil
}

// EnsureImage uploads the image unless one with the same description, type
// and arch exists. Content is only opened when an upload is needed.
func EnsureImage(ctx *Context, opener ContentOpener, spec ImageSpec) (*EnsureResult[mrp.Image], error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	key := spec.Key()

	return (&EnsureOperation[mrp.Image]{
		ResourceType: "image",
		Key:          key.String(),
		Find: func(c context.Context) (*mrp.Image, error) {
			return ctx.API.FindImage(c, key)
		},
		Create: func(c context.Context) (*mrp.Image, error) {
			content, err := opener.Open(c, spec.Source)
			if err != nil {
				return nil, err
			}
			defer func() { _ = content.Body.Close() }()

			return ctx.API.UploadImage(c, mrp.ImageUpload{
				Description: spec.Description,
				Type:        spec.Type,
				Arch:        spec.Arch,
				KnownGood:   spec.KnownGood,
				Public:      spec.Public,
				Filename:    content.Name(),
			}, content.Body)
		},
		ID: func(img *mrp.Image) int64 { return img.ID },
	}).Execute(ctx)
}

// PreseedSpec describes a preseed to ensure and where its content lives.
type PreseedSpec struct {
	Source      string
	Name        string
	Description string
	Type        string
	KnownGood   bool
	Public      bool
}

// Validate checks the required fields before any request is made.
func (s PreseedSpec) Validate() error {
	if s.Source == "" {
		return fmt.Errorf("preseed source is required")
	}
	if s.Name == "" {
		return fmt.Errorf("preseed name is required")
	}
	return nil
}

// EnsurePreseed uploads the preseed unless one with the same name exists.
func EnsurePreseed(ctx *Context, opener ContentOpener, spec PreseedSpec) (*EnsureResult[mrp.Preseed], error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	return (&EnsureOperation[mrp.Preseed]{
		ResourceType: "preseed",
		Key:          fmt.Sprintf("%q", spec.Name),
		Find: func(c context.Context) (*mrp.Preseed, error) {
			return ctx.API.FindPreseed(c, spec.Name)
		},
		Create: func(c context.Context) (*mrp.Preseed, error) {
			content, err := opener.ReadString(c, spec.Source)
			if err != nil {
				return nil, err
			}
			return ctx.API.UploadPreseed(c, mrp.PreseedUpload{
				Name:        spec.Name,
				Description: spec.Description,
				Type:        spec.Type,
				KnownGood:   spec.KnownGood,
				Public:      spec.Public,
				Content:     content,
			})
		},
		ID: func(p *mrp.Preseed) int64 { return p.ID },
	}).Execute(ctx)
}
