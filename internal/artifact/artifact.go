package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/imamik/mrpctl/internal/platform/s3"
)

const s3Scheme = "s3://"

// ObjectStore is the subset of the S3 client used to fetch artifacts.
type ObjectStore interface {
	OpenObject(ctx context.Context, bucket, key string) (*s3.Object, error)
}

// StoreFactory creates the object store on first use.
type StoreFactory func(ctx context.Context) (ObjectStore, error)

// Ref is a parsed artifact reference.
type Ref struct {
	Path   string
	Bucket string
	Key    string
}

// IsS3 reports whether the reference points at object storage.
func (r Ref) IsS3() bool {
	return r.Bucket != ""
}

// Name returns the base name used as the upload filename.
func (r Ref) Name() string {
	if r.IsS3() {
		return path.Base(r.Key)
	}
	return filepath.Base(r.Path)
}

func (r Ref) String() string {
	if r.IsS3() {
		return s3Scheme + r.Bucket + "/" + r.Key
	}
	return r.Path
}

// Parse parses a local path or s3://bucket/key reference.
func Parse(ref string) (Ref, error) {
	if ref == "" {
		return Ref{}, errors.New("artifact reference is empty")
	}
	if !strings.HasPrefix(ref, s3Scheme) {
		return Ref{Path: ref}, nil
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(ref, s3Scheme), "/")
	if !ok || bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return Ref{}, fmt.Errorf("invalid object reference %q: expected s3://bucket/key", ref)
	}
	return Ref{Bucket: bucket, Key: key}, nil
}

// Artifact is opened upload content. Body must be closed by the caller.
type Artifact struct {
	Ref  Ref
	Body io.ReadCloser
	Size int64
}

// Name returns the upload filename.
func (a *Artifact) Name() string {
	return a.Ref.Name()
}

// Opener opens artifact references.
type Opener struct {
	newStore StoreFactory

	mu    sync.Mutex
	store ObjectStore
}

// NewOpener returns an Opener. newStore may be nil when only local paths
// are expected; opening an s3:// reference then fails.
func NewOpener(newStore StoreFactory) *Opener {
	return &Opener{newStore: newStore}
}

// Open opens the content behind ref.
func (o *Opener) Open(ctx context.Context, ref string) (*Artifact, error) {
	r, err := Parse(ref)
	if err != nil {
		return nil, err
	}

	if !r.IsS3() {
		return openFile(r)
	}

	store, err := o.objectStore(ctx)
	if err != nil {
		return nil, err
	}
	obj, err := store.OpenObject(ctx, r.Bucket, r.Key)
	if err != nil {
		return nil, err
	}
	return &Artifact{Ref: r, Body: obj.Body, Size: obj.Size}, nil
}

// ReadString reads the whole content behind ref. Preseeds are sent inline
// in a JSON body, so they are read into memory.
func (o *Opener) ReadString(ctx context.Context, ref string) (string, error) {
	a, err := o.Open(ctx, ref)
	if err != nil {
		return "", err
	}
	defer func() { _ = a.Body.Close() }()

	data, err := io.ReadAll(a.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", a.Ref, err)
	}
	return string(data), nil
}

func (o *Opener) objectStore(ctx context.Context) (ObjectStore, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.store != nil {
		return o.store, nil
	}
	if o.newStore == nil {
		return nil, errors.New("object storage is not configured")
	}
	store, err := o.newStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}
	o.store = store
	return store, nil
}

func openFile(r Ref) (*Artifact, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", r.Path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", r.Path, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%s is a directory", r.Path)
	}
	return &Artifact{Ref: r, Body: f, Size: info.Size()}, nil
}
