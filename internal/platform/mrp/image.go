package mrp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// ListImages returns every image visible to the caller.
func (c *Client) ListImages(ctx context.Context) ([]Image, error) {
	var images []Image
	if err := c.get(ctx, "image", "/image", showAll(true), &images); err != nil {
		return nil, err
	}
	return images, nil
}

// FindImage returns the first image matching key exactly.
func (c *Client) FindImage(ctx context.Context, key ImageKey) (*Image, error) {
	images, err := c.ListImages(ctx)
	if err != nil {
		return nil, err
	}
	for i := range images {
		if key.Matches(images[i]) {
			return &images[i], nil
		}
	}
	return nil, &NotFoundError{Resource: "image", Key: key.String()}
}

// UploadImage creates a new image from content. The request is a multipart
// form with the binary in "file" and the JSON metadata in "q".
func (c *Client) UploadImage(ctx context.Context, upload ImageUpload, content io.Reader) (*Image, error) {
	if !ValidImageType(upload.Type) {
		return nil, fmt.Errorf("invalid image type %q: must be one of %s, %s", upload.Type, ImageTypeKernel, ImageTypeInitrd)
	}

	meta, err := json.Marshal(imageMetadata{
		Description: upload.Description,
		Type:        upload.Type,
		Arch:        upload.Arch,
		KnownGood:   upload.KnownGood,
		Public:      upload.Public,
	})
	if err != nil {
		return nil, fmt.Errorf("encode image metadata: %w", err)
	}

	// Stream the file through a pipe so large images are never buffered.
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeImageForm(form, upload.Filename, content, meta))
	}()
	defer func() { _ = pr.Close() }()

	req, err := c.newRequest(ctx, http.MethodPost, "/image", nil, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var image Image
	if err := c.do(req, "image", []int{http.StatusCreated}, &image); err != nil {
		if te, ok := rejected(err); ok {
			return nil, &CreationError{Resource: "image", Payload: string(meta), Cause: te}
		}
		return nil, fmt.Errorf("upload image: %w", err)
	}
	return &image, nil
}

func writeImageForm(form *multipart.Writer, filename string, content io.Reader, meta []byte) error {
	if err := form.WriteField("q", string(meta)); err != nil {
		return err
	}
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("write image content: %w", err)
	}
	return form.Close()
}
