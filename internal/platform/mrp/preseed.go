package mrp

import (
	"context"
	"fmt"
	"net/http"
)

// ListPreseeds returns every preseed visible to the caller.
func (c *Client) ListPreseeds(ctx context.Context) ([]Preseed, error) {
	var preseeds []Preseed
	if err := c.get(ctx, "preseed", "/preseed", showAll(true), &preseeds); err != nil {
		return nil, err
	}
	return preseeds, nil
}

// FindPreseed returns the first preseed with exactly this name.
func (c *Client) FindPreseed(ctx context.Context, name string) (*Preseed, error) {
	preseeds, err := c.ListPreseeds(ctx)
	if err != nil {
		return nil, err
	}
	for i := range preseeds {
		if preseeds[i].Name == name {
			return &preseeds[i], nil
		}
	}
	return nil, &NotFoundError{Resource: "preseed", Key: fmt.Sprintf("name %q", name)}
}

// UploadPreseed creates a new preseed. The file content travels inline in
// the JSON body.
func (c *Client) UploadPreseed(ctx context.Context, upload PreseedUpload) (*Preseed, error) {
	if upload.Type == "" {
		upload.Type = DefaultPreseedType
	}

	req, payload, err := c.newJSONRequest(ctx, http.MethodPost, "/preseed", upload)
	if err != nil {
		return nil, err
	}

	var preseed Preseed
	if err := c.do(req, "preseed", []int{http.StatusCreated}, &preseed); err != nil {
		if te, ok := rejected(err); ok {
			return nil, &CreationError{Resource: "preseed", Payload: string(payload), Cause: te}
		}
		return nil, fmt.Errorf("upload preseed: %w", err)
	}
	return &preseed, nil
}
