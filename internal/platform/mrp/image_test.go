package mrp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testImages = []Image{
	{ID: 1, Description: "k1", Type: ImageTypeKernel, Arch: "arm64"},
	{ID: 2, Description: "k1", Type: ImageTypeKernel, Arch: "x86_64"},
	{ID: 3, Description: "k1", Type: ImageTypeInitrd, Arch: "arm64"},
	{ID: 4, Description: "i1", Type: ImageTypeInitrd, Arch: "arm64"},
}

func TestFindImage(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/image", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("show_all"))
		writeJSON(t, w, http.StatusOK, testImages)
	})

	tests := []struct {
		name   string
		key    ImageKey
		wantID int64
	}{
		{"kernel arm64", ImageKey{Description: "k1", Type: ImageTypeKernel, Arch: "arm64"}, 1},
		{"kernel x86_64", ImageKey{Description: "k1", Type: ImageTypeKernel, Arch: "x86_64"}, 2},
		{"initrd with kernel description", ImageKey{Description: "k1", Type: ImageTypeInitrd, Arch: "arm64"}, 3},
		{"initrd", ImageKey{Description: "i1", Type: ImageTypeInitrd, Arch: "arm64"}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := c.FindImage(context.Background(), tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, img.ID)
		})
	}
}

func TestFindImage_PartialMatchIsNotFound(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, testImages)
	})

	_, err := c.FindImage(context.Background(), ImageKey{Description: "i1", Type: ImageTypeInitrd, Arch: "x86_64"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), `Initrd "i1" (x86_64)`)
}

func TestUploadImage(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/image", r.URL.Path)
		assert.Equal(t, testToken, r.Header.Get("Authorization"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "kernel-bytes", string(data))
		assert.Equal(t, "linux", header.Filename)

		var meta map[string]any
		assert.NoError(t, json.Unmarshal([]byte(r.FormValue("q")), &meta))
		assert.Equal(t, map[string]any{
			"description": "debian-installer staging build 471",
			"type":        "Kernel",
			"arch":        "arm64",
			"known_good":  true,
			"public":      false,
		}, meta)

		writeJSON(t, w, http.StatusCreated, Image{ID: 99, Description: "debian-installer staging build 471", Type: "Kernel", Arch: "arm64", KnownGood: true})
	})

	img, err := c.UploadImage(context.Background(), ImageUpload{
		Description: "debian-installer staging build 471",
		Type:        ImageTypeKernel,
		Arch:        "arm64",
		KnownGood:   true,
		Filename:    "linux",
	}, strings.NewReader("kernel-bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(99), img.ID)
}

func TestUploadImage_Rejected(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		writeJSON(t, w, http.StatusBadRequest, map[string]string{"message": "arch missing"})
	})

	_, err := c.UploadImage(context.Background(), ImageUpload{Description: "k1", Type: ImageTypeKernel, Filename: "linux"}, strings.NewReader("x"))

	var ce *CreationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "image", ce.Resource)
	assert.Contains(t, ce.Payload, `"description":"k1"`)
	assert.Contains(t, err.Error(), "arch missing")
}

func TestUploadImage_OKIsNotCreated(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		writeJSON(t, w, http.StatusOK, Image{ID: 1})
	})

	_, err := c.UploadImage(context.Background(), ImageUpload{Description: "k1", Type: ImageTypeKernel, Arch: "arm64", Filename: "linux"}, strings.NewReader("x"))

	var ce *CreationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusOK, ce.Cause.StatusCode)
}

func TestUploadImage_InvalidType(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	})

	_, err := c.UploadImage(context.Background(), ImageUpload{Description: "k1", Type: "Rootfs", Arch: "arm64"}, strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid image type "Rootfs"`)
	assert.Zero(t, calls.Load())
}
