// Package s3 reads boot artifacts (kernels, initrds, preseeds) from
// S3-compatible object storage, so uploads can reference s3://bucket/key
// instead of a local file.
package s3
