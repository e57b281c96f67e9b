// Package artifact opens upload content for images and preseeds.
//
// A reference is either a local filesystem path or an object URL of the form
// s3://bucket/key. S3 access is only set up when the first s3:// reference is
// opened.
package artifact
