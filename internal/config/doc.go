// Package config defines mrpctl's configuration: the provisioner endpoint
// and token, optional S3 credentials for s3:// artifacts, and logging.
//
// Values are layered. [LoadFile] reads a YAML file, [Config.ApplyEnv] lays
// MRP_* environment variables over it and [Config.ApplyOverrides] applies
// command-line flags last. [LoadTimeouts] reads the timeout knobs, which
// are environment-only.
package config
