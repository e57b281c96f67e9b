// Package retry provides exponential backoff retry logic for operations that
// need time to converge.
//
// [WithExponentialBackoff] retries an operation with configurable attempts,
// initial delay and maximum delay. mrpctl uses it to wait for a machine to
// report an address after provisioning; mutations against the provisioner
// are never retried.
package retry
