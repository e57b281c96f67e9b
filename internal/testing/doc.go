// Package testing provides shared test doubles for the provisioner API.
//
//   - MockAPI: function-field mock that records the methods called
//   - FakeProvisioner: stateful httptest server speaking the provisioner
//     REST API, for tests that need uploads to be visible to later lookups
//
// Usage:
//
//	fake := testing.NewFakeProvisioner(t)
//	client, _ := mrp.NewClient(fake.URL(), "token")
package testing
