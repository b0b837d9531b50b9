// Package shared holds helpers used across packages that belong to no single
// layer.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- A buffered slog handler for asserting on log output
//	- Small results and attendance fixtures in CSV form
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    svc := NewThing(logger)
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "done")
//	}
package shared
