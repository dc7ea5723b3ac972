package app

import "os"

// InTestMode reports whether the process runs under the test harness, in
// which case the binaries skip runtime startup.
func InTestMode() bool {
	return os.Getenv("SENTINEL_TEST_MODE") == "1"
}
