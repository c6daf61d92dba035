package app

import (
	"os"
	"strconv"
	"sync/atomic"
)

// TestModeEnv makes binaries skip listeners, schedulers and outbound calls.
const TestModeEnv = "PORTAL_TEST_MODE"

var testMode atomic.Pointer[bool]

// InTestMode reports whether PORTAL_TEST_MODE is set to a true value. The
// environment is read once; RefreshTestMode re-reads it.
func InTestMode() bool {
	if v := testMode.Load(); v != nil {
		return *v
	}
	return RefreshTestMode()
}

// RefreshTestMode re-reads PORTAL_TEST_MODE and returns the new value.
func RefreshTestMode() bool {
	on, _ := strconv.ParseBool(os.Getenv(TestModeEnv))
	testMode.Store(&on)
	return on
}
