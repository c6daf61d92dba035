// Package testing puts the portal into test mode. Importing it for side
// effects is enough; packages with their own TestMain can call Main.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

// defaults are written to the environment unless the variable is already set.
var defaults = [][2]string{
	{"APP_ENV", "test"},
	{"SESSION_SECRET", "test-session-secret"},
	{"CSRF_SECRET", "test-csrf-secret"},
	{"BACKEND_URL", "http://127.0.0.1:0"},
}

var prepare = sync.OnceFunc(func() {
	_ = os.Setenv("PORTAL_TEST_MODE", "1")
	for _, kv := range defaults {
		if _, set := os.LookupEnv(kv[0]); !set {
			_ = os.Setenv(kv[0], kv[1])
		}
	}
})

func init() { prepare() }

// Main runs the suite in test mode.
func Main(m *stdtesting.M) {
	prepare()
	os.Exit(m.Run())
}
