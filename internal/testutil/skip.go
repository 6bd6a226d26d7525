package testutil

import (
	"os"
	"testing"
)

// ChromeURLEnv names the DevTools endpoint used by live-browser tests.
const ChromeURLEnv = "THREADCOPY_TEST_CHROME_URL"

// SkipIfNoBrowser skips the test unless THREADCOPY_TEST_CHROME_URL points
// at a running Chrome started with --remote-debugging-port. It returns the
// endpoint.
func SkipIfNoBrowser(t *testing.T) string {
	t.Helper()
	url := os.Getenv(ChromeURLEnv)
	if url == "" {
		t.Skipf("skipping live browser test: %s is not set", ChromeURLEnv)
	}
	return url
}
