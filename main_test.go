package tailgen

import (
	"testing"

	"go.uber.org/goleak"
)

// Watch and ScanContent start goroutines; every test must leave none behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
