//go:build !unix

package daemon

import "os"

// Windows has no reload signal; changes are picked up by revision polling.
func reloadSignals() []os.Signal {
	return nil
}
