//go:build unix

package daemon

import (
	"os"

	"golang.org/x/sys/unix"
)

func reloadSignals() []os.Signal {
	return []os.Signal{unix.SIGHUP}
}
