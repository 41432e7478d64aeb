// Package plugin runs a user command for every dose-due event.
package plugin

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// defaultTimeout is used when no timeout is configured.
const defaultTimeout = 10 * time.Second

// Hook runs one shell command per event.
type Hook struct {
	command string
	timeout time.Duration
}

// New returns a Hook for command, or nil when command is empty.
//
// Timeout behavior:
//   - 0   → 10-second default
//   - <0  → no timeout
//   - >0  → that many seconds
func New(command string, timeoutSec int) *Hook {
	if command == "" {
		return nil
	}
	timeout := defaultTimeout
	switch {
	case timeoutSec < 0:
		timeout = 0
	case timeoutSec > 0:
		timeout = time.Duration(timeoutSec) * time.Second
	}
	return &Hook{command: command, timeout: timeout}
}

func (h *Hook) Name() string { return "hook" }

// PublishDose runs the command with the JSON event on stdin and in
// MEDTIME_EVENT. The command string itself is never expanded with event
// data.
func (h *Hook) PublishDose(payload []byte) error {
	return Run(h.command, payload, h.timeout)
}

// Run executes command through the system shell (sh -c on Unix, cmd /C on
// Windows). A zero timeout means no timeout.
func Run(command string, payload []byte, timeout time.Duration) error {
	var ctx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	defer cancel()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}

	cmd.Env = buildEnv(payload)
	cmd.Stdin = bytes.NewReader(payload)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("hook %q timed out after %v", command, timeout)
		}
		if stderr.Len() > 0 {
			return fmt.Errorf("hook %q: %s", command, bytes.TrimSpace(stderr.Bytes()))
		}
		return fmt.Errorf("hook %q: %w", command, err)
	}
	return nil
}

func buildEnv(payload []byte) []string {
	return append(os.Environ(), "MEDTIME_EVENT="+string(payload))
}
