//go:build !windows

package executor

import (
	"os/exec"

	"golang.org/x/sys/unix"
)

// setCancel asks cmd to send SIGTERM (rather than the default SIGKILL) when
// its context is canceled, giving a compiler or linker a chance to clean up
// partial output before WaitDelay forces a kill.
func setCancel(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		return unix.Kill(cmd.Process.Pid, unix.SIGTERM)
	}
}
