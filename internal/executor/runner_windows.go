//go:build windows

package executor

import "os/exec"

// setCancel asks cmd to terminate the process when its context is
// canceled. Windows has no signal delivery equivalent to SIGTERM, so this
// falls back to os.Process.Kill, which the Go runtime implements via
// TerminateProcess.
func setCancel(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		return cmd.Process.Kill()
	}
}
