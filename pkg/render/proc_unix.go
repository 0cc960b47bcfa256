//go:build unix

package render

import (
	"os/exec"
	"syscall"
)

func shellArgv() []string {
	return []string{"/bin/sh", "-c"}
}

// setProcessGroup starts the renderer in its own process group and makes
// cancellation kill the whole group, so pipelines run through the shell
// do not leave orphans behind.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
