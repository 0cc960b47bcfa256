//go:build !unix

package render

import "os/exec"

func shellArgv() []string {
	return []string{"cmd", "/C"}
}

// setProcessGroup keeps the default cancellation, which kills the process.
func setProcessGroup(cmd *exec.Cmd) {}
