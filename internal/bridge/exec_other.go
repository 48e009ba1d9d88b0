//go:build !windows

package bridge

import "os/exec"

func hideWindow(*exec.Cmd) {}
