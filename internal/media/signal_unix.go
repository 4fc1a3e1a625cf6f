//go:build unix

package media

import (
	"os"

	"golang.org/x/sys/unix"
)

func stopProcess(p *os.Process) error {
	return unix.Kill(p.Pid, unix.SIGSTOP)
}

func continueProcess(p *os.Process) error {
	return unix.Kill(p.Pid, unix.SIGCONT)
}
