package spawn

import (
	"fmt"
	"log"
	"os/exec"
	"strings"
	"syscall"

	"github.com/google/shlex"
)

// Args splits a desktop-entry Exec line into argv, dropping freedesktop
// field codes (%f, %u and friends).
func Args(execLine string) ([]string, error) {
	tokens, err := shlex.Split(execLine)
	if err != nil {
		return nil, fmt.Errorf("split exec line %q: %w", execLine, err)
	}
	args := tokens[:0]
	for _, token := range tokens {
		if strings.HasPrefix(token, "%") {
			continue
		}
		args = append(args, token)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("exec line %q has no command", execLine)
	}
	return args, nil
}

// Run starts the command described by a desktop-entry Exec line, detached
// from the launcher so it survives our exit. The child is not waited on.
func Run(execLine string) error {
	args, err := Args(execLine)
	if err != nil {
		return err
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %q: %w", args[0], err)
	}
	log.Printf("Spawned %v (pid %d)", args, cmd.Process.Pid)

	// Reap in the background so the child never zombifies while we are
	// still shutting down.
	go func() { _ = cmd.Wait() }()
	return nil
}
