// Package toolchain runs external tools and installs missing ones.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/openkraft/pluginpipe/internal/domain"
)

// waitDelay bounds how long Run waits for output pipes after the process
// is gone; grandchildren may still hold them open.
const waitDelay = 2 * time.Second

// Executor runs commands on the host.
type Executor struct{}

func NewExecutor() *Executor { return &Executor{} }

func (e *Executor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes cmd, enforcing cmd.Timeout when set. A timeout kills the
// process with everything it spawned and is reported through TimedOut
// rather than Err.
func (e *Executor) Run(ctx context.Context, cmd domain.Command) domain.CommandResult {
	cmdCtx := ctx
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(cmdCtx, cmd.Name, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	killGroupOnCancel(c)
	c.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := domain.CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}

	if cmdCtx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		res.ExitCode = -1
		return res
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case errors.Is(err, exec.ErrWaitDelay):
		// The process exited cleanly but left its pipes open.
		res.ExitCode = c.ProcessState.ExitCode()
	default:
		res.ExitCode = -1
		res.Err = err
	}
	return res
}
