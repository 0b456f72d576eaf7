// Package run is the process and download boundary of the patcher.
//
// Every external tool invocation goes through Runner, and every artifact
// download goes through Fetcher. Both are synchronous: the caller blocks
// until the subprocess exits or the transfer completes. Neither retries.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bitrise-io/go-utils/log"
)

// CommandError reports an external command that could not run or exited
// with a nonzero status. Desc is the caller-supplied failure description;
// Stderr is the captured standard error of the process.
type CommandError struct {
	Desc     string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s (exit code %d)", e.Desc, e.ExitCode)
	}
	return fmt.Sprintf("%s: %s", e.Desc, msg)
}

// Runner executes external commands synchronously with captured output.
//
// Stdout and stderr are buffered for the full process lifetime and only
// inspected after exit: stdout is logged on success, stderr is logged and
// carried in the returned *CommandError on failure. The host environment
// is passed through unchanged; the tools invoked here (apt-get, wget,
// apktool, java) need PATH and friends.
type Runner struct {
	// Dir is the working directory for every command. Empty means the
	// process current directory.
	Dir string
}

// Run executes name with args and waits for it to exit.
//
// A zero exit code returns nil. Any other outcome (nonzero exit, binary
// not found, start failure) returns a *CommandError carrying desc. Context
// cancellation kills the process.
func (r *Runner) Run(ctx context.Context, desc, name string, args ...string) error {
	log.Printf("$ %s", strings.Join(append([]string{name}, args...), " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		if out := strings.TrimSpace(stdout.String()); out != "" {
			log.Printf("%s", out)
		}
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			log.Errorf("%s", msg)
		}
		return &CommandError{Desc: desc, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
	}

	// The command never ran (e.g. binary not on PATH). There is no exit
	// code to report; -1 marks the failure as pre-execution.
	return &CommandError{Desc: desc, ExitCode: -1, Stderr: err.Error()}
}
