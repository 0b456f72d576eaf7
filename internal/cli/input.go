// Package cli canonicalizes command-line input and wires the pipeline.
package cli

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	ExitSuccess           = 0
	ExitPipelineFailure   = 1
	ExitInvalidInvocation = 2
)

// Invocation is the fully canonicalized description of a run: the four
// artifact sources plus the working directory everything happens in.
type Invocation struct {
	BaseAPKURL  string
	SplitAPKURL string
	LibMainURL  string
	KeystoreURL string
	WorkDir     string
}

// InvocationError is a CLI-surface error with the exit code it maps to.
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// ParseInvocation parses CLI flags into a canonical Invocation. All four
// URL flags are required; --workdir defaults to the process current
// directory and is made absolute.
func ParseInvocation(args []string) (Invocation, error) {
	fs := flag.NewFlagSet("apkpatcher", flag.ContinueOnError)
	fs.SetOutput(io.Discard) // parsing errors are returned, not printed

	var inv Invocation
	fs.StringVar(&inv.BaseAPKURL, "baseapk-url", "", "URL of the base APK. Required.")
	fs.StringVar(&inv.SplitAPKURL, "splitapk-url", "", "URL of the split APK. Required.")
	fs.StringVar(&inv.LibMainURL, "libmain-url", "", "URL of the patched native library. Required.")
	fs.StringVar(&inv.KeystoreURL, "keystore-url", "", "URL of the debug keystore. Required.")
	fs.StringVar(&inv.WorkDir, "workdir", ".", "Working directory for all downloads and tool output.")

	if err := fs.Parse(args); err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}
	if fs.NArg() != 0 {
		return Invocation{}, invalidInvocationf("unexpected positional arguments: %q", strings.Join(fs.Args(), " "))
	}

	for _, req := range []struct{ name, value string }{
		{"baseapk-url", inv.BaseAPKURL},
		{"splitapk-url", inv.SplitAPKURL},
		{"libmain-url", inv.LibMainURL},
		{"keystore-url", inv.KeystoreURL},
	} {
		if req.value == "" {
			return Invocation{}, invalidInvocationf("--%s is required", req.name)
		}
	}

	workDir, err := filepath.Abs(inv.WorkDir)
	if err != nil {
		return Invocation{}, invalidInvocationf("resolve --workdir: %v", err)
	}
	inv.WorkDir = workDir

	return inv, nil
}
