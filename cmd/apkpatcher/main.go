package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"apkpatcher/internal/cli"
)

// main is a thin boundary: it canonicalizes CLI input into an Invocation
// before any pipeline logic runs, and maps outcomes to exit codes.
func main() {
	inv, err := cli.ParseInvocation(os.Args[1:])
	if err != nil {
		var invErr *cli.InvocationError
		if errors.As(err, &invErr) {
			fmt.Fprintln(os.Stderr, invErr.Message)
			os.Exit(invErr.ExitCode)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitInvalidInvocation)
	}

	// Pipeline errors are already logged by Execute; only the exit code
	// is left to report.
	result, _ := cli.Execute(context.Background(), inv)
	os.Exit(result.ExitCode)
}
