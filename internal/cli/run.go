package cli

import "context"

// Run is a high-level CLI entrypoint suitable for black-box tests. It
// accepts the argument slice (excluding argv[0]) and returns the semantic
// exit code plus any error.
func Run(ctx context.Context, args []string) (CLIResult, error) {
	inv, err := ParseInvocation(args)
	if err != nil {
		code := ExitInvalidInvocation
		if invErr, ok := err.(*InvocationError); ok {
			code = invErr.ExitCode
		}
		return CLIResult{ExitCode: code}, err
	}
	return Execute(ctx, inv)
}
