package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/saylorsolutions/paddown/pkg/paddown"
)

const (
	ExitFailure = 1
	ExitUsage   = 2
	ExitOracle  = 3
)

// Fatal will Echo the message and os.Exit with ExitFailure.
func Fatal(msg string, args ...any) {
	Echo(msg, args...)
	os.Exit(ExitFailure)
}

// FatalErr will Echo the error and os.Exit with the code from ExitCode.
func FatalErr(err error) {
	Echo("Error: %v", err)
	os.Exit(ExitCode(err))
}

// Echo will emit the given message to stderr without any logging formatting.
func Echo(msg string, args ...any) {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	_, _ = fmt.Fprintf(os.Stderr, msg, args...)
}

// ExitCode maps an attack error to a process exit code.
// Usage problems and oracle problems are distinguished so scripts can tell them apart.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, paddown.ErrConfiguration), errors.Is(err, paddown.ErrMalformedInput):
		return ExitUsage
	case errors.Is(err, paddown.ErrOracleInconsistency), errors.Is(err, paddown.ErrOracleUnavailable):
		return ExitOracle
	default:
		return ExitFailure
	}
}
