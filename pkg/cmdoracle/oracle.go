/*
Package cmdoracle adapts an external program to a padding oracle.

The program is run once per query with the candidate bytes hex encoded, either as its last argument or as a line on stdin.
Its exit status is the answer: 0 means the padding is valid, 1 means it isn't, and anything else is an error.
This makes it possible to attack anything a short script can reach, like a web service through curl.
*/
package cmdoracle

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	exitValid   = 0
	exitInvalid = 1
	waitDelay   = time.Second
)

var (
	ErrNoProgram   = errors.New("no oracle program given")
	ErrOracleCrash = errors.New("oracle program failed")
)

// Oracle runs a program for every padding query.
type Oracle struct {
	program string
	args    []string
	timeout time.Duration
	stdin   bool
}

type Opt = func(*Oracle) error

// SetTimeout limits how long the program may run for a single query.
func SetTimeout(timeout time.Duration) Opt {
	return func(o *Oracle) error {
		if timeout < 0 {
			return errors.New("timeout cannot be negative")
		}
		o.timeout = timeout
		return nil
	}
}

// UseStdin passes the candidate as a line on stdin instead of as the last argument.
func UseStdin() Opt {
	return func(o *Oracle) error {
		o.stdin = true
		return nil
	}
}

// New creates an Oracle that runs program with args.
func New(program string, args []string, opts ...Opt) (*Oracle, error) {
	if len(strings.TrimSpace(program)) == 0 {
		return nil, ErrNoProgram
	}
	o := &Oracle{
		program: program,
		args:    append([]string{}, args...),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// HasValidPadding runs the program with candidate and interprets its exit status.
func (o *Oracle) HasValidPadding(ctx context.Context, candidate []byte) (bool, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	encoded := hex.EncodeToString(candidate)
	args := o.args
	if !o.stdin {
		args = append(append([]string{}, o.args...), encoded)
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, o.program, args...)
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	if o.stdin {
		cmd.Stdin = strings.NewReader(encoded + "\n")
	}

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, fmt.Errorf("oracle program '%s' interrupted: %w", o.program, ctxErr)
	}
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false, fmt.Errorf("%w: failed to run '%s': %w", ErrOracleCrash, o.program, err)
	}
	switch exitErr.ExitCode() {
	case exitValid:
		return true, nil
	case exitInvalid:
		return false, nil
	default:
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 0 {
			return false, fmt.Errorf("%w: '%s' exited with status %d: %s", ErrOracleCrash, o.program, exitErr.ExitCode(), msg)
		}
		return false, fmt.Errorf("%w: '%s' exited with status %d", ErrOracleCrash, o.program, exitErr.ExitCode())
	}
}
