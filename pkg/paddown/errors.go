package paddown

import "errors"

var (
	// ErrConfiguration is returned by NewEngine when the oracle or an option is unusable.
	ErrConfiguration = errors.New("invalid engine configuration")
	// ErrMalformedInput is returned before any oracle query when the input can't be processed.
	ErrMalformedInput = errors.New("malformed input")
	// ErrOracleInconsistency is returned when no candidate byte produced valid padding.
	// This means the oracle is broken, or doesn't belong to the ciphertext.
	ErrOracleInconsistency = errors.New("oracle accepted no candidate")
	// ErrOracleUnavailable wraps errors returned by the oracle, including per-call timeouts.
	ErrOracleUnavailable = errors.New("oracle unavailable")
)
