package paddown

import "context"

// Oracle reports whether candidate, read as IV || ciphertext, decrypts to correctly padded data.
// An error means the question couldn't be answered, and aborts the attack.
type Oracle interface {
	HasValidPadding(ctx context.Context, candidate []byte) (bool, error)
}

var _ Oracle = (OracleFunc)(nil)

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, candidate []byte) (bool, error)

func (f OracleFunc) HasValidPadding(ctx context.Context, candidate []byte) (bool, error) {
	return f(ctx, candidate)
}
