package paddown

import (
	"context"
	"crypto/rand"
	"sync/atomic"
	"testing"

	"github.com/saylorsolutions/paddown/pkg/harness"
	"github.com/saylorsolutions/paddown/pkg/pkcs7"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("128bitsforkeysss")

func testOracle(t *testing.T) *harness.Oracle {
	t.Helper()
	o, err := harness.New(testKey)
	require.NoError(t, err)
	return o
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	_, err := rand.Read(buf)
	require.NoError(t, err)
	return buf
}

// identityOracle simulates a block cipher whose decryption is the identity function,
// so every block is its own intermediate state.
func identityOracle(blockSize int) OracleFunc {
	return func(_ context.Context, candidate []byte) (bool, error) {
		if len(candidate) != 2*blockSize {
			return false, nil
		}
		plain := make([]byte, blockSize)
		for i := range plain {
			plain[i] = candidate[i] ^ candidate[blockSize+i]
		}
		return pkcs7.Valid(plain, blockSize), nil
	}
}

type countingOracle struct {
	Oracle
	calls atomic.Int64
}

func (c *countingOracle) HasValidPadding(ctx context.Context, candidate []byte) (bool, error) {
	c.calls.Add(1)
	return c.Oracle.HasValidPadding(ctx, candidate)
}

func alwaysInvalid() OracleFunc {
	return func(context.Context, []byte) (bool, error) {
		return false, nil
	}
}
