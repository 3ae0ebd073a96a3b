package paddown

import (
	"context"
	"testing"

	"github.com/saylorsolutions/paddown/pkg/pkcs7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncrypt(t *testing.T) {
	tests := map[string]string{
		"Empty":           "",
		"Short":           "admin=true",
		"Multiple blocks": "user=mallory;role=admin;expires=never",
	}

	for name, message := range tests {
		t.Run(name, func(t *testing.T) {
			o := testOracle(t)
			e, err := NewEngine(o, SetWorkers(4))
			require.NoError(t, err)

			forged, err := e.Encrypt(context.Background(), []byte(message))
			require.NoError(t, err)
			assert.Zero(t, len(forged)%16)
			assert.Equal(t, (len(message)/16+2)*16, len(forged))

			padded, err := o.Decrypt(forged)
			require.NoError(t, err)
			plain, err := pkcs7.Unpad(padded, 16)
			require.NoError(t, err)
			assert.Equal(t, message, string(plain))
		})
	}
}

func TestEncrypt_Inconsistent(t *testing.T) {
	e, err := NewEngine(alwaysInvalid())
	require.NoError(t, err)
	_, err = e.Encrypt(context.Background(), []byte("anything"))
	assert.ErrorIs(t, err, ErrOracleInconsistency)
}
