package pkcs7

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPad(t *testing.T) {
	tests := map[string]struct {
		given     []byte
		blockSize int
		expected  []byte
	}{
		"Empty input": {
			given:     nil,
			blockSize: 4,
			expected:  []byte{4, 4, 4, 4},
		},
		"Partial block": {
			given:     []byte("abc"),
			blockSize: 4,
			expected:  []byte{'a', 'b', 'c', 1},
		},
		"Full block gets another block": {
			given:     []byte("abcd"),
			blockSize: 4,
			expected:  []byte{'a', 'b', 'c', 'd', 4, 4, 4, 4},
		},
		"AES sized": {
			given:     []byte("HELLO WORLD!!!!"),
			blockSize: 16,
			expected:  []byte("HELLO WORLD!!!!\x01"),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			padded, err := Pad(tc.given, tc.blockSize)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, padded)
			assert.True(t, Valid(padded, tc.blockSize))
		})
	}
}

func TestPad_DoesNotAlias(t *testing.T) {
	data := make([]byte, 3, 16)
	copy(data, "abc")
	padded, err := Pad(data, 4)
	require.NoError(t, err)
	padded[0] = 'z'
	assert.Equal(t, byte('a'), data[0])
}

func TestPad_Neg(t *testing.T) {
	_, err := Pad([]byte("abc"), 0)
	assert.ErrorIs(t, err, ErrInvalidBlockSize)
	_, err = Pad([]byte("abc"), 256)
	assert.ErrorIs(t, err, ErrInvalidBlockSize)
}

func TestUnpad(t *testing.T) {
	tests := map[string]struct {
		given     []byte
		expected  []byte
		expectErr bool
	}{
		"Single byte": {
			given:    []byte("HELLO WORLD!!!!\x01"),
			expected: []byte("HELLO WORLD!!!!"),
		},
		"Whole block": {
			given:    bytes.Repeat([]byte{16}, 16),
			expected: []byte{},
		},
		"Zero padding byte": {
			given:     append(bytes.Repeat([]byte{'a'}, 15), 0),
			expectErr: true,
		},
		"Padding longer than block": {
			given:     append(bytes.Repeat([]byte{'a'}, 15), 17),
			expectErr: true,
		},
		"Inconsistent padding": {
			given:     append(bytes.Repeat([]byte{'a'}, 13), 3, 2, 3),
			expectErr: true,
		},
		"Not block aligned": {
			given:     []byte{1},
			expectErr: true,
		},
		"Empty": {
			given:     nil,
			expectErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Unpad(tc.given, 16)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrInvalidPadding)
				assert.False(t, Valid(tc.given, 16))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
