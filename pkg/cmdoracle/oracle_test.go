package cmdoracle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOracle_HasValidPadding(t *testing.T) {
	tests := map[string]struct {
		script    string
		opts      []Opt
		candidate []byte
		expected  bool
		expectErr bool
	}{
		"Valid by argument": {
			script:    `[ "$1" = "00ff" ]`,
			candidate: []byte{0x00, 0xff},
			expected:  true,
		},
		"Invalid by argument": {
			script:    `[ "$1" = "00ff" ]`,
			candidate: []byte{0x01, 0xff},
			expected:  false,
		},
		"Valid by stdin": {
			script:    `read line; [ "$line" = "cafe" ]`,
			opts:      []Opt{UseStdin()},
			candidate: []byte{0xca, 0xfe},
			expected:  true,
		},
		"Unexpected status": {
			script:    `echo "server said no" >&2; exit 3`,
			candidate: []byte{0x00},
			expectErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			o, err := New("sh", []string{"-c", tc.script, "sh"}, tc.opts...)
			require.NoError(t, err)
			valid, err := o.HasValidPadding(context.Background(), tc.candidate)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrOracleCrash)
				t.Log(err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, valid)
		})
	}
}

func TestOracle_Timeout(t *testing.T) {
	o, err := New("sh", []string{"-c", "exec sleep 5"}, SetTimeout(50*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	_, err = o.HasValidPadding(context.Background(), []byte{0x00})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestOracle_MissingProgram(t *testing.T) {
	o, err := New("/definitely/not/a/real/program", nil)
	require.NoError(t, err)
	_, err = o.HasValidPadding(context.Background(), []byte{0x00})
	assert.ErrorIs(t, err, ErrOracleCrash)
}

func TestNew_Neg(t *testing.T) {
	_, err := New("  ", nil)
	assert.ErrorIs(t, err, ErrNoProgram)
	_, err = New("sh", nil, SetTimeout(-time.Second))
	assert.Error(t, err)
}
