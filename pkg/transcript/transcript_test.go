package transcript

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Transcript {
	ct := []byte("0123456789abcdefFEDCBA9876543210")
	inter := make([]byte, len(ct))
	plain := []byte("HELLO WORLD!!!!\x01")
	for i := range plain {
		inter[16+i] = plain[i] ^ ct[i]
	}
	return &Transcript{
		BlockSize:    16,
		Ciphertext:   ct,
		Intermediate: inter,
		Plaintext:    plain,
	}
}

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	orig := sample()
	require.True(t, orig.Verify())
	require.NoError(t, orig.Write(&buf))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
	assert.True(t, got.Verify())
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attack.pdt")
	orig := sample()
	require.NoError(t, orig.WriteFile(path))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, orig, got)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.pdt"))
	assert.Error(t, err)
}

func TestRead_Neg(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sample().Write(&buf))
	data := buf.Bytes()

	tests := map[string][]byte{
		"Empty":     nil,
		"Bad magic": append([]byte{0xde, 0xad}, data[2:]...),
		"Truncated": data[:len(data)-1],
	}
	for name, given := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(given))
			assert.Error(t, err)
			t.Log(err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Transcript){
		"Bad block size":       func(tr *Transcript) { tr.BlockSize = 0 },
		"Unaligned ciphertext": func(tr *Transcript) { tr.Ciphertext = tr.Ciphertext[:31] },
		"Short intermediate":   func(tr *Transcript) { tr.Intermediate = tr.Intermediate[:16] },
		"Plaintext too long":   func(tr *Transcript) { tr.Plaintext = append(tr.Plaintext, 'x') },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			tr := sample()
			mutate(tr)
			assert.ErrorIs(t, tr.Validate(), ErrInvalidData)
			assert.False(t, tr.Verify())
			assert.ErrorIs(t, tr.Write(new(bytes.Buffer)), ErrInvalidData)
		})
	}
}

func TestVerify_Tampered(t *testing.T) {
	tr := sample()
	tr.Plaintext[0] ^= 0x01
	assert.NoError(t, tr.Validate())
	assert.False(t, tr.Verify())
}
