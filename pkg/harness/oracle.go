package harness

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/saylorsolutions/paddown/pkg/pkcs7"
)

var ErrInvalidCiphertext = errors.New("invalid ciphertext")

// Oracle is a local AES-CBC padding oracle.
// It is safe for concurrent use.
type Oracle struct {
	block   cipher.Block
	queries atomic.Uint64
}

// New creates an Oracle that uses the given AES key.
func New(key []byte) (*Oracle, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	return &Oracle{block: block}, nil
}

// NewRandom creates an Oracle with a secure random AES-128 key.
func NewRandom() (*Oracle, error) {
	key := make([]byte, AES128KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return New(key)
}

// FromPassphrase creates an Oracle with a key derived from pass and salt by gen.
func FromPassphrase(gen *KeyGenerator, pass, salt []byte) (*Oracle, error) {
	key, err := gen.DeriveKey(pass, salt)
	if err != nil {
		return nil, err
	}
	return New(key)
}

func (o *Oracle) BlockSize() int {
	return o.block.BlockSize()
}

// Queries returns how many times HasValidPadding has been called.
func (o *Oracle) Queries() uint64 {
	return o.queries.Load()
}

// Encrypt pads and encrypts plaintext under a random IV, returning IV || ciphertext.
func (o *Oracle) Encrypt(plaintext []byte) ([]byte, error) {
	iv := make([]byte, o.BlockSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}
	return o.EncryptWithIV(iv, plaintext)
}

// EncryptWithIV pads and encrypts plaintext under iv, returning IV || ciphertext.
func (o *Oracle) EncryptWithIV(iv, plaintext []byte) ([]byte, error) {
	bs := o.BlockSize()
	if len(iv) != bs {
		return nil, fmt.Errorf("IV must be %d bytes, got %d", bs, len(iv))
	}
	padded, err := pkcs7.Pad(plaintext, bs)
	if err != nil {
		return nil, err
	}
	out := make([]byte, bs+len(padded))
	copy(out, iv)
	cipher.NewCBCEncrypter(o.block, iv).CryptBlocks(out[bs:], padded)
	return out, nil
}

// Decrypt decrypts IV || ciphertext and returns the padded plaintext without checking it.
func (o *Oracle) Decrypt(data []byte) ([]byte, error) {
	bs := o.BlockSize()
	if len(data) < 2*bs || len(data)%bs != 0 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidCiphertext, len(data))
	}
	out := make([]byte, len(data)-bs)
	cipher.NewCBCDecrypter(o.block, data[:bs]).CryptBlocks(out, data[bs:])
	return out, nil
}

// Intermediate returns the raw block decryption of one block, before the CBC XOR.
func (o *Oracle) Intermediate(block []byte) ([]byte, error) {
	if len(block) != o.BlockSize() {
		return nil, fmt.Errorf("%w: block must be %d bytes, got %d", ErrInvalidCiphertext, o.BlockSize(), len(block))
	}
	out := make([]byte, len(block))
	o.block.Decrypt(out, block)
	return out, nil
}

// HasValidPadding reports whether candidate, read as IV || ciphertext, decrypts to correctly padded data.
// Malformed candidates are reported as invalid padding, the way a server would reject them.
func (o *Oracle) HasValidPadding(ctx context.Context, candidate []byte) (bool, error) {
	o.queries.Add(1)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	plain, err := o.Decrypt(candidate)
	if err != nil {
		return false, nil
	}
	return pkcs7.Valid(plain, o.BlockSize()), nil
}
