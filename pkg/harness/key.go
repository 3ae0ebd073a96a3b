package harness

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

const (
	DefaultInteractiveIterations uint64 = 1 << 15
	DefaultRelBlockSize          uint8  = 8
	DefaultCpuCost               uint8  = 1
	AES256KeySize                uint8  = 256 / 8
	AES128KeySize                uint8  = 128 / 8
	SaltSize                            = 16
)

var (
	ErrEmptyPassPhrase = errors.New("cannot use an empty passphrase")
	ErrInvalidSalt     = errors.New("invalid salt")
)

// KeyGenerator derives AES keys from a passphrase and salt with scrypt.
type KeyGenerator struct {
	iterations        uint64
	relativeBlockSize uint8
	cpuCost           uint8
	aesKeySize        uint8
}

type GeneratorOpt = func(*KeyGenerator) error

func SetAES256KeySize() GeneratorOpt {
	return func(gen *KeyGenerator) error {
		gen.aesKeySize = AES256KeySize
		return nil
	}
}

func SetAES128KeySize() GeneratorOpt {
	return func(gen *KeyGenerator) error {
		gen.aesKeySize = AES128KeySize
		return nil
	}
}

// SetIterations allows the caller to customize the scrypt iteration count.
// Tests use a low count to keep derivation fast.
func SetIterations(iterations uint64) GeneratorOpt {
	return func(gen *KeyGenerator) error {
		if iterations <= 1 {
			return errors.New("iterations cannot be <= 1")
		}
		if iterations&(iterations-1) != 0 {
			return errors.New("iterations must be a power of 2")
		}
		gen.iterations = iterations
		return nil
	}
}

// NewKeyGenerator creates a new KeyGenerator using the options provided as zero or more GeneratorOpt.
// By default, the generator derives an AES128KeySize key using DefaultInteractiveIterations.
func NewKeyGenerator(opts ...GeneratorOpt) (*KeyGenerator, error) {
	gen := &KeyGenerator{
		iterations:        DefaultInteractiveIterations,
		relativeBlockSize: DefaultRelBlockSize,
		cpuCost:           DefaultCpuCost,
		aesKeySize:        AES128KeySize,
	}

	for _, opt := range opts {
		if err := opt(gen); err != nil {
			return nil, err
		}
	}
	return gen, nil
}

// NewSalt returns SaltSize secure random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveKey will derive a key from the passphrase and salt.
// The same passphrase, salt and generator settings always produce the same key.
func (g *KeyGenerator) DeriveKey(pass, salt []byte) ([]byte, error) {
	if len(pass) == 0 {
		return nil, ErrEmptyPassPhrase
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: salt is empty", ErrInvalidSalt)
	}
	return scrypt.Key(pass, salt, int(g.iterations), int(g.relativeBlockSize), int(g.cpuCost), int(g.aesKeySize))
}
