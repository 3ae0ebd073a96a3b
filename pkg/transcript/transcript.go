/*
Package transcript stores the outcome of a padding oracle attack in a compact binary file.

A Transcript keeps the block size, the attacked ciphertext, the recovered intermediate state and the plaintext together,
so results can be inspected later or re-checked against the original ciphertext without querying the oracle again.
*/
package transcript

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	bin "github.com/saylorsolutions/binmap"
)

const (
	magic   uint64 = 0x50414444_4f574e31
	version uint64 = 1
	maxLen  uint64 = 1 << 26
)

var (
	ErrInvalidHeader = errors.New("invalid transcript header")
	ErrInvalidData   = errors.New("inconsistent transcript data")
)

// Transcript is the record of one attack.
type Transcript struct {
	BlockSize    int
	Ciphertext   []byte
	Intermediate []byte
	Plaintext    []byte
}

type header struct {
	magic        uint64
	version      uint64
	blockSize    uint64
	ciphertext   uint64
	intermediate uint64
	plaintext    uint64
}

func (h *header) mapper() bin.Mapper {
	return bin.MapSequence(
		bin.Int(&h.magic),
		bin.Int(&h.version),
		bin.Int(&h.blockSize),
		bin.Int(&h.ciphertext),
		bin.Int(&h.intermediate),
		bin.Int(&h.plaintext),
	)
}

func bytesMapper(data []byte) bin.Mapper {
	mappers := make([]bin.Mapper, len(data))
	for i := range data {
		mappers[i] = bin.Byte(&data[i])
	}
	return bin.MapSequence(mappers...)
}

// Validate checks that the fields describe a consistent attack.
func (t *Transcript) Validate() error {
	if t.BlockSize < 1 || t.BlockSize > 255 {
		return fmt.Errorf("%w: block size %d", ErrInvalidData, t.BlockSize)
	}
	if len(t.Ciphertext) == 0 || len(t.Ciphertext)%t.BlockSize != 0 {
		return fmt.Errorf("%w: ciphertext length %d is not a positive multiple of %d", ErrInvalidData, len(t.Ciphertext), t.BlockSize)
	}
	if len(t.Intermediate) != len(t.Ciphertext) {
		return fmt.Errorf("%w: intermediate state is %d bytes, ciphertext is %d", ErrInvalidData, len(t.Intermediate), len(t.Ciphertext))
	}
	if len(t.Plaintext) > len(t.Ciphertext)-t.BlockSize {
		return fmt.Errorf("%w: plaintext is longer than the ciphertext allows", ErrInvalidData)
	}
	return nil
}

// Verify recomputes the plaintext from the intermediate state and reports whether it matches.
// The IV block has no plaintext, so intermediate state for it is ignored.
func (t *Transcript) Verify() bool {
	if t.Validate() != nil {
		return false
	}
	bs := t.BlockSize
	expected := make([]byte, len(t.Ciphertext)-bs)
	for i := range expected {
		expected[i] = t.Ciphertext[i] ^ t.Intermediate[i+bs]
	}
	return bytes.HasPrefix(expected, t.Plaintext)
}

// Write encodes the Transcript to w.
func (t *Transcript) Write(w io.Writer) error {
	if err := t.Validate(); err != nil {
		return err
	}
	h := header{
		magic:        magic,
		version:      version,
		blockSize:    uint64(t.BlockSize),
		ciphertext:   uint64(len(t.Ciphertext)),
		intermediate: uint64(len(t.Intermediate)),
		plaintext:    uint64(len(t.Plaintext)),
	}
	body := bin.MapSequence(
		h.mapper(),
		bytesMapper(t.Ciphertext),
		bytesMapper(t.Intermediate),
		bytesMapper(t.Plaintext),
	)
	return body.Write(w, binary.BigEndian)
}

// Read decodes a Transcript from r.
func Read(r io.Reader) (*Transcript, error) {
	var h header
	if err := h.mapper().Read(r, binary.BigEndian); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if h.magic != magic {
		return nil, fmt.Errorf("%w: not a transcript", ErrInvalidHeader)
	}
	if h.version != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidHeader, h.version)
	}
	if h.ciphertext > maxLen || h.intermediate > maxLen || h.plaintext > maxLen {
		return nil, fmt.Errorf("%w: section too large", ErrInvalidHeader)
	}
	t := &Transcript{
		BlockSize:    int(h.blockSize),
		Ciphertext:   make([]byte, h.ciphertext),
		Intermediate: make([]byte, h.intermediate),
		Plaintext:    make([]byte, h.plaintext),
	}
	body := bin.MapSequence(
		bytesMapper(t.Ciphertext),
		bytesMapper(t.Intermediate),
		bytesMapper(t.Plaintext),
	)
	if err := body.Read(r, binary.BigEndian); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// WriteFile writes the Transcript to path, replacing any existing file.
func (t *Transcript) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := t.Write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write transcript '%s': %w", path, err)
	}
	return nil
}

// ReadFile reads a Transcript from path.
func ReadFile(path string) (*Transcript, error) {
	f, err := os.Open(path) //nolint:gosec // Reading a user-chosen transcript is intended.
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript '%s': %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Read(f)
}
