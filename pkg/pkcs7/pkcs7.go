/*
Package pkcs7 implements the block padding scheme described in RFC 2315.

A padded message always ends with between 1 and blockSize bytes, each holding the number of padding bytes.
A message whose length is already a multiple of blockSize gets a whole extra block of padding, so padding can always be removed unambiguously.
*/
package pkcs7

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	ErrInvalidBlockSize = errors.New("block size must be between 1 and 255")
	ErrInvalidPadding   = errors.New("invalid PKCS#7 padding")
)

// Pad returns a copy of data with padding appended up to the next multiple of blockSize.
func Pad(data []byte, blockSize int) ([]byte, error) {
	if blockSize < 1 || blockSize > 255 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBlockSize, blockSize)
	}
	padding := blockSize - len(data)%blockSize
	out := make([]byte, len(data), len(data)+padding)
	copy(out, data)
	return append(out, bytes.Repeat([]byte{byte(padding)}, padding)...), nil
}

// Unpad validates the padding of data and returns data without it.
// The returned slice shares memory with data.
func Unpad(data []byte, blockSize int) ([]byte, error) {
	n, err := padLen(data, blockSize)
	if err != nil {
		return nil, err
	}
	return data[:len(data)-n], nil
}

// Valid reports whether data carries correct padding for blockSize.
func Valid(data []byte, blockSize int) bool {
	_, err := padLen(data, blockSize)
	return err == nil
}

func padLen(data []byte, blockSize int) (int, error) {
	if blockSize < 1 || blockSize > 255 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidBlockSize, blockSize)
	}
	length := len(data)
	if length == 0 || length%blockSize != 0 {
		return 0, fmt.Errorf("%w: length %d is not a positive multiple of %d", ErrInvalidPadding, length, blockSize)
	}
	padding := int(data[length-1])
	if padding == 0 || padding > blockSize {
		return 0, fmt.Errorf("%w: padding byte value %d", ErrInvalidPadding, padding)
	}
	for i := length - padding; i < length; i++ {
		if data[i] != byte(padding) {
			return 0, fmt.Errorf("%w: malformed padding at byte %d", ErrInvalidPadding, i)
		}
	}
	return padding, nil
}
