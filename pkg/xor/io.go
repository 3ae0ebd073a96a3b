package xor

import (
	"bytes"
	"fmt"
	"io"
)

// Reader extends io.Reader, but also provides a way to reuse a key with a different source.
type Reader interface {
	io.Reader
	// Reset will use the provided io.Reader and reset the position within the key to the first byte.
	Reset(source io.Reader)
}

// Writer extends io.Writer, but also provides a way to reuse a key with a different target.
type Writer interface {
	io.Writer
	// Reset will use the provided io.Writer and reset the position within the key to the first byte.
	Reset(target io.Writer)
}

var _ Reader = (*reader)(nil)

type reader struct {
	source io.Reader
	scr    *xorScreen
}

func (r *reader) Read(out []byte) (n int, err error) {
	n, err = r.source.Read(out)
	for i := 0; i < n; i++ {
		out[i] = r.scr.screen(out[i])
	}
	return n, err
}

func (r *reader) Reset(source io.Reader) {
	r.source = source
	r.scr.reset()
}

// NewReader constructs a new Reader that will XOR all bytes read with the provided key.
func NewReader(r io.Reader, key []byte) (Reader, error) {
	scr, err := newXorScreen(key)
	if err != nil {
		return nil, err
	}
	return &reader{source: r, scr: scr}, nil
}

var _ Writer = (*writer)(nil)

type writer struct {
	target io.Writer
	scr    *xorScreen
}

// NewWriter constructs a new Writer that will XOR all bytes written with the provided key before passing them to target.
func NewWriter(target io.Writer, key []byte) (Writer, error) {
	scr, err := newXorScreen(key)
	if err != nil {
		return nil, err
	}
	return &writer{target: target, scr: scr}, nil
}

func (w *writer) Write(in []byte) (n int, err error) {
	var buf bytes.Buffer
	for i := 0; i < len(in); i++ {
		buf.WriteByte(w.scr.screen(in[i]))
	}
	return w.target.Write(buf.Bytes())
}

func (w *writer) Reset(target io.Writer) {
	w.target = target
	w.scr.reset()
}

// Apply returns a new slice holding data XOR key.
// The key must be exactly as long as data, which is always the case when combining whole blocks.
func Apply(data, key []byte) ([]byte, error) {
	if len(data) != len(key) {
		return nil, fmt.Errorf("data length %d does not match key length %d", len(data), len(key))
	}
	r, err := NewReader(bytes.NewReader(data), key)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
