package xor

import (
	"errors"
)

var ErrEmptyKey = errors.New("cannot use empty key")

type xorScreen struct {
	key []byte
	cur int
}

func newXorScreen(key []byte) (*xorScreen, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	return &xorScreen{key: key}, nil
}

func (s *xorScreen) screen(b byte) byte {
	b ^= s.key[s.cur]
	s.cur = (s.cur + 1) % len(s.key)
	return b
}

func (s *xorScreen) reset() {
	s.cur = 0
}
