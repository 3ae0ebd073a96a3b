package paddown

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/saylorsolutions/paddown/pkg/pkcs7"
	"github.com/saylorsolutions/paddown/pkg/xor"
)

// Encrypt forges IV || ciphertext that the oracle's owner will decrypt to plaintext.
// The plaintext is PKCS#7 padded first, so any length is accepted.
//
// The last block is random. Working backward, the intermediate state of each block is recovered with the oracle,
// and the block before it is chosen as intermediate XOR the wanted plaintext block.
// This costs one full block recovery per plaintext block, and no key material.
func (e *Engine) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	bs := e.blockSize
	padded, err := pkcs7.Pad(plaintext, bs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	n := len(padded) / bs
	out := make([]byte, (n+1)*bs)
	if _, err := rand.Read(out[n*bs:]); err != nil {
		return nil, fmt.Errorf("failed to generate final block: %w", err)
	}

	r := e.newRun(n + 1)
	for i := n - 1; i >= 0; i-- {
		inter, err := r.decryptBlock(ctx, out[(i+1)*bs:(i+2)*bs], i+1)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i+1, err)
		}
		prev, err := xor.Apply(inter, padded[i*bs:(i+1)*bs])
		if err != nil {
			return nil, err
		}
		copy(out[i*bs:], prev)
	}
	return out, nil
}
