package paddown

import (
	"context"
	"fmt"
)

// decryptBlock recovers the intermediate state of block, last byte first.
// The probe buffer is fakeIV || block and is reused for every byte of the block.
func (r *run) decryptBlock(ctx context.Context, block []byte, blockNo int) ([]byte, error) {
	bs := r.blockSize
	if len(block) != bs {
		return nil, fmt.Errorf("%w: block must be %d bytes, got %d", ErrMalformedInput, bs, len(block))
	}
	probe := make([]byte, 2*bs)
	copy(probe[bs:], block)
	fakeIV := probe[:bs]
	intermediate := make([]byte, bs)

	for i := 0; i < bs; i++ {
		pad := byte(i + 1)
		forcePadding(fakeIV, intermediate, i)
		pos := bs - 1 - i
		ep, err := r.decryptAtIndex(ctx, probe, pos)
		if err != nil {
			return nil, err
		}
		// Valid padding means fakeIV[pos] ^ intermediate[pos] == pad.
		intermediate[pos] = ep ^ pad
		r.notify(blockNo, i+1, intermediate)
	}
	return intermediate, nil
}

// forcePadding sets the last i bytes of fakeIV so that they decrypt to the value i+1.
// Only those bytes of intermediate must be known.
func forcePadding(fakeIV, intermediate []byte, i int) {
	end := len(fakeIV) - 1
	pad := byte(i + 1)
	for j := 0; j < i; j++ {
		fakeIV[end-j] = intermediate[end-j] ^ pad
	}
}

// decryptAtIndex finds the lowest byte at probe[index] that the oracle accepts.
//
// At the last byte of the fake IV a candidate can be accepted because the block happens to decrypt to a longer padding, like 0x02 0x02.
// That's ruled out by changing the byte before it and asking again, since a padding of length one doesn't depend on it.
func (r *run) decryptAtIndex(ctx context.Context, probe []byte, index int) (byte, error) {
	if index < 0 || index >= len(probe) {
		return 0, fmt.Errorf("%w: index %d out of range for probe of %d bytes", ErrMalformedInput, index, len(probe))
	}
	checkAmbiguity := index == r.blockSize-1 && index > 0
	for from := 0; from <= 0xff; {
		candidate, err := r.search(ctx, probe, index, from)
		if err != nil {
			return 0, err
		}
		if !checkAmbiguity {
			return candidate, nil
		}
		probe[index-1] ^= 0x01
		valid, err := r.query(ctx, probe)
		probe[index-1] ^= 0x01
		if err != nil {
			return 0, err
		}
		if valid {
			return candidate, nil
		}
		from = int(candidate) + 1
	}
	return 0, fmt.Errorf("%w: at index %d", ErrOracleInconsistency, index)
}

func (r *run) search(ctx context.Context, probe []byte, index, from int) (byte, error) {
	if r.workers > 1 {
		return r.searchParallel(ctx, probe, index, from)
	}
	for c := from; c <= 0xff; c++ {
		probe[index] = byte(c)
		valid, err := r.query(ctx, probe)
		if err != nil {
			return 0, err
		}
		if valid {
			return byte(c), nil
		}
	}
	return 0, fmt.Errorf("%w: at index %d", ErrOracleInconsistency, index)
}
