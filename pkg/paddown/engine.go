package paddown

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/saylorsolutions/paddown/pkg/xor"
)

const (
	DefaultBlockSize = 16
	MaxBlockSize     = 255
)

// Progress is reported to an Observer after every recovered byte.
type Progress struct {
	// Block is the index of the ciphertext block being recovered.
	Block int
	// Blocks is the number of blocks in the input.
	Blocks int
	// Recovered is the number of bytes of the block that are known.
	Recovered int
	// Intermediate is a copy of the block's intermediate state so far, unknown bytes are zero.
	Intermediate []byte
	// Queries is the number of oracle queries issued by this call so far.
	Queries uint64
}

// Done reports whether the block has been fully recovered.
func (p Progress) Done() bool {
	return p.Recovered == len(p.Intermediate)
}

// Observer receives Progress updates. It's called synchronously from the attack.
type Observer = func(Progress)

// Engine runs padding oracle attacks against a single Oracle.
// An Engine may be reused, but each call owns its own buffers.
type Engine struct {
	oracle    Oracle
	blockSize int
	workers   int
	timeout   time.Duration
	observer  Observer
}

type EngineOpt = func(*Engine) error

// SetBlockSize sets the cipher block size. It must match the target cipher, and defaults to DefaultBlockSize.
func SetBlockSize(size int) EngineOpt {
	return func(e *Engine) error {
		if size < 1 || size > MaxBlockSize {
			return fmt.Errorf("%w: block size must be between 1 and %d, got %d", ErrConfiguration, MaxBlockSize, size)
		}
		e.blockSize = size
		return nil
	}
}

// SetWorkers sets how many oracle queries may be in flight at once while searching for a byte.
// The default of 1 queries strictly in sequence.
func SetWorkers(workers int) EngineOpt {
	return func(e *Engine) error {
		if workers < 1 {
			return fmt.Errorf("%w: workers must be at least 1, got %d", ErrConfiguration, workers)
		}
		e.workers = workers
		return nil
	}
}

// SetOracleTimeout bounds every oracle call. Zero disables the timeout.
func SetOracleTimeout(timeout time.Duration) EngineOpt {
	return func(e *Engine) error {
		if timeout < 0 {
			return fmt.Errorf("%w: negative oracle timeout", ErrConfiguration)
		}
		e.timeout = timeout
		return nil
	}
}

func SetObserver(observer Observer) EngineOpt {
	return func(e *Engine) error {
		e.observer = observer
		return nil
	}
}

// NewEngine creates an Engine that queries oracle, configured by zero or more EngineOpt.
func NewEngine(oracle Oracle, opts ...EngineOpt) (*Engine, error) {
	if oracle == nil {
		return nil, fmt.Errorf("%w: nil oracle", ErrConfiguration)
	}
	e := &Engine{
		oracle:    oracle,
		blockSize: DefaultBlockSize,
		workers:   1,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Engine) BlockSize() int {
	return e.blockSize
}

// Decrypt recovers the plaintext of ciphertext, which must be IV || C[1] || ... || C[n-1].
// The result is len(ciphertext) - BlockSize bytes long, and still carries the original padding.
func (e *Engine) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	if err := e.checkLength(ciphertext); err != nil {
		return nil, err
	}
	if len(ciphertext) < 2*e.blockSize {
		return nil, fmt.Errorf("%w: need an IV block and at least one ciphertext block, got %d bytes", ErrMalformedInput, len(ciphertext))
	}
	r := e.newRun(len(ciphertext) / e.blockSize)
	// The IV block's intermediate state never contributes to plaintext, so it's left zeroed.
	intermediate, err := r.intermediate(ctx, ciphertext, 1)
	if err != nil {
		return nil, err
	}
	return e.assemble(ciphertext, intermediate)
}

// Intermediate recovers the intermediate state of every block of ciphertext, including the first.
// The result is exactly len(ciphertext) bytes, in the original block order.
func (e *Engine) Intermediate(ctx context.Context, ciphertext []byte) ([]byte, error) {
	if err := e.checkLength(ciphertext); err != nil {
		return nil, err
	}
	return e.newRun(len(ciphertext)/e.blockSize).intermediate(ctx, ciphertext, 0)
}

// DecryptBlock recovers the intermediate state of one ciphertext block.
func (e *Engine) DecryptBlock(ctx context.Context, block []byte) ([]byte, error) {
	return e.newRun(1).decryptBlock(ctx, block, 0)
}

// DecryptAtIndex searches for the byte at probe[index] that makes the oracle accept probe.
// The probe is left holding the returned byte.
func (e *Engine) DecryptAtIndex(ctx context.Context, probe []byte, index int) (byte, error) {
	return e.newRun(1).decryptAtIndex(ctx, probe, index)
}

func (e *Engine) checkLength(ciphertext []byte) error {
	if len(ciphertext) == 0 || len(ciphertext)%e.blockSize != 0 {
		return fmt.Errorf("%w: length %d is not a positive multiple of block size %d", ErrMalformedInput, len(ciphertext), e.blockSize)
	}
	return nil
}

// assemble folds intermediate state against the preceding ciphertext block.
func (e *Engine) assemble(ciphertext, intermediate []byte) ([]byte, error) {
	bs := e.blockSize
	if len(intermediate) != len(ciphertext) {
		return nil, fmt.Errorf("%w: intermediate state is %d bytes, expected %d", ErrMalformedInput, len(intermediate), len(ciphertext))
	}
	var buf bytes.Buffer
	w, err := xor.NewWriter(&buf, ciphertext[:len(ciphertext)-bs])
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(intermediate[bs:]); err != nil {
		return nil, err
	}
	if buf.Len() != len(ciphertext)-bs {
		return nil, fmt.Errorf("%w: recovered %d plaintext bytes, expected %d", ErrMalformedInput, buf.Len(), len(ciphertext)-bs)
	}
	return buf.Bytes(), nil
}

// run holds the state of a single public call.
type run struct {
	*Engine
	blocks  int
	queries atomic.Uint64
}

func (e *Engine) newRun(blocks int) *run {
	return &run{Engine: e, blocks: blocks}
}

func (r *run) query(ctx context.Context, candidate []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	r.queries.Add(1)
	valid, err := r.oracle.HasValidPadding(callCtx, candidate)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
	}
	return valid, nil
}

func (r *run) notify(block, recovered int, intermediate []byte) {
	if r.observer == nil {
		return
	}
	r.observer(Progress{
		Block:        block,
		Blocks:       r.blocks,
		Recovered:    recovered,
		Intermediate: bytes.Clone(intermediate),
		Queries:      r.queries.Load(),
	})
}

// intermediate recovers blocks from the last down to first, leaving earlier blocks zeroed.
func (r *run) intermediate(ctx context.Context, ciphertext []byte, first int) ([]byte, error) {
	bs := r.blockSize
	n := len(ciphertext) / bs
	out := make([]byte, len(ciphertext))
	for i := n - 1; i >= first; i-- {
		inter, err := r.decryptBlock(ctx, ciphertext[i*bs:(i+1)*bs], i)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		copy(out[i*bs:], inter)
	}
	return out, nil
}
