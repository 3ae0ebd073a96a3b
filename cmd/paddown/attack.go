package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/saylorsolutions/paddown/cmd/internal"
	"github.com/saylorsolutions/paddown/pkg/cmdoracle"
	"github.com/saylorsolutions/paddown/pkg/harness"
	"github.com/saylorsolutions/paddown/pkg/paddown"
	"github.com/saylorsolutions/paddown/pkg/pkcs7"
	"github.com/saylorsolutions/paddown/pkg/transcript"
)

func runDecrypt(ctx context.Context, cfg config, args, program []string) error {
	arg, err := oneArg(args, "CIPHERTEXT")
	if err != nil {
		return err
	}
	ct, err := decodeHex(arg)
	if err != nil {
		return err
	}
	oracle, err := commandOracle(cfg, program)
	if err != nil {
		return err
	}
	return decrypt(ctx, cfg, oracle, ct)
}

func runEncrypt(ctx context.Context, cfg config, args, program []string) error {
	plaintext, err := oneArg(args, "PLAINTEXT")
	if err != nil {
		return err
	}
	oracle, err := commandOracle(cfg, program)
	if err != nil {
		return err
	}
	forged, err := attack(ctx, cfg, oracle, "Forging", nil, func(ctx context.Context, e *paddown.Engine) ([]byte, error) {
		return e.Encrypt(ctx, []byte(plaintext))
	})
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(forged))
	return nil
}

func runDemo(ctx context.Context, cfg config, args []string) error {
	message, err := oneArg(args, "MESSAGE")
	if err != nil {
		return err
	}
	oracle, err := demoOracle(cfg)
	if err != nil {
		return err
	}
	if cfg.blockSize != oracle.BlockSize() {
		return fmt.Errorf("%w: the demo oracle uses AES with a block size of %d", paddown.ErrConfiguration, oracle.BlockSize())
	}
	ct, err := oracle.Encrypt([]byte(message))
	if err != nil {
		return err
	}
	internal.Echo("Ciphertext: %s", hex.EncodeToString(ct))
	if err := decrypt(ctx, cfg, oracle, ct); err != nil {
		return err
	}
	internal.Echo("Oracle answered %d queries", oracle.Queries())
	return nil
}

func demoOracle(cfg config) (*harness.Oracle, error) {
	if len(cfg.passphrase) == 0 {
		return harness.NewRandom()
	}
	gen, err := harness.NewKeyGenerator()
	if err != nil {
		return nil, err
	}
	salt, err := harness.NewSalt()
	if err != nil {
		return nil, err
	}
	return harness.FromPassphrase(gen, []byte(cfg.passphrase), salt)
}

func commandOracle(cfg config, program []string) (*cmdoracle.Oracle, error) {
	if len(program) == 0 {
		return nil, fmt.Errorf("%w: missing oracle PROGRAM after '--'", paddown.ErrConfiguration)
	}
	var opts []cmdoracle.Opt
	if cfg.stdin {
		opts = append(opts, cmdoracle.UseStdin())
	}
	oracle, err := cmdoracle.New(program[0], program[1:], opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", paddown.ErrConfiguration, err)
	}
	return oracle, nil
}

func decrypt(ctx context.Context, cfg config, oracle paddown.Oracle, ct []byte) error {
	rec := newRecorder(len(ct), cfg.blockSize)
	plain, err := attack(ctx, cfg, oracle, "Decrypting", rec.observe, func(ctx context.Context, e *paddown.Engine) ([]byte, error) {
		return e.Decrypt(ctx, ct)
	})
	if err != nil {
		return err
	}
	if len(cfg.save) > 0 {
		tr := &transcript.Transcript{
			BlockSize:    cfg.blockSize,
			Ciphertext:   ct,
			Intermediate: rec.intermediate,
			Plaintext:    plain,
		}
		if err := tr.WriteFile(cfg.save); err != nil {
			return err
		}
		internal.Echo("Transcript written to %s", cfg.save)
	}
	if cfg.unpad {
		plain, err = pkcs7.Unpad(plain, cfg.blockSize)
		if err != nil {
			return fmt.Errorf("recovered plaintext: %w", err)
		}
	}
	if cfg.hexOut {
		fmt.Println(hex.EncodeToString(plain))
		return nil
	}
	_, err = os.Stdout.Write(append(plain, '\n'))
	return err
}

type attackFunc = func(ctx context.Context, e *paddown.Engine) ([]byte, error)

// attack runs fn with an Engine built from cfg, reporting progress on stderr or in the terminal UI.
func attack(ctx context.Context, cfg config, oracle paddown.Oracle, title string, extra paddown.Observer, fn attackFunc) ([]byte, error) {
	var (
		view    *progressView
		observe = echoProgress
	)
	if cfg.tui {
		view = newProgressView(title)
		observe = view.observe
	}
	e, err := paddown.NewEngine(oracle,
		paddown.SetBlockSize(cfg.blockSize),
		paddown.SetWorkers(cfg.workers),
		paddown.SetOracleTimeout(cfg.timeout),
		paddown.SetObserver(func(p paddown.Progress) {
			if extra != nil {
				extra(p)
			}
			observe(p)
		}),
	)
	if err != nil {
		return nil, err
	}
	if view == nil {
		internal.Echo("%s with block size %d", title, cfg.blockSize)
		return fn(ctx, e)
	}
	var result []byte
	err = view.run(ctx, func(ctx context.Context) error {
		var err error
		result, err = fn(ctx, e)
		return err
	})
	return result, err
}

func echoProgress(p paddown.Progress) {
	if !p.Done() {
		return
	}
	internal.Echo("Block %d of %d: %s (%d queries)", p.Block+1, p.Blocks, hex.EncodeToString(p.Intermediate), p.Queries)
}

// recorder collects the intermediate state of finished blocks for transcripts.
type recorder struct {
	blockSize    int
	intermediate []byte
}

func newRecorder(length, blockSize int) *recorder {
	return &recorder{blockSize: blockSize, intermediate: make([]byte, length)}
}

func (r *recorder) observe(p paddown.Progress) {
	if !p.Done() {
		return
	}
	start := p.Block * r.blockSize
	if start < 0 || start+len(p.Intermediate) > len(r.intermediate) {
		return
	}
	copy(r.intermediate[start:], p.Intermediate)
}
