package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/saylorsolutions/paddown/cmd/internal"
	"github.com/saylorsolutions/paddown/pkg/paddown"
	flag "github.com/spf13/pflag"
)

var (
	version = "dev"
)

type config struct {
	blockSize  int
	workers    int
	timeout    time.Duration
	unpad      bool
	hexOut     bool
	tui        bool
	stdin      bool
	save       string
	passphrase string
}

func main() {
	var (
		helpFlag bool
		cfg      config
	)
	flags := flag.NewFlagSet("paddown", flag.ContinueOnError)
	flags.BoolVarP(&helpFlag, "help", "h", false, "Prints this usage information.")
	flags.IntVarP(&cfg.blockSize, "block-size", "b", paddown.DefaultBlockSize, "Block size of the target cipher in bytes.")
	flags.IntVarP(&cfg.workers, "workers", "w", 1, "Number of oracle queries that may run at once. The result is the same for any value.")
	flags.DurationVarP(&cfg.timeout, "timeout", "t", 0, "Maximum time for a single oracle query, 0 means no limit.")
	flags.BoolVarP(&cfg.unpad, "unpad", "u", false, "Remove PKCS#7 padding from recovered plaintext.")
	flags.BoolVarP(&cfg.hexOut, "hex", "x", false, "Print recovered plaintext as hex.")
	flags.BoolVar(&cfg.tui, "tui", false, "Show attack progress in a terminal UI.")
	flags.BoolVar(&cfg.stdin, "stdin", false, "Pass candidates to the oracle PROGRAM on stdin instead of as the last argument.")
	flags.StringVarP(&cfg.save, "save", "s", "", "Write a transcript of the attack to this file.")
	flags.StringVarP(&cfg.passphrase, "passphrase", "p", "", "Derive the demo oracle's key from this passphrase instead of generating one.")
	flags.Usage = func() {
		fmt.Printf(`
paddown recovers CBC encrypted plaintext using only a padding oracle: something that reveals whether a ciphertext decrypts to correctly padded data.
The oracle is an external PROGRAM, run once per query with the candidate ciphertext hex encoded as its last argument (or on stdin with --stdin).
It must exit with 0 when the padding is valid, 1 when it's not, and any other status to abort the attack.

USAGE:
    paddown decrypt [FLAGS] CIPHERTEXT -- PROGRAM [ARGS...]
    paddown encrypt [FLAGS] PLAINTEXT -- PROGRAM [ARGS...]
    paddown demo [FLAGS] MESSAGE
    paddown version

COMMANDS:
    decrypt recovers the plaintext of CIPHERTEXT, given in hex as IV || ciphertext.
    encrypt forges hex IV || ciphertext that the oracle's owner will decrypt to PLAINTEXT.
    demo encrypts MESSAGE under a local AES-CBC oracle and recovers it again.

FLAGS:
%s
EXIT STATUS:
    0 on success, 2 for invalid input or flags, 3 when the oracle misbehaves, 1 otherwise.
`, flags.FlagUsages())
	}
	if len(os.Args) < 2 {
		flags.Usage()
		return
	}
	command := os.Args[1]
	if err := flags.Parse(os.Args[2:]); err != nil {
		flags.Usage()
		internal.Fatal("Error parsing flags: %v", err)
	}
	if helpFlag || command == "help" || command == "-h" || command == "--help" {
		flags.Usage()
		return
	}

	args, program := splitProgram(flags)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch command {
	case "decrypt":
		err = runDecrypt(ctx, cfg, args, program)
	case "encrypt":
		err = runEncrypt(ctx, cfg, args, program)
	case "demo":
		err = runDemo(ctx, cfg, args)
	case "version":
		fmt.Println(version)
	default:
		flags.Usage()
		internal.Fatal("Unknown command '%s'", command)
	}
	if err != nil {
		stop()
		internal.FatalErr(err)
	}
}

// splitProgram separates positional arguments from the oracle command line after "--".
func splitProgram(flags *flag.FlagSet) (args []string, program []string) {
	all := flags.Args()
	dash := flags.ArgsLenAtDash()
	if dash < 0 {
		return all, nil
	}
	return all[:dash], all[dash:]
}

func oneArg(args []string, name string) (string, error) {
	switch len(args) {
	case 0:
		return "", fmt.Errorf("%w: missing required %s argument", paddown.ErrMalformedInput, name)
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: expected one %s argument, got %d", paddown.ErrMalformedInput, name, len(args))
	}
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext must be a hex string with only the characters a-f, A-F, or 0-9: %w", paddown.ErrMalformedInput, err)
	}
	return data, nil
}
