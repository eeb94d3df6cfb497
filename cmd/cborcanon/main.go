// cborcanon rewrites a sequence of CBOR data items into their
// deterministic encoding.
//
// Input is read from the file named by the single argument, or from
// stdin when the argument is missing or "-". Every item is decoded and
// encoded again: definite lengths, minimal-width headers and map entries
// sorted by their encoded keys. With --digest the BLAKE3 digest of each
// re-encoded item is printed instead, one per line, which gives equal
// CBOR values equal digests regardless of how they were encoded.
package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/zeebo/blake3"

	"github.com/cborkit/cbor"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	hexInput         bool
	hexOutput        bool
	digest           bool
	nonDeterministic bool
	shortestFloat    bool
	maxDepth         int
	logLevel         string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("cborcanon", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVar(&opts.hexInput, "hex", false, "read the input as hex text (whitespace is ignored)")
	flagSet.BoolVar(&opts.hexOutput, "output-hex", false, "write each item as a line of hex instead of raw bytes")
	flagSet.BoolVar(&opts.digest, "digest", false, "write the BLAKE3-256 digest of each item instead of the item")
	flagSet.BoolVar(&opts.nonDeterministic, "non-deterministic", false, "keep map entries in input order")
	flagSet.BoolVar(&opts.shortestFloat, "shortest-float", false, "write floats in the narrowest lossless width")
	flagSet.IntVar(&opts.maxDepth, "max-depth", cbor.DefaultMaxNestedLevels, "maximum nesting of arrays, maps and tags")
	flagSet.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: cborcanon [flags] [file]\n\nFlags:\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if flagSet.NArg() > 1 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(1))
	}
	name := flagSet.Arg(0)

	data, err := readInput(name, stdin)
	if err != nil {
		return err
	}
	if opts.hexInput {
		data, err = hex.DecodeString(strings.Join(strings.Fields(string(data)), ""))
		if err != nil {
			return fmt.Errorf("decoding hex input: %w", err)
		}
	}
	logger.Debug("read input", "file", name, "bytes", len(data))

	return canonicalize(data, opts, stdout, logger)
}

func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

func canonicalize(data []byte, opts options, w io.Writer, logger *slog.Logger) error {
	dec := cbor.DecOptions{MaxNestedLevels: opts.maxDepth}.NewDecoder(data)
	encOpts := cbor.EncOptions{
		NonDeterministic: opts.nonDeterministic,
		ShortestFloat:    opts.shortestFloat,
		MaxNestedLevels:  opts.maxDepth,
	}
	enc := encOpts.NewEncoder(w)

	var item int
	for ; dec.More(); item++ {
		offset := dec.Offset()
		v, err := dec.Decode()
		if err != nil {
			return fmt.Errorf("item %d at offset %d: %w", item, offset, err)
		}

		if !opts.hexOutput && !opts.digest {
			if err := enc.Encode(v); err != nil {
				return fmt.Errorf("item %d: %w", item, err)
			}
			logger.Debug("rewrote item", "item", item, "offset", offset, "size", dec.Offset()-offset)
			continue
		}

		out, err := encOpts.Marshal(v)
		if err != nil {
			return fmt.Errorf("item %d: %w", item, err)
		}
		logger.Debug("rewrote item", "item", item, "offset", offset, "size", dec.Offset()-offset, "encoded", len(out))
		if opts.digest {
			sum := blake3.Sum256(out)
			out = sum[:]
		}
		if _, err := fmt.Fprintln(w, hex.EncodeToString(out)); err != nil {
			return err
		}
	}

	logger.Info("done", "items", item, "bytes", len(data))
	return nil
}
