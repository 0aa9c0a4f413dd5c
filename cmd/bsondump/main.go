// Command bsondump renders a .bson file — a stream of concatenated BSON
// documents, the format mongodump writes — as JSON or as a structural
// debug trace.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	flags "github.com/jessevdk/go-flags"
)

func main() {
	opts, err := ParseOptions(os.Args[1:])
	if err != nil {
		if _, ok := err.(*flags.Error); ok && err.(*flags.Error).Type == flags.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts *Options) error {
	in := io.Reader(os.Stdin)
	if opts.BSONFileName != "" {
		f, err := os.Open(opts.BSONFileName)
		if err != nil {
			return fmt.Errorf("couldn't open BSON file: %w", err)
		}
		defer f.Close()
		in = f
	}

	out := io.Writer(os.Stdout)
	if opts.OutFileName != "" {
		f, err := os.Create(opts.OutFileName)
		if err != nil {
			return fmt.Errorf("couldn't open output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch opts.Type {
	case "debug":
		return Debug(in, out)
	default:
		return Dump(in, out, opts.Pretty)
	}
}
