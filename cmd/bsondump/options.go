package main

import (
	"fmt"

	flags "github.com/jessevdk/go-flags"
)

// Usage is printed ahead of the flag listing on -h/--help.
const Usage = `<options> <file>

View and debug .bson files.`

// Options holds bsondump's parsed command line flags.
type Options struct {
	// Type selects the output format: "json" prints one extended-JSON-ish
	// line per top level document, "debug" prints a recursive structural
	// dump of every element, including nested documents and arrays.
	Type string `long:"type" value-name:"<type>" default:"json" description:"type of output: debug, json (default 'json')"`

	// Pretty indents JSON output for readability.
	Pretty bool `long:"pretty" description:"output JSON formatted to be human-readable"`

	// BSONFileName is the input file; stdin is read if empty.
	BSONFileName string `long:"bsonFile" description:"path to BSON file to dump; default is stdin"`

	// OutFileName is the output file; stdout is used if empty.
	OutFileName string `long:"outFile" description:"path to output file; default is stdout"`

	Positional struct {
		File string `positional-arg-name:"file"`
	} `positional-args:"yes"`
}

// ParseOptions parses rawArgs into an Options, applying the same
// positional-argument-or-flag reconciliation and output type validation the
// tool it's modeled on applies.
func ParseOptions(rawArgs []string) (*Options, error) {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.Default)
	parser.Usage = Usage

	if _, err := parser.ParseArgs(rawArgs); err != nil {
		return nil, err
	}

	if opts.Positional.File != "" {
		if opts.BSONFileName != "" {
			return nil, fmt.Errorf("cannot specify both a positional argument and --bsonFile")
		}
		opts.BSONFileName = opts.Positional.File
	}

	if opts.Type != "debug" && opts.Type != "json" {
		return nil, fmt.Errorf("unsupported output type %q: must be either 'debug' or 'json'", opts.Type)
	}

	return opts, nil
}
