// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/retroenv/retrolod/internal/config"
	"github.com/retroenv/retrolod/internal/lod"
	"github.com/retroenv/retrolod/internal/memory"
	"github.com/retroenv/retrolod/internal/options"
)

// ParseFlags parses command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if opts.Batch == "" && opts.Input == "" {
		opts.Input = args[0]
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrolod [options] <file to load>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && len(arg) > 1 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to load, please pass the file to load as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Format = strings.ToLower(opts.Format)
	if !slices.Contains(options.Formats, opts.Format) {
		return fmt.Errorf("unsupported output format: %s. Valid options: %s",
			opts.Format, strings.Join(options.Formats, ", "))
	}

	if opts.MemorySize < 0 || opts.MemorySize > memory.MaxSize {
		return fmt.Errorf("invalid memory size %d, must be between 1 and %d", opts.MemorySize, memory.MaxSize)
	}

	if opts.EntryPolicy != "" {
		policy, err := lod.ParseEntryPolicy(opts.EntryPolicy)
		if err != nil {
			return err
		}
		opts.EntryPolicy = policy.String()
	}

	if opts.Disasm < 0 {
		return fmt.Errorf("invalid instruction count %d for listing", opts.Disasm)
	}

	if opts.Verify {
		if opts.Format == options.FormatNone {
			return fmt.Errorf("can not verify output format %s", opts.Format)
		}
		// batch mode generates the output file names
		if opts.Output == "" && opts.Batch == "" {
			return errors.New("can not verify console output, pass an output file with -o")
		}
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input .lod file, - reads from standard input")
	flags.StringVar(&opts.Output, "o", "", "name of the output file, printed on console if no name given")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically name the output files, for example *.lod")
	flags.StringVar(&opts.Machines, "machines", "", "HCL file with additional machine profiles")
	flags.StringVar(&opts.Format, "f", options.FormatBinary, "output format (bin/lod/tape/none)")
	flags.StringVar(&opts.Machine, "m", config.DefaultMachine, "machine profile that defines the target memory")
	flags.IntVar(&opts.MemorySize, "size", 0, "memory size in bytes, overrides the machine profile")
	flags.StringVar(&opts.EntryPolicy, "entry", "", "terminator that sets the entry point if multiple exist (last/first), overrides the machine profile")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the written memory image against the decoded blocks")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.Preview, "preview", false, "print a summary of the decoded blocks")
	flags.IntVar(&opts.Disasm, "disasm", 0, "number of instructions to list at the entry point")
	flags.BoolVar(&opts.Debugger, "debugger", false, "print the debugger commands that start the program at its entry point")
}
