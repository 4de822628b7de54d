// Package pipeline orchestrates the loading workflow stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/retroenv/retrolod/internal/config"
	"github.com/retroenv/retrolod/internal/disasm"
	"github.com/retroenv/retrolod/internal/loader"
	"github.com/retroenv/retrolod/internal/lod"
	"github.com/retroenv/retrolod/internal/memory"
	"github.com/retroenv/retrolod/internal/monitor"
	"github.com/retroenv/retrolod/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// ErrNoBlocks is returned when the source text does not contain any loadable block.
var ErrNoBlocks = errors.New("no valid LOD blocks found")

// Result contains the outcome of a pipeline run.
type Result struct {
	Machine config.Machine
	Program *lod.Program
	Memory  *memory.RAM
	Load    loader.Result
}

// Pipeline orchestrates the complete loading workflow.
type Pipeline struct {
	logger   *log.Logger
	loader   *loader.Loader
	machines config.Machines
}

// New creates a new loading pipeline for the given machine profiles.
func New(logger *log.Logger, machines config.Machines) *Pipeline {
	return &Pipeline{
		logger:   logger,
		loader:   loader.New(),
		machines: machines,
	}
}

// Execute reads the input file and runs the complete loading pipeline.
// The selected output format is written to output, diagnostic reports
// requested by the options are written to report.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, output, report io.Writer) (*Result, error) {
	text, err := p.loader.ReadSource(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return p.ExecuteWithSource(ctx, text, opts, output, report)
}

// ExecuteWithSource runs the loading pipeline with an already read source text.
func (p *Pipeline) ExecuteWithSource(ctx context.Context, text string, opts options.Program,
	output, report io.Writer) (*Result, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	machine, policy, err := p.resolveMachine(opts)
	if err != nil {
		return nil, err
	}

	prog := lod.Decode(text, lod.WithEntryPolicy(policy))
	p.logger.Debug("Decoded source",
		log.String("file", opts.Input),
		log.Int("blocks", len(prog.Blocks)),
		log.Int("bytes", prog.Size()))

	if opts.Preview {
		if err := lod.WritePreview(report, prog); err != nil {
			return nil, fmt.Errorf("writing preview: %w", err)
		}
	}
	if len(prog.Blocks) == 0 {
		return nil, ErrNoBlocks
	}

	ram, err := memory.NewRAM(machine.MemorySize)
	if err != nil {
		return nil, fmt.Errorf("creating memory: %w", err)
	}

	loadResult, err := loader.Apply(prog, ram)
	if err != nil {
		return nil, fmt.Errorf("loading program, %d blocks and %d bytes written: %w",
			loadResult.Blocks, loadResult.Bytes, err)
	}

	result := &Result{
		Machine: machine,
		Program: prog,
		Memory:  ram,
		Load:    loadResult,
	}
	p.printInfo(opts, result)

	if err := p.writeOutput(opts.Format, result, output); err != nil {
		return nil, err
	}
	if err := p.writeReports(opts, result, report); err != nil {
		return nil, err
	}
	return result, nil
}

// resolveMachine returns the machine profile with the command line
// overrides applied, and the entry policy to decode with.
func (p *Pipeline) resolveMachine(opts options.Program) (config.Machine, lod.EntryPolicy, error) {
	machine, err := p.machines.Get(opts.Machine)
	if err != nil {
		return config.Machine{}, lod.EntryLast, fmt.Errorf("selecting machine: %w", err)
	}

	if opts.MemorySize != 0 {
		machine.MemorySize = opts.MemorySize
	}
	if opts.EntryPolicy != "" {
		machine.EntryPolicy = opts.EntryPolicy
	}

	policy, err := machine.Policy()
	if err != nil {
		return config.Machine{}, lod.EntryLast, fmt.Errorf("selecting entry policy: %w", err)
	}
	return machine, policy, nil
}

func (p *Pipeline) writeOutput(format string, result *Result, output io.Writer) error {
	var err error

	switch format {
	case options.FormatBinary:
		_, err = output.Write(result.Memory.Bytes())
	case options.FormatLOD:
		err = lod.Encode(output, result.Program, lod.EncodeOptions{})
	case options.FormatTape:
		err = lod.Encode(output, result.Program, lod.EncodeOptions{LineEnding: "\r"})
	case options.FormatNone:
	default:
		return fmt.Errorf("unsupported output format '%s'", format)
	}

	if err != nil {
		return fmt.Errorf("writing %s output: %w", format, err)
	}
	return nil
}

func (p *Pipeline) writeReports(opts options.Program, result *Result, report io.Writer) error {
	if opts.Disasm == 0 && !opts.Debugger {
		return nil
	}

	entry, ok := p.runnableEntry(result)
	if !ok {
		p.logger.Warn("Skipping entry point reports, no usable entry point")
		return nil
	}

	if opts.Disasm > 0 {
		lines, err := disasm.List(result.Memory, entry, opts.Disasm)
		if err != nil {
			return fmt.Errorf("listing entry point: %w", err)
		}
		if err := disasm.Write(report, lines); err != nil {
			return err
		}
	}

	if opts.Debugger {
		if err := monitor.WriteScript(report, entry); err != nil {
			return err
		}
	}
	return nil
}

// runnableEntry returns the entry point if one was found inside the memory.
func (p *Pipeline) runnableEntry(result *Result) (uint16, bool) {
	if !result.Load.HasEntry || int64(result.Load.Entry) >= int64(result.Memory.Size()) {
		return 0, false
	}
	return uint16(result.Load.Entry), true
}

// printInfo prints information about the loaded program.
func (p *Pipeline) printInfo(opts options.Program, result *Result) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Program loaded",
		log.String("file", opts.Input),
		log.String("machine", result.Machine.Name),
		log.Int("blocks", result.Load.Blocks),
		log.Int("bytes", result.Load.Bytes),
	)

	if !result.Load.HasEntry {
		p.logger.Info("Load complete, no auto-run execution address found")
		return
	}

	p.logger.Info("Execution address found", log.Hex("address", result.Load.Entry))
	if _, ok := p.runnableEntry(result); !ok {
		p.logger.Warn("Execution address is outside of the machine memory",
			log.Hex("address", result.Load.Entry),
			log.Hex("memory_size", result.Memory.Size()))
	}
}
