// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrolod/internal/options"
	"github.com/retroenv/retrolod/internal/pipeline"
	"github.com/retroenv/retrolod/internal/verification"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

var errBinaryToTerminal = errors.New("refusing to write a binary memory image to a terminal, use -o or redirect the output")

// outputExtensions maps output formats to the file extension of generated output names.
var outputExtensions = map[string]string{
	options.FormatBinary: ".bin",
	options.FormatLOD:    ".lod",
	options.FormatTape:   ".65v",
}

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, p *pipeline.Pipeline, opts options.Program) error {
	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}

	report := io.Writer(os.Stdout)
	if writer == os.Stdout {
		report = os.Stderr
	}

	result, err := p.Execute(ctx, opts, writer, report)
	if file, ok := writer.(*os.File); ok && file != os.Stdout {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", closeErr)
		}
		if err != nil {
			// do not leave an empty or partial output file behind
			if removeErr := os.Remove(file.Name()); removeErr != nil {
				logger.Warn("Removing incomplete output file failed",
					log.String("file", file.Name()), log.Err(removeErr))
			}
		}
	}
	if err != nil {
		return fmt.Errorf("loading: %w", err)
	}

	if opts.Verify {
		if err := verification.VerifyOutput(logger, opts, result.Program); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		logger.Info("Verification successful")
	}

	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename generates the output filename for a given input
// file and output format. Text formats never overwrite their input file.
func GenerateOutputFilename(inputFile, format string) string {
	ext := filepath.Ext(inputFile)
	base := inputFile[:len(inputFile)-len(ext)]

	outExt := outputExtensions[format]
	if strings.EqualFold(ext, outExt) {
		return base + ".out" + outExt
	}
	return base + outExt
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Format == options.FormatNone {
		return io.Discard, nil
	}

	if opts.Output == "" {
		if opts.Format == options.FormatBinary && term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, errBinaryToTerminal
		}
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("retrolod", log.String("version", buildinfo.Version(version, commit, date)))
}
