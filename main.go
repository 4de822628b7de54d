// Package main implements the main entry point for a loader of .LOD program dumps
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/retrolod/internal/cli"
	"github.com/retroenv/retrolod/internal/config"
	"github.com/retroenv/retrolod/internal/fileprocessor"
	"github.com/retroenv/retrolod/internal/options"
	"github.com/retroenv/retrolod/internal/pipeline"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Flags)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Flags)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	machines, err := config.LoadMachines(opts.Machines)
	if err != nil {
		logger.Fatal(err.Error())
	}
	p := pipeline.New(logger, machines)

	files, err := fileprocessor.GetFilesToProcess(&opts)
	if err != nil {
		logger.Fatal(err.Error())
	}

	failed := false
	for _, file := range files {
		opts.Input = file
		if opts.Batch != "" && opts.Format != options.FormatNone {
			opts.Output = fileprocessor.GenerateOutputFilename(file, opts.Format)
		}

		if err := fileprocessor.ProcessFile(ctx, logger, p, opts); err != nil {
			// Handle context cancellation (Ctrl+C) gracefully
			if errors.Is(err, context.Canceled) {
				logger.Info("Operation cancelled")
				return
			}
			logger.Error("Loading failed", log.String("file", file), log.Err(err))
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}
