package stages

import (
	"context"
	"time"

	"github.com/miku/gndzero/config"
	"github.com/miku/gndzero/errors"
	"github.com/miku/gndzero/operations"
	"github.com/miku/gndzero/pipeline"
)

// Extract decompresses the fetched archive into the raw record stream.
type Extract struct {
	pipeline.Base
	dump     *Dump
	executor operations.CommandExecutor
	logger   pipeline.Logger
}

// NewExtract creates the decompression stage for one run date. It depends
// on the dump of the same date.
func NewExtract(cfg *config.Config, executor operations.CommandExecutor, logger pipeline.Logger, date time.Time) *Extract {
	if logger == nil {
		logger = pipeline.NewDefaultLogger()
	}
	return &Extract{
		Base: pipeline.Base{
			Config: cfg,
			Kind:   "GNDExtract",
			Ext:    "rdf",
			Params: []pipeline.Parameter{
				{Name: "date", Value: date.Format(dateFormat)},
			},
		},
		dump:     NewDump(cfg, executor, logger, date),
		executor: executor,
		logger:   logger,
	}
}

// Requires implements Stage.Requires
func (e *Extract) Requires() []pipeline.Stage {
	return []pipeline.Stage{NewExecutable("gunzip"), e.dump}
}

// Run implements Stage.Run
func (e *Extract) Run(ctx context.Context) error {
	if err := operations.RequireExecutable("gunzip"); err != nil {
		return err
	}

	scratch := e.ScratchPath()
	e.logger.Info("Decompressing %s", e.dump.Output())

	// gunzip -c writes the expanded stream to stdout, the executor points
	// stdout at the scratch file.
	if stderr, err := e.executor.ExecuteToFile(ctx, scratch, "gunzip", "-c", e.dump.Output()); err != nil {
		cmdErr := operations.NewCommandError("gunzip", []string{"-c", e.dump.Output()}, string(stderr), err)
		return errors.Wrap(cmdErr, errors.ErrExternalTool, "could not extract GND dump")
	}

	return e.Promote(scratch)
}
