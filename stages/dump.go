package stages

import (
	"context"
	"time"

	"github.com/miku/gndzero/config"
	"github.com/miku/gndzero/errors"
	"github.com/miku/gndzero/operations"
	"github.com/miku/gndzero/pipeline"
)

// dateFormat renders the run date parameter.
const dateFormat = "2006-01-02"

// Dump downloads the compressed GND dump to its canonical location. There
// is no retry and no resume; a failed download leaves only scratch behind.
type Dump struct {
	pipeline.Base
	executor operations.CommandExecutor
	logger   pipeline.Logger
}

// NewDump creates the download stage for one run date.
func NewDump(cfg *config.Config, executor operations.CommandExecutor, logger pipeline.Logger, date time.Time) *Dump {
	if logger == nil {
		logger = pipeline.NewDefaultLogger()
	}
	return &Dump{
		Base: pipeline.Base{
			Config: cfg,
			Kind:   "GNDDump",
			Ext:    "rdf.gz",
			Params: []pipeline.Parameter{
				{Name: "date", Value: date.Format(dateFormat)},
			},
		},
		executor: executor,
		logger:   logger,
	}
}

// Requires implements Stage.Requires
func (d *Dump) Requires() []pipeline.Stage {
	return []pipeline.Stage{NewExecutable("wget")}
}

// Run implements Stage.Run
func (d *Dump) Run(ctx context.Context) error {
	// Fail before any network activity when the tool is absent.
	if err := operations.RequireExecutable("wget"); err != nil {
		return err
	}

	scratch := d.ScratchPath()
	d.logger.Info("Fetching %s", d.Config.DumpURL)

	if _, err := operations.ExecuteCommand(d.executor, ctx, "wget", d.Config.DumpURL, "-O", scratch); err != nil {
		return errors.Wrap(err, errors.ErrExternalTool, "could not download GND dump")
	}

	return d.Promote(scratch)
}
