package stages

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/miku/gndzero/config"
	"github.com/miku/gndzero/errors"
	"github.com/miku/gndzero/gnd"
	"github.com/miku/gndzero/operations"
	"github.com/miku/gndzero/pipeline"
	"github.com/miku/gndzero/store"
)

// progressInterval is the number of processed runs between progress lines.
const progressInterval = 10000

// Load turns the raw record stream into the id to content store. All rows
// of one run belong to a single transaction, committed once when the store
// is closed; only then is the store file promoted.
type Load struct {
	pipeline.Base
	extract *Extract
	logger  pipeline.Logger
}

// NewLoad creates the store-building stage for one run date.
func NewLoad(cfg *config.Config, executor operations.CommandExecutor, logger pipeline.Logger, date time.Time) *Load {
	if logger == nil {
		logger = pipeline.NewDefaultLogger()
	}
	return &Load{
		Base: pipeline.Base{
			Config: cfg,
			Kind:   "RecordDB",
			Ext:    "db",
			Params: []pipeline.Parameter{
				{Name: "date", Value: date.Format(dateFormat)},
			},
		},
		extract: NewExtract(cfg, executor, logger, date),
		logger:  logger,
	}
}

// Requires implements Stage.Requires
func (l *Load) Requires() []pipeline.Stage {
	return []pipeline.Stage{l.extract}
}

// Run implements Stage.Run
func (l *Load) Run(ctx context.Context) error {
	input, err := os.Open(l.extract.Output())
	if err != nil {
		return errors.Wrap(err, errors.ErrStorage, "failed to open record stream")
	}
	defer input.Close()

	scratch := l.ScratchPath()
	st, err := store.Create(scratch)
	if err != nil {
		return err
	}

	if err := l.load(input, st); err != nil {
		st.Abort()
		return err
	}

	if err := st.Close(); err != nil {
		return err
	}

	return l.Promote(scratch)
}

// load runs the single-pass extraction: segment the stream into groups,
// keep the ones carrying an identifier, insert each as a new row. Groups
// without an identifier are dropped silently.
func (l *Load) load(r io.Reader, st *store.RecordStore) error {
	groups := gnd.NewGroupScanner(r)
	mark := 0
	for groups.Scan() {
		if rec, ok := gnd.Parse(groups.Group()); ok {
			if err := st.Insert(rec.ID, rec.Content); err != nil {
				return err
			}
		}
		if m := groups.Runs() / progressInterval; m > mark {
			mark = m
			l.logger.Info("Inserted %d rows", st.Len())
		}
	}
	if err := groups.Err(); err != nil {
		return errors.Wrap(err, errors.ErrStorage, "failed to read record stream")
	}
	l.logger.Info("Inserted %d rows total", st.Len())
	return nil
}
