// Package stages wires the concrete pipeline: download the GND dump,
// decompress it and load the records into a store file.
package stages

import (
	"context"

	"github.com/miku/gndzero/operations"
	"github.com/miku/gndzero/pipeline"
)

// Executable is a stage that is complete when an external program is
// resolvable on the search path. It produces no artifact; running it only
// complains explicitly about the missing program.
type Executable struct {
	program string
}

// NewExecutable declares a dependency on an external program.
func NewExecutable(program string) *Executable {
	return &Executable{program: program}
}

// Name implements Stage.Name
func (e *Executable) Name() string {
	return "executable-" + e.program
}

// Requires implements Stage.Requires
func (e *Executable) Requires() []pipeline.Stage {
	return nil
}

// IsComplete implements Stage.IsComplete
func (e *Executable) IsComplete() bool {
	return operations.Which(e.program) != ""
}

// Output implements Stage.Output; there is no artifact
func (e *Executable) Output() string {
	return ""
}

// Run implements Stage.Run
func (e *Executable) Run(ctx context.Context) error {
	return operations.RequireExecutable(e.program)
}
