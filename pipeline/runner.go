package pipeline

import (
	"context"
	"fmt"
	"time"
)

// Runner executes stages in dependency order, one at a time. Stages whose
// canonical artifact already exists are skipped without work.
type Runner struct {
	logger Logger
}

// NewRunner creates a runner that reports progress through the given logger.
func NewRunner(logger Logger) *Runner {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Runner{logger: logger}
}

// Run resolves the dependency closure of the given stages and executes the
// incomplete ones in topological order. The first failing stage halts the
// run.
func (r *Runner) Run(ctx context.Context, stages ...Stage) error {
	order, err := topoSort(stages)
	if err != nil {
		return err
	}

	for _, stage := range order {
		if stage.IsComplete() {
			r.logger.Debug("Stage %s already complete, skipping", stage.Name())
			continue
		}

		r.logger.Info("Running stage %s", stage.Name())
		start := time.Now()
		if err := stage.Run(ctx); err != nil {
			return fmt.Errorf("stage %s failed: %w", stage.Name(), err)
		}
		r.logger.Info("Stage %s finished in %s", stage.Name(), time.Since(start).Round(time.Millisecond))
	}

	return nil
}

// topoSort returns the dependency closure of the given stages in an order
// where every stage follows all of its requirements.
func topoSort(stages []Stage) ([]Stage, error) {
	var order []Stage
	done := make(map[Stage]bool)
	visiting := make(map[Stage]bool)

	var visit func(s Stage) error
	visit = func(s Stage) error {
		if done[s] {
			return nil
		}
		if visiting[s] {
			return fmt.Errorf("dependency cycle involving stage %s", s.Name())
		}
		visiting[s] = true
		for _, dep := range s.Requires() {
			if err := visit(dep); err != nil {
				return err
			}
		}
		visiting[s] = false
		done[s] = true
		order = append(order, s)
		return nil
	}

	for _, s := range stages {
		if err := visit(s); err != nil {
			return nil, err
		}
	}
	return order, nil
}
