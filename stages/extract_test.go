package stages

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gnderrors "github.com/miku/gndzero/errors"
	"github.com/miku/gndzero/operations"
	"github.com/miku/gndzero/pipeline"
)

func TestExtractRun(t *testing.T) {
	if operations.Which("gunzip") == "" {
		t.Skip("gunzip not available")
	}

	cfg := testConfig(t)
	executor := &mockExecutor{payload: "raw records"}
	extract := NewExtract(cfg, executor, nil, testDate)

	require.NoError(t, extract.Run(context.Background()))

	assert.True(t, extract.IsComplete())
	content, err := os.ReadFile(extract.Output())
	require.NoError(t, err)
	assert.Equal(t, "raw records", string(content))

	// gunzip reads the dump artifact of the same date
	require.Len(t, executor.calls, 1)
	assert.Equal(t, []string{"gunzip", "-c", extract.dump.Output()}, executor.calls[0])
}

func TestExtractFailureLeavesNoArtifact(t *testing.T) {
	if operations.Which("gunzip") == "" {
		t.Skip("gunzip not available")
	}

	cfg := testConfig(t)
	executor := &mockExecutor{err: errors.New("exit status 1")}
	extract := NewExtract(cfg, executor, nil, testDate)

	err := extract.Run(context.Background())
	require.Error(t, err)
	assert.True(t, gnderrors.IsExternalTool(err))
	assert.False(t, extract.IsComplete())
}

func TestPipelineIdempotence(t *testing.T) {
	if operations.Which("wget") == "" || operations.Which("gunzip") == "" {
		t.Skip("external tools not available")
	}

	cfg := testConfig(t)
	executor := &mockExecutor{payload: fixture}
	load := NewLoad(cfg, executor, nil, testDate)

	runner := pipeline.NewRunner(nil)
	require.NoError(t, runner.Run(context.Background(), load))
	require.True(t, load.IsComplete())

	first, err := os.ReadFile(load.Output())
	require.NoError(t, err)
	calls := len(executor.calls)

	// A second run performs no work and leaves the artifact byte-identical
	require.NoError(t, runner.Run(context.Background(), load))
	second, err := os.ReadFile(load.Output())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, executor.calls, calls)
}
