package stages

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gnderrors "github.com/miku/gndzero/errors"
	"github.com/miku/gndzero/operations"
)

var testDate = time.Date(2013, 5, 10, 0, 0, 0, 0, time.UTC)

func TestDumpRun(t *testing.T) {
	if operations.Which("wget") == "" {
		t.Skip("wget not available")
	}

	cfg := testConfig(t)
	executor := &mockExecutor{payload: "compressed bytes"}
	dump := NewDump(cfg, executor, nil, testDate)

	require.False(t, dump.IsComplete())
	require.NoError(t, dump.Run(context.Background()))

	assert.True(t, dump.IsComplete())
	content, err := os.ReadFile(dump.Output())
	require.NoError(t, err)
	assert.Equal(t, "compressed bytes", string(content))

	// The tool was invoked with URL and output path as separate arguments
	require.Len(t, executor.calls, 1)
	call := executor.calls[0]
	assert.Equal(t, "wget", call[0])
	assert.Equal(t, cfg.DumpURL, call[1])
	assert.Equal(t, "-O", call[2])
}

func TestDumpFailureLeavesNoArtifact(t *testing.T) {
	if operations.Which("wget") == "" {
		t.Skip("wget not available")
	}

	cfg := testConfig(t)
	executor := &mockExecutor{err: errors.New("exit status 4")}
	dump := NewDump(cfg, executor, nil, testDate)

	err := dump.Run(context.Background())
	require.Error(t, err)
	assert.True(t, gnderrors.IsExternalTool(err))

	assert.False(t, dump.IsComplete())
	_, statErr := os.Stat(dump.Output())
	assert.True(t, os.IsNotExist(statErr))
}

func TestDumpOutputLayout(t *testing.T) {
	cfg := testConfig(t)
	dump := NewDump(cfg, &mockExecutor{}, nil, testDate)

	assert.Equal(t, "gnd-dump", dump.Name())
	assert.Contains(t, dump.Output(), "gndzero/gnd-dump/date-2013-05-10.rdf.gz")
}

func TestExecutableStage(t *testing.T) {
	missing := NewExecutable("gndzero-no-such-tool")
	assert.False(t, missing.IsComplete())

	err := missing.Run(context.Background())
	require.Error(t, err)
	assert.True(t, gnderrors.IsMissingExecutable(err))

	// Something from PATH that certainly exists
	shell := NewExecutable("sh")
	assert.True(t, shell.IsComplete())
	assert.NoError(t, shell.Run(context.Background()))
}
