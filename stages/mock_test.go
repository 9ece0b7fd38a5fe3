package stages

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/miku/gndzero/config"
)

// mockExecutor implements operations.CommandExecutor for stage tests. It
// records calls and simulates tools that write their output file.
type mockExecutor struct {
	calls   [][]string
	payload string
	err     error
}

func (m *mockExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.err != nil {
		return []byte("tool failed"), m.err
	}
	// wget writes to the path following -O
	for i, arg := range args {
		if arg == "-O" && i+1 < len(args) {
			if err := os.WriteFile(args[i+1], []byte(m.payload), 0644); err != nil {
				return nil, err
			}
		}
	}
	return nil, nil
}

func (m *mockExecutor) ExecuteToFile(ctx context.Context, outPath string, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.err != nil {
		return []byte("tool failed"), m.err
	}
	return nil, os.WriteFile(outPath, []byte(m.payload), 0644)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	tmp := filepath.Join(dir, "tmp")
	if err := os.MkdirAll(tmp, 0755); err != nil {
		t.Fatal(err)
	}
	return &config.Config{
		BaseDir: filepath.Join(dir, "data"),
		TempDir: tmp,
		Tag:     "gndzero",
		DumpURL: "http://example.com/dump.rdf.gz",
	}
}
