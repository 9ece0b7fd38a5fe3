package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/miku/gndzero/config"
)

// Stage is one pipeline unit with declared parameters, upstream
// dependencies and a single output artifact. A stage is complete exactly
// when its canonical artifact exists; Run must never write to the canonical
// path directly.
type Stage interface {
	// Name identifies the stage kind for logs and status output
	Name() string

	// Requires returns the upstream stages that must be complete first
	Requires() []Stage

	// IsComplete reports whether the canonical artifact exists
	IsComplete() bool

	// Output returns the canonical artifact path, or an empty string for
	// stages that produce no artifact
	Output() string

	// Run produces the artifact, writing to a scratch path and promoting
	// on success only
	Run(ctx context.Context) error
}

// Base carries the bookkeeping shared by every artifact-producing stage:
// configuration, the CamelCase stage kind, the explicit parameter list and
// the output extension.
type Base struct {
	Config *config.Config
	Kind   string
	Params []Parameter
	Ext    string
}

// Name returns the hyphenated stage kind.
func (b *Base) Name() string {
	return KindSlug(b.Kind)
}

// Fingerprint returns the artifact address for this parameter set.
func (b *Base) Fingerprint() string {
	return Fingerprint(b.Params)
}

// Output returns the canonical artifact path
// {BaseDir}/{Tag}/{kind-slug}/{fingerprint}.{ext}.
func (b *Base) Output() string {
	return filepath.Join(b.Config.BaseDir, b.Config.Tag, KindSlug(b.Kind), b.Fingerprint()+"."+b.Ext)
}

// IsComplete reports whether the canonical artifact exists.
func (b *Base) IsComplete() bool {
	info, err := os.Stat(b.Output())
	return err == nil && !info.IsDir()
}

// ScratchPath returns a fresh randomly named path under TempDir. Nothing is
// created; the path is private to one Run invocation.
func (b *Base) ScratchPath() string {
	return filepath.Join(b.Config.TempDir, "gndzero-"+uuid.NewString())
}

// Promote atomically moves a finished scratch file onto the canonical path.
// The canonical file appears either completely or not at all. A scratch file
// on another filesystem is first copied next to the target, then renamed.
func (b *Base) Promote(scratch string) error {
	target := b.Output()
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	if err := os.Rename(scratch, target); err == nil {
		return nil
	}

	// Rename fails across devices. Stage a copy in the target directory so
	// the final step is still a same-filesystem rename.
	part := target + ".part"
	if err := copyFile(scratch, part); err != nil {
		os.Remove(part)
		return err
	}
	if err := os.Rename(part, target); err != nil {
		os.Remove(part)
		return err
	}
	return os.Remove(scratch)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
