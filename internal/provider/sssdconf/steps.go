package sssdconf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meelinux/sssdcfg/internal/domain/compiler"
	"github.com/meelinux/sssdcfg/internal/ports"
)

// confMode is what sssd itself requires: the file carries credentials
// for domain binds, so it must not be group or world readable.
const confMode os.FileMode = 0o600

// FileStep keeps the rendered sssd.conf content on disk.
type FileStep struct {
	path    string
	content []byte
	deps    []compiler.StepID
	id      compiler.StepID
	fs      ports.FileSystem
}

// NewFileStep creates a new FileStep.
func NewFileStep(path string, content []byte, deps []compiler.StepID, fs ports.FileSystem) *FileStep {
	id := compiler.MustNewStepID("sssdconf:file:" + path)
	return &FileStep{
		path:    path,
		content: content,
		deps:    deps,
		id:      id,
		fs:      fs,
	}
}

// ID returns the step identifier.
func (s *FileStep) ID() compiler.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *FileStep) DependsOn() []compiler.StepID {
	return s.deps
}

// Check compares the file on disk against the rendered content.
func (s *FileStep) Check(_ compiler.RunContext) (compiler.StepStatus, error) {
	if !s.fs.Exists(s.path) {
		return compiler.StatusNeedsApply, nil
	}

	current, err := s.fs.ReadFile(s.path)
	if err != nil {
		return compiler.StatusUnknown, err
	}
	if !bytes.Equal(current, s.content) {
		return compiler.StatusNeedsApply, nil
	}

	info, err := s.fs.GetFileInfo(s.path)
	if err != nil {
		return compiler.StatusUnknown, err
	}
	if info.Mode.Perm() != confMode {
		return compiler.StatusNeedsApply, nil
	}

	return compiler.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *FileStep) Plan(_ compiler.RunContext) (compiler.Diff, error) {
	if s.fs.Exists(s.path) {
		return compiler.NewDiff(compiler.DiffTypeModify, "file", s.path, "", ""), nil
	}
	return compiler.NewDiff(compiler.DiffTypeAdd, "file", s.path, "", fmt.Sprintf("%d bytes", len(s.content))), nil
}

// Apply writes the rendered content. The write goes through a temp
// file in the same directory and a rename, so a crash mid-write never
// leaves a truncated sssd.conf behind.
func (s *FileStep) Apply(_ compiler.RunContext) error {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp := s.path + ".tmp"
	if err := s.fs.WriteFile(tmp, s.content, confMode); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := s.fs.Chown(tmp, 0, 0); err != nil {
		return fmt.Errorf("chown %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	// Rename preserves the temp file's mode, but an earlier run may
	// have left a looser mode in place.
	if err := s.fs.Chmod(s.path, confMode); err != nil {
		return fmt.Errorf("chmod %s: %w", s.path, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *FileStep) Explain() compiler.Explanation {
	return compiler.NewExplanation(
		"Write sssd.conf",
		fmt.Sprintf("Renders the declared SSSD settings to %s with mode 0600.", s.path),
	)
}
