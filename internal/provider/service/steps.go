package service

import (
	"bytes"
	"fmt"

	"github.com/meelinux/sssdcfg/internal/domain/compiler"
	"github.com/meelinux/sssdcfg/internal/ports"
)

// UnitStep keeps a systemd unit enabled and running.
type UnitStep struct {
	unit   string
	deps   []compiler.StepID
	id     compiler.StepID
	runner ports.CommandRunner
}

// NewUnitStep creates a new UnitStep.
func NewUnitStep(unit string, deps []compiler.StepID, runner ports.CommandRunner) *UnitStep {
	id := compiler.MustNewStepID("service:unit:" + unit)
	return &UnitStep{
		unit:   unit,
		deps:   deps,
		id:     id,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *UnitStep) ID() compiler.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *UnitStep) DependsOn() []compiler.StepID {
	return s.deps
}

// Check determines if the unit is enabled and active.
func (s *UnitStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	enabled, err := s.runner.Run(ctx.Context(), "systemctl", "is-enabled", "--quiet", s.unit)
	if err != nil {
		return compiler.StatusUnknown, err
	}
	if !enabled.Success() {
		return compiler.StatusNeedsApply, nil
	}

	active, err := s.runner.Run(ctx.Context(), "systemctl", "is-active", "--quiet", s.unit)
	if err != nil {
		return compiler.StatusUnknown, err
	}
	if !active.Success() {
		return compiler.StatusNeedsApply, nil
	}

	return compiler.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *UnitStep) Plan(_ compiler.RunContext) (compiler.Diff, error) {
	return compiler.NewDiff(compiler.DiffTypeModify, "service", s.unit, "", "enabled, active"), nil
}

// Apply enables and starts the unit.
func (s *UnitStep) Apply(ctx compiler.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "systemctl", "enable", s.unit)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("systemctl enable %s failed: %s", s.unit, result.Stderr)
	}

	result, err = s.runner.Run(ctx.Context(), "systemctl", "start", s.unit)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("systemctl start %s failed: %s", s.unit, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *UnitStep) Explain() compiler.Explanation {
	return compiler.NewExplanation(
		"Enable service",
		fmt.Sprintf("Enables and starts the %s systemd unit.", s.unit),
	)
}

// RestartStep restarts a unit when the configuration file is about to
// change. The pending state is decided at plan time: if the rendered
// content differs from the file on disk, the file step will rewrite it
// during this run and the daemon must pick the new content up. The
// dependency on the file step orders the restart after the write.
type RestartStep struct {
	unit     string
	confPath string
	rendered []byte
	deps     []compiler.StepID
	id       compiler.StepID
	runner   ports.CommandRunner
	fs       ports.FileSystem
}

// NewRestartStep creates a new RestartStep.
func NewRestartStep(unit, confPath string, rendered []byte, deps []compiler.StepID, runner ports.CommandRunner, fs ports.FileSystem) *RestartStep {
	id := compiler.MustNewStepID("service:restart:" + unit)
	return &RestartStep{
		unit:     unit,
		confPath: confPath,
		rendered: rendered,
		deps:     deps,
		id:       id,
		runner:   runner,
		fs:       fs,
	}
}

// ID returns the step identifier.
func (s *RestartStep) ID() compiler.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *RestartStep) DependsOn() []compiler.StepID {
	return s.deps
}

// Check reports pending when the configuration file will change.
func (s *RestartStep) Check(_ compiler.RunContext) (compiler.StepStatus, error) {
	if !s.fs.Exists(s.confPath) {
		// First write. The unit step starts the daemon with the fresh
		// file, so a separate restart is redundant.
		return compiler.StatusSatisfied, nil
	}

	current, err := s.fs.ReadFile(s.confPath)
	if err != nil {
		return compiler.StatusUnknown, err
	}
	if bytes.Equal(current, s.rendered) {
		return compiler.StatusSatisfied, nil
	}
	return compiler.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *RestartStep) Plan(_ compiler.RunContext) (compiler.Diff, error) {
	return compiler.NewDiff(compiler.DiffTypeModify, "service", s.unit, "", "restarted"), nil
}

// Apply restarts the unit.
func (s *RestartStep) Apply(ctx compiler.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "systemctl", "restart", s.unit)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("systemctl restart %s failed: %s", s.unit, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *RestartStep) Explain() compiler.Explanation {
	return compiler.NewExplanation(
		"Restart service",
		fmt.Sprintf("Restarts %s so the daemon reloads %s after it changes.", s.unit, s.confPath),
	)
}
