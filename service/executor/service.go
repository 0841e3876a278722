package executor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/elC0mpa/cloud-doctor/model"
)

// NewSimulatedExecutor returns an executor that only waits. Each action id
// is applied at most once.
func NewSimulatedExecutor(delay time.Duration, logger zerolog.Logger) *simulatedExecutor {
	return &simulatedExecutor{
		delay:  delay,
		logger: logger.With().Str("component", "executor").Str("mode", "simulated").Logger(),
		done:   map[string]bool{},
	}
}

func (e *simulatedExecutor) Execute(ctx context.Context, action model.PlannedAction) error {
	e.mu.Lock()
	if e.done[action.ID] {
		e.mu.Unlock()
		e.logger.Debug().Str("action_id", action.ID).Msg("action already applied")
		return nil
	}
	e.mu.Unlock()

	timer := time.NewTimer(e.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	e.mu.Lock()
	e.done[action.ID] = true
	e.mu.Unlock()

	e.logger.Info().
		Str("action_id", action.ID).
		Str("action_type", string(action.Type)).
		Str("target", action.ResourceName).
		Msg("simulated action applied")
	return nil
}

// NewScriptExecutor returns an executor that appends each action's command
// to w for the operator to review and run.
func NewScriptExecutor(w io.Writer, project string, logger zerolog.Logger) *scriptExecutor {
	return &scriptExecutor{
		project: project,
		logger:  logger.With().Str("component", "executor").Str("mode", "script").Logger(),
		w:       w,
		done:    map[string]bool{},
	}
}

func (e *scriptExecutor) Execute(ctx context.Context, action model.PlannedAction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done[action.ID] {
		return nil
	}
	if !e.started {
		if _, err := io.WriteString(e.w, "#!/usr/bin/env bash\nset -euo pipefail\n"); err != nil {
			return fmt.Errorf("failed to write script header: %w", err)
		}
		e.started = true
	}

	_, err := fmt.Fprintf(e.w, "\n# %s %s (confidence %d): %s\n%s\n",
		action.Type, action.ResourceName, action.Confidence, action.Justification, Command(action, e.project))
	if err != nil {
		return fmt.Errorf("failed to write command for %s: %w", action.ID, err)
	}
	e.done[action.ID] = true

	e.logger.Info().Str("action_id", action.ID).Str("target", action.ResourceName).Msg("command written")
	return nil
}
