package report

import (
	"context"
	"errors"
	"fmt"
)

// State is the interactive front end's trigger state.
type State int

const (
	StateIdle State = iota
	StateAnalyzing
	StateShown
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnalyzing:
		return "analyzing"
	case StateShown:
		return "shown"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrAnalysisInProgress is returned when a trigger arrives while analyzing.
var ErrAnalysisInProgress = errors.New("analysis already in progress")

// Session holds one front end's trigger state. A failed run never leaves a
// stale report visible. Session is not safe for concurrent use.
type Session struct {
	state  State
	report *Report
	err    error
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Report returns the shown report, if any.
func (s *Session) Report() (Report, bool) {
	if s.state != StateShown || s.report == nil {
		return Report{}, false
	}
	return *s.report, true
}

// Err returns the failure of the last run while in StateFailed.
func (s *Session) Err() error {
	if s.state != StateFailed {
		return nil
	}
	return s.err
}

// Run moves Idle/Shown/Failed -> Analyzing, calls analyze and settles in
// Shown or Failed.
func (s *Session) Run(ctx context.Context, analyze func(context.Context) (Report, error)) error {
	if s.state == StateAnalyzing {
		return ErrAnalysisInProgress
	}
	s.state, s.report, s.err = StateAnalyzing, nil, nil

	r, err := analyze(ctx)
	if err != nil {
		s.state, s.err = StateFailed, err
		return err
	}
	s.state, s.report = StateShown, &r
	return nil
}

// Reset returns to Idle, clearing any report or error.
func (s *Session) Reset() {
	s.state, s.report, s.err = StateIdle, nil, nil
}
