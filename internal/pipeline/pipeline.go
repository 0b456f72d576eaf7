// Package pipeline drives the patch stages as a validated linear state
// machine.
//
// The machine has one forward path: every stage transitions to its
// successor on success, and any non-terminal stage transitions to FAILED
// on error. There is no retry and no backward transition; the first error
// aborts the whole run.
package pipeline

import (
	"context"
	"time"

	"github.com/bitrise-io/go-utils/log"
	"github.com/pkg/errors"
)

// Stage identifies a position in the pipeline.
type Stage string

const (
	StageSetup        Stage = "SETUP"
	StageFetching     Stage = "FETCHING"
	StageSubstituting Stage = "SUBSTITUTING"
	StageRecompiling  Stage = "RECOMPILING"
	StageSigning      Stage = "SIGNING"
	StageFinalizing   Stage = "FINALIZING"
	StageBundling     Stage = "BUNDLING"
	StageDone         Stage = "DONE"
	StageFailed       Stage = "FAILED"
)

// stageOrder is the single forward path. StageFailed is reachable from any
// non-terminal stage and deliberately absent here.
var stageOrder = []Stage{
	StageSetup,
	StageFetching,
	StageSubstituting,
	StageRecompiling,
	StageSigning,
	StageFinalizing,
	StageBundling,
	StageDone,
}

// IsTerminal reports whether the stage is final.
func IsTerminal(s Stage) bool {
	return s == StageDone || s == StageFailed
}

func successor(s Stage) (Stage, bool) {
	for i, cur := range stageOrder {
		if cur == s && i+1 < len(stageOrder) {
			return stageOrder[i+1], true
		}
	}
	return "", false
}

func isAllowedTransition(from, to Stage) bool {
	if to == StageFailed {
		return !IsTerminal(from)
	}
	next, ok := successor(from)
	return ok && to == next
}

// Transition validates a single state change. It is pure: the caller owns
// the state variable.
func Transition(from, to Stage) (Stage, error) {
	if !isAllowedTransition(from, to) {
		return from, errors.Errorf("disallowed stage transition: %s -> %s", from, to)
	}
	return to, nil
}

// Step binds a stage to the work executed while the pipeline is in it.
type Step struct {
	Stage Stage
	Name  string
	Run   func(ctx context.Context) error
}

// StepRecord is an immutable log entry for one executed step.
type StepRecord struct {
	Stage    Stage
	Name     string
	Err      string
	Duration time.Duration
}

// Pipeline executes steps strictly in order.
type Pipeline struct {
	steps   []Step
	state   Stage
	history []StepRecord
}

// New builds a pipeline. Steps must cover the stages in forward order
// starting at StageSetup, one step per stage; anything else is a wiring
// bug surfaced as an error.
func New(steps ...Step) (*Pipeline, error) {
	if len(steps) == 0 {
		return nil, errors.New("pipeline has no steps")
	}
	for i, st := range steps {
		if st.Run == nil {
			return nil, errors.Errorf("step %q has no run function", st.Name)
		}
		if st.Stage != stageOrder[i] {
			return nil, errors.Errorf("step %d (%q) declares stage %s, want %s", i, st.Name, st.Stage, stageOrder[i])
		}
	}
	return &Pipeline{steps: steps, state: steps[0].Stage}, nil
}

// State returns the current stage.
func (p *Pipeline) State() Stage { return p.state }

// History returns the records of every step executed so far, in order.
func (p *Pipeline) History() []StepRecord { return p.history }

// Run executes every step in order and stops at the first error. On
// success the pipeline ends in StageDone; on error it ends in StageFailed
// and the returned error names the failing step. Steps after a failure are
// never attempted.
func (p *Pipeline) Run(ctx context.Context) error {
	for i, step := range p.steps {
		if i > 0 {
			next, err := Transition(p.state, step.Stage)
			if err != nil {
				return err
			}
			p.state = next
		}

		start := time.Now()
		err := step.Run(ctx)
		p.history = append(p.history, StepRecord{
			Stage:    step.Stage,
			Name:     step.Name,
			Err:      errStr(err),
			Duration: time.Since(start),
		})

		if err != nil {
			p.state, _ = Transition(p.state, StageFailed)
			log.Errorf("stage %s failed", step.Stage)
			return errors.Wrap(err, step.Name)
		}
	}

	next, err := Transition(p.state, StageDone)
	if err != nil {
		return err
	}
	p.state = next
	return nil
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
