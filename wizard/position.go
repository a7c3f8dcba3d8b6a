package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidepool-org/prescription-wizard/prescription"
	"github.com/tidepool-org/prescription-wizard/steps"
)

// StepQueryParam holds the "step,subStep" position in the wizard url
const StepQueryParam = "prescription-form-steps-step"

type Position = steps.Position

var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrNotEditing      = errors.New("not in single step edit mode")
	ErrEditing         = errors.New("single step edit in progress")
)

// ParsePosition decodes a "step,subStep" url value
func ParsePosition(value string) (Position, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, value)
	}
	step, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, value)
	}
	subStep, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, value)
	}
	return Position{Step: step, SubStep: subStep}, nil
}

// PositionTracker owns the current position and the single step edit mode.
// The return position is set exactly while editing.
type PositionTracker struct {
	registry *steps.Registry
	current  Position
	returnTo *Position
	focus    string
	snapshot *prescription.Draft
}

func NewPositionTracker(registry *steps.Registry, start Position) *PositionTracker {
	return &PositionTracker{
		registry: registry,
		current:  start,
	}
}

func (t *PositionTracker) Current() Position {
	return t.current
}

func (t *PositionTracker) ReturnTo() *Position {
	if t.returnTo == nil {
		return nil
	}
	p := *t.returnTo
	return &p
}

func (t *PositionTracker) Editing() bool {
	return t.returnTo != nil
}

func (t *PositionTracker) Focus() string {
	return t.focus
}

func (t *PositionTracker) IsLastStep() bool {
	return t.registry.IsLastStep(t.current.Step)
}

// JumpTo moves to the target. Passing a return position enters single step edit mode
// and keeps a copy of the values so the edit can be cancelled.
func (t *PositionTracker) JumpTo(target Position, returnTo *Position, focus string, values prescription.Draft) error {
	if !t.registry.Contains(target) {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, target)
	}
	if returnTo != nil && !t.registry.Contains(*returnTo) {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, *returnTo)
	}

	t.current = target
	t.focus = focus
	if returnTo == nil {
		t.returnTo = nil
		t.snapshot = nil
		return nil
	}

	r := *returnTo
	snapshot := values.Clone()
	t.returnTo = &r
	t.snapshot = &snapshot
	return nil
}

// Advance moves to the next sub-step, or the first sub-step of the next step.
// It reports false without moving when already at the end.
func (t *PositionTracker) Advance() bool {
	next, ok := t.registry.Next(t.current)
	if !ok {
		return false
	}
	t.current = next
	t.focus = ""
	return true
}

// CompleteEdit leaves single step edit mode and returns to the originating position.
// When cancelled it returns the values as they were before the jump.
func (t *PositionTracker) CompleteEdit(cancel bool) (*prescription.Draft, error) {
	if t.returnTo == nil {
		return nil, ErrNotEditing
	}

	var restored *prescription.Draft
	if cancel {
		restored = t.snapshot
	}
	t.current = *t.returnTo
	t.returnTo = nil
	t.snapshot = nil
	t.focus = ""
	return restored, nil
}
