package wizard

import (
	"errors"
	"fmt"
)

type State string

const (
	StateCollecting State = "collecting"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

type Event string

const (
	EventFieldChanged    Event = "fieldChanged"
	EventSubmitClicked   Event = "submitClicked"
	EventOutcomeSuccess  Event = "outcomeReceived:succeeded"
	EventOutcomeFailure  Event = "outcomeReceived:failed"
	EventCooldownElapsed Event = "cooldownElapsed"
	EventStepChanged     Event = "stepChanged"
)

// SubmissionState is the submission progress as exposed to the user interface
type SubmissionState string

const (
	SubmissionInitial   SubmissionState = "initial"
	SubmissionPending   SubmissionState = "pending"
	SubmissionSucceeded SubmissionState = "succeeded"
	SubmissionFailed    SubmissionState = "failed"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrSubmissionPending = errors.New("submission is pending")
	ErrCoolingDown       = errors.New("submission failed recently")
)

type transitionKey struct {
	from  State
	event Event
}

// transitions lists every accepted event per state. Missing entries are rejected.
var transitions = map[transitionKey]State{
	{StateCollecting, EventFieldChanged}:    StateCollecting,
	{StateCollecting, EventSubmitClicked}:   StateSubmitting,
	{StateCollecting, EventStepChanged}:     StateCollecting,
	{StateCollecting, EventCooldownElapsed}: StateCollecting,

	{StateSubmitting, EventFieldChanged}:   StateSubmitting,
	{StateSubmitting, EventStepChanged}:    StateSubmitting,
	{StateSubmitting, EventOutcomeSuccess}: StateSucceeded,
	{StateSubmitting, EventOutcomeFailure}: StateFailed,

	{StateSucceeded, EventFieldChanged}:    StateSucceeded,
	{StateSucceeded, EventSubmitClicked}:   StateSubmitting,
	{StateSucceeded, EventStepChanged}:     StateCollecting,
	{StateSucceeded, EventCooldownElapsed}: StateSucceeded,

	{StateFailed, EventFieldChanged}:    StateFailed,
	{StateFailed, EventStepChanged}:     StateCollecting,
	{StateFailed, EventCooldownElapsed}: StateCollecting,
}

// Machine tracks the submission lifecycle of a wizard session. It is not safe for concurrent use.
type Machine struct {
	state State
}

func NewMachine() *Machine {
	return &Machine{state: StateCollecting}
}

func (m *Machine) State() State {
	return m.state
}

// Fire applies the event and returns the resulting state
func (m *Machine) Fire(event Event) (State, error) {
	next, ok := transitions[transitionKey{m.state, event}]
	if !ok {
		return m.state, m.rejection(event)
	}
	m.state = next
	return next, nil
}

// Can reports whether the event would be accepted in the current state
func (m *Machine) Can(event Event) bool {
	_, ok := transitions[transitionKey{m.state, event}]
	return ok
}

func (m *Machine) SubmissionState() SubmissionState {
	switch m.state {
	case StateSubmitting:
		return SubmissionPending
	case StateSucceeded:
		return SubmissionSucceeded
	case StateFailed:
		return SubmissionFailed
	default:
		return SubmissionInitial
	}
}

func (m *Machine) rejection(event Event) error {
	if event == EventSubmitClicked {
		switch m.state {
		case StateSubmitting:
			return ErrSubmissionPending
		case StateFailed:
			return ErrCoolingDown
		}
	}
	return fmt.Errorf("%w: no transition for state=%s event=%s", ErrInvalidTransition, m.state, event)
}
