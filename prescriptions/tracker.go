package prescriptions

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/tidepool-org/prescription-wizard/prescription"
)

var (
	ErrNotFound   = errors.New("prescription not found")
	ErrInProgress = errors.New("submission already in progress")
)

type Kind string

const (
	KindCreate Kind = "create"
	KindRevise Kind = "revise"
)

const (
	createFailedMessage = "Something went wrong while creating the prescription."
	reviseFailedMessage = "Something went wrong while updating the prescription."
)

type Notification struct {
	Message string `json:"message"`
}

// Outcome is the working state of a submission.
// Completed is nil until a submission was attempted, then reports whether the last one succeeded.
type Outcome struct {
	InProgress     bool          `json:"inProgress"`
	Completed      *bool         `json:"completed"`
	Notification   *Notification `json:"notification,omitempty"`
	PrescriptionId string        `json:"prescriptionId,omitempty"`
}

func (o Outcome) Succeeded() bool {
	return o.Completed != nil && *o.Completed
}

func (o Outcome) Failed() bool {
	return o.Completed != nil && !*o.Completed
}

type Request struct {
	Kind           Kind
	Token          string
	ClinicId       string
	PrescriptionId string
	Attributes     prescription.Attributes
}

// KindOf selects a revision when the draft already has a server identifier
func KindOf(prescriptionId string) Kind {
	if prescriptionId != "" {
		return KindRevise
	}
	return KindCreate
}

type Listener func(kind Kind, outcome Outcome)

// Tracker dispatches submissions in the background and keeps the working state of each kind.
// Every dispatch reports in progress and then exactly one completion to the listeners.
type Tracker struct {
	logger  *zap.SugaredLogger
	service Service

	mu        sync.Mutex
	outcomes  map[Kind]Outcome
	listeners []Listener
	wg        sync.WaitGroup
}

func NewTracker(service Service, logger *zap.SugaredLogger) *Tracker {
	return &Tracker{
		logger:  logger,
		service: service,
		outcomes: map[Kind]Outcome{
			KindCreate: {},
			KindRevise: {},
		},
	}
}

func (t *Tracker) Subscribe(listener Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, listener)
}

// Outcome returns the current working state of the kind
func (t *Tracker) Outcome(kind Kind) Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outcomes[kind]
}

// Dispatch starts the submission. It doesn't wait for the result and imposes no timeout of its own.
func (t *Tracker) Dispatch(ctx context.Context, req Request) error {
	t.mu.Lock()
	if t.outcomes[req.Kind].InProgress {
		t.mu.Unlock()
		return ErrInProgress
	}
	pending := Outcome{InProgress: true}
	t.outcomes[req.Kind] = pending
	listeners := append([]Listener(nil), t.listeners...)
	t.mu.Unlock()

	notify(listeners, req.Kind, pending)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.update(req.Kind, t.submit(ctx, req))
	}()
	return nil
}

// Wait blocks until every dispatched submission completed
func (t *Tracker) Wait() {
	t.wg.Wait()
}

func (t *Tracker) submit(ctx context.Context, req Request) Outcome {
	var result *prescription.Prescription
	var err error
	switch req.Kind {
	case KindRevise:
		result, err = t.service.CreatePrescriptionRevision(ctx, req.Token, req.ClinicId, req.PrescriptionId, req.Attributes)
	case KindCreate:
		result, err = t.service.CreatePrescription(ctx, req.Token, req.ClinicId, req.Attributes)
	default:
		err = fmt.Errorf("unknown submission kind %q", req.Kind)
	}

	completed := err == nil
	outcome := Outcome{Completed: &completed}
	if err != nil {
		t.logger.Errorw("unable to submit prescription", "kind", req.Kind, "clinicId", req.ClinicId, zap.Error(err))
		outcome.Notification = &Notification{Message: failureMessage(req.Kind, err)}
		return outcome
	}

	t.logger.Infow("submitted prescription", "kind", req.Kind, "clinicId", req.ClinicId, "prescriptionId", result.Id)
	if req.Kind == KindCreate {
		outcome.PrescriptionId = result.Id
	}
	return outcome
}

func (t *Tracker) update(kind Kind, outcome Outcome) {
	t.mu.Lock()
	t.outcomes[kind] = outcome
	listeners := append([]Listener(nil), t.listeners...)
	t.mu.Unlock()

	notify(listeners, kind, outcome)
}

func notify(listeners []Listener, kind Kind, outcome Outcome) {
	for _, l := range listeners {
		l(kind, outcome)
	}
}

func failureMessage(kind Kind, err error) string {
	var httpErr *ErrorResponse
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	if kind == KindRevise {
		return reviseFailedMessage
	}
	return createFailedMessage
}
