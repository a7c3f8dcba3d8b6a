package wizard

import (
	"fmt"

	"github.com/tidepool-org/prescription-wizard/prescription"
	"github.com/tidepool-org/prescription-wizard/prescriptions"
	"github.com/tidepool-org/prescription-wizard/steps"
)

type SubmissionInput struct {
	Draft        prescription.Draft
	Position     Position
	Registry     *steps.Registry
	UserId       string
	IsPrescriber bool
}

// Submission is the payload sent to the prescription service for a completed step
type Submission struct {
	Kind           prescriptions.Kind
	PrescriptionId string
	Attributes     prescription.Attributes
	RevisionHash   string
	State          prescription.State
}

// BuildSubmission prepares the payload of a step completion.
// Transient fields are always removed. Fields of later steps are removed only while still empty,
// so values entered before navigating back are kept.
func BuildSubmission(input SubmissionInput) (Submission, error) {
	attrs, err := input.Draft.Attributes()
	if err != nil {
		return Submission{}, err
	}

	remove := append([]prescription.FieldPath(nil), prescription.TransientFields...)
	lastStep := input.Registry.IsLastStep(input.Position.Step)
	if !lastStep {
		for _, path := range input.Registry.FieldsAfter(input.Position.Step) {
			value, _ := attrs.Get(path)
			if prescription.IsEmptyValue(path, value) {
				remove = append(remove, path.Container())
			}
		}
	}

	payload := attrs.Omit(remove...)
	payload.Set(prescription.FieldCreatedUserId, input.UserId)
	payload.Set(prescription.FieldPrescriberTermsAccepted, input.IsPrescriber && input.Draft.IsReviewed())

	state := input.Draft.State
	if lastStep {
		state = prescription.StatePending
		if input.IsPrescriber {
			state = prescription.StateSubmitted
		}
		payload.Set(prescription.FieldState, string(state))
	}

	hash, err := prescription.RevisionHash(payload)
	if err != nil {
		return Submission{}, fmt.Errorf("unable to compute revision hash: %w", err)
	}
	payload.Set(prescription.FieldRevisionHash, hash)

	return Submission{
		Kind:           prescriptions.KindOf(input.Draft.Id),
		PrescriptionId: input.Draft.Id,
		Attributes:     payload,
		RevisionHash:   hash,
		State:          state,
	}, nil
}
