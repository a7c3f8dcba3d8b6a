package wizard

import (
	"github.com/tidepool-org/prescription-wizard/prescription"
	"github.com/tidepool-org/prescription-wizard/schema"
	"github.com/tidepool-org/prescription-wizard/steps"
)

// FirstIncomplete returns the first sub-step whose fields don't validate against the schema,
// or the first sub-step of the last step when every sub-step is satisfied
func FirstIncomplete(attrs prescription.Attributes, registry *steps.Registry, s *schema.Schema) Position {
	for i, step := range registry.ValidationFields() {
		for j, fields := range step {
			if !IsStepComplete(fields, s, attrs) {
				return Position{Step: i, SubStep: j}
			}
		}
	}
	return Position{Step: registry.LastStep()}
}

// IsStepComplete reports whether every field path validates against the schema
func IsStepComplete(fields []prescription.FieldPath, s *schema.Schema, attrs prescription.Attributes) bool {
	return s.FieldsAreValid(fields, attrs)
}

// CompletionFields flattens the fields of every step. All of them must validate before the last step completes.
func CompletionFields(registry *steps.Registry) []prescription.FieldPath {
	var fields []prescription.FieldPath
	for _, step := range registry.ValidationFields() {
		for _, sub := range step {
			fields = append(fields, sub...)
		}
	}
	return fields
}
