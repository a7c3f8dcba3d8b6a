package steps

import (
	"github.com/tidepool-org/prescription-wizard/prescription"
)

// Registry is the ordered set of steps of a wizard session after skip adjustments.
// The rendered steps and the validation fields are both views over the same filtered list.
type Registry struct {
	adjustments Adjustments
	steps       []Step
	owners      map[prescription.FieldPath]Position
}

// New filters the step definitions once. The result never changes afterwards.
func New(adjustments Adjustments) *Registry {
	r := &Registry{
		adjustments: adjustments,
		owners:      map[prescription.FieldPath]Position{},
	}
	for _, def := range definitions {
		if def.skipIf(adjustments) {
			continue
		}
		step := Step{ID: def.id, Label: def.label}
		for _, sub := range def.subSteps {
			if sub.skipIf(adjustments) {
				continue
			}
			fields := make([]prescription.FieldPath, len(sub.Fields))
			copy(fields, sub.Fields)
			step.SubSteps = append(step.SubSteps, SubStep{ID: sub.ID, Fields: fields})
		}
		r.steps = append(r.steps, step)
	}

	for i, step := range r.steps {
		for j, sub := range step.SubSteps {
			for _, field := range sub.Fields {
				r.owners[field] = Position{Step: i, SubStep: j}
			}
		}
	}
	return r
}

func (r *Registry) Adjustments() Adjustments {
	return r.adjustments
}

// Steps returns a copy of the ordered steps
func (r *Registry) Steps() []Step {
	result := make([]Step, len(r.steps))
	for i, step := range r.steps {
		result[i] = Step{ID: step.ID, Label: step.Label, SubSteps: append([]SubStep(nil), step.SubSteps...)}
	}
	return result
}

// ValidationFields returns the field paths indexed by step and sub-step
func (r *Registry) ValidationFields() [][][]prescription.FieldPath {
	result := make([][][]prescription.FieldPath, len(r.steps))
	for i, step := range r.steps {
		result[i] = make([][]prescription.FieldPath, len(step.SubSteps))
		for j, sub := range step.SubSteps {
			result[i][j] = append([]prescription.FieldPath(nil), sub.Fields...)
		}
	}
	return result
}

func (r *Registry) Len() int {
	return len(r.steps)
}

func (r *Registry) LastStep() int {
	return len(r.steps) - 1
}

func (r *Registry) SubStepCount(step int) int {
	if step < 0 || step >= len(r.steps) {
		return 0
	}
	return len(r.steps[step].SubSteps)
}

// Contains reports whether the position addresses an existing sub-step
func (r *Registry) Contains(p Position) bool {
	return p.SubStep >= 0 && p.SubStep < r.SubStepCount(p.Step)
}

// Step returns the step at the index
func (r *Registry) Step(index int) (Step, bool) {
	if index < 0 || index >= len(r.steps) {
		return Step{}, false
	}
	return r.steps[index], true
}

// Fields returns the field paths owned by the sub-step at the position
func (r *Registry) Fields(p Position) []prescription.FieldPath {
	if !r.Contains(p) {
		return nil
	}
	return r.steps[p.Step].SubSteps[p.SubStep].Fields
}

// FieldsAfter returns the field paths owned by every step strictly after the step index
func (r *Registry) FieldsAfter(step int) []prescription.FieldPath {
	var fields []prescription.FieldPath
	for i := step + 1; i < len(r.steps); i++ {
		fields = append(fields, r.steps[i].Fields()...)
	}
	return fields
}

// OwnerOf returns the position of the sub-step that owns the field path
func (r *Registry) OwnerOf(path prescription.FieldPath) (Position, bool) {
	p, ok := r.owners[path]
	return p, ok
}

// PositionOf returns the position of a sub-step by its identity
func (r *Registry) PositionOf(stepId StepID, subStepId SubStepID) (Position, bool) {
	for i, step := range r.steps {
		if step.ID != stepId {
			continue
		}
		for j, sub := range step.SubSteps {
			if sub.ID == subStepId {
				return Position{Step: i, SubStep: j}, true
			}
		}
	}
	return Position{}, false
}

// IndexOf returns the index of the step
func (r *Registry) IndexOf(stepId StepID) (int, bool) {
	for i, step := range r.steps {
		if step.ID == stepId {
			return i, true
		}
	}
	return 0, false
}

// Next returns the position following p, or false when p is the last sub-step of the last step
func (r *Registry) Next(p Position) (Position, bool) {
	if p.SubStep+1 < r.SubStepCount(p.Step) {
		return Position{Step: p.Step, SubStep: p.SubStep + 1}, true
	}
	if p.Step+1 < len(r.steps) {
		return Position{Step: p.Step + 1}, true
	}
	return p, false
}

// IsLastStep reports whether the step index is the final step
func (r *Registry) IsLastStep(step int) bool {
	return step == r.LastStep()
}
