package service

import (
	"fmt"
	"strings"

	"hufschlaeger.net/canvas-clickup-sync/internal/config"
	"hufschlaeger.net/canvas-clickup-sync/internal/domain/canvas"
	"hufschlaeger.net/canvas-clickup-sync/internal/domain/clickup"
	"hufschlaeger.net/canvas-clickup-sync/pkg/utils"
)

type Classification string

const (
	Created   Classification = "created"
	Updated   Classification = "updated"
	Skipped   Classification = "skipped"
	Unchanged Classification = "unchanged"
)

type OperationKind string

const (
	OpCreate OperationKind = "create"
	OpUpdate OperationKind = "update"
)

// Operation ist ein einzelner Schreibzugriff auf ClickUp
type Operation struct {
	Kind       OperationKind
	TaskID     string
	Assignment canvas.Assignment
	Create     *clickup.CreateTaskRequest
	Update     *clickup.UpdateTaskRequest
}

// Decision hält fest, wie ein Assignment klassifiziert wurde. Tracked sind
// Abweichungen, die erkannt, aber nicht geschrieben werden.
type Decision struct {
	Assignment     canvas.Assignment
	Classification Classification
	TaskID         string
	Changed        []config.Field
	Tracked        []string
	Reason         string
}

type Counts struct {
	Created   int
	Updated   int
	Skipped   int
	Unchanged int
}

func (c *Counts) add(class Classification) {
	switch class {
	case Created:
		c.Created++
	case Updated:
		c.Updated++
	case Skipped:
		c.Skipped++
	case Unchanged:
		c.Unchanged++
	}
}

type Result struct {
	Operations []Operation
	Decisions  []Decision
	Counts     Counts
}

// Grade wird verglichen und als Abweichung notiert, aber nie geschrieben
const trackedGrade = "grade"

type Reconciler struct {
	catalog     *clickup.FieldCatalog
	policy      config.SyncPolicy
	courseLabel func(string) string
}

type ReconcilerOption func(*Reconciler)

// WithCourseLabel setzt die Abbildung Kursname → Dropdown-Label
func WithCourseLabel(fn func(string) string) ReconcilerOption {
	return func(r *Reconciler) {
		if fn != nil {
			r.courseLabel = fn
		}
	}
}

func NewReconciler(catalog *clickup.FieldCatalog, policy config.SyncPolicy, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		catalog:     catalog,
		policy:      policy,
		courseLabel: func(name string) string { return name },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile leitet aus den Assignments und ihren zugeordneten Tasks die
// Create- und Update-Operationen ab. Die Eingaben werden nicht verändert.
// Ein Fehler bricht den gesamten Lauf ab, es gibt dann kein Teilergebnis.
func (r *Reconciler) Reconcile(assignments []canvas.Assignment, associations AssociationMap) (*Result, error) {
	result := &Result{}

	for _, assignment := range assignments {
		decision, op, err := r.reconcileOne(assignment, associations)
		if err != nil {
			return nil, err
		}

		result.Decisions = append(result.Decisions, decision)
		result.Counts.add(decision.Classification)
		if op != nil {
			result.Operations = append(result.Operations, *op)
		}
	}

	return result, nil
}

func (r *Reconciler) reconcileOne(assignment canvas.Assignment, associations AssociationMap) (Decision, *Operation, error) {
	decision := Decision{Assignment: assignment}

	if !assignment.ExpectsSubmission() && !r.policy.SyncSubmissionless {
		decision.Classification = Skipped
		decision.Reason = "keine Abgabe erwartet"
		return decision, nil, nil
	}

	if task, ok := associations.Lookup(assignment); ok {
		return r.update(decision, assignment, task)
	}
	return r.create(decision, assignment)
}

func (r *Reconciler) update(decision Decision, assignment canvas.Assignment, task clickup.Task) (Decision, *Operation, error) {
	decision.TaskID = task.ID()

	if r.policy.SkipIgnored && task.Ignored() {
		decision.Classification = Skipped
		decision.Reason = "Task ist als ignored markiert"
		return decision, nil, nil
	}

	var fields clickup.TaskFields

	r.compare(&decision, config.FieldName, assignment.Name() != task.Name(), func() {
		name := assignment.Name()
		fields.Name = &name
	})

	r.compare(&decision, config.FieldDescription,
		strings.TrimSpace(assignment.Description()) != strings.TrimSpace(task.Description()), func() {
			description := assignment.Description()
			fields.Description = &description
		})

	r.compare(&decision, config.FieldDueAt, !utils.SameInstant(assignment.DueDate(), task.DueDate()), func() {
		fields.DueDate = &clickup.DateValue{At: assignment.DueDate()}
	})

	r.compare(&decision, config.FieldStartAt, !utils.SameInstant(assignment.UnlocksAt(), task.StartDate()), func() {
		fields.StartDate = &clickup.DateValue{At: assignment.UnlocksAt()}
	})

	status := string(assignment.Status())
	r.compare(&decision, config.FieldStatus, !strings.EqualFold(status, task.Status()), func() {
		fields.Status = &status
	})

	if r.policy.SyncEnabled(config.FieldCourseName) {
		className, err := task.ClassName()
		if err != nil {
			return decision, nil, &IntegrityError{TaskID: task.ID(), Err: err}
		}
		if className != r.courseLabel(assignment.CourseName()) {
			decision.Tracked = append(decision.Tracked, string(config.FieldCourseName))
		}
	}

	if grade, graded := assignment.Grade(); graded {
		if taskGrade, _ := task.Grade(); grade != taskGrade {
			decision.Tracked = append(decision.Tracked, trackedGrade)
		}
	}

	if fields.Empty() {
		decision.Classification = Unchanged
		return decision, nil, nil
	}

	decision.Classification = Updated
	return decision, &Operation{
		Kind:       OpUpdate,
		TaskID:     task.ID(),
		Assignment: assignment,
		Update:     &clickup.UpdateTaskRequest{TaskFields: fields},
	}, nil
}

// compare übernimmt ein abweichendes Feld nur, wenn Sync und Overwrite erlaubt sind
func (r *Reconciler) compare(decision *Decision, field config.Field, differs bool, apply func()) {
	if !r.policy.SyncEnabled(field) || !differs {
		return
	}
	if !r.policy.Overwrite(field) {
		decision.Tracked = append(decision.Tracked, string(field))
		return
	}
	apply()
	decision.Changed = append(decision.Changed, field)
}

func (r *Reconciler) create(decision Decision, assignment canvas.Assignment) (Decision, *Operation, error) {
	linkField, ok := r.catalog.Lookup(clickup.FieldCanvasLink)
	if !ok {
		return decision, nil, &ConfigError{Field: clickup.FieldCanvasLink}
	}
	customFields := []clickup.CustomFieldInput{{ID: linkField.ID, Value: assignment.URL()}}
	withCourse := false

	if r.policy.CreateEnabled(config.FieldCourseName) {
		classField, ok := r.catalog.Lookup(clickup.FieldClass)
		if !ok {
			return decision, nil, &ConfigError{Field: clickup.FieldClass}
		}

		label := r.courseLabel(assignment.CourseName())
		index, ok := r.catalog.OptionIndex(classField, label)
		if !ok {
			if r.policy.SyncSubmissionless {
				decision.Classification = Skipped
				decision.Reason = fmt.Sprintf("Dropdown-Option %q fehlt", label)
				return decision, nil, nil
			}
			return decision, nil, &MissingOptionError{
				Assignment: assignment.Name(),
				Field:      clickup.FieldClass,
				Option:     label,
			}
		}
		customFields = append(customFields, clickup.CustomFieldInput{ID: classField.ID, Value: index})
		withCourse = true
	}

	var fields clickup.TaskFields
	if r.policy.CreateEnabled(config.FieldName) {
		name := assignment.Name()
		fields.Name = &name
		decision.Changed = append(decision.Changed, config.FieldName)
	}
	if r.policy.CreateEnabled(config.FieldDescription) {
		description := assignment.Description()
		fields.Description = &description
		decision.Changed = append(decision.Changed, config.FieldDescription)
	}
	if r.policy.CreateEnabled(config.FieldDueAt) {
		fields.DueDate = &clickup.DateValue{At: assignment.DueDate()}
		decision.Changed = append(decision.Changed, config.FieldDueAt)
	}
	if r.policy.CreateEnabled(config.FieldStartAt) {
		fields.StartDate = &clickup.DateValue{At: assignment.UnlocksAt()}
		decision.Changed = append(decision.Changed, config.FieldStartAt)
	}
	if r.policy.CreateEnabled(config.FieldStatus) {
		status := string(assignment.Status())
		fields.Status = &status
		decision.Changed = append(decision.Changed, config.FieldStatus)
	}
	if withCourse {
		decision.Changed = append(decision.Changed, config.FieldCourseName)
	}

	decision.Classification = Created
	return decision, &Operation{
		Kind:       OpCreate,
		Assignment: assignment,
		Create: &clickup.CreateTaskRequest{
			TaskFields:   fields,
			CustomFields: customFields,
		},
	}, nil
}
