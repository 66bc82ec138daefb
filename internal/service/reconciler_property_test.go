package service

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"hufschlaeger.net/canvas-clickup-sync/internal/config"
	"hufschlaeger.net/canvas-clickup-sync/internal/domain/canvas"
	"hufschlaeger.net/canvas-clickup-sync/internal/domain/clickup"
	"pgregory.net/rapid"
)

const (
	minMillis int64 = 1_600_000_000_000
	maxMillis int64 = 1_900_000_000_000
)

func genTimestamp(rt *rapid.T, label string) *string {
	if !rapid.Bool().Draw(rt, "has_"+label) {
		return nil
	}
	ms := rapid.Int64Range(minMillis, maxMillis).Draw(rt, label)
	s := time.UnixMilli(ms).UTC().Format(time.RFC3339Nano)
	return &s
}

func genAssignment(rt *rapid.T, index int, courses []string) canvas.Assignment {
	n := canvas.AssignmentNode{
		Name:              rapid.SampledFrom([]string{"HW1", "HW2", "Quiz", "Essay"}).Draw(rt, "name"),
		HTMLURL:           fmt.Sprintf("http://canvas.test/a/%d", index),
		ExpectsSubmission: rapid.Bool().Draw(rt, "expects_submission"),
		DueAt:             genTimestamp(rt, "due_at"),
		UnlockAt:          genTimestamp(rt, "unlock_at"),
	}
	if rapid.Bool().Draw(rt, "has_description") {
		n.Description = strPtr(rapid.SampledFrom([]string{
			"", "<p>Kapitel 3</p>", "Lesen&nbsp;und Zusammenfassen", "  <b>x</b>  ",
		}).Draw(rt, "description"))
	}
	for i := rapid.IntRange(0, 2).Draw(rt, "submissions"); i > 0; i-- {
		var grade *string
		if rapid.Bool().Draw(rt, "graded") {
			grade = strPtr(rapid.SampledFrom([]string{"A", "B", "95"}).Draw(rt, "grade"))
		}
		n.SubmissionsConnection.Nodes = append(n.SubmissionsConnection.Nodes, canvas.Submission{Grade: grade})
	}

	a, err := canvas.NewAssignment(n, rapid.SampledFrom(courses).Draw(rt, "course"))
	if err != nil {
		rt.Fatalf("NewAssignment: %v", err)
	}
	return a
}

func genExistingTask(rt *rapid.T, id string, url string) clickup.TaskNode {
	task := taskNode(id, rapid.SampledFrom([]string{"HW1", "alt"}).Draw(rt, "task_name"), url)
	task.Status.Status = rapid.SampledFrom([]string{"to do", "Submitted", "in progress"}).Draw(rt, "task_status")
	task.Description = rapid.SampledFrom([]string{"", "Kapitel 3", "veraltet"}).Draw(rt, "task_description")
	if rapid.Bool().Draw(rt, "task_has_due") {
		task.DueDate = clickup.Millis{Value: rapid.Int64Range(minMillis, maxMillis).Draw(rt, "task_due"), Valid: true}
	}
	if rapid.Bool().Draw(rt, "task_ignored") {
		task.Tags = []clickup.Tag{{Name: clickup.TagIgnored}}
	}
	return task
}

func genSyncPolicy(rt *rapid.T) config.SyncPolicy {
	policy := config.DefaultPolicy()
	policy.SyncSubmissionless = rapid.Bool().Draw(rt, "sync_submissionless")
	policy.SkipIgnored = rapid.Bool().Draw(rt, "skip_ignored")
	for _, field := range config.Fields {
		policy.Sync[field] = config.FieldPolicy{
			Enabled:   rapid.Bool().Draw(rt, "sync_"+string(field)),
			Overwrite: rapid.Bool().Draw(rt, "overwrite_"+string(field)),
		}
	}
	return policy
}

func dateMillis(d *clickup.DateValue) clickup.Millis {
	if d.At == nil {
		return clickup.Millis{}
	}
	return clickup.Millis{Value: d.At.UnixMilli(), Valid: true}
}

func applyFields(node *clickup.TaskNode, f clickup.TaskFields) {
	if f.Name != nil {
		node.Name = *f.Name
	}
	if f.Description != nil {
		node.Description = *f.Description
	}
	if f.Status != nil {
		node.Status.Status = *f.Status
	}
	if f.DueDate != nil {
		node.DueDate = dateMillis(f.DueDate)
	}
	if f.StartDate != nil {
		node.StartDate = dateMillis(f.StartDate)
	}
}

// apply spielt die Operationen gegen die Task-Liste ab, so wie ClickUp sie speichern würde
func apply(nodes []clickup.TaskNode, ops []Operation) []clickup.TaskNode {
	out := slices.Clone(nodes)
	for i, op := range ops {
		switch op.Kind {
		case OpUpdate:
			for j := range out {
				if out[j].ID == op.TaskID {
					applyFields(&out[j], op.Update.TaskFields)
				}
			}
		case OpCreate:
			created := clickup.TaskNode{ID: fmt.Sprintf("created-%d", i)}
			applyFields(&created, op.Create.TaskFields)
			for _, cf := range op.Create.CustomFields {
				switch cf.ID {
				case linkFieldID:
					created.CustomFields = append(created.CustomFields, linkValue(cf.Value.(string)))
				case classFieldID:
					created.CustomFields = append(created.CustomFields, classValue(float64(cf.Value.(int))))
				}
			}
			out = append(out, created)
		}
	}
	return out
}

func runReconcile(rt *rapid.T, policy config.SyncPolicy, assignments []canvas.Assignment, nodes []clickup.TaskNode) *Result {
	tasks := make([]clickup.Task, 0, len(nodes))
	for _, n := range nodes {
		tasks = append(tasks, clickup.NewTask(n))
	}
	associations, err := Match(assignments, tasks, false)
	if err != nil {
		rt.Fatalf("Match: %v", err)
	}
	result, err := NewReconciler(schema(), policy).Reconcile(assignments, associations)
	if err != nil {
		rt.Fatalf("Reconcile: %v", err)
	}
	return result
}

// Nach dem Anwenden der Operationen erzeugt ein zweiter Lauf keine weiteren.
func TestProperty_ReconcileIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		policy := genSyncPolicy(rt)
		courses := []string{testCourse, "CHEM 200"}
		if policy.SyncSubmissionless {
			courses = append(courses, "PHYS 300")
		}

		n := rapid.IntRange(0, 8).Draw(rt, "num_assignments")
		assignments := make([]canvas.Assignment, 0, n)
		var nodes []clickup.TaskNode
		for i := 0; i < n; i++ {
			a := genAssignment(rt, i, courses)
			assignments = append(assignments, a)
			if a.CourseName() == testCourse && rapid.Bool().Draw(rt, "has_task") {
				nodes = append(nodes, genExistingTask(rt, fmt.Sprintf("t%d", i), a.URL()))
			}
		}

		first := runReconcile(rt, policy, assignments, nodes)
		if got := first.Counts.Created + first.Counts.Updated; got != len(first.Operations) {
			rt.Fatalf("created+updated = %d, operations = %d", got, len(first.Operations))
		}

		second := runReconcile(rt, policy, assignments, apply(nodes, first.Operations))
		if len(second.Operations) != 0 {
			rt.Fatalf("second run emitted %d operations: %+v", len(second.Operations), second.Decisions)
		}
		if second.Counts.Created != 0 || second.Counts.Updated != 0 {
			rt.Fatalf("second run counts: %+v", second.Counts)
		}
	})
}

// Reconcile ist deterministisch und zählt jedes Assignment genau einmal
func TestProperty_ReconcileDeterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		policy := genSyncPolicy(rt)
		policy.SyncSubmissionless = true

		n := rapid.IntRange(0, 8).Draw(rt, "num_assignments")
		assignments := make([]canvas.Assignment, 0, n)
		var nodes []clickup.TaskNode
		for i := 0; i < n; i++ {
			a := genAssignment(rt, i, []string{testCourse, "PHYS 300"})
			assignments = append(assignments, a)
			if rapid.Bool().Draw(rt, "has_task") {
				nodes = append(nodes, genExistingTask(rt, fmt.Sprintf("t%d", i), a.URL()))
			}
		}

		a := runReconcile(rt, policy, assignments, nodes)
		b := runReconcile(rt, policy, assignments, nodes)

		if a.Counts != b.Counts || len(a.Operations) != len(b.Operations) {
			rt.Fatalf("runs differ: %+v vs %+v", a.Counts, b.Counts)
		}
		c := a.Counts
		if total := c.Created + c.Updated + c.Skipped + c.Unchanged; total != n || len(a.Decisions) != n {
			rt.Fatalf("expected %d classifications, got %d", n, total)
		}
		for i := range a.Operations {
			if a.Operations[i].Kind != b.Operations[i].Kind || a.Operations[i].TaskID != b.Operations[i].TaskID {
				rt.Fatalf("operation %d differs", i)
			}
		}
	})
}

// Datumsvergleich auf Millisekunden: gleich bei gleichem Wert, ungleich bei ±1ms
func TestProperty_DueDateMillisecondEquality(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ms := rapid.Int64Range(minMillis, maxMillis).Draw(rt, "due_ms")
		offset := rapid.SampledFrom([]int64{-1, 0, 1}).Draw(rt, "offset")

		due := time.UnixMilli(ms).UTC().Format(time.RFC3339Nano)
		n := node("HW1", "https://x/1")
		n.DueAt = &due
		a := mustAssignment(rt, n, testCourse)

		task := taskNode("t1", "HW1", "https://x/1")
		task.DueDate = clickup.Millis{Value: ms + offset, Valid: true}

		result := runReconcile(rt, config.DefaultPolicy(), []canvas.Assignment{a}, []clickup.TaskNode{task})
		changed := slices.Contains(result.Decisions[0].Changed, config.FieldDueAt)
		if changed != (offset != 0) {
			rt.Fatalf("offset %d: changed=%t", offset, changed)
		}
	})
}

func TestDueDateEquality_KnownInstant(t *testing.T) {
	due := "2024-03-01T10:00:00Z"
	n := node("HW1", "https://x/1")
	n.DueAt = &due
	a := mustAssignment(t, n, testCourse)

	task := taskNode("t1", "HW1", "https://x/1")
	task.DueDate = clickup.Millis{Value: 1709287200000, Valid: true}

	result := reconcile(t, config.DefaultPolicy(), []canvas.Assignment{a}, task)
	if result.Counts != (Counts{Unchanged: 1}) {
		t.Fatalf("expected unchanged, got %+v", result.Counts)
	}
}
