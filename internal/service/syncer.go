package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"hufschlaeger.net/canvas-clickup-sync/internal/config"
	"hufschlaeger.net/canvas-clickup-sync/internal/domain/canvas"
	"hufschlaeger.net/canvas-clickup-sync/internal/domain/clickup"
	"hufschlaeger.net/canvas-clickup-sync/internal/report"
	canvasRepo "hufschlaeger.net/canvas-clickup-sync/internal/repository/canvas"
	clickupRepo "hufschlaeger.net/canvas-clickup-sync/internal/repository/clickup"
	"hufschlaeger.net/canvas-clickup-sync/pkg/utils"
)

// AssignmentSource liefert Kurse und Assignments (Canvas)
type AssignmentSource interface {
	Courses(ctx context.Context) ([]canvas.Course, error)
	CourseAssignments(ctx context.Context, courseID string) (*canvas.CourseAssignments, error)
}

// TaskSource liefert den Task-Snapshot und das Feld-Schema der Liste (ClickUp)
type TaskSource interface {
	ValidateConnection(ctx context.Context) error
	GetTasks(ctx context.Context) ([]clickup.TaskNode, error)
	GetFields(ctx context.Context) ([]clickup.FieldDefinition, error)
}

// TaskMutationClient führt Create und Update aus. Jede Operation wird pro
// Lauf höchstens einmal versucht.
type TaskMutationClient interface {
	CreateTask(ctx context.Context, request clickup.CreateTaskRequest) (*clickup.CreatedTask, error)
	UpdateTask(ctx context.Context, taskID string, request clickup.UpdateTaskRequest) error
}

type TaskClient interface {
	TaskSource
	TaskMutationClient
}

type Syncer struct {
	config  *config.Config
	policy  config.SyncPolicy
	canvas  AssignmentSource
	clickup TaskClient
	out     io.Writer
	now     func() time.Time
}

type SyncerOption func(*Syncer)

func WithAssignmentSource(source AssignmentSource) SyncerOption {
	return func(s *Syncer) { s.canvas = source }
}

func WithTaskClient(client TaskClient) SyncerOption {
	return func(s *Syncer) { s.clickup = client }
}

func WithOutput(out io.Writer) SyncerOption {
	return func(s *Syncer) { s.out = out }
}

func WithClock(now func() time.Time) SyncerOption {
	return func(s *Syncer) { s.now = now }
}

func NewSyncer(cfg *config.Config, policy config.SyncPolicy, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		config: cfg,
		policy: policy,
		out:    os.Stdout,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.canvas == nil {
		s.canvas = canvasRepo.NewRepository(cfg)
	}
	if s.clickup == nil {
		s.clickup = clickupRepo.NewRepository(cfg)
	}
	return s
}

type snapshot struct {
	assignments []canvas.Assignment
	courses     int
	tasks       []clickup.Task
	catalog     *clickup.FieldCatalog
}

// Sync startet den Abgleich Canvas → ClickUp
func (s *Syncer) Sync(ctx context.Context) (report.Counts, error) {
	// 1. Konfiguration validieren
	if err := s.config.Validate(); err != nil {
		return report.Counts{}, fmt.Errorf("konfiguration ungültig: %w", err)
	}

	progress := report.NewProgress(s.out)

	// 2. Verbindung testen
	progress.Transient("🔍 Prüfe ClickUp-Verbindung...")
	if err := s.clickup.ValidateConnection(ctx); err != nil {
		progress.Done()
		return report.Counts{}, fmt.Errorf("ClickUp-Verbindung fehlgeschlagen: %w", err)
	}

	// 3. Beide Snapshots vollständig laden
	snap, err := s.load(ctx, progress)
	if err != nil {
		progress.Done()
		return report.Counts{}, err
	}
	progress.Line(fmt.Sprintf("📊 Gefunden: %d Assignments in %d Kursen, %d Tasks, %d Felder",
		len(snap.assignments), snap.courses, len(snap.tasks), snap.catalog.Len()))

	// 4. Zuordnen und Abgleichen
	associations, err := Match(snap.assignments, snap.tasks, s.policy.StrictLinks)
	if err != nil {
		return report.Counts{}, err
	}

	reconciler := NewReconciler(snap.catalog, s.policy, WithCourseLabel(s.policy.CourseLabel))
	result, err := reconciler.Reconcile(snap.assignments, associations)
	if err != nil {
		return report.Counts{}, err
	}

	s.printDecisions(progress, result.Decisions)

	counts := report.Counts{
		Created:   result.Counts.Created,
		Updated:   result.Counts.Updated,
		Skipped:   result.Counts.Skipped,
		Unchanged: result.Counts.Unchanged,
	}

	// 5. Dry Run: nur den Plan ausgeben
	if s.config.DryRun {
		if err := report.WritePlan(s.out, buildPlan(result, counts)); err != nil {
			return counts, err
		}
		report.PrintSummary(s.out, counts, true)
		return counts, nil
	}

	// 6. Operationen ausführen
	counts = s.dispatch(ctx, progress, result.Operations, counts)
	report.PrintSummary(s.out, counts, false)

	if counts.Failed > 0 {
		return counts, fmt.Errorf("%d von %d Operationen fehlgeschlagen", counts.Failed, len(result.Operations))
	}
	return counts, nil
}

// load holt Assignments, Tasks und Feld-Schema parallel
func (s *Syncer) load(ctx context.Context, progress *report.Progress) (*snapshot, error) {
	snap := &snapshot{}
	var taskNodes []clickup.TaskNode
	var fields []clickup.FieldDefinition

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		assignments, courses, err := s.loadAssignments(gctx, progress)
		if err != nil {
			return fmt.Errorf("fehler beim Laden der Canvas Assignments: %w", err)
		}
		snap.assignments, snap.courses = assignments, courses
		return nil
	})

	g.Go(func() error {
		progress.Stage(3, 4, "Lade Tasks aus ClickUp")
		nodes, err := s.clickup.GetTasks(gctx)
		if err != nil {
			return fmt.Errorf("fehler beim Laden der ClickUp Tasks: %w", err)
		}
		taskNodes = nodes
		return nil
	})

	g.Go(func() error {
		progress.Stage(4, 4, "Lade Custom Fields")
		defs, err := s.clickup.GetFields(gctx)
		if err != nil {
			return fmt.Errorf("fehler beim Laden der Custom Fields: %w", err)
		}
		fields = defs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.tasks = make([]clickup.Task, 0, len(taskNodes))
	for _, node := range taskNodes {
		snap.tasks = append(snap.tasks, clickup.NewTask(node))
	}
	snap.catalog = clickup.NewFieldCatalog(fields)

	return snap, nil
}

// loadAssignments lädt die Assignments aller gewählten Kurse, Reihenfolge
// wie die Kursliste
func (s *Syncer) loadAssignments(ctx context.Context, progress *report.Progress) ([]canvas.Assignment, int, error) {
	progress.Stage(1, 4, "Lade aktive Kurse")
	courseIDs, err := s.courseIDs(ctx)
	if err != nil {
		return nil, 0, err
	}

	progress.Stage(2, 4, fmt.Sprintf("Lade Assignments aus %d Kursen", len(courseIDs)))
	courses := make([]*canvas.CourseAssignments, len(courseIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for i, id := range courseIDs {
		g.Go(func() error {
			course, err := s.canvas.CourseAssignments(gctx, id)
			if err != nil {
				return err
			}
			courses[i] = course
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var assignments []canvas.Assignment
	for _, course := range courses {
		if course == nil {
			continue
		}
		for _, node := range course.AssignmentsConnection.Nodes {
			assignment, err := canvas.NewAssignment(node, course.Name)
			if err != nil {
				return nil, 0, err
			}
			assignments = append(assignments, assignment)
		}
	}
	return assignments, len(courses), nil
}

// courseIDs: COURSE_IDS hat Vorrang, sonst alle zum Zeitpunkt now aktiven Kurse
func (s *Syncer) courseIDs(ctx context.Context) ([]string, error) {
	if len(s.config.CourseIDs) > 0 {
		return s.config.CourseIDs, nil
	}

	courses, err := s.canvas.Courses(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var ids []string
	for _, course := range courses {
		if course.Active(now) {
			ids = append(ids, course.ID)
		}
	}
	return ids, nil
}

func (s *Syncer) printDecisions(progress *report.Progress, decisions []Decision) {
	total := len(decisions)
	for i, d := range decisions {
		prefix := fmt.Sprintf("[%d/%d]", i+1, total)
		progress.Transient(fmt.Sprintf("%s Verarbeite %s in %s", prefix, d.Assignment.Name(), d.Assignment.CourseName()))
		if !s.config.Verbose {
			continue
		}

		line := fmt.Sprintf("%s %s: %s (fällig %s)", prefix, d.Classification, d.Assignment.Name(),
			utils.FormatDateForDisplay(d.Assignment.DueDate()))
		if d.TaskID != "" {
			line += fmt.Sprintf(" (Task %s)", d.TaskID)
		}
		if len(d.Changed) > 0 {
			line += " Felder: " + joinFields(d.Changed)
		}
		if len(d.Tracked) > 0 {
			line += " Abweichend: " + strings.Join(d.Tracked, ", ")
		}
		if d.Reason != "" {
			line += " Grund: " + d.Reason
		}
		progress.Line(line)
	}
	progress.Done()
}

// dispatch führt die Operationen mit begrenzter Parallelität aus. Ein
// Fehler bricht die übrigen Operationen nicht ab.
func (s *Syncer) dispatch(ctx context.Context, progress *report.Progress, ops []Operation, counts report.Counts) report.Counts {
	var mu sync.Mutex
	counts.Created, counts.Updated = 0, 0

	var g errgroup.Group
	g.SetLimit(s.config.Concurrency)

	for _, op := range ops {
		g.Go(func() error {
			err := s.execute(ctx, progress, op)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				counts.Failed++
				progress.Line(fmt.Sprintf("⚠️  Fehler bei %s: %v", op.Assignment.Name(), err))
			case op.Kind == OpCreate:
				counts.Created++
			default:
				counts.Updated++
			}
			return nil
		})
	}
	_ = g.Wait()

	return counts
}

func (s *Syncer) execute(ctx context.Context, progress *report.Progress, op Operation) error {
	switch op.Kind {
	case OpCreate:
		created, err := s.clickup.CreateTask(ctx, *op.Create)
		if err != nil {
			return fmt.Errorf("task-Erstellung fehlgeschlagen: %w", err)
		}
		progress.Line(fmt.Sprintf("✅ Task erstellt: %s (ID: %s)", op.Assignment.Name(), created.ID))
	case OpUpdate:
		if err := s.clickup.UpdateTask(ctx, op.TaskID, *op.Update); err != nil {
			return fmt.Errorf("task-Update fehlgeschlagen: %w", err)
		}
		progress.Line(fmt.Sprintf("🔄 Task aktualisiert: %s (%s)", op.Assignment.Name(), strings.Join(op.Update.Keys(), ", ")))
	default:
		return fmt.Errorf("unbekannte Operation %q", op.Kind)
	}
	return nil
}

// buildPlan ordnet Operationen ihren Entscheidungen zu. Reconcile erzeugt
// Operationen in derselben Reihenfolge wie die Created/Updated-Entscheidungen.
func buildPlan(result *Result, counts report.Counts) report.Plan {
	plan := report.Plan{Counts: counts}
	next := 0

	for _, d := range result.Decisions {
		entry := report.PlanEntry{
			Action:     string(d.Classification),
			Assignment: d.Assignment.Name(),
			Course:     d.Assignment.CourseName(),
			URL:        d.Assignment.URL(),
			TaskID:     d.TaskID,
			Fields:     fieldNames(d.Changed),
			Tracked:    d.Tracked,
			Reason:     d.Reason,
		}

		if d.Classification == Created || d.Classification == Updated {
			op := result.Operations[next]
			next++
			if op.Create != nil {
				entry.Payload = op.Create.Payload()
			} else {
				entry.Payload = op.Update.Payload()
			}
		}
		plan.Entries = append(plan.Entries, entry)
	}
	return plan
}

func fieldNames(fields []config.Field) []string {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, string(f))
	}
	return names
}

func joinFields(fields []config.Field) string {
	return strings.Join(fieldNames(fields), ", ")
}
