package service

import (
	"hufschlaeger.net/canvas-clickup-sync/internal/domain/canvas"
	"hufschlaeger.net/canvas-clickup-sync/internal/domain/clickup"
)

const (
	testCourse     = "BIO 101"
	linkFieldID    = "cf-link"
	classFieldID   = "cf-class"
	gradeFieldID   = "cf-grade"
	biologyIndex   = 3
	chemistryIndex = 4
)

func strPtr(s string) *string { return &s }

var classOptions = []clickup.DropdownOption{
	{ID: "opt-bio", Name: testCourse, OrderIndex: biologyIndex},
	{ID: "opt-chem", Name: "CHEM 200", OrderIndex: chemistryIndex},
}

func schema() *clickup.FieldCatalog {
	return clickup.NewFieldCatalog([]clickup.FieldDefinition{
		{ID: linkFieldID, Name: clickup.FieldCanvasLink, Type: "url"},
		{ID: classFieldID, Name: clickup.FieldClass, Type: "drop_down",
			TypeConfig: clickup.TypeConfig{Options: classOptions}},
		{ID: gradeFieldID, Name: clickup.FieldGrade, Type: "short_text"},
	})
}

// node baut einen Assignment-Node, der eine Abgabe erwartet
func node(name, url string) canvas.AssignmentNode {
	return canvas.AssignmentNode{
		Name:              name,
		HTMLURL:           url,
		ExpectsSubmission: true,
		SubmissionTypes:   []string{"online_upload"},
	}
}

type fatalHelper interface {
	Helper()
	Fatalf(format string, args ...any)
}

func mustAssignment(t fatalHelper, n canvas.AssignmentNode, course string) canvas.Assignment {
	t.Helper()
	a, err := canvas.NewAssignment(n, course)
	if err != nil {
		t.Fatalf("NewAssignment(%q): %v", n.Name, err)
	}
	return a
}

func linkValue(url string) clickup.CustomFieldNode {
	return clickup.CustomFieldNode{ID: linkFieldID, Name: clickup.FieldCanvasLink, Type: "url", Value: url}
}

func classValue(value any) clickup.CustomFieldNode {
	return clickup.CustomFieldNode{
		ID:         classFieldID,
		Name:       clickup.FieldClass,
		Type:       "drop_down",
		TypeConfig: clickup.TypeConfig{Options: classOptions},
		Value:      value,
	}
}

// taskNode liefert einen Task, der bereits exakt zum Assignment node(name, url) passt
func taskNode(id, name, url string) clickup.TaskNode {
	return clickup.TaskNode{
		ID:     id,
		Name:   name,
		Status: clickup.TaskStatus{Status: "to do"},
		CustomFields: []clickup.CustomFieldNode{
			linkValue(url),
			classValue(float64(biologyIndex)),
		},
	}
}
