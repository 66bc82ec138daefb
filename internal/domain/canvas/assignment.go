package canvas

import (
	"fmt"
	"strings"
	"time"

	"hufschlaeger.net/canvas-clickup-sync/pkg/utils"
)

// Status ist der aus den Submissions abgeleitete Bearbeitungsstand
type Status string

const (
	StatusGraded    Status = "Graded"
	StatusSubmitted Status = "Submitted"
	StatusToDo      Status = "To Do"
)

// Assignment ist die normalisierte, unveränderliche Sicht auf einen
// AssignmentNode. Alle Felder werden einmalig beim Erzeugen gelesen.
type Assignment struct {
	name              string
	description       string
	url               string
	courseName        string
	dueAt             *time.Time
	unlocksAt         *time.Time
	submissionTypes   []string
	expectsSubmission bool
	grades            []*string
}

// NewAssignment normalisiert einen GraphQL-Node des Kurses courseName
func NewAssignment(node AssignmentNode, courseName string) (Assignment, error) {
	dueAt, err := parseOptionalTime(node.DueAt)
	if err != nil {
		return Assignment{}, fmt.Errorf("assignment %q: dueAt: %w", node.Name, err)
	}

	unlocksAt, err := parseOptionalTime(node.UnlockAt)
	if err != nil {
		return Assignment{}, fmt.Errorf("assignment %q: unlockAt: %w", node.Name, err)
	}

	description := ""
	if node.Description != nil {
		description = utils.StripHTML(*node.Description)
	}

	grades := make([]*string, 0, len(node.SubmissionsConnection.Nodes))
	for _, submission := range node.SubmissionsConnection.Nodes {
		grades = append(grades, submission.Grade)
	}

	return Assignment{
		name:              node.Name,
		description:       description,
		url:               forceHTTPS(node.HTMLURL),
		courseName:        courseName,
		dueAt:             dueAt,
		unlocksAt:         unlocksAt,
		submissionTypes:   append([]string(nil), node.SubmissionTypes...),
		expectsSubmission: node.ExpectsSubmission,
		grades:            grades,
	}, nil
}

func (a Assignment) Name() string { return a.name }

// Description ist reiner Text, nie nil
func (a Assignment) Description() string { return a.description }

// URL ist immer https
func (a Assignment) URL() string { return a.url }

func (a Assignment) CourseName() string { return a.courseName }

func (a Assignment) DueDate() *time.Time { return copyTime(a.dueAt) }

// UnlocksAt ist gesetzt, wenn das Assignment erst ab einem Zeitpunkt freigeschaltet wird
func (a Assignment) UnlocksAt() *time.Time { return copyTime(a.unlocksAt) }

func (a Assignment) SubmissionTypes() []string {
	return append([]string(nil), a.submissionTypes...)
}

func (a Assignment) ExpectsSubmission() bool { return a.expectsSubmission }

func (a Assignment) Submitted() bool { return len(a.grades) > 0 }

// Graded: es gibt eine Submission und deren Note ist gesetzt
func (a Assignment) Graded() bool {
	return a.Submitted() && a.grades[0] != nil
}

// Grade liefert die Note der ersten Submission
func (a Assignment) Grade() (string, bool) {
	if !a.Graded() {
		return "", false
	}
	return *a.grades[0], true
}

// Status: Graded > Submitted > To Do
func (a Assignment) Status() Status {
	switch {
	case a.Graded():
		return StatusGraded
	case a.Submitted():
		return StatusSubmitted
	default:
		return StatusToDo
	}
}

func forceHTTPS(url string) string {
	if strings.HasPrefix(url, "http://") {
		return "https://" + strings.TrimPrefix(url, "http://")
	}
	return url
}

func parseOptionalTime(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := utils.ParseISOTime(*value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
