package clickup

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hufschlaeger.net/canvas-clickup-sync/pkg/utils"
)

const (
	FieldCanvasLink = "Canvas Link"
	FieldClass      = "Class"
	FieldGrade      = "Grade"

	TagIgnored = "ignored"
)

var (
	ErrFieldNotFound    = errors.New("custom field not found")
	ErrOptionOutOfRange = errors.New("dropdown value has no matching option")
)

// CustomField ist ein normalisierter Custom-Field-Wert eines Tasks
type CustomField struct {
	ID      string
	Name    string
	Type    string
	Value   any
	Options []DropdownOption
}

// Task ist die normalisierte, unveränderliche Sicht auf einen TaskNode
type Task struct {
	id           string
	name         string
	description  string
	status       string
	dueAt        *time.Time
	startAt      *time.Time
	customFields []CustomField
	tags         []string
}

func NewTask(node TaskNode) Task {
	fields := make([]CustomField, 0, len(node.CustomFields))
	for _, f := range node.CustomFields {
		fields = append(fields, CustomField{
			ID:      f.ID,
			Name:    f.Name,
			Type:    f.Type,
			Value:   f.Value,
			Options: append([]DropdownOption(nil), f.TypeConfig.Options...),
		})
	}

	tags := make([]string, 0, len(node.Tags))
	for _, tag := range node.Tags {
		tags = append(tags, tag.Name)
	}

	return Task{
		id:           node.ID,
		name:         node.Name,
		description:  strings.TrimSpace(node.Description),
		status:       node.Status.Status,
		dueAt:        millisToTime(node.DueDate),
		startAt:      millisToTime(node.StartDate),
		customFields: fields,
		tags:         tags,
	}
}

func (t Task) ID() string          { return t.id }
func (t Task) Name() string        { return t.name }
func (t Task) Description() string { return t.description }
func (t Task) Status() string      { return t.status }

func (t Task) DueDate() *time.Time   { return copyTime(t.dueAt) }
func (t Task) StartDate() *time.Time { return copyTime(t.startAt) }

// Ignored ist true, wenn der Task den Tag "ignored" trägt (Groß/Klein egal)
func (t Task) Ignored() bool {
	for _, tag := range t.tags {
		if strings.EqualFold(tag, TagIgnored) {
			return true
		}
	}
	return false
}

// CanvasLink liefert den Wert des "Canvas Link" Feldes.
// Fehlt das Feld oder ist es leer, kommt ErrFieldNotFound.
func (t Task) CanvasLink() (string, error) {
	field, ok := t.field(FieldCanvasLink)
	if !ok {
		return "", fmt.Errorf("task %s: %w: %q", t.id, ErrFieldNotFound, FieldCanvasLink)
	}

	link, ok := field.Value.(string)
	if !ok || link == "" {
		return "", fmt.Errorf("task %s: %w: %q has no value", t.id, ErrFieldNotFound, FieldCanvasLink)
	}
	return link, nil
}

// ClassName löst den Dropdown-Wert des "Class" Feldes über die am Feld
// hängenden Optionen auf. Ein gesetztes, aber leeres Feld liefert "".
func (t Task) ClassName() (string, error) {
	field, ok := t.field(FieldClass)
	if !ok {
		return "", fmt.Errorf("task %s: %w: %q", t.id, ErrFieldNotFound, FieldClass)
	}
	if field.Value == nil {
		return "", nil
	}

	index, err := toInt(field.Value)
	if err != nil {
		return "", fmt.Errorf("task %s: %w: %v", t.id, ErrOptionOutOfRange, field.Value)
	}

	for _, option := range field.Options {
		if option.OrderIndex == index {
			return option.Name, nil
		}
	}
	return "", fmt.Errorf("task %s: %w: %q = %d", t.id, ErrOptionOutOfRange, FieldClass, index)
}

// Grade liefert den Wert des "Grade" Feldes, falls gesetzt
func (t Task) Grade() (string, bool) {
	field, ok := t.field(FieldGrade)
	if !ok || field.Value == nil {
		return "", false
	}
	switch v := field.Value.(type) {
	case string:
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return fmt.Sprint(v), true
	}
}

func (t Task) field(name string) (CustomField, bool) {
	for _, f := range t.customFields {
		if f.Name == name {
			return f, true
		}
	}
	return CustomField{}, false
}

func toInt(value any) (int, error) {
	switch v := value.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("kein ganzzahliger Index: %v", v)
		}
		return int(v), nil
	case int:
		return v, nil
	case json.Number:
		i, err := v.Int64()
		return int(i), err
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("unerwarteter Typ %T", value)
	}
}

func millisToTime(m Millis) *time.Time {
	if !m.Valid {
		return nil
	}
	t := utils.MillisToTime(m.Value)
	return &t
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
