package clickup

import (
	"encoding/json"
	"time"
)

// DateValue ist ein Datumsfeld im Payload. At == nil wird als null gesendet.
type DateValue struct {
	At *time.Time
}

// TaskFields enthält nur die Felder, die tatsächlich gesendet werden sollen.
// nil bedeutet: Key fehlt im Payload.
type TaskFields struct {
	Name        *string
	Description *string
	Status      *string
	DueDate     *DateValue
	StartDate   *DateValue
}

func (f TaskFields) Empty() bool {
	return f.Name == nil && f.Description == nil && f.Status == nil &&
		f.DueDate == nil && f.StartDate == nil
}

// Keys liefert die Payload-Keys in fester Reihenfolge
func (f TaskFields) Keys() []string {
	var keys []string
	if f.Name != nil {
		keys = append(keys, "name")
	}
	if f.Description != nil {
		keys = append(keys, "description")
	}
	if f.Status != nil {
		keys = append(keys, "status")
	}
	if f.DueDate != nil {
		keys = append(keys, "due_date", "due_date_time")
	}
	if f.StartDate != nil {
		keys = append(keys, "start_date", "start_date_time")
	}
	return keys
}

// Payload baut die JSON-Map. *_date_time steht nur neben dem Datum und ist immer true.
func (f TaskFields) Payload() map[string]any {
	payload := make(map[string]any)
	if f.Name != nil {
		payload["name"] = *f.Name
	}
	if f.Description != nil {
		payload["description"] = *f.Description
	}
	if f.Status != nil {
		payload["status"] = *f.Status
	}
	if f.DueDate != nil {
		payload["due_date"] = f.DueDate.millis()
		payload["due_date_time"] = true
	}
	if f.StartDate != nil {
		payload["start_date"] = f.StartDate.millis()
		payload["start_date_time"] = true
	}
	return payload
}

func (d DateValue) millis() any {
	if d.At == nil {
		return nil
	}
	return d.At.UnixMilli()
}

// CustomFieldInput: Value ist string (Canvas Link) oder int (Dropdown orderindex)
type CustomFieldInput struct {
	ID    string `json:"id" yaml:"id"`
	Value any    `json:"value" yaml:"value"`
}

type CreateTaskRequest struct {
	TaskFields
	CustomFields []CustomFieldInput
}

func (r CreateTaskRequest) Payload() map[string]any {
	payload := r.TaskFields.Payload()
	if r.CustomFields != nil {
		payload["custom_fields"] = r.CustomFields
	}
	return payload
}

func (r CreateTaskRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Payload())
}

type UpdateTaskRequest struct {
	TaskFields
}

func (r UpdateTaskRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Payload())
}
