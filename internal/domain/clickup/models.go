package clickup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Millis ist ein ClickUp Zeitstempel in Millisekunden. ClickUp liefert ihn
// als String, manche Endpunkte als Zahl, fehlende Werte als null.
type Millis struct {
	Value int64
	Valid bool
}

func (m *Millis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Millis{}
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if raw == "" {
			*m = Millis{}
			return nil
		}
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("ungültiger Zeitstempel %s: %w", string(data), err)
	}
	*m = Millis{Value: value, Valid: true}
	return nil
}

func (m Millis) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(strconv.FormatInt(m.Value, 10))
}

type TaskStatus struct {
	Status string `json:"status"`
}

type Tag struct {
	Name string `json:"name"`
}

type DropdownOption struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	OrderIndex int    `json:"orderindex"`
}

type TypeConfig struct {
	Options []DropdownOption `json:"options,omitempty"`
}

// CustomFieldNode ist ein Custom Field wie es an einem Task hängt
type CustomFieldNode struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	TypeConfig TypeConfig `json:"type_config"`
	Value      any        `json:"value,omitempty"`
}

type TaskNode struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Status       TaskStatus        `json:"status"`
	DueDate      Millis            `json:"due_date"`
	StartDate    Millis            `json:"start_date"`
	CustomFields []CustomFieldNode `json:"custom_fields"`
	Tags         []Tag             `json:"tags"`
	URL          string            `json:"url,omitempty"`
}

type TasksResponse struct {
	Tasks    []TaskNode `json:"tasks"`
	LastPage bool       `json:"last_page"`
}

// FieldDefinition stammt aus dem Feld-Schema der Liste, unabhängig von Tasks
type FieldDefinition struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	TypeConfig TypeConfig `json:"type_config"`
}

func (f FieldDefinition) Options() []DropdownOption {
	return f.TypeConfig.Options
}

type FieldsResponse struct {
	Fields []FieldDefinition `json:"fields"`
}

// CreatedTask ist die relevante Teilmenge der Antwort auf POST /list/{id}/task
type CreatedTask struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}
