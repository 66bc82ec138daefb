package service

import (
	"errors"
	"fmt"
	"strings"
)

// IntegrityError: ein Task in ClickUp hat inkonsistente Daten (fehlender
// Canvas Link, Dropdown-Wert ohne Option). Der Lauf wird abgebrochen.
type IntegrityError struct {
	TaskID string
	Err    error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("dateninkonsistenz in Task %s: %v", e.TaskID, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// MissingOptionError: für das Kurs-Label gibt es keine Dropdown-Option
type MissingOptionError struct {
	Assignment string
	Field      string
	Option     string
}

func (e *MissingOptionError) Error() string {
	return fmt.Sprintf("option %q fehlt im Dropdown %q (Assignment %q): "+
		"lege die Option in ClickUp manuell an oder aktiviere "+
		"options.sync_submissionless_assignments", e.Option, e.Field, e.Assignment)
}

// ConfigError: dem Feld-Schema der Liste fehlt ein benötigtes Custom Field
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("custom field %q fehlt in der ClickUp Liste", e.Field)
}

// DuplicateLinkError tritt nur im Strict-Modus auf
type DuplicateLinkError struct {
	Link    string
	TaskIDs []string
}

func (e *DuplicateLinkError) Error() string {
	return fmt.Sprintf("canvas link %s ist mehreren Tasks zugeordnet: %s",
		e.Link, strings.Join(e.TaskIDs, ", "))
}

// IsFatal reports whether err (or any error in its chain) must halt the whole run.
func IsFatal(err error) bool {
	var integrity *IntegrityError
	var missing *MissingOptionError
	var cfg *ConfigError
	var dup *DuplicateLinkError
	return errors.As(err, &integrity) || errors.As(err, &missing) ||
		errors.As(err, &cfg) || errors.As(err, &dup)
}
