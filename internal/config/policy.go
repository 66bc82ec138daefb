package config

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"

	"github.com/spf13/viper"
)

// Field ist ein synchronisierbares Task-Feld
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldDueAt       Field = "due_at"
	FieldStartAt     Field = "start_at"
	FieldStatus      Field = "status"
	FieldCourseName  Field = "course_name"
)

var Fields = []Field{FieldName, FieldDescription, FieldDueAt, FieldStartAt, FieldStatus, FieldCourseName}

type FieldPolicy struct {
	Enabled   bool
	Overwrite bool
}

// CourseLabelRule bildet Canvas-Kursnamen auf Dropdown-Labels ab. Course
// matcht exakt, Pattern ist eine Regex deren Treffer durch Label ersetzt wird.
type CourseLabelRule struct {
	Course  string `mapstructure:"course"`
	Pattern string `mapstructure:"pattern"`
	Label   string `mapstructure:"label"`

	re *regexp.Regexp
}

// SyncPolicy entscheidet pro Feld über Create und Update. Fehlende
// Einträge gelten als erlaubt: eine leere Policy synchronisiert alles.
type SyncPolicy struct {
	Create             map[Field]bool
	Sync               map[Field]FieldPolicy
	SyncSubmissionless bool
	StrictLinks        bool
	SkipIgnored        bool
	CourseLabels       []CourseLabelRule
}

func DefaultPolicy() SyncPolicy {
	return SyncPolicy{
		Create:             map[Field]bool{},
		Sync:               map[Field]FieldPolicy{},
		SyncSubmissionless: true,
	}
}

func (p SyncPolicy) CreateEnabled(field Field) bool {
	enabled, ok := p.Create[field]
	return !ok || enabled
}

func (p SyncPolicy) SyncEnabled(field Field) bool {
	fp, ok := p.Sync[field]
	return !ok || fp.Enabled
}

func (p SyncPolicy) Overwrite(field Field) bool {
	fp, ok := p.Sync[field]
	return !ok || fp.Overwrite
}

// CourseLabel wendet die erste passende Regel an, sonst Identität
func (p SyncPolicy) CourseLabel(course string) string {
	for _, rule := range p.CourseLabels {
		if rule.Course != "" && rule.Course == course {
			return rule.Label
		}
		if rule.re != nil && rule.re.MatchString(course) {
			return rule.re.ReplaceAllString(course, rule.Label)
		}
	}
	return course
}

// LoadPolicy liest die Sync-Policy (YAML) mit Viper. Existiert die Datei
// nicht, gilt die Default-Policy.
func LoadPolicy(path string) (SyncPolicy, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	for _, field := range Fields {
		v.SetDefault(fmt.Sprintf("create.%s.enabled", field), true)
		v.SetDefault(fmt.Sprintf("sync.%s.enabled", field), true)
		v.SetDefault(fmt.Sprintf("sync.%s.overwrite", field), true)
	}
	v.SetDefault("options.sync_submissionless_assignments", true)
	v.SetDefault("options.strict_links", false)
	v.SetDefault("options.skip_ignored", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isNotExist(err) {
			return SyncPolicy{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	policy := DefaultPolicy()
	for _, field := range Fields {
		policy.Create[field] = v.GetBool(fmt.Sprintf("create.%s.enabled", field))
		policy.Sync[field] = FieldPolicy{
			Enabled:   v.GetBool(fmt.Sprintf("sync.%s.enabled", field)),
			Overwrite: v.GetBool(fmt.Sprintf("sync.%s.overwrite", field)),
		}
	}
	policy.SyncSubmissionless = v.GetBool("options.sync_submissionless_assignments")
	policy.StrictLinks = v.GetBool("options.strict_links")
	policy.SkipIgnored = v.GetBool("options.skip_ignored")

	var rules []CourseLabelRule
	if err := v.UnmarshalKey("course_labels", &rules); err != nil {
		return SyncPolicy{}, fmt.Errorf("parsing course_labels: %w", err)
	}
	for i := range rules {
		if rules[i].Pattern == "" {
			continue
		}
		re, err := regexp.Compile(rules[i].Pattern)
		if err != nil {
			return SyncPolicy{}, fmt.Errorf("course_labels[%d]: invalid pattern: %w", i, err)
		}
		rules[i].re = re
	}
	policy.CourseLabels = rules

	return policy, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
