package utils

import (
	"fmt"
	"time"
)

// Mögliche Canvas Formate
var isoFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseISOTime parst einen Canvas ISO-8601 Zeitstempel
func ParseISOTime(value string) (time.Time, error) {
	for _, format := range isoFormats {
		if parsed, err := time.Parse(format, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unbekanntes Datumsformat: %q", value)
}

// MillisToTime konvertiert ClickUp Millisekunden-Epoch zu time.Time (UTC)
func MillisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// SameInstant vergleicht zwei optionale Zeitpunkte auf Millisekunden-Ebene.
// Zwei fehlende Zeitpunkte sind gleich, ein fehlender und ein gesetzter nicht.
func SameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.UnixMilli() == b.UnixMilli()
}

// FormatDateForDisplay formatiert Datum für schöne Anzeige
func FormatDateForDisplay(t *time.Time) string {
	if t == nil {
		return "Kein Datum"
	}
	return t.Local().Format("02.01.2006 15:04")
}
