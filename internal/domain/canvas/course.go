package canvas

import (
	"time"

	"hufschlaeger.net/canvas-clickup-sync/pkg/utils"
)

// Active prüft, ob der Kurs zum Zeitpunkt now läuft. Kurse ohne Term oder
// ohne Startdatum gelten als aktiv, ebenso ein offenes Ende.
func (c Course) Active(now time.Time) bool {
	if c.Term == nil || c.Term.StartAt == nil {
		return true
	}

	start, err := utils.ParseISOTime(*c.Term.StartAt)
	if err != nil || !start.Before(now) {
		return false
	}

	if c.Term.EndAt == nil {
		return true
	}

	end, err := utils.ParseISOTime(*c.Term.EndAt)
	if err != nil {
		return false
	}
	return end.After(now)
}
