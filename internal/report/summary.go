package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
)

type Counts struct {
	Created   int `yaml:"created"`
	Updated   int `yaml:"updated"`
	Skipped   int `yaml:"skipped"`
	Unchanged int `yaml:"unchanged"`
	Failed    int `yaml:"failed,omitempty"`
}

// PrintSummary gibt die Abschlussstatistik aus. Farben nur, wenn out ein
// Terminal ist.
func PrintSummary(out io.Writer, counts Counts, dryRun bool) {
	renderer := lipgloss.NewRenderer(out)
	bold := renderer.NewStyle().Bold(true)
	line := func(color lipgloss.AdaptiveColor, icon, label string, n int) {
		value := renderer.NewStyle().Foreground(color).Render(fmt.Sprintf("%d", n))
		_, _ = fmt.Fprintf(out, "  %s  %s: %s\n", icon, label, value)
	}

	title := "🎉 Synchronisation abgeschlossen:"
	if dryRun {
		title = "📝 Dry Run abgeschlossen (nichts geschrieben):"
	}
	_, _ = fmt.Fprintf(out, "\n%s\n", bold.Render(title))

	line(colorGreen, "✅", "Erstellt", counts.Created)
	line(colorBlue, "🔄", "Aktualisiert", counts.Updated)
	line(colorYellow, "⏭️", "Übersprungen", counts.Skipped)
	line(colorGray, "💤", "Unverändert", counts.Unchanged)
	if counts.Failed > 0 {
		line(colorRed, "❌", "Fehlgeschlagen", counts.Failed)
	}
}
