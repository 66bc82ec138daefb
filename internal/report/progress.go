package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
)

// Progress schreibt Fortschrittsmeldungen. Auf einem Terminal überschreiben
// sich Zwischenstände per "\r", sonst wird jede Meldung eine eigene Zeile.
type Progress struct {
	mu        sync.Mutex
	out       io.Writer
	width     int
	overwrite bool
	dirty     bool
}

type fdWriter interface {
	Fd() uintptr
}

func NewProgress(out io.Writer) *Progress {
	p := &Progress{out: out}
	if f, ok := out.(fdWriter); ok && term.IsTerminal(f.Fd()) {
		if width, _, err := term.GetSize(f.Fd()); err == nil {
			p.width = width
		}
		p.overwrite = true
	}
	return p
}

// Stage meldet einen Zwischenstand der Form "[step/total] message"
func (p *Progress) Stage(step, total int, message string) {
	p.Transient(fmt.Sprintf("[%d/%d] %s", step, total, message))
}

// Transient wird von der nächsten Meldung überschrieben
func (p *Progress) Transient(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.overwrite {
		_, _ = fmt.Fprintln(p.out, message)
		return
	}
	_, _ = fmt.Fprint(p.out, "\r"+p.fit(message))
	p.dirty = true
}

// Line schreibt eine bleibende Zeile
func (p *Progress) Line(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dirty {
		_, _ = fmt.Fprint(p.out, "\r"+p.fit(message)+"\n")
		p.dirty = false
		return
	}
	_, _ = fmt.Fprintln(p.out, message)
}

// Done schließt eine offene Zwischenzeile ab
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dirty {
		_, _ = fmt.Fprintln(p.out)
		p.dirty = false
	}
}

// fit kürzt auf Terminalbreite und füllt mit Leerzeichen auf, damit
// Reste einer längeren Vorgängerzeile verschwinden
func (p *Progress) fit(message string) string {
	if p.width <= 0 {
		return message
	}
	// Breite in Terminalzellen, nicht in Runen (Emoji, CJK)
	if lipgloss.Width(message) > p.width-1 {
		message = ansi.Truncate(message, p.width-1, "...")
	}
	if pad := p.width - 1 - lipgloss.Width(message); pad > 0 {
		message += strings.Repeat(" ", pad)
	}
	return message
}
