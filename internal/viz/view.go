package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gridview/internal/frames"
	"github.com/san-kum/gridview/internal/raster"
	"github.com/san-kum/gridview/internal/theme"
)

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateView:
		return m.viewFrames()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder
	h := fg(m.theme.Title).Bold(true)
	b.WriteString("\n\n    " + h.Render("GRIDVIEW") + "\n    " + Subtle.Render("frame sequence viewer") + "\n    " + Subtle.Render("─────────────────────────") + "\n\n")

	if len(m.names) == 0 {
		b.WriteString("    " + dim.Render("no tests in manifest") + "\n")
	}
	lib := m.viewer.Library()
	faded := fg(theme.Mix(m.theme.Label, m.theme.Surface, 0.55))
	for i, name := range m.names {
		desc := "broken"
		if pair, err := lib.Get(name); err == nil {
			desc = fmt.Sprintf("%d frames", pair.Len())
			if pair.Mismatched() {
				desc += " (uneven)"
			}
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				fg(m.theme.Marker).Bold(true).Render("▸"),
				fg(m.theme.Title).Bold(true).Render(fmt.Sprintf("%-20s", name)),
				fg(m.theme.Label).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n",
				faded.Render(fmt.Sprintf("  %-20s", name)),
				faded.Render(desc)))
		}
	}
	if m.status != "" {
		b.WriteString("\n    " + fg(m.theme.Miss).Render(m.status) + "\n")
	}
	b.WriteString("\n    " + KeyHelp("j/k", "navigate", "enter", "select", "t", "theme", "q", "quit") + "\n")
	return b.String()
}

func (m model) viewFrames() string {
	var b strings.Builder
	s := m.snap

	b.WriteString("\n")
	icon := StatusPaused.Render("○")
	if s.Playing {
		icon = StatusRunning.Render("●")
	}
	title := fg(m.theme.Title).Bold(true).Render(strings.ToUpper(s.Test))
	b.WriteString(fmt.Sprintf("   %s %s  %s\n\n", icon, title, dim.Render(m.theme.Name)))

	if s.Len == 0 {
		b.WriteString("   " + yellow.Render("no playable frames") + "\n\n")
	} else {
		left := m.panel("actual", m.surface(s.Actual, nil))
		right := m.panel("predicted", m.surface(s.Predicted, s.Actual))
		b.WriteString(indent(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right), "   ") + "\n")

		counter := fg(m.theme.Marker).Render(fmt.Sprintf("%d", s.Index)) + dim.Render(fmt.Sprintf(" / %d", s.Len))
		b.WriteString(fmt.Sprintf("   %s  %s\n", ProgressBar(s.Index, s.Len, 40), counter))

		if s.Index < len(m.summary.PerFrame) {
			fs := m.summary.PerFrame[s.Index]
			acc := fg(m.theme.Hit)
			if fs.Mismatch > 0 {
				acc = fg(m.theme.Miss)
			}
			b.WriteString(fmt.Sprintf("   %s %s  %s %s  %s %s\n",
				dim.Render("on"), white.Render(fmt.Sprintf("%d/%d", fs.Actual, fs.Predicted)),
				dim.Render("diff"), acc.Render(fmt.Sprintf("%d", fs.Mismatch)),
				dim.Render("acc"), acc.Render(fmt.Sprintf("%.1f%%", fs.Accuracy*100))))
		}
		b.WriteString("   " + SparklineChart(m.summary.AccuracySeries(), 40) + "  " +
			dim.Render(fmt.Sprintf("exact %d/%d", m.summary.Exact, m.summary.Frames)) + "\n")
	}

	if m.status != "" {
		b.WriteString("\n   " + dim.Render(m.status) + "\n")
	}
	if m.showHelp {
		b.WriteString("\n" + indent(helpBox(), "   ") + "\n")
	}
	b.WriteString("\n   " + KeyHelp("p", "play", "space", "pause", "h/l", "step", "g/G", "ends", "r", "gif", "esc", "back", "?", "help") + "\n")
	return b.String()
}

func (m model) panel(name string, lines []string) string {
	body := PanelTitle.Foreground(lipgloss.Color(m.theme.Title)).Render(name) + "\n" + strings.Join(lines, "\n")
	return PanelStyle.BorderForeground(lipgloss.Color(m.theme.Border())).Render(body)
}

// glyphLost marks a cell lit in the reference but dark in f.
const glyphLost = "░░"

func fg(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// surface renders f on a side x side grid. With a reference frame each
// cell is coloured by how it compares: hit, miss, lost or off.
func (m model) surface(f, ref frames.Frame) []string {
	if m.side > brailleThreshold {
		return raster.Braille(f, m.side).Lines()
	}
	on := fg(m.theme.On)
	off := fg(m.theme.Off())

	if ref == nil {
		return raster.Text(f, m.side, func(_ float64, lit bool) string {
			if lit {
				return on.Render(raster.GlyphOn)
			}
			return off.Render(raster.GlyphOff)
		})
	}

	hit := fg(m.theme.Hit)
	miss := fg(m.theme.Miss)
	lost := fg(m.theme.Lost)
	lines := make([]string, m.side)
	var b strings.Builder
	for y := 0; y < m.side; y++ {
		b.Reset()
		for x := 0; x < m.side; x++ {
			lit, want := frames.On(f.At(x, y)), frames.On(ref.At(x, y))
			switch {
			case lit && want:
				b.WriteString(hit.Render(raster.GlyphOn))
			case lit:
				b.WriteString(miss.Render(raster.GlyphOn))
			case want:
				b.WriteString(lost.Render(glyphLost))
			default:
				b.WriteString(off.Render(raster.GlyphOff))
			}
		}
		lines[y] = b.String()
	}
	return lines
}

func helpBox() string {
	return `╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  p        - Play from frame 0        ║
║  Space    - Play/Pause               ║
║  l/→      - Next frame (wraps)       ║
║  h/←      - Previous frame (wraps)   ║
║  g/G      - First/last frame         ║
║  t        - Cycle themes             ║
║  r        - Save GIF of this test    ║
║  Esc      - Back to test list        ║
║  q        - Quit                     ║
╚══════════════════════════════════════╝`
}

func indent(s, pad string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
