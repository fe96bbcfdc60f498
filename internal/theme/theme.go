// Package theme names the colours both viewers paint a comparison with.
// Each role is a #rrggbb string so lipgloss styles and CSS can take it as is.
package theme

import "github.com/lucasb-eyer/go-colorful"

type Theme struct {
	Name string

	Surface string // page and panel background
	Label   string // body text
	Title   string // headers and the selected test
	Marker  string // cursor, counter and key names

	On   string // lit cell of the actual frame
	Hit  string // predicted cell lit where actual is lit
	Miss string // predicted cell lit where actual is dark
	Lost string // actual cell the prediction left dark
}

var (
	Cyberpunk = Theme{
		Name:    "cyberpunk",
		Surface: "#0d0221",
		Label:   "#e0e0ff",
		Title:   "#00f0ff",
		Marker:  "#ff2a6d",
		On:      "#f9f871",
		Hit:     "#05ffa1",
		Miss:    "#ff2a6d",
		Lost:    "#7a04eb",
	}

	Retro = Theme{
		Name:    "retro",
		Surface: "#001100",
		Label:   "#33ff33",
		Title:   "#66ff66",
		Marker:  "#aaffaa",
		On:      "#33ff33",
		Hit:     "#ccffcc",
		Miss:    "#ffb000",
		Lost:    "#226622",
	}

	Minimal = Theme{
		Name:    "minimal",
		Surface: "#ffffff",
		Label:   "#222222",
		Title:   "#000000",
		Marker:  "#0066cc",
		On:      "#000000",
		Hit:     "#2e7d32",
		Miss:    "#c62828",
		Lost:    "#bdbdbd",
	}

	Ocean = Theme{
		Name:    "ocean",
		Surface: "#03203c",
		Label:   "#d6ecff",
		Title:   "#4fc3f7",
		Marker:  "#ffd54f",
		On:      "#81d4fa",
		Hit:     "#64ffda",
		Miss:    "#ff8a65",
		Lost:    "#305f86",
	}

	Sunset = Theme{
		Name:    "sunset",
		Surface: "#2d1b2e",
		Label:   "#fff5f5",
		Title:   "#feca57",
		Marker:  "#ff9ff3",
		On:      "#ff6b6b",
		Hit:     "#5fd068",
		Miss:    "#ff4757",
		Lost:    "#8b6b8c",
	}

	All = []Theme{Cyberpunk, Retro, Minimal, Ocean, Sunset}
)

// Get returns the named theme, or Cyberpunk.
func Get(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return Cyberpunk
}

// Next cycles through All.
func Next(t Theme) Theme {
	for i, th := range All {
		if th.Name == t.Name {
			return All[(i+1)%len(All)]
		}
	}
	return All[0]
}

func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// Off is the colour of a dark cell: the surface nudged a quarter of the
// way towards the label.
func (t Theme) Off() string {
	return Mix(t.Surface, t.Label, 0.25)
}

// Border frames panels and images.
func (t Theme) Border() string {
	return Mix(t.Surface, t.Label, 0.4)
}

// Mix blends two hex colours in RGB space. An unparsable colour is
// treated as black.
func Mix(a, b string, f float64) string {
	ca, _ := colorful.Hex(a)
	cb, _ := colorful.Hex(b)
	return ca.BlendRgb(cb, f).Clamped().Hex()
}
