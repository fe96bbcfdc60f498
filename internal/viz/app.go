package viz

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/gridview/internal/config"
	"github.com/san-kum/gridview/internal/loader"
	"github.com/san-kum/gridview/internal/metrics"
	"github.com/san-kum/gridview/internal/playback"
	"github.com/san-kum/gridview/internal/raster"
	"github.com/san-kum/gridview/internal/theme"
	"github.com/san-kum/gridview/internal/viewer"
)

const (
	stateMenu = iota
	stateView
)

// brailleThreshold is the side length above which surfaces are drawn with
// braille dots instead of two-column glyphs.
const brailleThreshold = 32

// frameBuffer bounds the snapshots queued between the controller and the
// program loop. When full the oldest snapshot is dropped.
const frameBuffer = 16

type frameMsg playback.Snapshot

// Options configures the interactive app.
type Options struct {
	Delay     time.Duration
	Side      int
	Theme     string
	Raster    raster.Options
	Scheduler playback.Scheduler
	Logger    *slog.Logger
	// Select opens this test straight away instead of the menu.
	Select string
	// OutDir receives recorded GIFs.
	OutDir string
}

// OptionsFromConfig maps a loaded configuration onto app options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Delay:  cfg.Delay,
		Side:   cfg.SideLength,
		Theme:  cfg.Theme,
		Raster: raster.FromConfig(cfg),
		OutDir: ".",
	}
}

type model struct {
	state, cursor int
	names         []string
	viewer        *viewer.Viewer
	ctrl          *playback.Controller
	snap          playback.Snapshot
	summary       metrics.Summary
	frames        chan playback.Snapshot
	side          int
	theme         theme.Theme
	raster        raster.Options
	delay         time.Duration
	outDir        string
	status        string
	showHelp      bool
	width, height int
}

func newModel(lib *loader.Library, o Options) model {
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Scheduler == nil {
		o.Scheduler = playback.WallClock
	}
	if o.Side <= 0 {
		o.Side = config.DefaultSideLength
	}
	if o.Delay <= 0 {
		o.Delay = playback.DefaultDelay
	}
	if o.Raster.UnitSize <= 0 {
		o.Raster = raster.DefaultOptions()
	}
	if o.OutDir == "" {
		o.OutDir = "."
	}

	ch := make(chan playback.Snapshot, frameBuffer)
	m := model{
		state:  stateMenu,
		names:  lib.Names(),
		frames: ch,
		side:   o.Side,
		theme:  theme.Get(o.Theme),
		raster: o.Raster,
		delay:  o.Delay,
		outDir: o.OutDir,
		width:  80,
		height: 24,
	}
	m.viewer = viewer.New(lib,
		viewer.WithDelay(o.Delay),
		viewer.WithScheduler(o.Scheduler),
		viewer.WithLogger(o.Logger),
		viewer.WithDrawFunc(func(s playback.Snapshot) { publish(ch, s) }),
	)
	if o.Select != "" {
		for i, name := range m.names {
			if name == o.Select {
				m.cursor = i
			}
		}
		m.open(o.Select)
	}
	return m
}

// publish never blocks the controller: a full buffer loses its oldest
// snapshot.
func publish(ch chan playback.Snapshot, s playback.Snapshot) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func waitForFrame(ch <-chan playback.Snapshot) tea.Cmd {
	return func() tea.Msg { return frameMsg(<-ch) }
}

func (m model) Init() tea.Cmd { return waitForFrame(m.frames) }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case frameMsg:
		// Snapshots queued by a controller that has since been replaced
		// are dropped.
		if m.ctrl != nil && msg.Test == m.ctrl.Test() && !m.ctrl.Closed() {
			m.snap = playback.Snapshot(msg)
		}
		return m, waitForFrame(m.frames)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateView:
		return m.viewKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.viewer.Close()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.names) > 0 {
			m.open(m.names[m.cursor])
		}
	case "t":
		m.theme = theme.Next(m.theme)
	}
	return m, nil
}

func (m model) viewKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.viewer.Close()
		return m, tea.Quit
	case "esc":
		m.viewer.Close()
		m.ctrl = nil
		m.snap = playback.Snapshot{}
		m.state = stateMenu
		m.showHelp = false
	case "p":
		m.ctrl.Play()
	case " ":
		m.ctrl.Toggle()
	case "right", "l":
		m.ctrl.Step()
	case "left", "h":
		m.ctrl.Back()
	case "g":
		m.ctrl.Seek(0)
	case "G":
		m.ctrl.Seek(m.ctrl.Len() - 1)
	case "t":
		m.theme = theme.Next(m.theme)
	case "r":
		m.record()
	case "?":
		m.showHelp = !m.showHelp
	}
	// The draw callback already queued the new snapshot; reading it back
	// here keeps the view current without waiting a program loop.
	if m.ctrl != nil {
		m.snap = m.ctrl.Snapshot()
	}
	return m, nil
}

func (m *model) open(name string) {
	ctrl, err := m.viewer.Select(name)
	if err != nil {
		m.ctrl = nil
		m.status = err.Error()
		return
	}
	m.ctrl = ctrl
	m.snap = ctrl.Snapshot()
	m.summary = metrics.Compare(ctrl.Pair())
	m.state = stateView
	m.status = ""
}

func (m *model) record() {
	path := filepath.Join(m.outDir, m.ctrl.Test()+".gif")
	f, err := os.Create(path)
	if err != nil {
		m.status = err.Error()
		return
	}
	defer f.Close()
	if err := raster.EncodeGIF(f, m.ctrl.Pair(), m.raster, m.delay); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("saved %s", path)
}

// Run starts the interactive viewer over lib.
func Run(lib *loader.Library, o Options) error {
	m := newModel(lib, o)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	m.viewer.Close()
	return err
}
