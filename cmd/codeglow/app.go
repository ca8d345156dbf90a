package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/codeglow/internal/config"
	"github.com/dshills/codeglow/internal/extension"
	"github.com/dshills/codeglow/internal/highlight"
	"github.com/dshills/codeglow/internal/template"
	"github.com/dshills/codeglow/internal/widget"
)

// errQuit signals a normal user-requested exit.
var errQuit = errors.New("quit")

type demo struct {
	log    zerolog.Logger
	screen tcell.Screen
	widget *widget.Widget
	lua    *extension.LuaExtension

	mu    sync.Mutex
	theme *highlight.Theme

	interval time.Duration
	reloads  chan config.Config
	watcher  *config.Watcher
}

func newDemo(cfg config.Config, opts options, log zerolog.Logger) (*demo, error) {
	theme := themeByName(cfg.Theme)

	d := &demo{
		log:      log,
		theme:    theme,
		interval: cfg.Interval(),
		reloads:  make(chan config.Config, 1),
	}

	reg := template.NewRegistry()
	var exts []extension.Extension
	if opts.extScript != "" {
		name := strings.TrimSuffix(filepath.Base(opts.extScript), ".lua")
		lua, err := extension.LoadLuaFile(name, opts.extScript)
		if err != nil {
			return nil, fmt.Errorf("loading extension script: %w", err)
		}
		d.lua = lua
		exts = append(exts, lua)
	}
	preset, err := template.NewPreset(nil, template.WithPresetExtensions(exts...))
	if err != nil {
		return nil, err
	}
	if err := reg.Register("preset", preset); err != nil {
		return nil, err
	}

	host := etree.NewElement("code-glow")
	language := cfg.Language
	value := ""
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
		value = string(data)
		if lang := languageForFile(opts.file); lang != "" && opts.language == "" {
			language = lang
		}
	}
	if language != "" {
		host.CreateAttr("language", language)
	}
	if value != "" {
		host.CreateAttr("value", value)
	}
	if cfg.Template != "" {
		host.CreateAttr("template", cfg.Template)
	}

	w, err := widget.New(host,
		widget.WithRegistry(reg),
		widget.WithTheme(theme),
		widget.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	w.Attach()
	w.Focus()
	d.widget = w

	if watcher, err := config.Watch(opts.configPath, d.onReload); err == nil {
		d.watcher = watcher
	} else {
		log.Warn().Err(err).Msg("config watcher unavailable")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	screen.SetStyle(styleFor(theme, highlight.Style{Foreground: theme.Foreground}))
	d.screen = screen
	return d, nil
}

func (d *demo) shutdown() {
	if d.screen != nil {
		d.screen.Fini()
	}
	if d.watcher != nil {
		d.watcher.Close()
	}
	if d.lua != nil {
		d.lua.Close()
	}
}

// onReload runs on the watcher goroutine; the config crosses to the
// event loop through a channel so the widget stays single-goroutine.
func (d *demo) onReload(cfg config.Config, err error) {
	if err != nil {
		d.log.Warn().Err(err).Msg("config reload failed")
		return
	}
	select {
	case d.reloads <- cfg:
	default:
	}
}

func (d *demo) runLoop() error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go d.screen.ChannelEvents(events, quit)
	defer close(quit)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-signals:
			return nil
		case cfg := <-d.reloads:
			d.applyConfig(cfg)
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if err := d.handleKey(ev); err != nil {
					return err
				}
			case *tcell.EventResize:
				d.screen.Sync()
				d.widget.NotifyResize()
			}
		case <-ticker.C:
			d.widget.Tick()
			d.draw()
		}
	}
}

func (d *demo) applyConfig(cfg config.Config) {
	d.mu.Lock()
	d.theme = themeByName(cfg.Theme)
	d.mu.Unlock()
	if cfg.Language != "" {
		d.widget.SetLanguage(cfg.Language)
	}
	if cfg.Template != "" {
		d.widget.SetTemplateName(cfg.Template)
	}
	d.log.Info().Str("theme", cfg.Theme).Str("language", cfg.Language).Msg("config reloaded")
}

func (d *demo) handleKey(ev *tcell.EventKey) error {
	ed := d.widget.Editable()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC, tcell.KeyCtrlQ:
		d.widget.Blur()
		return errQuit
	case tcell.KeyEnter:
		ed.InsertText("\n")
	case tcell.KeyTab:
		ed.InsertText("    ")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.DeleteBackward()
	case tcell.KeyLeft:
		start, _ := ed.Selection()
		if start > 0 {
			_, size := utf8.DecodeLastRuneInString(ed.Value()[:start])
			ed.SetSelection(start-size, start-size)
		}
	case tcell.KeyRight:
		start, _ := ed.Selection()
		if start < len(ed.Value()) {
			_, size := utf8.DecodeRuneInString(ed.Value()[start:])
			ed.SetSelection(start+size, start+size)
		}
	case tcell.KeyRune:
		ed.InsertText(string(ev.Rune()))
	}
	return nil
}

// segment is one run of same-styled text from the rendering surface.
type segment struct {
	text  string
	class string
}

// segments flattens the rendering node into styled text runs in
// document order.
func segments(el *etree.Element, class string, out []segment) []segment {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			if t.Data != "" {
				out = append(out, segment{text: t.Data, class: class})
			}
		case *etree.Element:
			out = segments(t, t.SelectAttrValue("class", class), out)
		}
	}
	return out
}

func (d *demo) draw() {
	d.mu.Lock()
	theme := d.theme
	d.mu.Unlock()

	s := d.screen
	s.Clear()

	node := d.widget.RenderNode()
	if node != nil {
		x, y := 0, 0
		for _, seg := range segments(node, "", nil) {
			style := styleFor(theme, theme.StyleForClass(seg.class))
			for _, r := range seg.text {
				if r == '\n' {
					x, y = 0, y+1
					continue
				}
				s.SetContent(x, y, r, nil, style)
				x++
			}
		}
	}

	d.drawStatus(theme)
	d.drawCursor()
	s.Show()
}

func (d *demo) drawStatus(theme *highlight.Theme) {
	s := d.screen
	width, height := s.Size()
	if height < 2 {
		return
	}
	y := height - 1

	status := fmt.Sprintf(" %s | %s", d.widget.TemplateName(), d.widget.Language())
	if msg := d.widget.ValidationMessage(); msg != "" {
		status += " | " + msg
	}
	if instr := d.widget.Instructions(); instr != "" {
		status += " | " + instr
	}
	if count := d.widget.Bag("counter").Get("count"); count.Exists() {
		status += fmt.Sprintf(" | %d chars", count.Int())
	}

	style := styleFor(theme, highlight.Style{Foreground: theme.Background}).
		Background(colorOf(theme.Foreground.RGB255()))
	x := 0
	for _, r := range status {
		if x >= width {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < width; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func (d *demo) drawCursor() {
	value := d.widget.Value()
	start, _ := d.widget.Editable().Selection()
	if start > len(value) {
		start = len(value)
	}
	before := value[:start]
	y := strings.Count(before, "\n")
	x := utf8.RuneCountInString(before[strings.LastIndexByte(before, '\n')+1:])
	d.screen.ShowCursor(x, y)
}

func themeByName(name string) *highlight.Theme {
	if t, ok := highlight.Themes()[name]; ok {
		return t
	}
	return highlight.DefaultDark()
}

func colorOf(r, g, b uint8) tcell.Color {
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func styleFor(theme *highlight.Theme, st highlight.Style) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(colorOf(st.Foreground.RGB255())).
		Background(colorOf(theme.Background.RGB255()))
	if st.Bold {
		style = style.Bold(true)
	}
	if st.Italic {
		style = style.Italic(true)
	}
	if st.Underline {
		style = style.Underline(true)
	}
	return style
}
