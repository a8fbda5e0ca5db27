package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/upform/internal/form"
	"github.com/desertthunder/upform/internal/preview"
	"github.com/desertthunder/upform/internal/shared"
)

// Focus names the input receiving keystrokes.
type Focus int

const (
	FocusPicker Focus = iota
	FocusURL
)

const (
	pickerHeight = 8
	// filepicker subtracts this from the window height when sizing itself
	pickerMargin = 5
	logo         = "⬆ upform"
)

// Options configures a [Model].
type Options struct {
	StartDir     string
	PreviewWidth int
	MaxBytes     int64
	Endpoint     string
	OpenBrowser  func(url string) error
	Logger       *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	form       *form.Controller
	opts       Options
	logger     *log.Logger
	picker     filepicker.Model
	url        textinput.Model
	spinner    spinner.Model
	help       help.Model
	keys       keyMap
	focus      Focus
	state      form.State
	resetToken uint64
	loads      uint64
	alert      string
	notice     string
	width      int
	height     int

	renderedRef preview.Ref
	rendered    string
}

// NewModel creates a new TUI model over the controller.
func NewModel(ctx context.Context, controller *form.Controller, opts Options) *Model {
	if opts.StartDir == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.StartDir = wd
		}
	}
	if opts.PreviewWidth <= 0 {
		opts.PreviewWidth = preview.DefaultWidth
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	url := textinput.New()
	url.Placeholder = "Enter a file URL"
	url.Prompt = "> "
	url.CharLimit = 2048
	url.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	state := controller.State()
	m := &Model{
		ctx:        ctx,
		form:       controller,
		opts:       opts,
		logger:     shared.WithLogger(opts.Logger, "component", "ui"),
		url:        url,
		spinner:    sp,
		help:       help.New(),
		keys:       newKeyMap(),
		focus:      FocusPicker,
		state:      state,
		resetToken: state.ResetToken,
	}
	m.picker = m.newPicker()
	return m
}

// State returns the form snapshot the model last rendered from.
func (m *Model) State() form.State { return m.state }

// Focused returns the input receiving keystrokes.
func (m *Model) Focused() Focus { return m.focus }

// Alert returns the blocking prompt, if any.
func (m *Model) Alert() string { return m.alert }

// Init reads the starting directory into the file picker.
func (m *Model) Init() tea.Cmd {
	return m.picker.Init()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.resizePicker()

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		if !m.state.Pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgFileLoaded:
		data := msg.data.(fileLoaded)
		if data.seq != m.loads || data.generation != m.form.State().Generation {
			m.logger.Debug("file load ignored, form changed while reading", "seq", data.seq)
			return m, nil
		}
		if data.err != nil {
			m.logger.Warn("could not load file", "err", data.err)
			m.notice = fmt.Sprintf("Could not read file: %v", data.err)
			return m, nil
		}
		m.notice = ""
		return m, m.sync(m.form.Select(*data.file))

	case MsgUploadFinished:
		data := msg.data.(uploadFinished)
		state, applied := m.form.Complete(data.submission, data.outcome)
		if !applied {
			m.logger.Info("upload result ignored, form changed while in flight")
		}
		return m, m.sync(state)

	case MsgBrowserOpened:
		if err, _ := msg.data.(error); err != nil {
			m.notice = fmt.Sprintf("Could not open browser: %v", err)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		m.form.Close()
		return m, tea.Quit
	}

	if m.alert != "" {
		if key.Matches(msg, m.keys.dismiss) {
			m.alert = ""
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.clear):
		m.notice = ""
		return m, m.sync(m.form.Clear())
	case key.Matches(msg, m.keys.open):
		return m, m.openThumbnail()
	case key.Matches(msg, m.keys.focus):
		return m, m.toggleFocus()
	}

	if m.focus == FocusURL {
		before := m.url.Value()
		var cmd tea.Cmd
		m.url, cmd = m.url.Update(msg)
		if after := m.url.Value(); after != before {
			return m, tea.Batch(cmd, m.sync(m.form.SetURL(after)))
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m, tea.Batch(cmd, m.loadFile(path))
	}
	return m, cmd
}

// submit starts an upload unless one is outstanding.
func (m *Model) submit() tea.Cmd {
	sub, err := m.form.Prepare()
	switch {
	case errors.Is(err, form.ErrNothingSelected):
		m.alert = form.PromptNothingSelected
		return nil
	case errors.Is(err, form.ErrSubmitInFlight):
		return nil
	case err != nil:
		m.notice = err.Error()
		return nil
	}

	m.state = m.form.State()
	ctx := m.ctx
	controller := m.form
	send := func() tea.Msg {
		return uploadFinishedMsg(sub, controller.Send(ctx, sub))
	}
	return tea.Batch(m.spinner.Tick, send)
}

// loadFile reads path off the update loop. Only the latest load applies, and only if the
// form has not changed since it was issued.
func (m *Model) loadFile(path string) tea.Cmd {
	m.loads++
	seq := m.loads
	generation := m.form.State().Generation
	maxBytes := m.opts.MaxBytes
	return func() tea.Msg {
		f, err := shared.ReadLocalFile(path, maxBytes)
		if err != nil {
			return fileLoadedMsg(seq, generation, nil, err)
		}
		return fileLoadedMsg(seq, generation, &form.File{Name: f.Name, ContentType: f.ContentType, Data: f.Data}, nil)
	}
}

func (m *Model) openThumbnail() tea.Cmd {
	thumb := m.state.Thumbnail()
	if thumb == "" {
		return nil
	}
	open := m.opts.OpenBrowser
	return func() tea.Msg {
		return browserOpenedMsg(open(thumb))
	}
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == FocusPicker {
		m.focus = FocusURL
		return m.url.Focus()
	}
	m.focus = FocusPicker
	m.url.Blur()
	return nil
}

// sync mirrors a controller snapshot into the widgets.
func (m *Model) sync(state form.State) tea.Cmd {
	m.state = state

	if m.url.Value() != state.URL {
		m.url.SetValue(state.URL)
	}

	if state.ResetToken == m.resetToken {
		return nil
	}
	m.resetToken = state.ResetToken
	m.picker = m.newPicker()
	return tea.Batch(m.picker.Init(), m.resizePicker())
}

func (m *Model) newPicker() filepicker.Model {
	fp := filepicker.New()
	fp.CurrentDirectory = m.opts.StartDir
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	return fp
}

func (m *Model) resizePicker() tea.Cmd {
	if m.width == 0 {
		return nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(tea.WindowSizeMsg{Width: m.width, Height: pickerHeight + pickerMargin})
	return cmd
}

// View renders the form.
func (m *Model) View() string {
	if m.alert != "" {
		return fmt.Sprintf("%s\n%s\n\n%s",
			m.renderNavbar(),
			styles.alert.Render(m.alert),
			m.help.ShortHelpView([]key.Binding{m.keys.dismiss, m.keys.quit}),
		)
	}

	var b strings.Builder
	b.WriteString(m.renderNavbar())
	b.WriteString("\n")
	b.WriteString(styles.title.Render("File & URL Upload"))
	b.WriteString("\n")

	b.WriteString(m.renderLabel("File", FocusPicker))
	b.WriteString("\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n")

	b.WriteString(m.renderLabel("URL", FocusURL))
	b.WriteString("\n")
	b.WriteString(m.url.View())
	b.WriteString("\n\n")

	if sel := m.renderSelection(); sel != "" {
		b.WriteString(sel)
		b.WriteString("\n\n")
	}

	if m.state.Pending {
		b.WriteString(fmt.Sprintf("%s Uploading...\n\n", m.spinner.View()))
	}

	if status := m.renderStatus(); status != "" {
		b.WriteString(status)
		b.WriteString("\n\n")
	}

	if m.notice != "" {
		b.WriteString(styles.warn.Render(m.notice))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *Model) renderNavbar() string {
	bar := styles.logo.Render(logo)
	if m.opts.Endpoint != "" {
		bar = fmt.Sprintf("%s %s", bar, styles.help.Render(m.opts.Endpoint))
	}
	return styles.navbar.Render(bar)
}

func (m *Model) renderLabel(text string, f Focus) string {
	if m.focus == f {
		return styles.focused.Render("▸ " + text)
	}
	return styles.label.Render("  " + text)
}

func (m *Model) renderSelection() string {
	switch {
	case m.state.File != nil:
		f := m.state.File
		line := fmt.Sprintf("Selected file: %s (%s, %d bytes)", f.Name, f.ContentType, len(f.Data))
		if m.state.Preview.IsZero() {
			return line
		}
		return fmt.Sprintf("%s\n%s", line, m.renderPreview())
	case m.state.URL != "":
		line := fmt.Sprintf("Entered URL: %s", m.state.URL)
		if thumb := m.state.Thumbnail(); thumb != "" {
			line = fmt.Sprintf("%s\n%s %s", line, styles.label.Render("Thumbnail:"), thumb)
		}
		return line
	}
	return ""
}

// renderPreview caches the render per reference; decoding on every frame is too slow.
func (m *Model) renderPreview() string {
	ref := m.state.Preview
	if ref != m.renderedRef {
		m.renderedRef = ref
		m.rendered = m.form.Previews().Render(ref, m.opts.PreviewWidth)
	}
	return m.rendered
}

func (m *Model) renderStatus() string {
	st := m.state.Status
	switch st.Kind {
	case form.StatusSuccess:
		return styles.ok.Render("✓ " + st.Text)
	case form.StatusFailure:
		return styles.err.Render("✗ " + st.Text)
	case form.StatusError:
		return styles.warn.Render("! " + st.Text)
	}
	return ""
}

func (m *Model) renderHelp() string {
	bindings := []key.Binding{m.keys.focus}
	if !m.state.Pending {
		bindings = append(bindings, m.keys.submit)
	}
	bindings = append(bindings, m.keys.clear)
	if m.state.Thumbnail() != "" {
		bindings = append(bindings, m.keys.open)
	}
	bindings = append(bindings, m.keys.quit)
	return m.help.ShortHelpView(bindings)
}
