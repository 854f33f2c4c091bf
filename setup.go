package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ramborogers/bandlock/engine"
	"github.com/ramborogers/bandlock/identity"
	"github.com/ramborogers/bandlock/lock"
	"github.com/ramborogers/bandlock/radio"
	"github.com/ramborogers/bandlock/views"
)

// Screens of the setup program
const (
	screenName     = "name"
	screenPassword = "password"
	screenScanning = "scanning"
	screenDone     = "done"
	screenFailed   = "failed"
)

var errSetupCancelled = errors.New("setup cancelled")

type setupDoneMsg lock.SetupResult
type errMsg struct{ error }

// setupModel asks for the network name and password, scans once and saves
// the resulting identity.
type setupModel struct {
	screen    string
	name      textinput.Model
	password  textinput.Model
	spinner   spinner.Model
	store     *identity.Store
	open      lock.Opener
	result    lock.SetupResult
	err       error
	styles    *views.Styles
	setupView *views.SetupView
}

func newSetupModel(store *identity.Store, open lock.Opener) *setupModel {
	name := textinput.New()
	name.Placeholder = "MyNetwork"
	name.CharLimit = 32
	name.Focus()

	password := textinput.New()
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 0 // 64 hex digits is a raw PSK

	s := spinner.New()
	s.Spinner = spinner.Dot

	styles := views.NewStyles()
	return &setupModel{
		screen:    screenName,
		name:      name,
		password:  password,
		spinner:   s,
		store:     store,
		open:      open,
		styles:    styles,
		setupView: views.NewSetupView(styles),
	}
}

// Init implements tea.Model
func (m *setupModel) Init() tea.Cmd {
	return textinput.Blink
}

// ssid returns the entered network name without surrounding blanks.
func (m *setupModel) ssid() string {
	return strings.TrimSpace(m.name.Value())
}

func (m *setupModel) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.screen = screenFailed
	return m, tea.Quit
}

// runSetup scans and saves off the UI goroutine.
func (m *setupModel) runSetup() tea.Cmd {
	name, password := m.ssid(), m.password.Value()
	return func() tea.Msg {
		gw, err := m.open()
		if err != nil {
			return errMsg{err}
		}
		res, err := lock.Setup(gw, name, password)
		if err != nil {
			return errMsg{err}
		}
		if err := m.store.Save(res.Identity); err != nil {
			return errMsg{fmt.Errorf("failed to write config: %w", err)}
		}
		return setupDoneMsg(res)
	}
}

// Update implements tea.Model
func (m *setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case setupDoneMsg:
		m.result = lock.SetupResult(msg)
		m.screen = screenDone
		return m, tea.Quit
	case errMsg:
		return m.fail(msg.error)
	case spinner.TickMsg:
		if m.screen != screenScanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.screen == screenScanning {
				return m, nil
			}
			return m.fail(errSetupCancelled)
		case tea.KeyEnter:
			return m.submit()
		}
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenName:
		m.name, cmd = m.name.Update(msg)
	case screenPassword:
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *setupModel) submit() (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenName:
		if m.ssid() == "" {
			return m.fail(engine.ErrEmptyTarget)
		}
		m.name.Blur()
		m.screen = screenPassword
		return m, m.password.Focus()
	case screenPassword:
		if m.password.Value() == "" {
			return m.fail(lock.ErrEmptyPassword)
		}
		m.password.Blur()
		m.screen = screenScanning
		return m, tea.Batch(m.spinner.Tick, m.runSetup())
	}
	return m, nil
}

// View implements tea.Model
func (m *setupModel) View() string {
	switch m.screen {
	case screenName:
		return m.setupView.RenderPrompt("Enter your WiFi network name (SSID):", m.name.View(), "")
	case screenPassword:
		return m.setupView.RenderPrompt("Enter your WiFi password:", m.password.View(),
			"Saved with owner-only permissions to "+m.store.Path())
	case screenScanning:
		return m.setupView.RenderScanning(m.spinner.View(), m.ssid())
	case screenDone:
		return m.setupView.RenderResult(m.result, m.store.Path())
	case screenFailed:
		return m.setupView.RenderError(m.err, remediation(m.err))
	default:
		return "Unknown screen"
	}
}

func (m *setupModel) exitCode() int {
	if m.screen == screenDone {
		return 0
	}
	return 1
}

func remediation(err error) []string {
	switch {
	case errors.Is(err, radio.ErrScanFailed):
		return lock.ScanRemediation
	case errors.Is(err, radio.ErrInterfaceUnavailable):
		return []string{"No WiFi interface found. Check 'nmcli device status' for a wifi device."}
	default:
		return nil
	}
}
