package shop

import (
	"oasi/cmd/oasi/ui"
	"oasi/internal/logging"
	"oasi/internal/navigation"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// StorageChangedMsg tells the model another process rewrote durable
// storage; the session is restored from it.
type StorageChangedMsg struct{}

// viewMsg carries a result back to the view generation that asked for it.
type viewMsg struct {
	gen int
	msg tea.Msg
}

// redirectMsg asks the model to navigate outside of a key press.
type redirectMsg struct {
	to navigation.ViewID
}

// mountKey identifies a mounted view instance. A change remounts.
type mountKey struct {
	view      navigation.ViewID
	entity    navigation.EntityID
	hasEntity bool
	userID    int64
}

// headerNav is the order of the numbered header links.
var headerNav = []struct {
	key   string
	view  navigation.ViewID
	label string
}{
	{"1", navigation.Home, "Home"},
	{"2", navigation.Products, "Produtos"},
	{"3", navigation.Community, "Comunidade"},
	{"4", navigation.Sell, "Vender"},
	{"5", navigation.Carts, "Carrinhos"},
}

// Model is the root of the storefront.
type Model struct {
	env     *Env
	spinner spinner.Model
	layout  ui.LayoutConfig
	width   int
	height  int

	active    View
	effective navigation.Effective
	key       mountKey
	gen       int
	initCmd   tea.Cmd

	notice   status
	quitting bool
}

// New builds the model and mounts the effective view for the current
// navigation state.
func New(env *Env) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = env.Styles.Spinner

	m := Model{
		env:     env,
		spinner: sp,
		layout:  ui.NewLayoutConfig(ui.MinimumTerminalWidth*2, ui.MinimumTerminalHeight*2),
	}
	m, m.initCmd = m.sync()
	return m
}

// Init starts the spinner and the first view's fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.initCmd)
}

// Update applies every state mutation of the storefront.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = max(msg.Width, 0), max(msg.Height, 0)
		m.layout = ui.NewLayoutConfig(m.width, m.height)
		m.active.SetSize(m.layout.ContentWidth(), m.layout.ContentHeight())
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.env.frame = m.spinner.View()
		return m, cmd

	case StorageChangedMsg:
		before := m.env.Session.Current()
		after := m.env.Session.Restore()
		if before.Present() != after.Present() {
			if after.Present() {
				m.notice = okStatus("Sessão iniciada em outra janela.")
			} else {
				m.notice = status{text: "Sessão encerrada em outra janela."}
			}
		}

	case redirectMsg:
		m.env.Nav.SetView(msg.to)

	case viewMsg:
		if msg.gen != m.gen {
			logging.ViewsDebug("dropping result for unmounted view (gen %d, current %d)", msg.gen, m.gen)
			return m, nil
		}
		if r, ok := msg.msg.(redirectMsg); ok {
			m.env.Nav.SetView(r.to)
			break
		}
		cmds = append(cmds, m.tag(m.active.Update(msg.msg)))

	case tea.KeyMsg:
		handled, cmd := m.handleKey(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if !handled {
			m.notice = status{}
			cmds = append(cmds, m.tag(m.active.Update(msg)))
		}

	default:
		cmds = append(cmds, m.tag(m.active.Update(msg)))
	}

	var mountCmd tea.Cmd
	m, mountCmd = m.sync()
	cmds = append(cmds, mountCmd)

	return m, tea.Batch(cmds...)
}

// handleKey applies the global header keys. Text fields swallow
// everything except ctrl+c.
func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.quitting = true
		return true, tea.Quit
	}
	if m.active.Capturing() {
		return false, nil
	}

	for _, item := range headerNav {
		if key == item.key {
			m.env.Nav.SetView(item.view)
			return true, nil
		}
	}

	switch key {
	case "q":
		m.quitting = true
		return true, tea.Quit
	case "a":
		m.env.Nav.SetView(navigation.Account)
		return true, nil
	case "l":
		if !m.env.Session.Authenticated() {
			m.env.Nav.SetView(navigation.Login)
			return true, nil
		}
	case "o":
		if m.env.Session.Authenticated() {
			m.logout()
			return true, nil
		}
	}
	return false, nil
}

// logout clears the session and then navigates home, in that order.
func (m *Model) logout() {
	if err := m.env.Session.Logout(); err != nil {
		m.notice = errorStatus(err, "Não foi possível remover a sessão salva.")
	}
	m.env.Nav.SetView(navigation.Home)
}

// sync mounts the view Resolve picks for the current state, if it changed.
// Nothing is resolved until one of the stores reports a change.
func (m Model) sync() (Model, tea.Cmd) {
	if m.active != nil && !m.env.dirty {
		return m, nil
	}
	m.env.dirty = false

	eff := navigation.Resolve(m.env.Nav.State(), m.env.Session.Authenticated())
	uid, _ := m.env.Session.UserID()
	key := mountKey{view: eff.View, entity: eff.Entity, hasEntity: eff.HasEntity, userID: uid}

	m.effective = eff
	if m.active != nil && key == m.key {
		return m, nil
	}

	m.gen++
	m.key = key
	m.active = buildView(m.env, eff)
	m.active.SetSize(m.layout.ContentWidth(), m.layout.ContentHeight())

	if eff.Redirected {
		logging.Views("mounted %s in place of protected %s", eff.View, eff.Requested)
	} else {
		logging.Views("mounted %s", eff.View)
	}
	return m, m.tag(m.active.Init())
}

// tag routes cmd's result back to the current mount generation.
func (m Model) tag(cmd tea.Cmd) tea.Cmd {
	return tagWith(m.gen, cmd)
}

func tagWith(gen int, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		msg := cmd()
		switch msg := msg.(type) {
		case nil:
			return nil
		case tea.BatchMsg:
			out := make(tea.BatchMsg, 0, len(msg))
			for _, c := range msg {
				out = append(out, tagWith(gen, c))
			}
			return out
		default:
			return viewMsg{gen: gen, msg: msg}
		}
	}
}

// Effective returns the view currently rendered.
func (m Model) Effective() navigation.Effective {
	return m.effective
}
