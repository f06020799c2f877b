package shop

import (
	"strings"

	"oasi/internal/api"
	"oasi/internal/logging"
	"oasi/internal/navigation"
	"oasi/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

type loginDoneMsg struct {
	resp *api.AuthResponse
	err  error
}

type registerDoneMsg struct {
	message string
	err     error
}

type loginView struct {
	env      *Env
	width    int
	register bool
	busy     bool
	status   status
	form     *form
}

// newLoginView focuses the form only when login was asked for directly.
// In place of a protected page it starts blurred so the header keys keep
// working until the user presses e.
func newLoginView(env *Env, eff navigation.Effective) View {
	v := &loginView{env: env}
	v.form = v.buildForm()
	if !eff.Redirected {
		v.form.focusAt(0)
	}
	return v
}

// buildForm lays out the fields for the current mode.
func (v *loginView) buildForm() *form {
	if v.register {
		return newForm(
			newField("nome", "Nome Completo", ""),
			newField("email", "Email", "voce@exemplo.com"),
			passwordField("senha", "Senha"),
			newField("telefone", "Telefone (Opcional)", ""),
		)
	}
	return newForm(
		newField("email", "Email", "voce@exemplo.com"),
		passwordField("senha", "Senha"),
	)
}

// toggle switches between login and registration, keeping the
// credentials already typed.
func (v *loginView) toggle() {
	email, password := v.form.value("email"), v.form.value("senha")
	v.register = !v.register
	v.form = v.buildForm()
	v.form.set("email", email)
	v.form.set("senha", password)
	v.form.setWidth(v.width)
	v.form.focusAt(0)
}

func (v *loginView) Init() tea.Cmd { return nil }

func (v *loginView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginDoneMsg:
		v.busy = false
		if msg.err != nil {
			v.status = errorStatus(msg.err, "Ocorreu um erro.")
			v.form.focusAt(0)
			return nil
		}
		v.complete(msg.resp)

	case registerDoneMsg:
		v.busy = false
		if msg.err != nil {
			v.status = errorStatus(msg.err, "Ocorreu um erro.")
			v.form.focusAt(0)
			return nil
		}
		v.toggle()
		text := msg.message
		if text == "" {
			text = "Cadastro realizado! Faça login para continuar."
		}
		v.status = okStatus(text)

	case tea.KeyMsg:
		if v.busy {
			return nil
		}
		if msg.String() == "ctrl+t" {
			v.toggle()
			v.status = status{}
			return nil
		}
		if v.form.focused() {
			if v.form.update(msg) {
				return v.submit()
			}
			return nil
		}
		switch msg.String() {
		case "t":
			v.toggle()
			v.status = status{}
		case "enter", "e":
			v.form.focusAt(0)
		}
	}
	return nil
}

func (v *loginView) submit() tea.Cmd {
	email, password := v.form.value("email"), v.form.value("senha")
	if email == "" || password == "" {
		v.status = status{text: "Email e senha são obrigatórios."}
		return nil
	}
	env := v.env
	v.busy = true
	v.status = status{}
	v.form.blur()

	if v.register {
		in := api.RegisterRequest{
			Name:     v.form.value("nome"),
			Email:    email,
			Password: password,
			Phone:    v.form.value("telefone"),
		}
		if in.Name == "" {
			v.busy = false
			v.status = status{text: "Nome é obrigatório."}
			v.form.focusAt(0)
			return nil
		}
		return func() tea.Msg {
			text, err := env.API.Register(env.Ctx, in)
			return registerDoneMsg{message: text, err: err}
		}
	}
	return func() tea.Msg {
		resp, err := env.API.Login(env.Ctx, email, password)
		return loginDoneMsg{resp: resp, err: err}
	}
}

// complete stores the session. Logging in from the login page itself
// lands on the account page; otherwise the protected page that redirected
// here is resumed as-is.
func (v *loginView) complete(resp *api.AuthResponse) {
	user := session.UserSummary{
		ID:    resp.User.ID,
		Name:  resp.User.Name,
		Email: resp.User.Email,
		Phone: resp.User.Phone,
	}
	if err := v.env.Session.Login(resp.Token, user); err != nil {
		logging.Get(logging.CategoryViews).Warn("login: session not persisted: %v", err)
	}
	if v.env.Nav.Current() == navigation.Login {
		v.env.Nav.SetView(navigation.Account)
	}
}

func (v *loginView) View() string {
	s := v.env.Styles
	var sb strings.Builder

	if requested := v.env.Nav.Current(); navigation.IsProtected(requested) {
		sb.WriteString(s.Warning.Render("Faça login para acessar " + viewLabel(requested) + "."))
		sb.WriteString("\n\n")
	}

	title, action, other := "Login", "Entrar", "Não tem uma conta? ctrl+t Cadastre-se"
	if v.register {
		title, action, other = "Criar Conta", "Cadastrar", "Já tem uma conta? ctrl+t Faça Login"
	}

	var panel strings.Builder
	panel.WriteString(s.Title.Render(title))
	panel.WriteString("\n")
	panel.WriteString(v.form.view(s))
	panel.WriteString("\n")
	if v.busy {
		panel.WriteString(v.env.loading("Aguarde..."))
	} else {
		panel.WriteString(s.KeyHint("enter", action))
	}
	if st := v.status.render(s); st != "" {
		panel.WriteString("\n\n")
		panel.WriteString(st)
	}
	panel.WriteString("\n\n")
	panel.WriteString(s.Muted.Render(other))

	sb.WriteString(s.Panel.Render(panel.String()))
	return sb.String()
}

// viewLabel names a page the way the header does.
func viewLabel(id navigation.ViewID) string {
	for _, item := range headerNav {
		if item.view == id {
			return item.label
		}
	}
	if id == navigation.Account {
		return "Minha Conta"
	}
	return id.String()
}

func (v *loginView) SetSize(width, _ int) {
	v.width = width
	v.form.setWidth(width)
}

func (v *loginView) Capturing() bool { return v.form.focused() }

func (v *loginView) Help() string {
	s := v.env.Styles
	if v.form.focused() {
		return s.KeyHint("tab", "próximo campo", "enter", "enviar", "ctrl+t", "alternar modo")
	}
	return s.KeyHint("e", "editar", "t", "alternar modo")
}
