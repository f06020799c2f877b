package shop

import (
	"fmt"
	"strings"

	"oasi/internal/api"
	"oasi/internal/logging"
	"oasi/internal/navigation"
	"oasi/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

type accountLoadedMsg struct {
	user   *api.User
	impact *api.Sustainability
	err    error
}

type profileSavedMsg struct {
	user    api.UpdateUserRequest
	message string
	err     error
}

type treePlantedMsg struct {
	impact *api.Sustainability
	err    error
}

type accountView struct {
	env      *Env
	width    int
	loading  bool
	saving   bool
	planting bool
	status   status
	user     *api.User
	impact   *api.Sustainability
	form     *form
}

func newAccountView(env *Env, _ navigation.Effective) View {
	return &accountView{
		env:     env,
		loading: true,
		form: newForm(
			newField("nome", "Nome Completo", "Seu nome completo"),
			newField("email", "Endereço de Email", "voce@exemplo.com"),
			newField("telefone", "Telefone", "opcional"),
		),
	}
}

func (v *accountView) Init() tea.Cmd {
	uid, ok := v.env.Session.UserID()
	if !ok {
		v.loading = false
		v.status = status{text: "Usuário não está logado."}
		return nil
	}
	env := v.env
	return func() tea.Msg {
		var out accountLoadedMsg
		g, ctx := errgroup.WithContext(env.Ctx)
		g.Go(func() error {
			var err error
			out.user, err = env.API.User(ctx, uid)
			return err
		})
		g.Go(func() error {
			var err error
			out.impact, err = env.API.Sustainability(ctx, uid)
			return err
		})
		out.err = g.Wait()
		return out
	}
}

func (v *accountView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case accountLoadedMsg:
		v.loading = false
		if msg.err != nil {
			logging.Get(logging.CategoryViews).Warn("account: load failed: %v", msg.err)
			v.status = errorStatus(msg.err, "Erro ao carregar dados. Tente novamente.")
			return nil
		}
		v.user, v.impact = msg.user, msg.impact
		v.fill()

	case profileSavedMsg:
		v.saving = false
		if msg.err != nil {
			v.status = errorStatus(msg.err, "Erro ao atualizar dados. Tente novamente.")
			return nil
		}
		text := msg.message
		if text == "" {
			text = "Dados atualizados com sucesso!"
		}
		v.status = okStatus(text)
		v.applyProfile(msg.user)

	case treePlantedMsg:
		v.planting = false
		if msg.err != nil {
			v.status = errorStatus(msg.err, "Erro ao plantar árvore.")
			return nil
		}
		v.impact = msg.impact
		v.status = okStatus("Árvore plantada! 🌳")

	case tea.KeyMsg:
		if v.form.focused() {
			if v.form.update(msg) {
				return v.save()
			}
			return nil
		}
		switch msg.String() {
		case "e", "enter":
			if v.user != nil {
				v.form.focusAt(0)
			}
		case "p":
			return v.plant()
		case "r":
			v.loading = true
			v.status = status{}
			return v.Init()
		}
	}
	return nil
}

func (v *accountView) fill() {
	if v.user == nil {
		return
	}
	v.form.set("nome", v.user.Name)
	v.form.set("email", v.user.Email)
	v.form.set("telefone", v.user.Phone)
}

// applyProfile reflects a saved profile locally and in the session so the
// header greeting follows the new name.
func (v *accountView) applyProfile(in api.UpdateUserRequest) {
	if v.user != nil {
		v.user.Name, v.user.Email, v.user.Phone = in.Name, in.Email, in.Phone
	}
	cur := v.env.Session.Current()
	if !cur.Present() {
		return
	}
	summary := session.UserSummary{ID: cur.User.ID, Name: in.Name, Email: in.Email, Phone: in.Phone}
	if err := v.env.Session.Login(cur.Token, summary); err != nil {
		logging.Get(logging.CategoryViews).Warn("account: failed to refresh session: %v", err)
	}
}

func (v *accountView) save() tea.Cmd {
	uid, ok := v.env.Session.UserID()
	if !ok || v.saving {
		return nil
	}
	in := api.UpdateUserRequest{
		Name:  v.form.value("nome"),
		Email: v.form.value("email"),
		Phone: v.form.value("telefone"),
	}
	if in.Name == "" || in.Email == "" {
		v.status = status{text: "Nome e email são obrigatórios."}
		return nil
	}

	v.form.blur()
	v.saving = true
	v.status = status{}
	env := v.env
	return func() tea.Msg {
		text, err := env.API.UpdateUser(env.Ctx, uid, in)
		return profileSavedMsg{user: in, message: text, err: err}
	}
}

func (v *accountView) plant() tea.Cmd {
	uid, ok := v.env.Session.UserID()
	if !ok || v.planting {
		return nil
	}
	v.planting = true
	env := v.env
	return func() tea.Msg {
		impact, err := env.API.PlantTree(env.Ctx, uid)
		return treePlantedMsg{impact: impact, err: err}
	}
}

func (v *accountView) View() string {
	s := v.env.Styles
	var sb strings.Builder
	sb.WriteString(s.Title.Render("Minha Conta"))
	sb.WriteString("\n")

	if v.loading {
		sb.WriteString(v.env.loading("Carregando dados da conta..."))
		return sb.String()
	}

	sb.WriteString(s.Bold.Render("Dados pessoais"))
	sb.WriteString("\n")
	sb.WriteString(v.form.view(s))
	if v.saving {
		sb.WriteString(v.env.loading("Salvando..."))
		sb.WriteString("\n")
	}
	if st := v.status.render(s); st != "" {
		sb.WriteString(st)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if v.impact != nil {
		sb.WriteString(s.Bold.Render("Seu Impacto Sustentável"))
		sb.WriteString("\n")
		sb.WriteString(s.Label.Render("Árvores Plantadas") + s.Success.Render(fmt.Sprintf("%d", v.impact.TreesPlanted)) + "\n")
		sb.WriteString(s.Label.Render("Pontos Verdes") + s.Success.Render(fmt.Sprintf("%d", v.impact.GreenPoints)) + "\n")
		sb.WriteString(s.Label.Render("CO₂ Economizado") + s.Success.Render(fmt.Sprintf("%.1f kg", v.impact.ImpactKgCO2)) + "\n")
		if v.planting {
			sb.WriteString(v.env.loading("Plantando..."))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (v *accountView) SetSize(width, _ int) {
	v.width = width
	v.form.setWidth(width)
}

func (v *accountView) Capturing() bool { return v.form.focused() }

func (v *accountView) Help() string {
	s := v.env.Styles
	if v.form.focused() {
		return s.KeyHint("tab", "próximo campo", "enter", "salvar", "esc", "cancelar")
	}
	return s.KeyHint("e", "editar", "p", "plantar árvore", "r", "recarregar")
}
