package shop

import (
	"fmt"
	"strings"

	"oasi/internal/api"
	"oasi/internal/logging"
	"oasi/internal/navigation"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

type communityLoadedMsg struct {
	events   api.EventList
	comments api.CommentList
	err      error
}

type commentPostedMsg struct {
	err error
}

type communityView struct {
	env      *Env
	width    int
	loading  bool
	status   status
	events   api.EventList
	comments api.CommentList
	compose  *form
	posting  bool
}

func newCommunityView(env *Env, _ navigation.Effective) View {
	return &communityView{
		env:     env,
		loading: true,
		compose: newForm(newField("texto", "Mensagem", "compartilhe algo com a comunidade")),
	}
}

func (v *communityView) Init() tea.Cmd {
	return fetchCommunity(v.env)
}

// fetchCommunity loads events and comments together.
func fetchCommunity(env *Env) tea.Cmd {
	return func() tea.Msg {
		var out communityLoadedMsg
		g, ctx := errgroup.WithContext(env.Ctx)
		g.Go(func() error {
			var err error
			out.events, err = env.API.Events(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			out.comments, err = env.API.Comments(ctx)
			return err
		})
		out.err = g.Wait()
		return out
	}
}

func (v *communityView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case communityLoadedMsg:
		v.loading = false
		if msg.err != nil {
			logging.Get(logging.CategoryViews).Warn("community: load failed: %v", msg.err)
			v.status = errorStatus(msg.err, "Erro ao carregar a comunidade.")
			return nil
		}
		v.events, v.comments = msg.events, msg.comments

	case commentPostedMsg:
		v.posting = false
		if msg.err != nil {
			v.status = errorStatus(msg.err, "Erro ao enviar mensagem.")
			return nil
		}
		v.compose.reset()
		v.status = okStatus("Mensagem enviada!")
		return fetchCommunity(v.env)

	case tea.KeyMsg:
		if v.compose.focused() {
			if v.compose.update(msg) {
				return v.post()
			}
			return nil
		}
		switch msg.String() {
		case "m", "enter":
			v.compose.focusAt(0)
		case "r":
			v.loading = true
			return fetchCommunity(v.env)
		}
	}
	return nil
}

func (v *communityView) post() tea.Cmd {
	text := v.compose.value("texto")
	if text == "" {
		v.status = status{text: "Escreva uma mensagem antes de enviar."}
		return nil
	}
	uid, ok := v.env.Session.UserID()
	if !ok || v.posting {
		return nil
	}
	v.compose.blur()
	v.posting = true
	env := v.env
	return func() tea.Msg {
		err := env.API.PostComment(env.Ctx, api.CommentInput{UserID: uid, Text: text})
		return commentPostedMsg{err: err}
	}
}

func (v *communityView) View() string {
	s := v.env.Styles
	var sb strings.Builder
	sb.WriteString(s.Title.Render("Comunidade Oasi"))
	sb.WriteString("\n")
	sb.WriteString(s.Bold.Render("Bem-vindo à Comunidade Oasi!"))
	sb.WriteString("\n")
	sb.WriteString(s.Body.Render("Este é um espaço para conectar pessoas comprometidas com a sustentabilidade.\nCompartilhe experiências, aprenda com outros membros e faça parte desta comunidade em crescimento."))
	sb.WriteString("\n\n")

	if v.loading {
		sb.WriteString(v.env.loading("Carregando..."))
		return sb.String()
	}

	sb.WriteString(s.Title.Render("Próximos eventos"))
	sb.WriteString("\n")
	if len(v.events) == 0 {
		sb.WriteString(s.Muted.Render("Nenhum evento agendado."))
		sb.WriteString("\n")
	}
	for _, e := range v.events {
		sb.WriteString(fmt.Sprintf("  %s  %s\n", s.Badge.Render(e.Date), e.Name))
	}
	sb.WriteString("\n")

	sb.WriteString(s.Title.Render("Conversa"))
	sb.WriteString("\n")
	if len(v.comments) == 0 {
		sb.WriteString(s.Muted.Render("Nenhuma mensagem ainda."))
		sb.WriteString("\n")
	}
	uid, _ := v.env.Session.UserID()
	for _, c := range v.comments {
		author := c.Author
		if c.UserID == uid {
			author = "Você"
		} else if author == "" {
			author = fmt.Sprintf("Membro #%d", c.UserID)
		}
		sb.WriteString(fmt.Sprintf("  %s %s %s\n", s.Bold.Render(author), s.Muted.Render(c.CreatedAt), c.Text))
	}
	sb.WriteString("\n")
	sb.WriteString(v.compose.view(s))

	if st := v.status.render(s); st != "" {
		sb.WriteString("\n")
		sb.WriteString(st)
	}
	return sb.String()
}

func (v *communityView) SetSize(width, _ int) {
	v.width = width
	v.compose.setWidth(width)
}

func (v *communityView) Capturing() bool { return v.compose.focused() }

func (v *communityView) Help() string {
	if v.compose.focused() {
		return v.env.Styles.KeyHint("enter", "enviar")
	}
	return v.env.Styles.KeyHint("m", "escrever", "r", "recarregar")
}
