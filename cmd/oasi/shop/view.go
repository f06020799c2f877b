package shop

import (
	"fmt"
	"strings"

	"oasi/cmd/oasi/ui"
	"oasi/internal/navigation"

	"github.com/charmbracelet/lipgloss"
)

// View renders header, the effective page and the footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width > 0 && m.layout.TooSmall() {
		return m.env.Styles.Warning.Render(fmt.Sprintf(
			"Terminal muito pequeno (%dx%d). Aumente a janela.", m.width, m.height))
	}

	body := m.renderBody()
	if n := m.notice.render(m.env.Styles); n != "" {
		body = n + "\n\n" + body
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.env.Styles.Content.Render(body),
		m.renderFooter(),
	)
}

// renderBody applies the access gate to protected pages.
func (m Model) renderBody() string {
	if !navigation.IsProtected(m.effective.View) {
		return m.active.View()
	}
	return navigation.Gate(m.env.Session.Authenticated(), m.active.View, m.restrictedPanel)
}

func (m Model) restrictedPanel() string {
	s := m.env.Styles
	var sb strings.Builder
	sb.WriteString(s.Title.Render("Acesso Restrito"))
	sb.WriteString("\n")
	sb.WriteString(s.Body.Render("Esta página está disponível apenas para usuários cadastrados.\nPor favor, faça login ou crie uma conta para acessar este conteúdo."))
	sb.WriteString("\n\n")
	sb.WriteString(s.KeyHint("l", "Login / Cadastro"))
	return s.Panel.Render(sb.String())
}

func (m Model) renderHeader() string {
	s := m.env.Styles
	current := m.env.Nav.Current()

	links := make([]string, 0, len(headerNav))
	for _, item := range headerNav {
		label := item.key + " " + item.label
		if item.view == current {
			links = append(links, s.NavSel.Render(label))
		} else {
			links = append(links, s.NavItem.Render(label))
		}
	}

	var right string
	if sess := m.env.Session.Current(); sess.Present() {
		right = s.Body.Render(fmt.Sprintf("Olá, %s!", sess.User.Name)) + "  " +
			s.KeyHint("a", "Conta", "o", "Sair")
	} else {
		right = s.KeyHint("l", "Login / Cadastro")
	}

	left := ui.Logo(m.env.Styles) + "  " + strings.Join(links, "")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 2 {
		return s.Header.Render(left + "\n" + right)
	}
	return s.Header.Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderFooter() string {
	s := m.env.Styles
	hints := m.active.Help()
	global := s.KeyHint("q", "sair")
	if m.active.Capturing() {
		global = s.KeyHint("esc", "sair do formulário", "ctrl+c", "fechar")
	}
	if hints == "" {
		return s.Footer.Render(global)
	}
	return s.Footer.Render(hints + s.Muted.Render(" • ") + global)
}
