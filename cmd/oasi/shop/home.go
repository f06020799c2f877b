package shop

import (
	"fmt"
	"strings"

	"oasi/internal/api"
	"oasi/internal/logging"
	"oasi/internal/navigation"

	tea "github.com/charmbracelet/bubbletea"
)

var categories = []string{"Bolsas", "Beleza", "Decoração", "Utensílios", "Mobília"}

type storefrontLoadedMsg struct {
	front *api.Storefront
	err   error
}

type homeView struct {
	env     *Env
	width   int
	loading bool
	status  status
	front   *api.Storefront
	sel     selection
}

func newHomeView(env *Env, _ navigation.Effective) View {
	return &homeView{env: env, loading: true}
}

func (v *homeView) Init() tea.Cmd {
	return fetchStorefront(v.env)
}

func fetchStorefront(env *Env) tea.Cmd {
	return func() tea.Msg {
		front, err := env.API.Storefront(env.Ctx)
		return storefrontLoadedMsg{front: front, err: err}
	}
}

// items is the carousel followed by the featured list.
func (v *homeView) items() api.ProductList {
	if v.front == nil {
		return nil
	}
	out := append(api.ProductList{}, v.front.Carousel...)
	return append(out, v.front.Featured...)
}

func (v *homeView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case storefrontLoadedMsg:
		v.loading = false
		if msg.err != nil {
			logging.Get(logging.CategoryViews).Warn("home: storefront load failed: %v", msg.err)
			v.status = errorStatus(msg.err, "Falha ao carregar produtos.")
			return nil
		}
		v.front = msg.front
		v.sel.reset(len(v.items()))
	case tea.KeyMsg:
		if v.sel.handle(msg.String()) {
			return nil
		}
		switch msg.String() {
		case "enter":
			items := v.items()
			if v.sel.n > 0 && v.sel.pos < len(items) {
				v.env.Nav.Navigate(navigation.ProductDetail, navigation.EntityID(items[v.sel.pos].ID))
			}
		case "p":
			v.env.Nav.SetView(navigation.Products)
		case "r":
			v.loading = true
			v.status = status{}
			return fetchStorefront(v.env)
		}
	}
	return nil
}

func (v *homeView) View() string {
	s := v.env.Styles
	var sb strings.Builder

	sb.WriteString(s.Brand.Render("Oasi"))
	sb.WriteString("\n")
	sb.WriteString(s.Subtitle.Render("Produtos sustentáveis para um futuro mais verde."))
	sb.WriteString("\n\n")

	if v.loading {
		sb.WriteString(v.env.loading("Carregando produtos..."))
		return sb.String()
	}
	if st := v.status.render(s); st != "" {
		sb.WriteString(st)
		sb.WriteString("\n\n")
	}

	idx := 0
	section := func(title string, list api.ProductList) {
		sb.WriteString(s.Title.Render(title))
		sb.WriteString("\n")
		if len(list) == 0 {
			sb.WriteString(s.Muted.Render("Nenhum produto encontrado no momento."))
			sb.WriteString("\n\n")
			return
		}
		for _, p := range list {
			line := fmt.Sprintf("%s%s  %s", marker(v.sel.at(idx)), p.Name, s.Price.Render(p.Price.String()))
			if v.sel.at(idx) {
				line = s.Selected.Render(line)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
			idx++
		}
		sb.WriteString("\n")
	}

	if v.front != nil {
		section("Ofertas", v.front.Carousel)
	}

	sb.WriteString(s.Title.Render("Categorias"))
	sb.WriteString("\n")
	sb.WriteString(s.Body.Render(strings.Join(categories, " · ")))
	sb.WriteString("\n\n")

	if v.front != nil {
		section("Destaques", v.front.Featured)
	}
	return sb.String()
}

func (v *homeView) SetSize(width, _ int) { v.width = width }
func (v *homeView) Capturing() bool      { return false }

func (v *homeView) Help() string {
	return v.env.Styles.KeyHint("↑/↓", "navegar", "enter", "detalhes", "p", "todos os produtos", "r", "recarregar")
}
