package shop

import (
	"fmt"
	"strings"

	"oasi/internal/api"
	"oasi/internal/logging"
	"oasi/internal/navigation"

	tea "github.com/charmbracelet/bubbletea"
)

type productsLoadedMsg struct {
	list api.ProductList
	err  error
}

type productsView struct {
	env      *Env
	width    int
	loading  bool
	status   status
	all      api.ProductList
	filtered api.ProductList
	search   *form
	sel      selection
}

func newProductsView(env *Env, _ navigation.Effective) View {
	return &productsView{
		env:     env,
		loading: true,
		search:  newForm(newField("q", "Buscar", "nome do produto")),
	}
}

func (v *productsView) Init() tea.Cmd {
	return fetchProducts(v.env)
}

func fetchProducts(env *Env) tea.Cmd {
	return func() tea.Msg {
		list, err := env.API.Products(env.Ctx, 0)
		return productsLoadedMsg{list: list, err: err}
	}
}

func (v *productsView) applyFilter() {
	q := strings.ToLower(v.search.value("q"))
	if q == "" {
		v.filtered = v.all
	} else {
		v.filtered = nil
		for _, p := range v.all {
			if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
				v.filtered = append(v.filtered, p)
			}
		}
	}
	v.sel.reset(len(v.filtered))
}

func (v *productsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			logging.Get(logging.CategoryViews).Warn("products: load failed: %v", msg.err)
			v.status = errorStatus(msg.err, "Falha ao carregar produtos")
			return nil
		}
		v.all = msg.list
		v.applyFilter()
	case tea.KeyMsg:
		if v.search.focused() {
			if v.search.update(msg) {
				v.search.blur()
			}
			v.applyFilter()
			return nil
		}
		if v.sel.handle(msg.String()) {
			return nil
		}
		switch msg.String() {
		case "/":
			v.search.focusAt(0)
		case "enter":
			if v.sel.n > 0 {
				v.env.Nav.Navigate(navigation.ProductDetail, navigation.EntityID(v.filtered[v.sel.pos].ID))
			}
		case "r":
			v.loading = true
			v.status = status{}
			return fetchProducts(v.env)
		}
	}
	return nil
}

func (v *productsView) View() string {
	s := v.env.Styles
	var sb strings.Builder
	sb.WriteString(s.Title.Render("Todos os Nossos Produtos"))
	sb.WriteString("\n")
	sb.WriteString(v.search.view(s))
	sb.WriteString("\n")

	switch {
	case v.loading:
		sb.WriteString(v.env.loading("Carregando produtos..."))
	case v.status.text != "":
		sb.WriteString(s.Error.Render("Erro: " + v.status.text))
	case len(v.filtered) == 0:
		sb.WriteString(s.Muted.Render("Nenhum produto encontrado no momento."))
	default:
		for i, p := range v.filtered {
			line := fmt.Sprintf("%s%-32s %12s  %s", marker(v.sel.at(i)), p.Name, p.Price.String(), leaves(p.SustainabilityLevel))
			if v.sel.at(i) {
				line = s.Selected.Render(line)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// leaves renders a 0-5 sustainability rating.
func leaves(level *int) string {
	if level == nil {
		return ""
	}
	n := min(max(*level, 0), 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func (v *productsView) SetSize(width, _ int) {
	v.width = width
	v.search.setWidth(width)
}

func (v *productsView) Capturing() bool { return v.search.focused() }

func (v *productsView) Help() string {
	return v.env.Styles.KeyHint("↑/↓", "navegar", "enter", "detalhes", "/", "buscar", "r", "recarregar")
}
