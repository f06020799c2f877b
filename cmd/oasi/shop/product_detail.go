package shop

import (
	"fmt"
	"strings"

	"oasi/internal/api"
	"oasi/internal/logging"
	"oasi/internal/navigation"

	tea "github.com/charmbracelet/bubbletea"
)

type productLoadedMsg struct {
	product *api.Product
	err     error
}

type pickerCartsMsg struct {
	carts api.CartList
	err   error
}

type addedToCartMsg struct {
	message string
	err     error
}

type productDetailView struct {
	env     *Env
	id      navigation.EntityID
	has     bool
	width   int
	loading bool
	status  status
	product *api.Product

	// cart picker
	picking bool
	carts   api.CartList
	sel     selection
	busy    bool
}

func newProductDetailView(env *Env, eff navigation.Effective) View {
	return &productDetailView{env: env, id: eff.Entity, has: eff.HasEntity, loading: eff.HasEntity}
}

func (v *productDetailView) Init() tea.Cmd {
	if !v.has {
		return func() tea.Msg { return redirectMsg{to: navigation.Products} }
	}
	env, id := v.env, int64(v.id)
	return func() tea.Msg {
		p, err := env.API.Product(env.Ctx, id)
		return productLoadedMsg{product: p, err: err}
	}
}

func (v *productDetailView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case productLoadedMsg:
		v.loading = false
		if msg.err != nil {
			logging.Get(logging.CategoryViews).Warn("product %d: load failed: %v", v.id, msg.err)
			if api.IsNotFound(msg.err) {
				v.status = status{text: "Produto não encontrado."}
			} else {
				v.status = errorStatus(msg.err, "Erro ao carregar produto.")
			}
			return nil
		}
		v.product = msg.product

	case pickerCartsMsg:
		v.busy = false
		if msg.err != nil {
			v.status = status{text: "Erro ao buscar carrinhos: " + api.UserMessage(msg.err, "Falha ao buscar seus carrinhos.")}
			return nil
		}
		if len(msg.carts) == 0 {
			v.status = status{text: "Você precisa ter carrinhos para adicionar produtos."}
			return nil
		}
		v.carts = msg.carts
		v.sel.reset(len(v.carts))
		v.picking = true

	case addedToCartMsg:
		v.busy = false
		if msg.err != nil {
			v.status = status{text: "Erro: " + api.UserMessage(msg.err, "Falha ao adicionar produto ao carrinho.")}
			return nil
		}
		text := msg.message
		if text == "" {
			text = "Produto adicionado ao carrinho!"
		}
		v.status = okStatus(text)

	case tea.KeyMsg:
		if v.picking {
			return v.updatePicker(msg)
		}
		switch msg.String() {
		case "esc", "b", "backspace":
			// Back always goes to the catalog.
			v.env.Nav.SetView(navigation.Products)
		case "c":
			return v.openPicker()
		}
	}
	return nil
}

func (v *productDetailView) openPicker() tea.Cmd {
	if v.product == nil || v.busy {
		return nil
	}
	uid, ok := v.env.Session.UserID()
	if !ok {
		v.status = status{text: "Você precisa estar logado para adicionar produtos ao carrinho."}
		return nil
	}
	v.busy = true
	v.status = status{}
	env := v.env
	return func() tea.Msg {
		carts, err := env.API.Carts(env.Ctx, uid)
		return pickerCartsMsg{carts: carts, err: err}
	}
}

func (v *productDetailView) updatePicker(msg tea.KeyMsg) tea.Cmd {
	if v.sel.handle(msg.String()) {
		return nil
	}
	switch msg.String() {
	case "esc":
		v.picking = false
	case "enter":
		v.picking = false
		v.busy = true
		v.status = okStatus("Adicionando ao carrinho...")
		env := v.env
		cartID, productID := v.carts[v.sel.pos].ID, v.product.ID
		return func() tea.Msg {
			text, err := env.API.AddToCart(env.Ctx, cartID, productID)
			return addedToCartMsg{message: text, err: err}
		}
	}
	return nil
}

func (v *productDetailView) View() string {
	s := v.env.Styles
	var sb strings.Builder
	sb.WriteString(s.Muted.Render("← Voltar"))
	sb.WriteString("\n\n")

	if v.loading {
		sb.WriteString(v.env.loading("Carregando produto..."))
		return sb.String()
	}
	if v.product == nil {
		sb.WriteString(v.status.render(s))
		return sb.String()
	}

	p := v.product
	sb.WriteString(s.Title.Render(p.Name))
	sb.WriteString("\n")
	sb.WriteString(s.Price.Render(p.Price.String()))
	if p.SustainabilityLevel != nil {
		sb.WriteString("   ")
		sb.WriteString(s.Warning.Render(leaves(p.SustainabilityLevel)))
	}
	sb.WriteString("\n\n")

	if p.Description != "" {
		sb.WriteString(v.env.Markdown.Render(p.Description, v.width))
		sb.WriteString("\n")
	} else {
		sb.WriteString(s.Muted.Render("Sem descrição."))
		sb.WriteString("\n\n")
	}

	if v.picking {
		sb.WriteString(s.Bold.Render("Escolha um carrinho:"))
		sb.WriteString("\n")
		for i, c := range v.carts {
			line := marker(v.sel.at(i)) + c.Name
			if c.Purpose != nil && *c.Purpose != "" {
				line += s.Muted.Render(fmt.Sprintf(" (%s)", *c.Purpose))
			}
			if v.sel.at(i) {
				line = s.Selected.Render(line)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	} else if v.busy {
		sb.WriteString(v.env.loading("Aguarde..."))
		sb.WriteString("\n")
	}

	if st := v.status.render(s); st != "" {
		sb.WriteString("\n")
		sb.WriteString(st)
	}
	return sb.String()
}

func (v *productDetailView) SetSize(width, _ int) { v.width = width }
func (v *productDetailView) Capturing() bool      { return false }

func (v *productDetailView) Help() string {
	if v.picking {
		return v.env.Styles.KeyHint("↑/↓", "escolher", "enter", "adicionar", "esc", "cancelar")
	}
	return v.env.Styles.KeyHint("c", "adicionar ao carrinho", "esc", "voltar")
}
