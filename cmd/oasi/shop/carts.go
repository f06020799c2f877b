package shop

import (
	"fmt"
	"strings"

	"oasi/internal/api"
	"oasi/internal/logging"
	"oasi/internal/navigation"

	tea "github.com/charmbracelet/bubbletea"
)

type cartsLoadedMsg struct {
	carts api.CartList
	err   error
}

type cartCreatedMsg struct {
	message string
	err     error
}

type cartDeletedMsg struct {
	id  int64
	err error
}

type cartItemsMsg struct {
	cartID int64
	items  api.CartItemList
	err    error
}

type cartItemChangedMsg struct {
	cartID int64
	text   string
	err    error
}

type cartsView struct {
	env     *Env
	width   int
	loading bool
	status  status
	carts   api.CartList
	sel     selection
	form    *form

	confirmDel bool

	// expanded cart
	openID       int64
	items        api.CartItemList
	itemSel      selection
	itemsFocus   bool
	itemsLoading bool
	itemsStatus  status
}

func newCartsView(env *Env, _ navigation.Effective) View {
	return &cartsView{
		env:     env,
		loading: true,
		form: newForm(
			newField("nome", "Nome do carrinho", "Casa, Presentes..."),
			newField("proposito", "Propósito", "opcional"),
		),
	}
}

func (v *cartsView) Init() tea.Cmd {
	return v.fetch()
}

func (v *cartsView) fetch() tea.Cmd {
	uid, ok := v.env.Session.UserID()
	if !ok {
		v.loading = false
		v.status = status{text: "Usuário não está logado."}
		return nil
	}
	env := v.env
	return func() tea.Msg {
		carts, err := env.API.Carts(env.Ctx, uid)
		return cartsLoadedMsg{carts: carts, err: err}
	}
}

func (v *cartsView) fetchItems(cartID int64) tea.Cmd {
	v.itemsLoading = true
	env := v.env
	return func() tea.Msg {
		items, err := env.API.CartItems(env.Ctx, cartID)
		return cartItemsMsg{cartID: cartID, items: items, err: err}
	}
}

func (v *cartsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case cartsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			logging.Get(logging.CategoryViews).Warn("carts: load failed: %v", msg.err)
			v.status = errorStatus(msg.err, "Erro ao carregar carrinhos.")
			v.carts = nil
			v.sel.reset(0)
			return nil
		}
		v.carts = msg.carts
		v.sel.reset(len(v.carts))

	case cartCreatedMsg:
		if msg.err != nil {
			v.loading = false
			v.status = errorStatus(msg.err, "Erro ao criar carrinho. Verifique se o backend está rodando.")
			return nil
		}
		v.form.reset()
		v.status = okStatus("Carrinho criado com sucesso!")
		return v.fetch()

	case cartDeletedMsg:
		if msg.err != nil {
			v.loading = false
			v.status = errorStatus(msg.err, "Erro ao excluir carrinho.")
			return nil
		}
		if v.openID == msg.id {
			v.collapse()
		}
		v.status = okStatus("Carrinho excluído com sucesso!")
		return v.fetch()

	case cartItemsMsg:
		if msg.cartID != v.openID {
			return nil
		}
		v.itemsLoading = false
		if msg.err != nil {
			v.itemsStatus = errorStatus(msg.err, "Erro ao carregar produtos do carrinho.")
			v.items = nil
			v.itemSel.reset(0)
			return nil
		}
		v.items = msg.items
		v.itemSel.reset(len(v.items))
		if len(v.items) == 0 {
			v.itemsStatus = okStatus("Este carrinho está vazio.")
		}

	case cartItemChangedMsg:
		if msg.err != nil {
			v.itemsStatus = errorStatus(msg.err, "Erro ao atualizar o carrinho.")
			return nil
		}
		v.itemsStatus = okStatus(msg.text)
		if msg.cartID == v.openID {
			return v.fetchItems(msg.cartID)
		}

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return nil
}

func (v *cartsView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.form.focused() {
		if v.form.update(msg) {
			return v.create()
		}
		return nil
	}

	key := msg.String()
	if v.confirmDel {
		v.confirmDel = false
		v.status = status{}
		if key == "y" {
			return v.deleteSelected()
		}
		return nil
	}

	if v.itemsFocus {
		return v.handleItemKey(key)
	}

	if v.sel.handle(key) {
		return nil
	}
	switch key {
	case "n":
		v.form.focusAt(0)
	case "enter":
		return v.toggle()
	case "d":
		if v.sel.n > 0 {
			v.confirmDel = true
			v.status = status{text: "Tem certeza que deseja excluir este carrinho? y confirma."}
		}
	case "r":
		v.loading = true
		return v.fetch()
	}
	return nil
}

func (v *cartsView) handleItemKey(key string) tea.Cmd {
	if v.itemSel.handle(key) {
		return nil
	}
	switch key {
	case "esc", "enter":
		v.collapse()
	case "+", "=":
		return v.changeQuantity(1)
	case "-":
		return v.changeQuantity(-1)
	case "x":
		return v.removeItem()
	}
	return nil
}

// toggle expands the selected cart, or collapses it when already open.
func (v *cartsView) toggle() tea.Cmd {
	if v.sel.n == 0 {
		return nil
	}
	id := v.carts[v.sel.pos].ID
	if v.openID == id {
		v.collapse()
		return nil
	}
	v.openID = id
	v.items = nil
	v.itemsStatus = status{}
	v.itemsFocus = true
	return v.fetchItems(id)
}

func (v *cartsView) collapse() {
	v.openID = 0
	v.items = nil
	v.itemsFocus = false
	v.itemsLoading = false
	v.itemsStatus = status{}
}

func (v *cartsView) create() tea.Cmd {
	uid, ok := v.env.Session.UserID()
	if !ok {
		v.status = status{text: "Usuário não está logado."}
		return nil
	}
	name := v.form.value("nome")
	if name == "" {
		v.status = status{text: "Nome do carrinho é obrigatório."}
		return nil
	}
	in := api.CartInput{Name: name, Purpose: v.form.value("proposito"), UserID: uid}

	v.form.blur()
	v.loading = true
	v.status = status{}
	env := v.env
	return func() tea.Msg {
		text, err := env.API.CreateCart(env.Ctx, in)
		return cartCreatedMsg{message: text, err: err}
	}
}

func (v *cartsView) deleteSelected() tea.Cmd {
	if v.sel.n == 0 {
		return nil
	}
	env, id := v.env, v.carts[v.sel.pos].ID
	v.loading = true
	return func() tea.Msg {
		return cartDeletedMsg{id: id, err: env.API.DeleteCart(env.Ctx, id)}
	}
}

func (v *cartsView) changeQuantity(delta int) tea.Cmd {
	if v.itemSel.n == 0 {
		return nil
	}
	item := v.items[v.itemSel.pos]
	qty := item.Quantity + delta
	if qty < 1 {
		return v.removeItem()
	}
	env, cartID := v.env, v.openID
	return func() tea.Msg {
		err := env.API.SetCartItemQuantity(env.Ctx, cartID, item.ID, qty)
		return cartItemChangedMsg{cartID: cartID, text: "Quantidade atualizada.", err: err}
	}
}

func (v *cartsView) removeItem() tea.Cmd {
	if v.itemSel.n == 0 {
		return nil
	}
	env, cartID, productID := v.env, v.openID, v.items[v.itemSel.pos].ID
	return func() tea.Msg {
		err := env.API.RemoveCartItem(env.Ctx, cartID, productID)
		return cartItemChangedMsg{cartID: cartID, text: "Produto removido do carrinho.", err: err}
	}
}

func (v *cartsView) View() string {
	s := v.env.Styles
	var sb strings.Builder
	sb.WriteString(s.Title.Render("Meus Carrinhos"))
	sb.WriteString("\n")

	sb.WriteString(s.Bold.Render("Criar novo carrinho"))
	sb.WriteString("\n")
	sb.WriteString(v.form.view(s))
	if st := v.status.render(s); st != "" {
		sb.WriteString(st)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	switch {
	case v.loading:
		sb.WriteString(v.env.loading("Carregando carrinhos..."))
		return sb.String()
	case len(v.carts) == 0:
		sb.WriteString(s.Muted.Render("Você ainda não tem carrinhos."))
		return sb.String()
	}

	for i, c := range v.carts {
		line := marker(v.sel.at(i) && !v.itemsFocus) + c.Name
		if c.Purpose != nil && *c.Purpose != "" {
			line += s.Muted.Render(" · " + *c.Purpose)
		}
		if c.CreatedAt != "" {
			line += s.Muted.Render("  criado em " + shortDate(c.CreatedAt))
		}
		if v.sel.at(i) {
			line = s.Selected.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
		if c.ID == v.openID {
			sb.WriteString(v.renderItems())
		}
	}
	return sb.String()
}

func (v *cartsView) renderItems() string {
	s := v.env.Styles
	var sb strings.Builder
	if v.itemsLoading {
		sb.WriteString("    " + v.env.loading("Carregando produtos..."))
		sb.WriteString("\n")
		return sb.String()
	}
	for i, it := range v.items {
		line := fmt.Sprintf("    %s%-28s %3dx %12s = %s",
			marker(v.itemSel.at(i)), it.Name, it.Quantity, it.Price.String(), it.Subtotal().String())
		if v.itemSel.at(i) {
			line = s.Selected.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if len(v.items) > 0 {
		sb.WriteString("    " + s.Price.Render("Total: "+v.items.Total().String()))
		sb.WriteString("\n")
	}
	if st := v.itemsStatus.render(s); st != "" {
		sb.WriteString("    " + st)
		sb.WriteString("\n")
	}
	return sb.String()
}

// shortDate trims an ISO timestamp to its date.
func shortDate(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i > 0 {
		return ts[:i]
	}
	return ts
}

func (v *cartsView) SetSize(width, _ int) {
	v.width = width
	v.form.setWidth(width)
}

func (v *cartsView) Capturing() bool { return v.form.focused() }

func (v *cartsView) Help() string {
	s := v.env.Styles
	switch {
	case v.form.focused():
		return s.KeyHint("tab", "próximo campo", "enter", "criar")
	case v.itemsFocus:
		return s.KeyHint("↑/↓", "produto", "+/-", "quantidade", "x", "remover", "esc", "fechar")
	default:
		return s.KeyHint("↑/↓", "navegar", "enter", "ver produtos", "n", "novo", "d", "excluir")
	}
}
