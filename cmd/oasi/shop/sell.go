package shop

import (
	"fmt"
	"strconv"
	"strings"

	"oasi/internal/api"
	"oasi/internal/logging"
	"oasi/internal/navigation"

	tea "github.com/charmbracelet/bubbletea"
)

// formError is a validation failure shown verbatim to the user.
type formError string

func (e formError) Error() string { return string(e) }

const (
	errNameAndPriceRequired formError = "Nome e preço são obrigatórios."
	errInvalidPrice         formError = "Preço inválido."
	errInvalidLevel         formError = "Nível de sustentabilidade deve ser de 1 a 5."
)

type sellerProductsMsg struct {
	list api.ProductList
	err  error
}

type productSavedMsg struct {
	message string
	edited  bool
	err     error
}

type productDeletedMsg struct {
	err error
}

type sellView struct {
	env     *Env
	width   int
	loading bool
	busy    bool
	status  status
	list    api.ProductList
	sel     selection
	form    *form

	editing    int64
	confirmDel bool
}

func newSellView(env *Env, _ navigation.Effective) View {
	return &sellView{
		env:     env,
		loading: true,
		form: newForm(
			newField("nome", "Nome do produto", "Escova de bambu"),
			newField("preco", "Preço (R$)", "19,90"),
			newField("nivel", "Sustentabilidade (1-5)", "opcional"),
			newField("descricao", "Descrição", "markdown permitido"),
			newField("imagem", "URL da imagem", "opcional"),
		),
	}
}

// productInput validates the form fields into a request body.
func productInput(name, price, level, description, image string, sellerID int64) (api.ProductInput, error) {
	if name == "" || price == "" {
		return api.ProductInput{}, errNameAndPriceRequired
	}
	p, err := api.ParsePrice(price)
	if err != nil {
		return api.ProductInput{}, errInvalidPrice
	}
	in := api.ProductInput{
		Name:        name,
		Price:       p,
		Description: description,
		ImageURL:    image,
		SellerID:    sellerID,
	}
	if level != "" {
		n, err := strconv.Atoi(level)
		if err != nil || n < 1 || n > 5 {
			return api.ProductInput{}, errInvalidLevel
		}
		in.SustainabilityLevel = &n
	}
	return in, nil
}

func (v *sellView) Init() tea.Cmd {
	return v.fetch()
}

func (v *sellView) fetch() tea.Cmd {
	uid, ok := v.env.Session.UserID()
	if !ok {
		return nil
	}
	env := v.env
	return func() tea.Msg {
		list, err := env.API.SellerProducts(env.Ctx, uid)
		return sellerProductsMsg{list: list, err: err}
	}
}

func (v *sellView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case sellerProductsMsg:
		v.loading = false
		if msg.err != nil {
			logging.Get(logging.CategoryViews).Warn("sell: load failed: %v", msg.err)
			v.status = errorStatus(msg.err, "Erro ao carregar seus produtos.")
			return nil
		}
		v.list = msg.list
		v.sel.reset(len(v.list))

	case productSavedMsg:
		v.busy = false
		if msg.err != nil {
			v.status = errorStatus(msg.err, "Erro ao cadastrar produto.")
			return nil
		}
		text := msg.message
		if text == "" {
			text = "Produto cadastrado com sucesso!"
			if msg.edited {
				text = "Produto atualizado com sucesso!"
			}
		}
		v.status = okStatus(text)
		v.form.reset()
		v.editing = 0
		return v.fetch()

	case productDeletedMsg:
		v.busy = false
		if msg.err != nil {
			v.status = errorStatus(msg.err, "Erro ao excluir produto.")
			return nil
		}
		v.status = okStatus("Produto excluído com sucesso!")
		return v.fetch()

	case tea.KeyMsg:
		if v.form.focused() {
			if msg.String() == "esc" && v.editing != 0 {
				v.editing = 0
				v.form.reset()
			}
			if v.form.update(msg) {
				return v.submit()
			}
			return nil
		}
		key := msg.String()
		if v.confirmDel {
			v.confirmDel = false
			if key == "y" {
				return v.delete()
			}
			v.status = status{}
			return nil
		}
		if v.sel.handle(key) {
			return nil
		}
		switch key {
		case "n":
			v.editing = 0
			v.form.reset()
			v.form.focusAt(0)
		case "e":
			if v.sel.n > 0 {
				v.startEdit(v.list[v.sel.pos])
			}
		case "d":
			if v.sel.n > 0 {
				v.confirmDel = true
				v.status = status{text: fmt.Sprintf("Excluir %q? y confirma, qualquer outra tecla cancela.", v.list[v.sel.pos].Name)}
			}
		case "r":
			v.loading = true
			return v.fetch()
		}
	}
	return nil
}

func (v *sellView) startEdit(p api.Product) {
	v.editing = p.ID
	v.form.set("nome", p.Name)
	v.form.set("preco", strings.Replace(strconv.FormatFloat(float64(p.Price), 'f', 2, 64), ".", ",", 1))
	if p.SustainabilityLevel != nil {
		v.form.set("nivel", strconv.Itoa(*p.SustainabilityLevel))
	} else {
		v.form.set("nivel", "")
	}
	v.form.set("descricao", p.Description)
	v.form.set("imagem", p.ImageURL)
	v.form.focusAt(0)
}

func (v *sellView) submit() tea.Cmd {
	if v.busy {
		return nil
	}
	uid, ok := v.env.Session.UserID()
	if !ok {
		v.status = status{text: "Usuário não está logado."}
		return nil
	}
	in, err := productInput(
		v.form.value("nome"),
		v.form.value("preco"),
		v.form.value("nivel"),
		v.form.value("descricao"),
		v.form.value("imagem"),
		uid,
	)
	if err != nil {
		v.status = status{text: err.Error()}
		return nil
	}

	v.form.blur()
	v.busy = true
	v.status = status{}
	env, id := v.env, v.editing
	return func() tea.Msg {
		if id != 0 {
			text, err := env.API.UpdateProduct(env.Ctx, id, in)
			return productSavedMsg{message: text, edited: true, err: err}
		}
		text, err := env.API.CreateProduct(env.Ctx, in)
		return productSavedMsg{message: text, err: err}
	}
}

func (v *sellView) delete() tea.Cmd {
	if v.sel.n == 0 || v.busy {
		return nil
	}
	v.busy = true
	env, id := v.env, v.list[v.sel.pos].ID
	return func() tea.Msg {
		return productDeletedMsg{err: env.API.DeleteProduct(env.Ctx, id)}
	}
}

func (v *sellView) View() string {
	s := v.env.Styles
	var sb strings.Builder
	sb.WriteString(s.Title.Render("Vender na Oasi"))
	sb.WriteString("\n")

	if v.editing != 0 {
		sb.WriteString(s.Bold.Render(fmt.Sprintf("Editando produto #%d", v.editing)))
	} else {
		sb.WriteString(s.Bold.Render("Cadastrar novo produto"))
	}
	sb.WriteString("\n")
	sb.WriteString(v.form.view(s))
	if v.busy {
		sb.WriteString(v.env.loading("Salvando..."))
		sb.WriteString("\n")
	}
	if st := v.status.render(s); st != "" {
		sb.WriteString(st)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(s.Title.Render("Meus produtos"))
	sb.WriteString("\n")
	switch {
	case v.loading:
		sb.WriteString(v.env.loading("Carregando seus produtos..."))
	case len(v.list) == 0:
		sb.WriteString(s.Muted.Render("Você ainda não cadastrou produtos."))
	default:
		for i, p := range v.list {
			line := fmt.Sprintf("%s%-32s %12s", marker(v.sel.at(i)), p.Name, p.Price.String())
			if v.sel.at(i) {
				line = s.Selected.Render(line)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (v *sellView) SetSize(width, _ int) {
	v.width = width
	v.form.setWidth(width)
}

func (v *sellView) Capturing() bool { return v.form.focused() }

func (v *sellView) Help() string {
	if v.form.focused() {
		return v.env.Styles.KeyHint("tab", "próximo campo", "enter", "salvar")
	}
	return v.env.Styles.KeyHint("n", "novo", "e", "editar", "d", "excluir", "r", "recarregar")
}
