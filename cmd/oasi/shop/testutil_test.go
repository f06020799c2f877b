package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"oasi/cmd/oasi/ui"
	"oasi/internal/api"
	"oasi/internal/config"
	"oasi/internal/navigation"
	"oasi/internal/session"
	"oasi/internal/storage"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// FAKE BACKEND
// =============================================================================

const (
	testEmail    = "ana@oasi.dev"
	testPassword = "segredo"
	testToken    = "tok-ana"
	testUserID   = 7
)

type fakeCart struct {
	api.Cart
	items []api.CartItem
}

// fakeBackend is an in-memory Oasi REST backend.
type fakeBackend struct {
	mu       sync.Mutex
	products []api.Product
	carts    []*fakeCart
	user     api.User
	impact   api.Sustainability
	events   api.EventList
	comments api.CommentList
	nextID   int64
	calls    []string
	fail     map[string]int // "METHOD pattern" -> forced status
}

func newFakeBackend() *fakeBackend {
	level := 4
	purpose := "Casa"
	return &fakeBackend{
		products: []api.Product{
			{ID: 1, Name: "Escova de bambu", Price: 19.9, SustainabilityLevel: &level, Description: "Cerdas **macias**.", SellerID: testUserID},
			{ID: 2, Name: "Sabonete artesanal", Price: 12.5, SellerID: 9},
			{ID: 3, Name: "Vaso de cerâmica", Price: 89, SellerID: 9},
			{ID: 4, Name: "Canudo de inox", Price: 7.5, SellerID: 9},
			{ID: 42, Name: "Bolsa de juta", Price: 59.9, SellerID: 9},
		},
		carts: []*fakeCart{
			{Cart: api.Cart{ID: 10, Name: "Mercado", Purpose: &purpose, CreatedAt: "2026-01-05T10:00:00Z"},
				items: []api.CartItem{{ID: 1, Name: "Escova de bambu", Price: 19.9, Quantity: 2}}},
		},
		user:     api.User{ID: testUserID, Name: "Ana", Email: testEmail, Phone: "11 99999-0000"},
		impact:   api.Sustainability{TreesPlanted: 2, GreenPoints: 40, ImpactKgCO2: 12.5},
		events:   api.EventList{{ID: 1, Name: "Feira de trocas", Date: "2026-11-20"}},
		comments: api.CommentList{{ID: 1, UserID: 9, Author: "Bruno", Text: "Bem-vindos!"}},
		nextID:   100,
		fail:     map[string]int{},
	}
}

func (b *fakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBackend) FailWith(pattern string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[pattern] = status
}

func (b *fakeBackend) cart(id int64) *fakeCart {
	for _, c := range b.carts {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func message(w http.ResponseWriter, status int, text string) {
	reply(w, status, api.MessageResponse{Message: text})
}

func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id
}

func (b *fakeBackend) Handler() http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern string, fn func(w http.ResponseWriter, r *http.Request)) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.calls = append(b.calls, r.Method+" "+r.URL.Path)
			if status, ok := b.fail[pattern]; ok {
				message(w, status, "Falha simulada.")
				return
			}
			fn(w, r)
		})
	}

	handle("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in api.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Email != testEmail || in.Password != testPassword {
			message(w, http.StatusUnauthorized, "Credenciais inválidas.")
			return
		}
		reply(w, http.StatusOK, api.AuthResponse{Token: testToken, User: &b.user, Message: "Login realizado com sucesso!"})
	})
	handle("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var in api.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Email == testEmail {
			message(w, http.StatusConflict, "Email já cadastrado.")
			return
		}
		message(w, http.StatusCreated, "Usuário cadastrado com sucesso!")
	})

	handle("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, b.products)
	})
	handle("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		for _, p := range b.products {
			if p.ID == id {
				reply(w, http.StatusOK, p)
				return
			}
		}
		message(w, http.StatusNotFound, "Produto não encontrado.")
	})
	handle("POST /api/products", func(w http.ResponseWriter, r *http.Request) {
		var in api.ProductInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.nextID++
		b.products = append(b.products, api.Product{ID: b.nextID, Name: in.Name, Price: in.Price, SellerID: in.SellerID})
		message(w, http.StatusCreated, "Produto cadastrado com sucesso!")
	})
	handle("PUT /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in api.ProductInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		id := pathID(r, "id")
		for i := range b.products {
			if b.products[i].ID == id {
				b.products[i].Name, b.products[i].Price = in.Name, in.Price
			}
		}
		message(w, http.StatusOK, "Produto atualizado com sucesso!")
	})
	handle("DELETE /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		kept := b.products[:0]
		for _, p := range b.products {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		b.products = kept
		message(w, http.StatusOK, "Produto excluído.")
	})

	handle("GET /api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, b.user)
	})
	handle("PUT /api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in api.UpdateUserRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.user.Name, b.user.Email, b.user.Phone = in.Name, in.Email, in.Phone
		message(w, http.StatusOK, "Dados atualizados com sucesso!")
	})
	handle("GET /api/users/{id}/products", func(w http.ResponseWriter, r *http.Request) {
		var out []api.Product
		for _, p := range b.products {
			if p.SellerID == pathID(r, "id") {
				out = append(out, p)
			}
		}
		reply(w, http.StatusOK, out)
	})
	handle("GET /api/users/{id}/sustentabilidade", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, b.impact)
	})
	handle("POST /api/users/{id}/plantar-arvore", func(w http.ResponseWriter, r *http.Request) {
		b.impact.TreesPlanted++
		b.impact.GreenPoints += 10
		message(w, http.StatusOK, "Árvore plantada.")
	})

	handle("GET /api/users/{id}/carts", func(w http.ResponseWriter, r *http.Request) {
		out := make([]api.Cart, 0, len(b.carts))
		for _, c := range b.carts {
			out = append(out, c.Cart)
		}
		reply(w, http.StatusOK, out)
	})
	handle("POST /api/carts", func(w http.ResponseWriter, r *http.Request) {
		var in api.CartInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.nextID++
		purpose := in.Purpose
		b.carts = append(b.carts, &fakeCart{Cart: api.Cart{ID: b.nextID, Name: in.Name, Purpose: &purpose}})
		message(w, http.StatusCreated, "Carrinho criado com sucesso!")
	})
	handle("DELETE /api/carts/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		kept := b.carts[:0]
		for _, c := range b.carts {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		b.carts = kept
		w.WriteHeader(http.StatusNoContent)
	})
	handle("GET /api/carts/{id}/products", func(w http.ResponseWriter, r *http.Request) {
		c := b.cart(pathID(r, "id"))
		if c == nil {
			message(w, http.StatusNotFound, "Carrinho não encontrado.")
			return
		}
		reply(w, http.StatusOK, append([]api.CartItem{}, c.items...))
	})
	handle("POST /api/carts/{id}/products", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			ProductID int64 `json:"produto_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		c := b.cart(pathID(r, "id"))
		for _, p := range b.products {
			if p.ID == in.ProductID {
				c.items = append(c.items, api.CartItem{ID: p.ID, Name: p.Name, Price: p.Price, Quantity: 1})
			}
		}
		message(w, http.StatusCreated, "Produto adicionado ao carrinho!")
	})
	handle("PUT /api/carts/{id}/products/{pid}", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Quantity int `json:"quantidade"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		c := b.cart(pathID(r, "id"))
		for i := range c.items {
			if c.items[i].ID == pathID(r, "pid") {
				c.items[i].Quantity = in.Quantity
			}
		}
		message(w, http.StatusOK, "Quantidade atualizada.")
	})
	handle("DELETE /api/carts/{id}/products/{pid}", func(w http.ResponseWriter, r *http.Request) {
		c := b.cart(pathID(r, "id"))
		kept := c.items[:0]
		for _, it := range c.items {
			if it.ID != pathID(r, "pid") {
				kept = append(kept, it)
			}
		}
		c.items = kept
		w.WriteHeader(http.StatusNoContent)
	})

	handle("GET /api/events", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, b.events)
	})
	handle("GET /api/comments", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, b.comments)
	})
	handle("POST /api/comments", func(w http.ResponseWriter, r *http.Request) {
		var in api.CommentInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.nextID++
		b.comments = append(b.comments, api.Comment{ID: b.nextID, UserID: in.UserID, Author: b.user.Name, Text: in.Text})
		message(w, http.StatusCreated, "Comentário publicado.")
	})
	return mux
}

// =============================================================================
// TEST MODEL BUILDER
// =============================================================================

// testHarness bundles a model with the stores and backend behind it.
type testHarness struct {
	Backend *fakeBackend
	Storage *storage.MemoryStore
	Env     *Env
}

// TestModelOption configures a test harness before the model is built.
type TestModelOption func(*testHarness)

// WithSession starts the model logged in as the fake backend's user.
func WithSession() TestModelOption {
	return func(h *testHarness) {
		_ = h.Env.Session.Login(testToken, session.UserSummary{ID: testUserID, Name: "Ana", Email: testEmail})
	}
}

// AtView starts the navigation state on view.
func AtView(view navigation.ViewID) TestModelOption {
	return func(h *testHarness) { h.Env.Nav.SetView(view) }
}

// AtEntity starts on view with a selected entity.
func AtEntity(view navigation.ViewID, id navigation.EntityID) TestModelOption {
	return func(h *testHarness) { h.Env.Nav.Navigate(view, id) }
}

// WithBackend mutates the fake backend before the model is built.
func WithBackend(fn func(*fakeBackend)) TestModelOption {
	return func(h *testHarness) { fn(h.Backend) }
}

// NewTestModel builds a sized Model against an in-memory backend and
// storage, and settles the first view's fetch.
func NewTestModel(t *testing.T, opts ...TestModelOption) (Model, *testHarness) {
	t.Helper()

	backend := newFakeBackend()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = srv.URL
	cfg.API.RateLimit = 0
	cfg.API.Timeout = "2s"

	st := storage.NewMemory()
	store := session.NewStore(st)
	client, err := api.New(cfg, api.WithTokenSource(store.Token))
	require.NoError(t, err)

	h := &testHarness{
		Backend: backend,
		Storage: st,
		Env:     NewEnv(context.Background(), store, navigation.New(), client, ui.NewStyles(ui.DarkTheme()), "dark"),
	}
	for _, opt := range opts {
		opt(h)
	}

	m := New(h.Env)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	return drain(t, m, m.initCmd), h
}

// drain runs cmd and every command its results produce, feeding each
// message back through Update until nothing is left. Spinner ticks are
// dropped so the loop settles.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 500, "command queue did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, out := m.Update(msg)
			m = next.(Model)
			queue = append(queue, out)
		}
	}
	return m
}

// send delivers msg and settles everything it triggers.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return drain(t, next.(Model), cmd)
}

// press sends a sequence of keys, settling after each.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = send(t, m, keyMsg(k))
	}
	return m
}

// typeText types s into the focused field one rune at a time.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func call(method, path string, args ...any) string {
	return method + " " + fmt.Sprintf(path, args...)
}
