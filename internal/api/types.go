package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Validator is implemented by response DTOs checked at the boundary.
type Validator interface {
	Validate() error
}

// =============================================================================
// SCALARS
// =============================================================================

// Price is a monetary amount. The backend sends it either as a JSON number
// or as a decimal string ("19.90").
type Price float64

// UnmarshalJSON accepts numbers and numeric strings.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("invalid price %q", s)
		}
		*p = Price(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = Price(f)
	return nil
}

// String formats the price in reais.
func (p Price) String() string {
	return "R$ " + strings.Replace(strconv.FormatFloat(float64(p), 'f', 2, 64), ".", ",", 1)
}

// ParsePrice parses a price typed by a user, accepting "19,90" or "19.90".
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	return Price(f), nil
}

// =============================================================================
// AUTH
// =============================================================================

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
	Phone    string `json:"telefone"`
}

// User is a backend user record.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Phone string `json:"telefone"`
}

func (u User) Validate() error {
	if u.ID <= 0 {
		return fmt.Errorf("user: missing id")
	}
	return nil
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token   string `json:"token"`
	User    *User  `json:"user"`
	Message string `json:"message"`
}

// Validate checks the login shape: a token and a user with an id.
func (r AuthResponse) Validate() error {
	if r.Token == "" {
		return fmt.Errorf("auth: missing token")
	}
	if r.User == nil {
		return fmt.Errorf("auth: missing user")
	}
	return r.User.Validate()
}

// MessageResponse is the generic {message} body of mutations.
type MessageResponse struct {
	Message string `json:"message"`
}

// UpdateUserRequest is the body of PUT /api/users/{id}.
type UpdateUserRequest struct {
	Name  string `json:"nome"`
	Email string `json:"email"`
	Phone string `json:"telefone"`
}

// Sustainability is the per-user impact summary.
type Sustainability struct {
	TreesPlanted int     `json:"arvores_plantadas"`
	GreenPoints  int     `json:"pontos_verdes"`
	ImpactKgCO2  float64 `json:"impacto_kg_co2"`
}

func (s Sustainability) Validate() error {
	if s.TreesPlanted < 0 || s.GreenPoints < 0 {
		return fmt.Errorf("sustainability: negative counters")
	}
	return nil
}

// =============================================================================
// PRODUCTS
// =============================================================================

// Product is a catalog entry.
type Product struct {
	ID                  int64  `json:"id"`
	Name                string `json:"nome"`
	Price               Price  `json:"preco"`
	SustainabilityLevel *int   `json:"nivel_sustentabilidade,omitempty"`
	Description         string `json:"descricao,omitempty"`
	ImageURL            string `json:"imagem_url"`
	SellerID            int64  `json:"id_vendedor"`
}

func (p Product) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("product: missing id")
	}
	if p.Name == "" {
		return fmt.Errorf("product %d: missing name", p.ID)
	}
	if p.Price < 0 {
		return fmt.Errorf("product %d: negative price", p.ID)
	}
	return nil
}

// ProductList is a list response.
type ProductList []Product

func (l ProductList) Validate() error {
	for i, p := range l {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// ProductInput is the body of product create/update.
type ProductInput struct {
	Name                string `json:"nome"`
	Price               Price  `json:"preco"`
	SustainabilityLevel *int   `json:"nivel_sustentabilidade"`
	Description         string `json:"descricao"`
	ImageURL            string `json:"imagem_url"`
	SellerID            int64  `json:"id_vendedor"`
}

// =============================================================================
// CARTS
// =============================================================================

// Cart is a named shopping list owned by a user.
type Cart struct {
	ID        int64   `json:"id"`
	Name      string  `json:"nome"`
	Purpose   *string `json:"proposito"`
	CreatedAt string  `json:"criado_em"`
}

func (c Cart) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("cart: missing id")
	}
	return nil
}

// CartList is a list response.
type CartList []Cart

func (l CartList) Validate() error {
	for i, c := range l {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// CartInput is the body of POST /api/carts.
type CartInput struct {
	Name    string `json:"nome"`
	Purpose string `json:"proposito"`
	UserID  int64  `json:"id_usuario"`
}

// CartItem is a product inside a cart.
type CartItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"nome"`
	Price    Price  `json:"preco"`
	ImageURL string `json:"imagem_url"`
	Quantity int    `json:"quantidade"`
}

func (i CartItem) Validate() error {
	if i.ID <= 0 {
		return fmt.Errorf("cart item: missing id")
	}
	if i.Quantity < 0 {
		return fmt.Errorf("cart item %d: negative quantity", i.ID)
	}
	return nil
}

// Subtotal is price times quantity.
func (i CartItem) Subtotal() Price {
	return i.Price * Price(i.Quantity)
}

// CartItemList is a list response.
type CartItemList []CartItem

func (l CartItemList) Validate() error {
	for i, it := range l {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// Total sums all subtotals.
func (l CartItemList) Total() Price {
	var total Price
	for _, it := range l {
		total += it.Subtotal()
	}
	return total
}

type addCartItemRequest struct {
	ProductID int64 `json:"produto_id"`
	Quantity  int   `json:"quantidade"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantidade"`
}

// =============================================================================
// COMMUNITY
// =============================================================================

// Event is a community event.
type Event struct {
	ID       int64  `json:"id"`
	Name     string `json:"nome"`
	Date     string `json:"data"`
	ImageURL string `json:"imagem_url,omitempty"`
}

func (e Event) Validate() error {
	if e.ID <= 0 || e.Name == "" {
		return fmt.Errorf("event: missing id or name")
	}
	return nil
}

// EventList is a list response.
type EventList []Event

func (l EventList) Validate() error {
	for i, e := range l {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// Comment is a community comment.
type Comment struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"id_usuario"`
	Author    string `json:"autor,omitempty"`
	Text      string `json:"texto"`
	CreatedAt string `json:"criado_em,omitempty"`
}

func (c Comment) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("comment: missing id")
	}
	return nil
}

// CommentList is a list response.
type CommentList []Comment

func (l CommentList) Validate() error {
	for i, c := range l {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// CommentInput is the body of POST /api/comments.
type CommentInput struct {
	UserID int64  `json:"id_usuario"`
	Text   string `json:"texto"`
}
