package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// =============================================================================
// AUTH
// =============================================================================

// Login exchanges credentials for a token and user.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	out.User.cleanText(c.sanitizer.Text)
	return &out, nil
}

// Register creates an account. It does not log the user in.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (string, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", in, &out); err != nil {
		return "", err
	}
	return c.sanitizer.Text(out.Message), nil
}

// =============================================================================
// PRODUCTS
// =============================================================================

// Products lists the catalog. limit <= 0 means no limit.
func (c *Client) Products(ctx context.Context, limit int) (ProductList, error) {
	path := "/api/products"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var out ProductList
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	// The backend may ignore ?limit.
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Product fetches one product.
func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	var out Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SellerProducts lists the products a user sells.
func (c *Client) SellerProducts(ctx context.Context, userID int64) (ProductList, error) {
	var out ProductList
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d/products", userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProduct publishes a product.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (string, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/products", in, &out); err != nil {
		return "", err
	}
	return c.sanitizer.Text(out.Message), nil
}

// UpdateProduct replaces a product.
func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) (string, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/products/%d", id), in, &out); err != nil {
		return "", err
	}
	return c.sanitizer.Text(out.Message), nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil, nil)
}

// Storefront is what the home view shows.
type Storefront struct {
	Featured ProductList
	Carousel ProductList
}

const (
	featuredCount = 3
	carouselCount = 5
)

// Storefront fetches the featured list and the carousel concurrently. A
// failure of either fails the whole load.
func (c *Client) Storefront(ctx context.Context) (*Storefront, error) {
	var sf Storefront
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		all, err := c.Products(gctx, 0)
		if err != nil {
			return err
		}
		if len(all) > featuredCount {
			all = all[:featuredCount]
		}
		sf.Featured = all
		return nil
	})
	g.Go(func() error {
		promo, err := c.Products(gctx, carouselCount)
		if err != nil {
			return err
		}
		sf.Carousel = promo
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &sf, nil
}

// =============================================================================
// CARTS
// =============================================================================

// Carts lists a user's carts.
func (c *Client) Carts(ctx context.Context, userID int64) (CartList, error) {
	var out CartList
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d/carts", userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCart creates a cart for a user.
func (c *Client) CreateCart(ctx context.Context, in CartInput) (string, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/carts", in, &out); err != nil {
		return "", err
	}
	return c.sanitizer.Text(out.Message), nil
}

// DeleteCart removes a cart.
func (c *Client) DeleteCart(ctx context.Context, cartID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/carts/%d", cartID), nil, nil)
}

// CartItems lists the products inside a cart.
func (c *Client) CartItems(ctx context.Context, cartID int64) (CartItemList, error) {
	var out CartItemList
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/carts/%d/products", cartID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddToCart adds one unit of a product to a cart.
func (c *Client) AddToCart(ctx context.Context, cartID, productID int64) (string, error) {
	var out MessageResponse
	body := addCartItemRequest{ProductID: productID, Quantity: 1}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/carts/%d/products", cartID), body, &out); err != nil {
		return "", err
	}
	return c.sanitizer.Text(out.Message), nil
}

// SetCartItemQuantity changes the quantity of a cart item.
func (c *Client) SetCartItemQuantity(ctx context.Context, cartID, productID int64, qty int) error {
	if qty < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", qty)
	}
	path := fmt.Sprintf("/api/carts/%d/products/%d", cartID, productID)
	return c.do(ctx, http.MethodPut, path, updateQuantityRequest{Quantity: qty}, nil)
}

// RemoveCartItem removes a product from a cart.
func (c *Client) RemoveCartItem(ctx context.Context, cartID, productID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/carts/%d/products/%d", cartID, productID), nil, nil)
}

// =============================================================================
// USERS
// =============================================================================

// User fetches a profile.
func (c *Client) User(ctx context.Context, id int64) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser saves profile changes.
func (c *Client) UpdateUser(ctx context.Context, id int64, in UpdateUserRequest) (string, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), in, &out); err != nil {
		return "", err
	}
	return c.sanitizer.Text(out.Message), nil
}

// Sustainability fetches a user's impact summary.
func (c *Client) Sustainability(ctx context.Context, id int64) (*Sustainability, error) {
	var out Sustainability
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d/sustentabilidade", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PlantTree records a planted tree and returns the refreshed summary.
func (c *Client) PlantTree(ctx context.Context, id int64) (*Sustainability, error) {
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/users/%d/plantar-arvore", id), nil, nil); err != nil {
		return nil, err
	}
	return c.Sustainability(ctx, id)
}

// =============================================================================
// COMMUNITY
// =============================================================================

// Events lists community events.
func (c *Client) Events(ctx context.Context) (EventList, error) {
	var out EventList
	if err := c.do(ctx, http.MethodGet, "/api/events", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Comments lists community comments.
func (c *Client) Comments(ctx context.Context) (CommentList, error) {
	var out CommentList
	if err := c.do(ctx, http.MethodGet, "/api/comments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PostComment publishes a comment.
func (c *Client) PostComment(ctx context.Context, in CommentInput) error {
	return c.do(ctx, http.MethodPost, "/api/comments", in, nil)
}
