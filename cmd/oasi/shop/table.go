package shop

import (
	"oasi/internal/logging"
	"oasi/internal/navigation"

	tea "github.com/charmbracelet/bubbletea"
)

// View is one full-screen storefront page. Views are mounted fresh each
// time they become the effective view and own their loading state.
type View interface {
	// Init returns the view's initial fetch.
	Init() tea.Cmd
	// Update handles keys and the view's own result messages.
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
	// Capturing reports whether a text field has focus, which suspends
	// the global navigation keys.
	Capturing() bool
	// Help returns the footer key hints.
	Help() string
}

type viewFactory func(env *Env, eff navigation.Effective) View

// viewTable maps every ViewID to its page.
var viewTable = map[navigation.ViewID]viewFactory{
	navigation.Home:          newHomeView,
	navigation.Products:      newProductsView,
	navigation.Community:     newCommunityView,
	navigation.Sell:          newSellView,
	navigation.Carts:         newCartsView,
	navigation.Account:       newAccountView,
	navigation.Login:         newLoginView,
	navigation.ProductDetail: newProductDetailView,
}

// buildView instantiates the page for eff. Unknown ids get Home.
func buildView(env *Env, eff navigation.Effective) View {
	factory, ok := viewTable[eff.View]
	if !ok {
		logging.Get(logging.CategoryNavigation).Warn("no view registered for %q, falling back to home", eff.View)
		factory = viewTable[navigation.Home]
	}
	return factory(env, eff)
}
