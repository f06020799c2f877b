package navigation

// ProtectedViews require a session to render.
var ProtectedViews = map[ViewID]struct{}{
	Community: {},
	Sell:      {},
	Carts:     {},
	Account:   {},
}

// IsProtected reports whether v requires a session.
func IsProtected(v ViewID) bool {
	_, ok := ProtectedViews[v]
	return ok
}

// Effective is the view that is actually rendered for a State.
type Effective struct {
	View      ViewID
	Entity    EntityID
	HasEntity bool
	// Redirected is set when a protected view was replaced by Login.
	Redirected bool
	// Requested is the view the Selector points at.
	Requested ViewID
}

// Resolve maps a navigation state and session presence to the view to
// render. It never mutates the Selector.
func Resolve(st State, sessionPresent bool) Effective {
	eff := Effective{Requested: st.Current}

	switch {
	case !st.Current.Valid():
		eff.View = Home
	case IsProtected(st.Current) && !sessionPresent:
		eff.View = Login
		eff.Redirected = true
	default:
		eff.View = st.Current
	}

	if eff.View == ProductDetail && st.HasEntity {
		eff.Entity = st.SelectedEntity
		eff.HasEntity = true
	}
	return eff
}

// Gate renders children when authenticated and fallback otherwise. Only
// the chosen branch is evaluated.
func Gate(authenticated bool, children, fallback func() string) string {
	if authenticated {
		return children()
	}
	return fallback()
}
