// Package shop is the Oasi terminal storefront: a root bubbletea model that
// dispatches the current navigation state to one mounted view at a time.
package shop

import (
	"context"

	"oasi/cmd/oasi/ui"
	"oasi/internal/api"
	"oasi/internal/navigation"
	"oasi/internal/session"
)

// Env is the shared context every view reads: the session and navigation
// stores, the backend client and presentation helpers. Views mutate the
// stores only through their own operations.
type Env struct {
	Session  *session.Store
	Nav      *navigation.Selector
	API      *api.Client
	Styles   ui.Styles
	Markdown *ui.Markdown
	Ctx      context.Context

	frame string

	// dirty is set by the store subscriptions and cleared when the root
	// model re-resolves the effective view.
	dirty bool
}

// NewEnv wires an Env with the styles derived from theme and subscribes
// it to both stores.
func NewEnv(ctx context.Context, store *session.Store, nav *navigation.Selector, client *api.Client, styles ui.Styles, markdownStyle string) *Env {
	env := &Env{
		Session:  store,
		Nav:      nav,
		API:      client,
		Styles:   styles,
		Markdown: ui.NewMarkdown(markdownStyle),
		Ctx:      ctx,
		dirty:    true,
	}
	store.Subscribe(func(session.Session) { env.dirty = true })
	nav.Subscribe(func(navigation.State) { env.dirty = true })
	return env
}

// loading renders a spinner line.
func (e *Env) loading(label string) string {
	if e.frame == "" {
		return e.Styles.Muted.Render(label)
	}
	return e.frame + " " + e.Styles.Muted.Render(label)
}

// status is a transient inline message owned by one view.
type status struct {
	text string
	ok   bool
}

func errorStatus(err error, fallback string) status {
	return status{text: api.UserMessage(err, fallback)}
}

func okStatus(text string) status {
	return status{text: text, ok: true}
}

func (s status) render(styles ui.Styles) string {
	switch {
	case s.text == "":
		return ""
	case s.ok:
		return styles.Success.Render(s.text)
	default:
		return styles.Error.Render(s.text)
	}
}
