package ui

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// Markdown renders product descriptions with glamour, caching one renderer
// per wrap width.
type Markdown struct {
	mu        sync.Mutex
	style     string
	width     int
	maxWidth  int
	renderer  *glamour.TermRenderer
	cache     map[string]string
	cacheSize int
}

// NewMarkdown returns a renderer using the named glamour style.
func NewMarkdown(style string) *Markdown {
	return &Markdown{style: style, cache: make(map[string]string), cacheSize: 64}
}

// SetMaxWidth caps the wrap column regardless of the window width.
// Zero removes the cap.
func (m *Markdown) SetMaxWidth(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxWidth = max(n, 0)
}

// Render renders content wrapped at width. Any glamour failure, panics
// included, degrades to the plain text.
func (m *Markdown) Render(content string, width int) (result string) {
	if content == "" {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxWidth > 0 && width > m.maxWidth {
		width = m.maxWidth
	}
	if width < 20 {
		width = 20
	}
	if m.renderer == nil || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		m.renderer = r
		m.width = width
		m.cache = make(map[string]string)
	}

	if out, ok := m.cache[content]; ok {
		return out
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	if len(m.cache) >= m.cacheSize {
		m.cache = make(map[string]string)
	}
	m.cache[content] = out
	return out
}
