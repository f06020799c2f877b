package shop

import (
	"strings"

	"oasi/cmd/oasi/ui"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field struct {
	key   string
	label string
	input textinput.Model
}

func newField(key, label, placeholder string) field {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)
	return field{key: key, label: label, input: ti}
}

func passwordField(key, label string) field {
	f := newField(key, label, "")
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

// form is a vertical list of text fields with a single focus.
type form struct {
	fields []field
	focus  int
}

func newForm(fields ...field) *form {
	return &form{fields: fields, focus: -1}
}

func (f *form) focused() bool {
	return f.focus >= 0
}

func (f *form) focusAt(i int) {
	f.blur()
	if i < 0 || i >= len(f.fields) {
		return
	}
	f.focus = i
	f.fields[i].input.Focus()
}

func (f *form) blur() {
	for i := range f.fields {
		f.fields[i].input.Blur()
	}
	f.focus = -1
}

func (f *form) next() {
	f.focusAt((f.focus + 1) % len(f.fields))
}

func (f *form) prev() {
	f.focusAt((f.focus - 1 + len(f.fields)) % len(f.fields))
}

func (f *form) value(key string) string {
	for _, fl := range f.fields {
		if fl.key == key {
			return strings.TrimSpace(fl.input.Value())
		}
	}
	return ""
}

func (f *form) set(key, v string) {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.fields[i].input.SetValue(v)
		}
	}
}

func (f *form) reset() {
	for i := range f.fields {
		f.fields[i].input.SetValue("")
	}
}

func (f *form) setWidth(w int) {
	w = max(w-26, 10)
	for i := range f.fields {
		f.fields[i].input.Width = w
	}
}

// update routes a key to the focused field. It reports true when the
// user submitted the form with enter.
func (f *form) update(msg tea.KeyMsg) (submitted bool) {
	if !f.focused() {
		return false
	}
	switch msg.String() {
	case "enter":
		return true
	case "tab", "down":
		f.next()
	case "shift+tab", "up":
		f.prev()
	case "esc":
		f.blur()
	default:
		f.fields[f.focus].input, _ = f.fields[f.focus].input.Update(msg)
	}
	return false
}

func (f *form) view(s ui.Styles) string {
	var sb strings.Builder
	for i, fl := range f.fields {
		label := s.Label.Render(fl.label)
		if i == f.focus {
			label = s.Label.Foreground(s.Theme.Primary).Render("› " + fl.label)
		}
		sb.WriteString(label)
		sb.WriteString(fl.input.View())
		sb.WriteString("\n")
	}
	return sb.String()
}

// selection is a cursor over a list of n items.
type selection struct {
	pos int
	n   int
}

func (s *selection) reset(n int) {
	s.n = n
	if s.pos >= n {
		s.pos = max(n-1, 0)
	}
}

func (s *selection) move(delta int) {
	if s.n == 0 {
		return
	}
	s.pos = (s.pos + delta + s.n) % s.n
}

func (s selection) at(i int) bool {
	return s.n > 0 && s.pos == i
}

// handle moves on up/down keys and reports whether the key was consumed.
func (s *selection) handle(key string) bool {
	switch key {
	case "up", "k":
		s.move(-1)
	case "down", "j":
		s.move(1)
	default:
		return false
	}
	return true
}

func marker(selected bool) string {
	if selected {
		return "▸ "
	}
	return "  "
}
