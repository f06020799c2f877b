package api

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from backend free text before it reaches the
// terminal. Sellers and commenters type these strings, so they are untrusted.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a Sanitizer that removes every tag.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text strips tags and terminal control characters from s. Entities are
// decoded before the policy runs, so escaped markup is stripped as well.
func (s *Sanitizer) Text(in string) string {
	if in == "" {
		return ""
	}
	out := html.UnescapeString(s.policy.Sanitize(html.UnescapeString(in)))
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, out)
}

// textCleaner is implemented by DTOs carrying user-authored text.
type textCleaner interface {
	cleanText(clean func(string) string)
}

func (p *Product) cleanText(clean func(string) string) {
	p.Name = clean(p.Name)
	p.Description = clean(p.Description)
}

func (l *ProductList) cleanText(clean func(string) string) {
	for i := range *l {
		(*l)[i].cleanText(clean)
	}
}

func (l *CartList) cleanText(clean func(string) string) {
	for i := range *l {
		(*l)[i].Name = clean((*l)[i].Name)
		if p := (*l)[i].Purpose; p != nil {
			cleaned := clean(*p)
			(*l)[i].Purpose = &cleaned
		}
	}
}

func (l *CartItemList) cleanText(clean func(string) string) {
	for i := range *l {
		(*l)[i].Name = clean((*l)[i].Name)
	}
}

func (l *EventList) cleanText(clean func(string) string) {
	for i := range *l {
		(*l)[i].Name = clean((*l)[i].Name)
	}
}

func (l *CommentList) cleanText(clean func(string) string) {
	for i := range *l {
		(*l)[i].Author = clean((*l)[i].Author)
		(*l)[i].Text = clean((*l)[i].Text)
	}
}

func (u *User) cleanText(clean func(string) string) {
	u.Name = clean(u.Name)
}
