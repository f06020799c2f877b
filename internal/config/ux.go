package config

// UIConfig holds terminal interface configuration.
type UIConfig struct {
	// Theme selects the palette: auto (detect from terminal), light or dark.
	Theme string `json:"theme" yaml:"theme"`

	// MarkdownStyle is the glamour style used for product descriptions.
	// Empty means follow the theme.
	MarkdownStyle string `json:"markdown_style,omitempty" yaml:"markdown_style,omitempty"`

	// WordWrap is the column at which descriptions wrap (0 = window width).
	WordWrap int `json:"word_wrap,omitempty" yaml:"word_wrap,omitempty"`

	// AltScreen runs the client in the terminal's alternate screen buffer.
	AltScreen bool `json:"alt_screen" yaml:"alt_screen"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Theme:     "auto",
		WordWrap:  80,
		AltScreen: true,
	}
}

// GlamourStyle resolves the markdown style for the given dark/light state.
func (u UIConfig) GlamourStyle(isDark bool) string {
	if u.MarkdownStyle != "" {
		return u.MarkdownStyle
	}
	if isDark {
		return "dark"
	}
	return "light"
}
