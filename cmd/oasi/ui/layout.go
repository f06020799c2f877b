// Package ui layout constants for consistent spacing and dimensions
package ui

// Layout constants for view sizing
const (
	HeaderHeight = 3
	FooterHeight = 2

	ContentPaddingH = 2
	ContentPaddingV = 1

	// Responsive breakpoints
	MinimumTerminalWidth  = 60
	MinimumTerminalHeight = 16
	CompactModeWidth      = 100
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// ContentWidth returns the usable width below the header
func (l LayoutConfig) ContentWidth() int {
	return max(l.TerminalWidth-ContentPaddingH*2, 20)
}

// ContentHeight returns the usable height between header and footer
func (l LayoutConfig) ContentHeight() int {
	return max(l.TerminalHeight-HeaderHeight-FooterHeight-ContentPaddingV*2, 4)
}

// TooSmall reports whether the terminal is below the supported minimum
func (l LayoutConfig) TooSmall() bool {
	return l.TerminalWidth < MinimumTerminalWidth || l.TerminalHeight < MinimumTerminalHeight
}
