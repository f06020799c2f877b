package ui

import (
	"strings"
	"testing"
)

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "0;15")
	if DetectTheme().IsDark {
		t.Fatalf("expected light theme for a white background")
	}

	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme for a black background")
	}

	t.Setenv("COLORFGBG", "")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme by default")
	}
}

func TestThemeFor(t *testing.T) {
	if ThemeFor("light").IsDark {
		t.Error("light should not be dark")
	}
	if !ThemeFor("dark").IsDark {
		t.Error("dark should be dark")
	}
}

func TestLayoutConfig(t *testing.T) {
	l := NewLayoutConfig(120, 40)
	if l.IsCompact || l.TooSmall() {
		t.Errorf("120x40 should be full layout: %+v", l)
	}
	if l.ContentHeight() <= 0 || l.ContentWidth() <= 0 {
		t.Errorf("expected positive content area")
	}
	if !NewLayoutConfig(40, 10).TooSmall() {
		t.Error("40x10 should be too small")
	}
}

func TestKeyHint(t *testing.T) {
	s := NewStyles(DarkTheme())
	out := s.KeyHint("q", "sair", "esc", "voltar")
	for _, want := range []string{"q", "sair", "esc", "voltar"} {
		if !strings.Contains(out, want) {
			t.Errorf("hint missing %q: %s", want, out)
		}
	}
}

func TestMarkdownFallsBackToPlainText(t *testing.T) {
	md := NewMarkdown("no-such-style")
	if got := md.Render("**bambu**", 40); !strings.Contains(got, "bambu") {
		t.Errorf("expected content preserved, got %q", got)
	}
	if got := NewMarkdown("dark").Render("", 40); got != "" {
		t.Errorf("empty content should render empty, got %q", got)
	}
}

func TestMarkdownRendersAndCaches(t *testing.T) {
	md := NewMarkdown("notty")
	first := md.Render("# Escova\n\nFeita de bambu.", 60)
	if !strings.Contains(first, "bambu") {
		t.Fatalf("rendered output lost content: %q", first)
	}
	if second := md.Render("# Escova\n\nFeita de bambu.", 60); second != first {
		t.Error("cached render should be identical")
	}
}

func TestMarkdownMaxWidthCapsWrap(t *testing.T) {
	md := NewMarkdown("notty")
	md.SetMaxWidth(30)
	md.Render("texto", 120)
	if md.width != 30 {
		t.Errorf("expected wrap capped at 30, got %d", md.width)
	}

	md.SetMaxWidth(0)
	md.Render("texto", 120)
	if md.width != 120 {
		t.Errorf("expected uncapped wrap at 120, got %d", md.width)
	}
}
