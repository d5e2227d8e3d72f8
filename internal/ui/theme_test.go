package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Nightfox" || names[1] != "Kanagawa" || names[2] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Nightfox Kanagawa Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Nightfox"); got != "Kanagawa" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Kanagawa", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("unknown"); got != "Nightfox" {
		t.Fatalf("NextTheme(unknown) = %q, want Nightfox", got)
	}
}

func TestGetTheme_Fallback(t *testing.T) {
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Dracula).Name = %q, want Nightfox", got)
	}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for i, c := range th.Density {
			if c == "" {
				t.Fatalf("%s density[%d] empty", name, i)
			}
		}
	}
}

func TestDensityLevel(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{-1, 0},
		{0.1, 1},
		{0.25, 2},
		{0.6, 3},
		{1, 4},
	}
	for _, tt := range tests {
		if got := densityLevel(tt.in); got != tt.want {
			t.Errorf("densityLevel(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBgStyle_RenderKeepsSpaces(t *testing.T) {
	bg := NewBgStyle("#000000")
	if got := bg.Render("a  b", lipgloss.NewStyle()); lipgloss.Width(got) != 4 {
		t.Fatalf("Render width = %d, want 4", lipgloss.Width(got))
	}
	if got := bg.Render("", lipgloss.NewStyle()); got != "" {
		t.Fatalf("Render(\"\") = %q, want empty", got)
	}
	if got := bg.Join([]string{"x", "y"}, "  "); lipgloss.Width(got) != 4 {
		t.Fatalf("Join width = %d, want 4", lipgloss.Width(got))
	}
}
