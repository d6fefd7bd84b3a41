package ui

import (
	"testing"
	"unicode/utf8"
)

func TestWrapLinesWidth(t *testing.T) {
	lines := wrapLines("una dos tres cuatro cinco seis siete", 14)
	for _, l := range lines {
		if utf8.RuneCountInString(l) > 14 {
			t.Errorf("line wider than 14 columns: %q", l)
		}
	}
	if len(lines) < 2 {
		t.Errorf("expected the text to wrap, got %v", lines)
	}
}

func TestWrapLinesCountsRunes(t *testing.T) {
	// 5 + 1 + 6 runes fits exactly in 12 columns; a byte count would
	// split the accented words onto two lines.
	lines := wrapLines("añadí azúcar", 12)
	if len(lines) != 1 || lines[0] != "añadí azúcar" {
		t.Errorf("accented text must wrap by rune width, got %v", lines)
	}
}

func TestWrapLinesParagraphBreaks(t *testing.T) {
	lines := wrapLines("Primero el pollo.\n\nDespués el arroz.", 40)
	want := []string{"Primero el pollo.", "", "Después el arroz."}
	if len(lines) != len(want) {
		t.Fatalf("expected %v, got %v", want, lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}
