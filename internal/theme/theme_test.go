package theme

import (
	"strings"
	"testing"
)

func TestGradient(t *testing.T) {
	g := Gradient("#000000", "#FFFFFF", 5)
	if len(g) != 5 {
		t.Fatalf("len = %d, want 5", len(g))
	}
	if g[0] != "#000000" || g[4] != "#FFFFFF" {
		t.Errorf("endpoints = %s, %s", g[0], g[4])
	}
	for i := 1; i < len(g); i++ {
		if Lightness(g[i]) < Lightness(g[i-1]) {
			t.Errorf("lightness decreases at %d: %v", i, g)
		}
	}
}

func TestGradient_Fallbacks(t *testing.T) {
	g := Gradient("nope", "also nope", 1)
	if len(g) != 2 {
		t.Fatalf("len = %d, want minimum of 2", len(g))
	}
	if g[0] != ColorPrimary || g[1] != ColorSecondary {
		t.Errorf("got %v", g)
	}
}

func TestGradientText_KeepsText(t *testing.T) {
	if got := GradientText("", []string{"#FFFFFF"}, false); got != "" {
		t.Errorf("got %q", got)
	}
	got := GradientText("moosic", Gradient(ColorPrimary, ColorSecondary, 3), true)
	for _, r := range "moosic" {
		if !strings.ContainsRune(got, r) {
			t.Errorf("rendered text lost %q", r)
		}
	}
}

func TestBanner(t *testing.T) {
	if strings.TrimSpace(Banner("moosic")) == "" {
		t.Error("expected banner output")
	}
}

func TestKeyValue(t *testing.T) {
	got := KeyValue("id", "42", 8)
	if !strings.Contains(got, "42") || !strings.Contains(got, "id") {
		t.Errorf("got %q", got)
	}
}
