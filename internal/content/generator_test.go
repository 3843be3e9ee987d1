package content

import (
	"reflect"
	"strings"
	"testing"

	"autotube/internal/pkg/errors"
)

func TestGenerateGolden(t *testing.T) {
	got, err := Generate(Input{Niche: "  Fakta Unik  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Niche != "Fakta Unik" {
		t.Errorf("niche not trimmed: %q", got.Niche)
	}
	if got.Style != "educational" {
		t.Errorf("expected default style, got %q", got.Style)
	}
	if got.Duration != 120 {
		t.Errorf("expected default duration 120, got %d", got.Duration)
	}
	if got.Title != "Fakta Unik: Rahasia Yang Jarang Dibahas" {
		t.Errorf("unexpected title %q", got.Title)
	}

	wantOutline := []string{
		"Hook pembuka yang memikat",
		"Perkenalan singkat channel & konteks",
		"Penjelasan inti tentang Fakta Unik",
		"Tips/praktik terbaik",
		"Contoh kasus nyata",
		"Ringkasan & CTA subscribe",
	}
	if !reflect.DeepEqual(got.Outline, wantOutline) {
		t.Errorf("outline mismatch:\n got %q\nwant %q", got.Outline, wantOutline)
	}

	wantScript := "[HOOK] Bayangin kalau kamu bisa memahami Fakta Unik hanya dalam beberapa menit...\n\n" +
		"[INTRO] Halo! Di video ini kita bahas Fakta Unik dengan gaya educational.\n\n" +
		"[CONTENT] Intinya, Fakta Unik punya beberapa poin penting: ...\n\n" +
		"[TIPS] Beberapa tips cepat: 1) ..., 2) ..., 3) ...\n\n" +
		"[EXAMPLE] Contohnya, ...\n\n" +
		"[OUTRO] Thanks sudah nonton! Jangan lupa like & subscribe."
	if got.Script != wantScript {
		t.Errorf("script mismatch:\n got %q\nwant %q", got.Script, wantScript)
	}
	if got.Keywords == nil || len(got.Keywords) != 0 {
		t.Errorf("expected empty non-nil keywords, got %#v", got.Keywords)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	in := Input{Niche: "Sejarah Kopi", Style: "storytelling", Duration: 300, Keywords: []string{"kopi", "sejarah"}}

	a, err := Generate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Generate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Errorf("same input produced different output:\n%#v\n%#v", a, b)
	}
	if !strings.Contains(a.Script, "dengan gaya storytelling") {
		t.Errorf("style not threaded into script: %q", a.Script)
	}
}

func TestGenerateClampsDuration(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{10, 30},
		{10000, 900},
		{0, 120},
		{45, 45},
	}
	for _, tt := range tests {
		got, err := Generate(Input{Niche: "x", Duration: tt.in})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Duration != tt.want {
			t.Errorf("duration %d: got %d, want %d", tt.in, got.Duration, tt.want)
		}
	}
}

func TestGenerateRejectsEmptyNiche(t *testing.T) {
	for _, niche := range []string{"", "   ", "\t\n"} {
		_, err := Generate(Input{Niche: niche})
		if !errors.IsValidation(err) {
			t.Errorf("niche %q: expected validation error, got %v", niche, err)
		}
	}
}

func TestTitleCandidates(t *testing.T) {
	tests := []struct {
		duration int
		want     string
	}{
		{120, "AI Dalam 2 Menit: Ringkas & Padat"},
		{45, "AI Dalam 45 Menit: Ringkas & Padat"},
		{90, "AI Dalam 1 Menit: Ringkas & Padat"},
	}
	for _, tt := range tests {
		got := TitleCandidates("AI", tt.duration)
		if len(got) != 5 {
			t.Fatalf("expected 5 candidates, got %d", len(got))
		}
		if got[1] != tt.want {
			t.Errorf("duration %d: got %q, want %q", tt.duration, got[1], tt.want)
		}
	}
}
