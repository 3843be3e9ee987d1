package thumbnail

import (
	"bytes"
	"context"
	"image/jpeg"
	"testing"

	"autotube/internal/ports"
)

func TestWrap(t *testing.T) {
	// every rune is 10 units wide
	measure := func(s string) int { return len([]rune(s)) * 10 }

	tests := []struct {
		name     string
		text     string
		maxWidth int
		want     []string
	}{
		{"fits on one line", "aa bb", 50, []string{"aa bb"}},
		{"breaks at width", "aa bb cc", 50, []string{"aa bb", "cc"}},
		{"long word alone", "aaaaaaaa bb", 50, []string{"aaaaaaaa", "bb"}},
		{"extra spaces", "  aa   bb  ", 100, []string{"aa bb"}},
		{"empty", "", 50, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, measure, tt.maxWidth)
			if len(got) != len(tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTitleTop(t *testing.T) {
	tests := []struct {
		lines int
		want  int
	}{
		{1, 312},
		{2, 264},
		{3, 216},
		// centred on the full wrap even though only three lines are drawn
		{5, 120},
	}
	for _, tt := range tests {
		if got := TitleTop(tt.lines); got != tt.want {
			t.Errorf("TitleTop(%d) = %d, want %d", tt.lines, got, tt.want)
		}
	}
}

func TestFooter(t *testing.T) {
	if got := Footer("educational", 120); got != "Educational • 120s" {
		t.Errorf("unexpected footer %q", got)
	}
	if got := Footer("deep dive", 45); got != "Deep Dive • 45s" {
		t.Errorf("unexpected footer %q", got)
	}
}

func TestRender(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := r.Render(context.Background(), ports.ThumbnailRequest{
		Title:    "Keuangan Pribadi: Rahasia Yang Jarang Dibahas dan Sangat Panjang Sekali Untuk Satu Baris",
		Style:    "educational",
		Duration: 120,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != Width || b.Dy() != Height {
		t.Errorf("expected %dx%d, got %dx%d", Width, Height, b.Dx(), b.Dy())
	}
}

func TestRenderCanceled(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Render(ctx, ports.ThumbnailRequest{Title: "x"}); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
