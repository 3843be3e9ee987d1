// Package content builds the title, outline and script for a new video job from fixed
// Indonesian templates. Output depends only on the input, so it is safe for golden tests.
package content

import (
	"fmt"
	"strings"

	"autotube/internal/models"
	"autotube/internal/pkg/errors"
)

type Input struct {
	Niche    string
	Style    string
	Duration int
	Keywords []string
}

type Content struct {
	Niche    string
	Style    string
	Duration int
	Keywords []string
	Title    string
	Outline  []string
	Script   string
}

// Normalize trims the niche and applies defaults and clamping without generating anything.
func Normalize(in Input) (Input, error) {
	in.Niche = strings.TrimSpace(in.Niche)
	if in.Niche == "" {
		return in, errors.ValidationField("niche", "Niche/topic is required")
	}
	if strings.TrimSpace(in.Style) == "" {
		in.Style = models.DefaultStyle
	}
	if in.Duration == 0 {
		in.Duration = models.DefaultDuration
	}
	in.Duration = models.ClampDuration(in.Duration)
	if in.Keywords == nil {
		in.Keywords = []string{}
	}
	return in, nil
}

// Generate returns the templated content for in.
func Generate(in Input) (Content, error) {
	in, err := Normalize(in)
	if err != nil {
		return Content{}, err
	}

	return Content{
		Niche:    in.Niche,
		Style:    in.Style,
		Duration: in.Duration,
		Keywords: in.Keywords,
		Title:    TitleCandidates(in.Niche, in.Duration)[0],
		Outline:  outline(in.Niche),
		Script:   script(in.Niche, in.Style),
	}, nil
}

// TitleCandidates lists every title template. The first one is the chosen title.
func TitleCandidates(niche string, duration int) []string {
	minutes := duration
	if duration >= 60 {
		minutes = duration / 60
	}
	return []string{
		fmt.Sprintf("%s: Rahasia Yang Jarang Dibahas", niche),
		fmt.Sprintf("%s Dalam %d Menit: Ringkas & Padat", niche, minutes),
		fmt.Sprintf("7 Fakta Penting Tentang %s Yang Wajib Kamu Tahu", niche),
		fmt.Sprintf("%s Untuk Pemula: Panduan Lengkap", niche),
		fmt.Sprintf("Kenapa %s Itu Penting Di 2025?", niche),
	}
}

func outline(niche string) []string {
	return []string{
		"Hook pembuka yang memikat",
		"Perkenalan singkat channel & konteks",
		fmt.Sprintf("Penjelasan inti tentang %s", niche),
		"Tips/praktik terbaik",
		"Contoh kasus nyata",
		"Ringkasan & CTA subscribe",
	}
}

func script(niche, style string) string {
	parts := []string{
		fmt.Sprintf("[HOOK] Bayangin kalau kamu bisa memahami %s hanya dalam beberapa menit...", niche),
		fmt.Sprintf("[INTRO] Halo! Di video ini kita bahas %s dengan gaya %s.", niche, style),
		fmt.Sprintf("[CONTENT] Intinya, %s punya beberapa poin penting: ...", niche),
		"[TIPS] Beberapa tips cepat: 1) ..., 2) ..., 3) ...",
		"[EXAMPLE] Contohnya, ...",
		"[OUTRO] Thanks sudah nonton! Jangan lupa like & subscribe.",
	}
	return strings.Join(parts, "\n\n")
}
