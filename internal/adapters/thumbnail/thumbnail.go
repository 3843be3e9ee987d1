// Package thumbnail draws the 1280x720 JPEG cover used for a job's video.
package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"autotube/internal/ports"
)

const (
	Width  = 1280
	Height = 720

	margin      = 80
	lineHeight  = 96
	titleSize   = 84
	footerSize  = 36
	maxLines    = 3
	borderInset = 20
	borderWidth = 6
	strokeWidth = 3
	jpegQuality = 90
)

var (
	slate900   = color.RGBA{15, 23, 42, 255}
	gradTop    = color.RGBA{99, 102, 241, 255}
	gradBottom = color.RGBA{30, 64, 175, 255}
	footerInk  = color.RGBA{240, 240, 240, 255}
)

// Renderer implements ports.ThumbnailRenderer with the embedded Go fonts.
type Renderer struct {
	title  *opentype.Font
	footer *opentype.Font
}

func New() (*Renderer, error) {
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse title font: %w", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse footer font: %w", err)
	}
	return &Renderer{title: bold, footer: regular}, nil
}

func (r *Renderer) Render(ctx context.Context, req ports.ThumbnailRequest) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	titleFace, err := opentype.NewFace(r.title, &opentype.FaceOptions{Size: titleSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	defer titleFace.Close()

	footerFace, err := opentype.NewFace(r.footer, &opentype.FaceOptions{Size: footerSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	defer footerFace.Close()

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(slate900), image.Point{}, draw.Src)
	paintGradient(img)
	paintBorder(img)

	measure := func(s string) int { return font.MeasureString(titleFace, s).Ceil() }
	lines := Wrap(req.Title, measure, Width-2*margin)
	top := TitleTop(len(lines))
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	ascent := titleFace.Metrics().Ascent.Ceil()
	for i, line := range lines {
		drawStroked(img, titleFace, line, margin, top+i*lineHeight+ascent)
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(footerInk),
		Face: footerFace,
		Dot:  fixed.P(margin, Height-100),
	}
	d.DrawString(Footer(req.Style, req.Duration))

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// TitleTop returns the y of the first title line for a title wrapped into n lines.
// Titles longer than three lines keep the block offset of the full wrap and only
// the first three lines are drawn.
func TitleTop(n int) int {
	return Height/2 - (n*lineHeight)/2
}

// Footer formats the caption drawn at the bottom, e.g. "Educational • 120s".
func Footer(style string, duration int) string {
	return fmt.Sprintf("%s • %ds", cases.Title(language.Und).String(style), duration)
}

// Wrap packs words greedily into lines whose measured width stays within maxWidth.
// A single word wider than maxWidth gets a line of its own.
func Wrap(text string, measure func(string) int, maxWidth int) []string {
	var lines []string
	cur := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		if cur == "" || measure(candidate) <= maxWidth {
			cur = candidate
			continue
		}
		lines = append(lines, cur)
		cur = word
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func paintGradient(img *image.RGBA) {
	for y := 0; y < Height; y++ {
		c := lerp(gradTop, gradBottom, float64(y)/float64(Height-1))
		draw.Draw(img, image.Rect(0, y, Width, y+1), image.NewUniform(c), image.Point{}, draw.Src)
	}
}

func paintBorder(img *image.RGBA) {
	white := image.NewUniform(color.White)
	x0, y0 := borderInset, borderInset
	x1, y1 := Width-borderInset, Height-borderInset
	for _, r := range []image.Rectangle{
		image.Rect(x0, y0, x1, y0+borderWidth),
		image.Rect(x0, y1-borderWidth, x1, y1),
		image.Rect(x0, y0, x0+borderWidth, y1),
		image.Rect(x1-borderWidth, y0, x1, y1),
	} {
		draw.Draw(img, r, white, image.Point{}, draw.Src)
	}
}

func drawStroked(img *image.RGBA, face font.Face, s string, x, y int) {
	d := &font.Drawer{Dst: img, Src: image.Black, Face: face}
	for dx := -strokeWidth; dx <= strokeWidth; dx++ {
		for dy := -strokeWidth; dy <= strokeWidth; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d.Dot = fixed.P(x+dx, y+dy)
			d.DrawString(s)
		}
	}
	d.Src = image.White
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}
