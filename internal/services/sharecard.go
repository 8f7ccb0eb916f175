package services

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/sync/singleflight"

	"github.com/soaringjerry/fairway/internal/logger"
)

const (
	CardWidth  = 1200
	CardHeight = 630

	cardMargin     = 80
	cardTextWidth  = 1040
	cardLineHeight = 44
)

// Card is the text drawn onto a share image.
type Card struct {
	Type     string
	Title    string
	Subtitle string
}

// CardRenderer composes share images. Parsed fonts are shared; faces are built per render since a
// truetype face keeps a glyph cache that is not safe for concurrent use.
type CardRenderer struct {
	regular *truetype.Font
	bold    *truetype.Font
	group   singleflight.Group
	log     *logger.Logger
}

// NewCardRenderer loads regular.ttf and bold.ttf from fontDir, or the embedded Go fonts when fontDir
// is empty. The Go fonts have no Hangul, so Korean cards fall back to English text unless fontDir
// holds CJK-capable files.
func NewCardRenderer(fontDir string, log *logger.Logger) (*CardRenderer, error) {
	if log == nil {
		log = logger.Nop()
	}
	r := &CardRenderer{log: log.With("service", "CardRenderer")}
	regularTTF, boldTTF := goregular.TTF, gobold.TTF
	if strings.TrimSpace(fontDir) != "" {
		var err error
		if regularTTF, err = os.ReadFile(filepath.Join(fontDir, "regular.ttf")); err != nil {
			return nil, fmt.Errorf("failed to read card font: %w", err)
		}
		if boldTTF, err = os.ReadFile(filepath.Join(fontDir, "bold.ttf")); err != nil {
			return nil, fmt.Errorf("failed to read card font: %w", err)
		}
		r.log.Info("Loaded card fonts", "dir", fontDir)
	} else {
		r.log.Info("Using built-in card fonts; Korean card text falls back to English")
	}
	var err error
	if r.regular, err = truetype.Parse(regularTTF); err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	if r.bold, err = truetype.Parse(boldTTF); err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return r, nil
}

// CardFor builds the card for a type code in lang. When the loaded faces lack a glyph the title or
// subtitle needs, the English text is used instead so nothing renders as blank boxes.
func (r *CardRenderer) CardFor(code, lang string) Card {
	code = CardCode(code)
	meta, _ := MetaFor(code, lang)
	if lang != "en" && !(covers(r.bold, meta.Title) && covers(r.regular, meta.Subtitle)) {
		meta, _ = MetaFor(code, "en")
	}
	return Card{Type: code, Title: meta.Title, Subtitle: meta.Subtitle}
}

// covers reports whether f has a glyph for every rune of s.
func covers(f *truetype.Font, s string) bool {
	for _, c := range s {
		if f.Index(c) == 0 {
			return false
		}
	}
	return true
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// RenderPNG returns the encoded card. Identical concurrent requests share one render.
func (r *CardRenderer) RenderPNG(ctx context.Context, card Card) ([]byte, error) {
	key := card.Type + "\x00" + card.Title + "\x00" + card.Subtitle
	ch := r.group.DoChan(key, func() (interface{}, error) {
		dc := r.Compose(card)
		var buf bytes.Buffer
		if err := dc.EncodePNG(&buf); err != nil {
			return nil, fmt.Errorf("encode card: %w", err)
		}
		return buf.Bytes(), nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Compose draws the card onto a fresh context.
func (r *CardRenderer) Compose(card Card) *gg.Context {
	dc := gg.NewContext(CardWidth, CardHeight)

	grad := gg.NewLinearGradient(0, 0, CardWidth, CardHeight)
	grad.AddColorStop(0, hexColor("#e6fffb"))
	grad.AddColorStop(1, hexColor("#e0f2fe"))
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, CardWidth, CardHeight)
	dc.Fill()

	drawCircle(dc, "#10b981", 150, 150, 120)
	drawCircle(dc, "#38bdf8", 1000, 520, 160)

	dc.SetHexColor("#0f172a")
	dc.SetFontFace(newFace(r.bold, 80))
	dc.DrawString(card.Type, cardMargin, 210)
	dc.SetFontFace(newFace(r.bold, 54))
	dc.DrawString(card.Title, cardMargin, 300)

	dc.SetFontFace(newFace(r.regular, 32))
	y := 370.0
	for _, line := range WrapLines(card.Subtitle, cardTextWidth, func(s string) float64 {
		w, _ := dc.MeasureString(s)
		return w
	}) {
		dc.DrawString(line, cardMargin, y)
		y += cardLineHeight
	}

	dc.SetHexColor("#0ea5e9")
	dc.DrawRectangle(cardMargin, 540, cardTextWidth, 6)
	dc.Fill()
	return dc
}

func drawCircle(dc *gg.Context, hex string, x, y, radius float64) {
	c := hexColor(hex)
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, 0.15)
	dc.DrawCircle(x, y, radius)
	dc.Fill()
}

// WrapLines greedily packs space-separated words into lines no wider than maxWidth. A word is
// appended while the measured line stays within the limit; an overflowing word starts a new line,
// except the first word, which is never flushed alone.
func WrapLines(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Split(text, " ")
	var (
		lines []string
		line  string
	)
	for i, w := range words {
		candidate := line + w + " "
		if measure(candidate) > maxWidth && i > 0 {
			lines = append(lines, strings.TrimRight(line, " "))
			line = w + " "
			continue
		}
		line = candidate
	}
	return append(lines, strings.TrimRight(line, " "))
}

func hexColor(hex string) color.RGBA {
	var r, g, b uint8
	fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
