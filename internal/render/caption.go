package render

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"path"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/text/language"

	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
)

const (
	captionGap     = 4
	minCaptionSize = 12
	maxCaptionSize = 64
)

// FontSet picks a caption font by base language.
type FontSet struct {
	fallback *truetype.Font
	byLang   map[string]*truetype.Font
}

// NewFontSet returns a font set holding only Go Bold.
func NewFontSet() (*FontSet, error) {
	f, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse gobold: %w", err)
	}
	return &FontSet{fallback: f, byLang: map[string]*truetype.Font{}}, nil
}

// LoadFontDir adds every <lang>.ttf in fsys to the Go Bold default, keyed by
// the base language of the file name.
func LoadFontDir(fsys fs.FS) (*FontSet, error) {
	set, err := NewFontSet()
	if err != nil {
		return nil, err
	}

	names, err := fs.Glob(fsys, "*.ttf")
	if err != nil {
		return nil, fmt.Errorf("list fonts: %w", err)
	}

	for _, name := range names {
		stem := strings.TrimSuffix(path.Base(name), path.Ext(name))
		tag, err := language.Parse(stem)
		if err != nil {
			return nil, fmt.Errorf("font %s: name is not a language tag: %w", name, err)
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", name, err)
		}
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", name, err)
		}

		base, _ := tag.Base()
		set.byLang[base.String()] = f
	}

	return set, nil
}

// OpenFontDir loads the fonts in dir, or only Go Bold when dir is empty.
func OpenFontDir(dir string) (*FontSet, error) {
	if dir == "" {
		return NewFontSet()
	}
	return LoadFontDir(os.DirFS(dir))
}

// Font returns the font for locale's base language, or Go Bold.
func (s *FontSet) Font(locale language.Tag) *truetype.Font {
	base, _ := locale.Base()
	if f, ok := s.byLang[base.String()]; ok {
		return f
	}
	return s.fallback
}

// Languages returns how many language specific fonts were loaded.
func (s *FontSet) Languages() int {
	return len(s.byLang)
}

func captionSize(rect domain.Rect) float64 {
	return math.Max(minCaptionSize, math.Min(maxCaptionSize, float64(rect.Height)/5))
}

// drawCaption centers text under rect in white with a black outline. The
// top of the text sits captionGap pixels below rect; when that would run
// past the image the text is moved up to end at the bottom edge.
func drawCaption(dc *gg.Context, font *truetype.Font, text string, rect domain.Rect) {
	if strings.TrimSpace(text) == "" {
		return
	}

	size := captionSize(rect)
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: size}))

	_, h := dc.MeasureString(text)
	x := float64(rect.X) + float64(rect.Width)/2
	y := float64(rect.Y) + float64(rect.Height) + captionGap
	if y+h > float64(dc.Height()) {
		y = float64(dc.Height()) - h
	}

	outline := math.Max(1, math.Round(size/16))
	dc.SetRGB(0, 0, 0)
	for dy := -outline; dy <= outline; dy++ {
		for dx := -outline; dx <= outline; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			dc.DrawStringAnchored(text, x+dx, y+dy, 0.5, 1)
		}
	}

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(text, x, y, 0.5, 1)
}
