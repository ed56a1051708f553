package meme

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"

	"github.com/disintegration/imaging"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	_ "golang.org/x/image/webp"
)

// CatalogFile is the file name LoadCatalog reads from the catalog directory.
const CatalogFile = "catalog.yaml"

// GenericEmotion keys the decoration used when an emotion has none of its own.
const GenericEmotion = "unknown"

var (
	ErrMissingFallback = errors.New("catalog has no fallback decoration")
	ErrInvalidCatalog  = errors.New("invalid meme catalog")
)

// Decoration is the overlay image and caption drawn on a face.
type Decoration struct {
	Overlay image.Image
	Caption string
}

// Entry registers a decoration for one emotion in one locale.
type Entry struct {
	Emotion    string
	Locale     language.Tag
	Decoration Decoration
}

// Catalog is an immutable set of decorations keyed by emotion and locale.
type Catalog struct {
	entries       map[string]map[string]Decoration
	defaultLocale language.Tag
	fallback      Decoration
}

// NewCatalog validates and indexes entries. Later entries replace earlier
// ones with the same emotion and locale.
func NewCatalog(defaultLocale language.Tag, fallback Decoration, entries []Entry) (*Catalog, error) {
	if fallback.Overlay == nil {
		return nil, ErrMissingFallback
	}

	c := &Catalog{
		entries:       make(map[string]map[string]Decoration),
		defaultLocale: defaultLocale,
		fallback:      fallback,
	}

	for i, e := range entries {
		if e.Emotion == "" {
			return nil, fmt.Errorf("%w: entry %d: empty emotion", ErrInvalidCatalog, i)
		}
		if e.Decoration.Overlay == nil {
			return nil, fmt.Errorf("%w: entry %d (%s/%s): nil overlay", ErrInvalidCatalog, i, e.Emotion, e.Locale)
		}
		byLocale, ok := c.entries[e.Emotion]
		if !ok {
			byLocale = make(map[string]Decoration)
			c.entries[e.Emotion] = byLocale
		}
		byLocale[e.Locale.String()] = e.Decoration
	}

	return c, nil
}

// DefaultLocale returns the locale used when neither the requested tag nor
// its base language has an entry.
func (c *Catalog) DefaultLocale() language.Tag {
	return c.defaultLocale
}

// Fallback returns the decoration of last resort.
func (c *Catalog) Fallback() Decoration {
	return c.fallback
}

// Lookup returns the decoration registered for exactly emotion and locale.
func (c *Catalog) Lookup(emotion string, locale language.Tag) (Decoration, bool) {
	d, ok := c.entries[emotion][locale.String()]
	return d, ok
}

// Emotions returns the number of emotions with at least one decoration.
func (c *Catalog) Emotions() int {
	return len(c.entries)
}

type catalogFile struct {
	DefaultLocale string       `yaml:"default_locale" validate:"required,bcp47_language_tag"`
	Fallback      fallbackFile `yaml:"fallback"`
	Memes         []memeFile   `yaml:"memes" validate:"dive"`
}

type fallbackFile struct {
	Overlay string `yaml:"overlay" validate:"required"`
	Caption string `yaml:"caption"`
}

type memeFile struct {
	Emotion string `yaml:"emotion" validate:"required"`
	Locale  string `yaml:"locale" validate:"omitempty,bcp47_language_tag"`
	Overlay string `yaml:"overlay" validate:"required"`
	Caption string `yaml:"caption"`
}

// LoadCatalog reads catalog.yaml from fsys and decodes every overlay it
// references. Overlay paths are relative to the root of fsys. Entries
// without a locale belong to the default locale.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", CatalogFile, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidCatalog, CatalogFile, err)
	}
	if err := validator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	defaultLocale := language.Make(file.DefaultLocale)

	overlays := make(map[string]image.Image)
	load := func(name string) (image.Image, error) {
		if img, ok := overlays[name]; ok {
			return img, nil
		}
		img, err := openOverlay(fsys, name)
		if err != nil {
			return nil, err
		}
		overlays[name] = img
		return img, nil
	}

	fallbackOverlay, err := load(file.Fallback.Overlay)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(file.Memes))
	for _, m := range file.Memes {
		overlay, err := load(m.Overlay)
		if err != nil {
			return nil, err
		}
		locale := defaultLocale
		if m.Locale != "" {
			locale = language.Make(m.Locale)
		}
		entries = append(entries, Entry{
			Emotion:    m.Emotion,
			Locale:     locale,
			Decoration: Decoration{Overlay: overlay, Caption: m.Caption},
		})
	}

	return NewCatalog(defaultLocale, Decoration{Overlay: fallbackOverlay, Caption: file.Fallback.Caption}, entries)
}

// OpenCatalog loads the catalog in dir, or the builtin catalog when dir is
// empty.
func OpenCatalog(dir string) (*Catalog, error) {
	if dir == "" {
		return Builtin(), nil
	}
	return LoadCatalog(os.DirFS(dir))
}

func openOverlay(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(path.Clean(name))
	if err != nil {
		return nil, fmt.Errorf("open overlay %s: %w", name, err)
	}
	defer func() {
		_ = f.Close()
	}()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode overlay %s: %v", ErrInvalidCatalog, name, err)
	}
	return img, nil
}
