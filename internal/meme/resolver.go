package meme

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
)

// Resolver picks the decoration for an emotion in a locale. It never fails:
// the catalog fallback is the last step of every lookup chain.
type Resolver struct {
	catalog *Catalog
}

// NewResolver creates a resolver over an immutable catalog.
func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve looks up emotion in locale, then in locale's base language, then
// in the catalog default locale. If none match the same chain runs for the
// generic decoration, and after that the fallback is used. The returned
// Decision carries the requested emotion and the locale the decoration was
// found under.
func (r *Resolver) Resolve(emotion string, locale language.Tag) domain.Decision {
	candidates := r.localeChain(locale)

	for _, key := range []string{emotion, GenericEmotion} {
		for _, tag := range candidates {
			if d, ok := r.catalog.Lookup(key, tag); ok {
				return domain.Decision{
					Emotion: emotion,
					Overlay: d.Overlay,
					Caption: d.Caption,
					Locale:  tag,
				}
			}
		}
	}

	fallback := r.catalog.Fallback()
	return domain.Decision{
		Emotion: emotion,
		Overlay: fallback.Overlay,
		Caption: fallback.Caption,
		Locale:  r.catalog.DefaultLocale(),
	}
}

func (r *Resolver) localeChain(locale language.Tag) []language.Tag {
	chain := make([]language.Tag, 0, 3)
	add := func(t language.Tag) {
		for _, c := range chain {
			if c == t {
				return
			}
		}
		chain = append(chain, t)
	}

	if locale != language.Und {
		add(locale)
		if base, conf := locale.Base(); conf != language.No {
			add(language.Make(base.String()))
		}
	}
	add(r.catalog.DefaultLocale())

	return chain
}

// ParseLocale returns the locale for a request. A well-formed override wins;
// otherwise the highest weighted Accept-Language tag is used. def is
// returned when neither yields a usable tag.
func ParseLocale(acceptLanguage, override string, def language.Tag) language.Tag {
	if override = strings.TrimSpace(override); override != "" {
		if tag, err := language.Parse(override); err == nil && tag != language.Und {
			return tag
		}
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		return def
	}
	for _, tag := range tags {
		if tag != language.Und {
			return tag
		}
	}
	return def
}
