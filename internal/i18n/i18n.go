package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"survey-gen/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

// Language is an interface language with an embedded catalog.
type Language struct {
	Code    string
	Name    string
	Display string
	Tag     language.Tag
}

var (
	French  = Language{Code: "fr", Name: "French", Display: "Français", Tag: language.French}
	English = Language{Code: "en", Name: "English", Display: "English", Tag: language.English}
	Spanish = Language{Code: "es", Name: "Spanish", Display: "Español", Tag: language.Spanish}
	Arabic  = Language{Code: "ar", Name: "Arabic", Display: "العربية", Tag: language.Arabic}
)

// Supported lists interface languages in menu order.
var Supported = []Language{French, English, Spanish, Arabic}

// English comes first so it is the matcher's fallback.
var matchOrder = []Language{English, French, Spanish, Arabic}

var matcher = language.NewMatcher([]language.Tag{
	matchOrder[0].Tag, matchOrder[1].Tag, matchOrder[2].Tag, matchOrder[3].Tag,
})

// Match resolves a display name ("Français"), an English name ("French"), a code
// or a BCP-47 tag ("fr-CA") to a supported language. Anything else is English.
func Match(s string) Language {
	s = strings.TrimSpace(s)
	if s == "" {
		return English
	}
	for _, l := range Supported {
		if strings.EqualFold(s, l.Display) || strings.EqualFold(s, l.Name) || strings.EqualFold(s, l.Code) {
			return l
		}
	}
	tag, err := language.Parse(s)
	if err != nil {
		return English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return English
	}
	return matchOrder[idx]
}

var defaults = mustParse(locales, "locales/en.json")

func mustParse(fsys fs.FS, name string) map[string]string {
	entries, err := parse(fsys, name)
	if err != nil {
		panic(fmt.Sprintf("i18n: default catalog: %v", err))
	}
	return entries
}

func parse(fsys fs.FS, name string) (map[string]string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return entries, nil
}

// Catalog translates message keys for one language. A nil Catalog serves the
// English defaults.
type Catalog struct {
	lang    Language
	entries map[string]string
}

// Load returns the embedded catalog for lang.
func Load(lang Language) *Catalog {
	return loadFrom(locales, lang)
}

func loadFrom(fsys fs.FS, lang Language) *Catalog {
	entries, err := parse(fsys, "locales/"+lang.Code+".json")
	if err != nil {
		logger.Get().Warn("Translation catalog unavailable, falling back to defaults",
			zap.String("language", lang.Code), zap.Error(err))
		entries = map[string]string{}
	}
	return &Catalog{lang: lang, entries: entries}
}

// Language reports which language the catalog serves.
func (c *Catalog) Language() Language {
	if c == nil {
		return English
	}
	return c.lang
}

// T returns the translation for key, the English default, or the key itself.
func (c *Catalog) T(key string) string {
	if c != nil {
		if v, ok := c.entries[key]; ok && v != "" {
			return v
		}
	}
	if v, ok := defaults[key]; ok {
		return v
	}
	return key
}

// Tf formats the translation for key with args.
func (c *Catalog) Tf(key string, args ...any) string {
	return fmt.Sprintf(c.T(key), args...)
}
