package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales
var LocalesFS embed.FS

type Translator struct {
	lang         string
	translations map[string]string
}

// NewTranslator loads locales/<langCode>.yaml from fsys.
func NewTranslator(fsys fs.FS, langCode string) (*Translator, error) {
	filePath := path.Join("locales", fmt.Sprintf("%s.yaml", langCode))

	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read translation file %s: %w", filePath, err)
	}
	t, err := newTranslatorFromBytes(data)
	if err != nil {
		return nil, err
	}
	t.lang = langCode
	return t, nil
}

func newTranslatorFromBytes(data []byte) (*Translator, error) {
	var translations map[string]string
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("failed to parse translation file: %w", err)
	}
	return &Translator{translations: translations}, nil
}

// T looks up key and formats args into it. Unknown keys are returned as is.
func (t *Translator) T(key string, args ...interface{}) string {
	format, ok := t.translations[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}

func (t *Translator) Lang() string { return t.lang }

// Bundle holds one Translator per embedded locale and picks the best one for
// a user's language preference.
type Bundle struct {
	translators map[string]*Translator
	tags        []language.Tag
	matcher     language.Matcher
}

// NewBundle loads every locales/*.yaml in fsys. The default language is
// matched when nothing else fits, so it must exist.
func NewBundle(fsys fs.FS, defaultLang string) (*Bundle, error) {
	entries, err := fs.ReadDir(fsys, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	b := &Bundle{translators: map[string]*Translator{}}
	var langs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, ".yaml"))
	}
	if len(langs) == 0 {
		return nil, fmt.Errorf("no locales found")
	}
	sort.Strings(langs)

	def, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("default language %q: %w", defaultLang, err)
	}
	// matcher falls back to the first tag
	b.tags = append(b.tags, def)
	for _, l := range langs {
		t, err := NewTranslator(fsys, l)
		if err != nil {
			return nil, err
		}
		b.translators[l] = t
		if l != def.String() {
			tag, err := language.Parse(l)
			if err != nil {
				return nil, fmt.Errorf("locale %q: %w", l, err)
			}
			b.tags = append(b.tags, tag)
		}
	}
	if _, ok := b.translators[def.String()]; !ok {
		return nil, fmt.Errorf("default locale %q not found", defaultLang)
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// Match returns the translator for the best supported language among prefs,
// which may be Accept-Language header values or plain language codes.
func (b *Bundle) Match(prefs ...string) *Translator {
	var wanted []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		wanted = append(wanted, tags...)
	}
	_, idx, _ := b.matcher.Match(wanted...)
	base, _ := b.tags[idx].Base()
	if t, ok := b.translators[b.tags[idx].String()]; ok {
		return t
	}
	if t, ok := b.translators[base.String()]; ok {
		return t
	}
	return b.translators[b.tags[0].String()]
}

// Default returns the default language translator.
func (b *Bundle) Default() *Translator {
	return b.translators[b.tags[0].String()]
}
