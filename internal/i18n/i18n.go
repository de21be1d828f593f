package i18n

import (
	"embed"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type Lang string

const (
	LangMS Lang = "ms"
	LangEN Lang = "en"

	// CookieName holds the language chosen by the client.
	CookieName = "isqm_lang"
)

//go:embed locales/*.yaml
var locales embed.FS

type Params map[string]any

// Translator resolves message keys for one language.
type Translator interface {
	T(key Key, params Params) string
	Lang() Lang
}

type Bundle struct {
	catalogs map[Lang]map[string]string
	fallback Lang
}

var placeholder = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Load reads the embedded catalogs. fallback is used for unknown languages.
func Load(fallback Lang) (*Bundle, error) {
	b := &Bundle{catalogs: make(map[Lang]map[string]string), fallback: fallback}
	for _, lang := range []Lang{LangMS, LangEN} {
		raw, err := locales.ReadFile("locales/" + string(lang) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", lang, err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", lang, err)
		}
		flat := make(map[string]string)
		flatten("", tree, flat)
		b.catalogs[lang] = flat
	}
	if _, ok := b.catalogs[fallback]; !ok {
		b.fallback = LangMS
	}
	return b, nil
}

func MustLoad(fallback Lang) *Bundle {
	b, err := Load(fallback)
	if err != nil {
		panic(err)
	}
	return b
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch t := v.(type) {
		case map[string]any:
			flatten(key, t, out)
		case string:
			out[key] = t
		default:
			out[key] = fmt.Sprint(t)
		}
	}
}

func ParseLang(s string) (Lang, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "-_"); i > 0 {
		s = s[:i]
	}
	switch Lang(s) {
	case LangMS, LangEN:
		return Lang(s), true
	}
	return "", false
}

func (b *Bundle) Fallback() Lang { return b.fallback }

func (b *Bundle) For(lang Lang) Translator {
	if _, ok := b.catalogs[lang]; !ok {
		lang = b.fallback
	}
	return translator{lang: lang, catalog: b.catalogs[lang]}
}

// ForRequest picks the language from ?lang, the language cookie, then
// Accept-Language, falling back to the bundle default.
func (b *Bundle) ForRequest(r *http.Request) Translator {
	if lang, ok := ParseLang(r.URL.Query().Get("lang")); ok {
		return b.For(lang)
	}
	if c, err := r.Cookie(CookieName); err == nil {
		if lang, ok := ParseLang(c.Value); ok {
			return b.For(lang)
		}
	}
	for _, part := range strings.Split(r.Header.Get("Accept-Language"), ",") {
		tag, _, _ := strings.Cut(part, ";")
		if lang, ok := ParseLang(tag); ok {
			return b.For(lang)
		}
	}
	return b.For(b.fallback)
}

type translator struct {
	lang    Lang
	catalog map[string]string
}

func (t translator) Lang() Lang { return t.lang }

// T returns the template for key with {{name}} placeholders filled from params.
// Unknown keys come back as the key itself.
func (t translator) T(key Key, params Params) string {
	tmpl, ok := t.catalog[string(key)]
	if !ok {
		return string(key)
	}
	return Interpolate(tmpl, params)
}

func Interpolate(tmpl string, params Params) string {
	if params == nil {
		return tmpl
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		v, ok := params[name]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprint(v)
	})
}
