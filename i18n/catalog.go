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

// BaseLocale is the catalog every other locale falls back to.
const BaseLocale = "en-US"

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle is an immutable set of locale catalogs.
type Bundle struct {
	tags     []language.Tag
	catalogs []map[string]string
	matcher  language.Matcher
}

//go:embed locales/*.yaml
var embeddedFS embed.FS

var defaultBundle = mustLoad(embeddedFS)

// Default returns the bundle built from the embedded catalogs.
func Default() *Bundle {
	return defaultBundle
}

// LoadFromFS reads every locales/*.yaml file of catalogFS.
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	base := language.MustParse(BaseLocale)
	b := &Bundle{}
	seen := map[language.Tag]bool{}

	for _, p := range paths {
		data, err := fs.ReadFile(catalogFS, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		tag, messages, err := checkCatalog(p, file)
		if err != nil {
			return nil, err
		}
		if seen[tag] {
			return nil, fmt.Errorf("catalog %s: locale %s defined twice", p, tag)
		}
		seen[tag] = true

		// the matcher prefers the first tag, so the base locale goes in front
		if tag == base {
			b.tags = append([]language.Tag{tag}, b.tags...)
			b.catalogs = append([]map[string]string{messages}, b.catalogs...)
			continue
		}
		b.tags = append(b.tags, tag)
		b.catalogs = append(b.catalogs, messages)
	}

	if !seen[base] {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

func checkCatalog(p string, file catalogFile) (language.Tag, map[string]string, error) {
	name := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if strings.TrimSpace(file.Locale) == "" {
		return language.Und, nil, fmt.Errorf("catalog %s: locale is required", p)
	}
	if file.Locale != name {
		return language.Und, nil, fmt.Errorf("catalog %s: locale %q must match file name %q", p, file.Locale, name)
	}
	tag, err := language.Parse(file.Locale)
	if err != nil {
		return language.Und, nil, fmt.Errorf("catalog %s: parse locale: %w", p, err)
	}
	if len(file.Messages) == 0 {
		return language.Und, nil, fmt.Errorf("catalog %s: messages map is required", p)
	}

	messages := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			return language.Und, nil, fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		messages[trimmed] = value
	}
	return tag, messages, nil
}

func mustLoad(catalogFS fs.FS) *Bundle {
	b, err := LoadFromFS(catalogFS)
	if err != nil {
		panic(err)
	}
	return b
}

// Locales returns the available locales, base locale first.
func (b *Bundle) Locales() []language.Tag {
	if b == nil {
		return nil
	}
	out := make([]language.Tag, len(b.tags))
	copy(out, b.tags)
	return out
}

// Match returns the catalog locale serving tag.
func (b *Bundle) Match(tag language.Tag) language.Tag {
	return b.tags[b.index(tag)]
}

func (b *Bundle) index(tag language.Tag) int {
	_, i, conf := b.matcher.Match(tag)
	if conf == language.No {
		return 0
	}
	return i
}

// Message looks key up for tag, falling back to the base locale.
func (b *Bundle) Message(tag language.Tag, key string) (string, bool) {
	if b == nil || len(b.catalogs) == 0 {
		return "", false
	}
	if v, ok := b.catalogs[b.index(tag)][key]; ok {
		return v, true
	}
	v, ok := b.catalogs[0][key]
	return v, ok
}

// Localize returns the message for key, or key itself when no catalog defines it.
func (b *Bundle) Localize(tag language.Tag, key string) string {
	if v, ok := b.Message(tag, key); ok {
		return v
	}
	return key
}

// MissingKeys lists keys present in the base catalog but absent from locale's own
// catalog, sorted.
func (b *Bundle) MissingKeys(tag language.Tag) []string {
	if b == nil || len(b.catalogs) == 0 {
		return nil
	}
	own := b.catalogs[b.index(tag)]
	var missing []string
	for key := range b.catalogs[0] {
		if _, ok := own[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
