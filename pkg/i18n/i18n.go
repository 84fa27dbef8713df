// Package i18n looks up translated interface strings.
//
// Messages are read from flat YAML files named after their locale (en.yaml,
// es.yaml, ...) and registered in an x/text catalog. Lookups of keys missing from
// both the requested locale and the fallback locale fail with ErrMissingTranslation.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// ErrMissingTranslation is returned when a key has no message.
var ErrMissingTranslation = errors.New("missing translation")

//go:embed locales/*.yaml
var locales embed.FS

// Translator resolves message keys for one locale.
type Translator interface {
	T(key string) (string, error)
}

// Catalog holds the messages of every loaded locale.
type Catalog struct {
	fallback language.Tag
	builder  *catalog.Builder
	messages map[language.Tag]map[string]string
	tags     []language.Tag
	matcher  language.Matcher
}

// New returns an empty catalog falling back to the given locale.
func New(fallback language.Tag) *Catalog {
	return &Catalog{
		fallback: fallback,
		builder:  catalog.NewBuilder(catalog.Fallback(fallback)),
		messages: map[language.Tag]map[string]string{},
	}
}

// Default returns a catalog with the built-in locales and English as fallback.
func Default() (*Catalog, error) {
	return Builtin(language.English)
}

// Builtin returns a catalog with the built-in locales.
func Builtin(fallback language.Tag) (*Catalog, error) {
	c := New(fallback)
	if err := c.loadBuiltin(); err != nil {
		return nil, err
	}

	return c, nil
}

// LoadDir loads the built-in locales and then every locale file of dir on top of them.
func LoadDir(dir string, fallback language.Tag) (*Catalog, error) {
	c := New(fallback)
	if err := c.loadBuiltin(); err != nil {
		return nil, err
	}

	if err := c.load(os.DirFS(dir)); err != nil {
		return nil, err
	}

	return c, nil
}

// Load reads every *.yaml file at the root of fsys into a new catalog.
func Load(fsys fs.FS, fallback language.Tag) (*Catalog, error) {
	c := New(fallback)
	if err := c.load(fsys); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Catalog) loadBuiltin() error {
	sub, err := fs.Sub(locales, "locales")
	if err != nil {
		return fmt.Errorf("failed to open built-in locales: %w", err)
	}

	return c.load(sub)
}

func (c *Catalog) load(fsys fs.FS) error {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return fmt.Errorf("failed to list locales: %w", err)
	}

	for _, name := range files {
		tag, err := language.Parse(strings.TrimSuffix(path.Base(name), ".yaml"))
		if err != nil {
			return fmt.Errorf("failed to parse locale of %s: %w", name, err)
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}

		msgs := map[string]string{}
		if err := yaml.Unmarshal(data, &msgs); err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}

		if err := c.Add(tag, msgs); err != nil {
			return err
		}
	}

	return nil
}

// Add registers messages for a locale. Existing keys are replaced.
// Messages are literal text: a "%" is never read as a formatting verb.
func (c *Catalog) Add(tag language.Tag, msgs map[string]string) error {
	known, ok := c.messages[tag]
	if !ok {
		known = map[string]string{}
		c.messages[tag] = known
		c.addTag(tag)
	}

	for key, msg := range msgs {
		if err := c.builder.SetString(tag, key, strings.ReplaceAll(msg, "%", "%%")); err != nil {
			return fmt.Errorf("failed to add %s message %q: %w", tag, key, err)
		}
		known[key] = msg
	}

	return nil
}

func (c *Catalog) addTag(tag language.Tag) {
	if tag == c.fallback {
		c.tags = append([]language.Tag{tag}, c.tags...)
	} else {
		c.tags = append(c.tags, tag)
	}
	c.matcher = language.NewMatcher(c.tags)
}

// Tags returns the loaded locales, the fallback first when loaded.
func (c *Catalog) Tags() []language.Tag {
	return append([]language.Tag(nil), c.tags...)
}

// Match picks the best loaded locale for an Accept-Language header value.
func (c *Catalog) Match(accept string) language.Tag {
	if c.matcher == nil {
		return c.fallback
	}

	_, idx := language.MatchStrings(c.matcher, accept)
	return c.tags[idx]
}

// Translator returns a Translator for the locale.
func (c *Catalog) Translator(tag language.Tag) Translator {
	return &translator{
		catalog:  c,
		tag:      tag,
		printer:  message.NewPrinter(tag, message.Catalog(c.builder)),
		fallback: message.NewPrinter(c.fallback, message.Catalog(c.builder)),
	}
}

type translator struct {
	catalog  *Catalog
	tag      language.Tag
	printer  *message.Printer
	fallback *message.Printer
}

func (t *translator) T(key string) (string, error) {
	if _, ok := t.catalog.messages[t.tag][key]; ok {
		return t.printer.Sprintf(key), nil
	}

	if _, ok := t.catalog.messages[t.catalog.fallback][key]; ok {
		return t.fallback.Sprintf(key), nil
	}

	return "", fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, t.tag)
}
