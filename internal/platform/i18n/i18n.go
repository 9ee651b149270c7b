package i18n

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Idiomas soportados. Cualquier otro valor se normaliza a Default.
const (
	English = "en"
	Hindi   = "hi"
	Marathi = "mr"

	Default = English
)

var supported = map[string]struct{}{
	English: {},
	Hindi:   {},
	Marathi: {},
}

// Normalize baja a minúsculas y cae a Default si el código no es soportado.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := supported[lang]; !ok {
		return Default
	}
	return lang
}

// IsSupported indica si el código (ya normalizado en case) es uno de los soportados.
func IsSupported(lang string) bool {
	_, ok := supported[strings.ToLower(strings.TrimSpace(lang))]
	return ok
}

//go:embed translations.yaml
var translationsYAML []byte

// Catalog guarda los textos de UI por idioma.
type Catalog struct {
	byLang map[string]map[string]string
}

// Load parsea el catálogo embebido.
func Load() (*Catalog, error) {
	return Parse(translationsYAML)
}

func Parse(raw []byte) (*Catalog, error) {
	var m map[string]map[string]string
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("i18n: parse catalog: %w", err)
	}
	if _, ok := m[Default]; !ok {
		return nil, fmt.Errorf("i18n: catalog missing default language %q", Default)
	}
	return &Catalog{byLang: m}, nil
}

// Map devuelve una copia de los textos para lang (normalizado).
func (c *Catalog) Map(lang string) map[string]string {
	src, ok := c.byLang[Normalize(lang)]
	if !ok {
		src = c.byLang[Default]
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
