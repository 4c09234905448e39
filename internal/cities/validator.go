package cities

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// memoSize bounds the lookup cache; user input is untrusted free text,
// so unique misses must not accumulate.
const memoSize = 128

// Validator checks free-text input against the bundled list of known
// city names. Lookups are memoized by raw input in a fixed-size cache.
type Validator struct {
	known map[string]struct{}
	memo  *lru.Cache[string, bool]
}

// NewValidator reads the city list once from a JSON file of the form
// {"popular_cities": ["Київ", ...]}.
func NewValidator(path string) (*Validator, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read cities file: %w", err)
	}

	var raw struct {
		PopularCities []string `json:"popular_cities"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse cities file: %w", err)
	}

	memo, err := lru.New[string, bool](memoSize)
	if err != nil {
		return nil, fmt.Errorf("create lookup cache: %w", err)
	}

	v := &Validator{
		known: make(map[string]struct{}, len(raw.PopularCities)),
		memo:  memo,
	}
	for _, city := range raw.PopularCities {
		v.known[v.Normalize(city)] = struct{}{}
	}
	return v, nil
}

// Normalize trims surrounding whitespace and title-cases each word.
func (v *Validator) Normalize(s string) string {
	caser := cases.Title(language.Ukrainian)
	return caser.String(strings.TrimSpace(s))
}

// IsValid reports whether the normalized input is a known city.
// Invalid input never errors, it is simply not found.
func (v *Validator) IsValid(s string) bool {
	if cached, ok := v.memo.Get(s); ok {
		return cached
	}
	_, found := v.known[v.Normalize(s)]
	v.memo.Add(s, found)
	return found
}
