package knowledge

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/Brownie44l1/leaf-api/internal/model"
)

//go:embed knowledge.yaml
var defaultDocument []byte

type Section struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Base maps every class label to its ordered reference sections. It is
// read-only after Load returns.
type Base struct {
	entries map[model.Label][]Section
}

// Default parses the embedded knowledge document.
func Default() (*Base, error) {
	return Load(defaultDocument)
}

// Load parses a YAML document of label -> (title -> text) and checks it
// covers exactly the model's label set, each with at least one non-empty
// section.
func Load(data []byte) (*Base, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}

	entries := make(map[model.Label][]Section, model.NumClasses)
	for _, item := range doc {
		key, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("knowledge base key %v is not a string", item.Key)
		}
		label, err := model.ParseLabel(key)
		if err != nil {
			return nil, fmt.Errorf("knowledge base: %w", err)
		}
		if _, dup := entries[label]; dup {
			return nil, fmt.Errorf("knowledge base: duplicate entry for %q", label)
		}

		sections, err := parseSections(label, item.Value)
		if err != nil {
			return nil, err
		}
		entries[label] = sections
	}

	for _, label := range model.Labels {
		if _, ok := entries[label]; !ok {
			return nil, fmt.Errorf("knowledge base: missing entry for %q", label)
		}
	}

	return &Base{entries: entries}, nil
}

func parseSections(label model.Label, value any) ([]Section, error) {
	raw, ok := value.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("knowledge base: entry for %q must be a mapping of title to text", label)
	}

	sections := make([]Section, 0, len(raw))
	for _, item := range raw {
		title, ok := item.Key.(string)
		if !ok || strings.TrimSpace(title) == "" {
			return nil, fmt.Errorf("knowledge base: %q has a section without a title", label)
		}
		text, ok := item.Value.(string)
		if !ok || strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("knowledge base: %q section %q has no text", label, title)
		}
		sections = append(sections, Section{Title: title, Text: strings.TrimSpace(text)})
	}

	if len(sections) == 0 {
		return nil, fmt.Errorf("knowledge base: %q has no sections", label)
	}
	return sections, nil
}

// Lookup returns the sections for label. The slice is a copy.
func (b *Base) Lookup(label model.Label) []Section {
	sections := b.entries[label]
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}
