package blueprint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/foundry/core/economy"
)

// Document is the YAML or JSON form of a set of economies.
type Document struct {
	Economies []Definition `yaml:"economies" json:"economies"`
}

// Definition describes one economy.
type Definition struct {
	ID       int                       `yaml:"id" json:"id"`
	Kinds    []string                  `yaml:"kinds" json:"kinds"`
	Root     string                    `yaml:"root" json:"root"`
	Terminal string                    `yaml:"terminal" json:"terminal"`
	Recipes  map[string]map[string]int `yaml:"recipes" json:"recipes"`
}

// Build validates every definition and returns the economies in document order.
func (d Document) Build() ([]*economy.Economy, error) {
	if len(d.Economies) == 0 {
		return nil, ErrNoBlueprints
	}
	out := make([]*economy.Economy, 0, len(d.Economies))
	for _, s := range d.Economies {
		e, err := economy.New(s.ID, s.Kinds, s.Recipes, s.Root, s.Terminal)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// FromEconomies converts economies back to their document form.
func FromEconomies(economies []*economy.Economy) Document {
	d := Document{Economies: make([]Definition, len(economies))}
	for i, e := range economies {
		d.Economies[i] = Definition{
			ID:       e.ID(),
			Kinds:    e.Kinds(),
			Root:     e.Name(e.Root()),
			Terminal: e.Name(e.Terminal()),
			Recipes:  e.Recipes(),
		}
	}
	return d
}

// Decode reads economies from r. format is one of text, yaml, yml or json.
func Decode(r io.Reader, format string) ([]*economy.Economy, error) {
	var doc Document
	switch strings.ToLower(format) {
	case "", "text", "txt":
		return Parse(r)
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return doc.Build()
}

// Load reads economies from path. An empty format is inferred from the file
// extension, falling back to text.
func Load(path, format string) ([]*economy.Economy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = FormatOf(path)
	}
	return Decode(bytes.NewReader(b), format)
}

// FormatOf infers the input format from a file extension.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return "text"
	}
}

// Encode writes economies to w as yaml or json.
func Encode(w io.Writer, economies []*economy.Economy, format string) error {
	doc := FromEconomies(economies)
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
