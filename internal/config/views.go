package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rpattn/sfs/internal/browse"
	"github.com/rpattn/sfs/internal/domain"
	"github.com/rpattn/sfs/internal/repository"
)

// ViewsFile is the declarative part of a deployment: the queryable tables, the
// searchable entities and the list views built on them. Seed rows are only used
// by the in-memory store.
type ViewsFile struct {
	Tables   []repository.Table          `yaml:"tables"`
	Entities []domain.EntityDescriptor   `yaml:"entities"`
	Views    []browse.Config             `yaml:"views"`
	Seed     map[string][]map[string]any `yaml:"seed"`
}

// seedTimeLayouts are tried, in order, on seed strings.
var seedTimeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

// LoadViews reads and validates the views file at path.
func LoadViews(path string) (*ViewsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read views file: %w", err)
	}
	return ParseViews(bytes.NewReader(data))
}

// ParseViews decodes a views file. Unknown keys are rejected so typos in view
// definitions fail at startup rather than silently dropping a filter.
func ParseViews(r io.Reader) (*ViewsFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var vf ViewsFile
	if err := dec.Decode(&vf); err != nil {
		if errors.Is(err, io.EOF) {
			return &vf, nil
		}
		return nil, fmt.Errorf("failed to decode views file: %w", err)
	}
	if err := vf.validate(); err != nil {
		return nil, err
	}
	for table, rows := range vf.Seed {
		for _, row := range rows {
			for k, v := range row {
				row[k] = seedValue(v)
			}
		}
		vf.Seed[table] = rows
	}
	return &vf, nil
}

func (vf *ViewsFile) validate() error {
	tables := make(map[string]struct{}, len(vf.Tables))
	for _, t := range vf.Tables {
		if t.Name == "" {
			return errors.New("table without a name")
		}
		if _, dup := tables[t.Name]; dup {
			return fmt.Errorf("table %q declared twice", t.Name)
		}
		tables[t.Name] = struct{}{}
	}

	paths := make(map[string]string, len(vf.Views))
	for _, v := range vf.Views {
		if _, ok := tables[v.Table]; !ok {
			return fmt.Errorf("view %q: unknown table %q", v.Name, v.Table)
		}
		if v.Path == "" {
			continue
		}
		if other, dup := paths[v.Path]; dup {
			return fmt.Errorf("views %q and %q share path %q", other, v.Name, v.Path)
		}
		paths[v.Path] = v.Name
	}

	for table := range vf.Seed {
		if _, ok := tables[table]; !ok {
			return fmt.Errorf("seed for unknown table %q", table)
		}
	}
	return nil
}

// Schema indexes the declared tables.
func (vf *ViewsFile) Schema() *repository.Schema {
	return repository.NewSchema(vf.Tables...)
}

// seedValue turns date-like strings into times, since yaml.v3 leaves
// timestamps as strings when decoding into interface values.
func seedValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	for _, layout := range seedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return s
}
