package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/ridoystarlord/migrato/schema"
)

// BaselineFormatError reports a baseline file that cannot be read as a snapshot.
type BaselineFormatError struct {
	Path string
	Err  error
}

func (e *BaselineFormatError) Error() string {
	return fmt.Sprintf("baseline %s: %v", e.Path, e.Err)
}

func (e *BaselineFormatError) Unwrap() error { return e.Err }

// ErrUnsupportedFormat is wrapped by BaselineFormatError for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported file extension, expected .json, .yaml or .yml")

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	return 0, &BaselineFormatError{Path: path, Err: ErrUnsupportedFormat}
}

// LoadSnapshot reads a baseline snapshot. A missing file is an empty baseline.
func LoadSnapshot(fs afero.Fs, path string) (*schema.Snapshot, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return schema.New(), nil
		}
		return nil, fmt.Errorf("reading baseline file: %w", err)
	}

	s := schema.New()
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}
	switch f {
	case formatJSON:
		err = json.Unmarshal(data, s)
	case formatYAML:
		err = yaml.Unmarshal(data, s)
	}
	if err != nil {
		return nil, &BaselineFormatError{Path: path, Err: err}
	}

	normalize(s)
	return s, nil
}

// SaveSnapshot writes s to path in the format given by its extension.
func SaveSnapshot(fs afero.Fs, path string, s *schema.Snapshot) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case formatJSON:
		data, err = json.MarshalIndent(s, "", "    ")
		data = append(data, '\n')
	case formatYAML:
		data, err = yaml.Marshal(s)
	}
	if err != nil {
		return fmt.Errorf("encoding baseline: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating baseline folder: %w", err)
		}
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("writing baseline file: %w", err)
	}
	return nil
}

// normalize fills in names that are implied by map keys and initialises nil
// member maps so decoded snapshots look like introspected ones.
func normalize(s *schema.Snapshot) {
	if s.Tables == nil {
		s.Tables = map[string]*schema.Table{}
	}
	for name, t := range s.Tables {
		if t == nil {
			t = schema.NewTable(name)
			s.Tables[name] = t
		}
		if t.Name == "" {
			t.Name = name
		}
		if t.Columns == nil {
			t.Columns = map[string]*schema.Column{}
		}
		if t.Indexes == nil {
			t.Indexes = map[string][]schema.IndexEntry{}
		}
		for cname, c := range t.Columns {
			if c == nil {
				delete(t.Columns, cname)
				continue
			}
			if c.Name == "" {
				c.Name = cname
			}
		}
		for iname, entries := range t.Indexes {
			for i := range entries {
				if entries[i].Name == "" {
					entries[i].Name = iname
				}
			}
		}
		for fname, fk := range t.ForeignKeys {
			if fk == nil {
				delete(t.ForeignKeys, fname)
				continue
			}
			if fk.Name == "" {
				fk.Name = fname
			}
		}
	}
}
