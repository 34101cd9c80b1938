package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/spf13/afero"
)

// VersionFormat is the timestamp prefix of migration file names.
const VersionFormat = "20060102150405"

// DuplicateMigrationError reports a migration whose class name or file
// already exists.
type DuplicateMigrationError struct {
	Name string
	Path string
}

func (e *DuplicateMigrationError) Error() string {
	return fmt.Sprintf("migration %s already exists: %s", e.Name, e.Path)
}

// MigrationName returns the class name of a new migration: the explicit name
// in CamelCase, or a timestamped name when none was given.
func MigrationName(explicit string, now time.Time) string {
	explicit = strings.TrimSpace(explicit)
	if explicit == "" {
		return "Version" + now.Format(VersionFormat)
	}
	return strcase.ToCamel(explicit)
}

// FileName returns "<version>_<snake_name><ext>".
func FileName(name string, now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s%s", now.Format(VersionFormat), strcase.ToSnake(name), ext)
}

// Writer stores migration files in Dir.
type Writer struct {
	Fs        afero.Fs
	Dir       string
	Extension string
}

// NewWriter returns a Writer for Phinx migrations on the OS filesystem.
func NewWriter(dir string) *Writer {
	return &Writer{Fs: afero.NewOsFs(), Dir: dir, Extension: Phinx.FileExtension}
}

// Write stores content as a new migration file and returns its path. It
// refuses to overwrite any migration with the same class name.
func (w *Writer) Write(name, content string, now time.Time) (string, error) {
	if err := w.Fs.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("creating migrations folder: %w", err)
	}

	path := filepath.Join(w.Dir, FileName(name, now, w.Extension))
	if existing, err := w.Find(name); err != nil {
		return "", err
	} else if existing != "" {
		return "", &DuplicateMigrationError{Name: name, Path: existing}
	}
	if ok, err := afero.Exists(w.Fs, path); err != nil {
		return "", fmt.Errorf("checking %s: %w", path, err)
	} else if ok {
		return "", &DuplicateMigrationError{Name: name, Path: path}
	}

	if err := afero.WriteFile(w.Fs, path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing migration file: %w", err)
	}
	return path, nil
}

// Find returns the path of an existing migration with the given class name.
func (w *Writer) Find(name string) (string, error) {
	files, err := w.List()
	if err != nil {
		return "", err
	}
	want := strcase.ToSnake(name)
	for _, f := range files {
		if _, snake, _ := ParseFileName(f); snake == want {
			return filepath.Join(w.Dir, f), nil
		}
	}
	return "", nil
}

// List returns the migration file names in Dir, oldest first.
func (w *Writer) List() ([]string, error) {
	entries, err := afero.ReadDir(w.Fs, w.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading migrations folder: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), w.Extension) {
			continue
		}
		if _, _, ok := ParseFileName(e.Name()); ok {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

// ParseFileName splits a migration file name into its version and snake name.
func ParseFileName(file string) (version, name string, ok bool) {
	base := strings.TrimSuffix(file, filepath.Ext(file))
	version, name, found := strings.Cut(base, "_")
	if !found || len(version) != len(VersionFormat) {
		return "", "", false
	}
	if _, err := time.Parse(VersionFormat, version); err != nil {
		return "", "", false
	}
	return version, name, true
}
