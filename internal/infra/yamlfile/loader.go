// Package yamlfile reads hotspot catalogs written in YAML, either from a
// directory on disk or from the catalogs compiled into the binary.
package yamlfile

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hotspot-quiz-service/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var builtin embed.FS

// Parse decodes and validates one catalog document.
func Parse(data []byte) (domain.Catalog, error) {
	var catalog domain.Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&catalog); err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	if err := catalog.Validate(); err != nil {
		return domain.Catalog{}, err
	}
	return catalog, nil
}

// ParseFile reads and parses a catalog file.
func ParseFile(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, err
	}
	return Parse(data)
}

// Loader resolves catalog IDs to <id>.yaml inside a file system.
type Loader struct {
	fsys fs.FS
}

// NewDirLoader reads catalogs from dir.
func NewDirLoader(dir string) *Loader {
	return &Loader{fsys: os.DirFS(dir)}
}

// NewBuiltinLoader serves the catalogs shipped with the binary.
func NewBuiltinLoader() *Loader {
	sub, err := fs.Sub(builtin, "catalogs")
	if err != nil {
		panic("builtin catalogs: " + err.Error())
	}
	return &Loader{fsys: sub}
}

func (l *Loader) LoadCatalog(_ context.Context, catalogID string) (domain.Catalog, error) {
	if catalogID == "" || strings.ContainsAny(catalogID, `/\.`) {
		return domain.Catalog{}, domain.ErrCatalogNotFound
	}
	data, err := fs.ReadFile(l.fsys, catalogID+".yaml")
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Catalog{}, domain.ErrCatalogNotFound
	}
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog %q: %w", catalogID, err)
	}
	catalog, err := Parse(data)
	if err != nil {
		return domain.Catalog{}, err
	}
	if catalog.ID != catalogID {
		return domain.Catalog{}, fmt.Errorf("%w: file %s.yaml declares id %q", domain.ErrInvalidCatalog, catalogID, catalog.ID)
	}
	return catalog, nil
}

// IDs lists the catalogs available to the loader.
func (l *Loader) IDs() ([]string, error) {
	matches, err := fs.Glob(l.fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, strings.TrimSuffix(filepath.Base(m), ".yaml"))
	}
	sort.Strings(ids)
	return ids, nil
}
